package services

import (
	"context"
	"time"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

// Notifier delivers shift notifications to caregivers. Delivery failures are
// logged and never fail the operation that triggered them.
type Notifier interface {
	SendShiftOffer(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift, deadline time.Time) error
	SendShiftAssigned(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift) error
	SendShiftCancelled(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift) error
}

// NopNotifier discards all notifications. Used in tests and when no mailer
// is configured.
type NopNotifier struct{}

func (NopNotifier) SendShiftOffer(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift, deadline time.Time) error {
	return nil
}

func (NopNotifier) SendShiftAssigned(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift) error {
	return nil
}

func (NopNotifier) SendShiftCancelled(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift) error {
	return nil
}
