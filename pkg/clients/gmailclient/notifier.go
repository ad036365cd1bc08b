package gmailclient

import (
	"context"
	"fmt"
	"time"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

// SendShiftOffer emails a caregiver an offer with its response deadline
func (c *Client) SendShiftOffer(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift, deadline time.Time) error {
	subject := fmt.Sprintf("Shift offer: %s %s-%s", shift.Date, shift.StartTime, shift.EndTime)
	body := fmt.Sprintf(
		"Hi %s,\n\nA shift caring for %s on %s from %s to %s is available.\n"+
			"Please accept or decline before %s, after which the offer moves to the next caregiver.\n",
		caregiver.FirstName, shift.ElderName, shift.Date, shift.StartTime, shift.EndTime,
		deadline.Format("Mon 2 Jan 15:04"))
	return c.SendEmail(caregiver.Email, subject, body)
}

// SendShiftAssigned emails a caregiver that a shift is now theirs
func (c *Client) SendShiftAssigned(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift) error {
	subject := fmt.Sprintf("Shift assigned: %s %s-%s", shift.Date, shift.StartTime, shift.EndTime)
	body := fmt.Sprintf(
		"Hi %s,\n\nYou are scheduled to care for %s on %s from %s to %s.\n",
		caregiver.FirstName, shift.ElderName, shift.Date, shift.StartTime, shift.EndTime)
	return c.SendEmail(caregiver.Email, subject, body)
}

// SendShiftCancelled emails a caregiver that their shift was cancelled
func (c *Client) SendShiftCancelled(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift) error {
	subject := fmt.Sprintf("Shift cancelled: %s %s-%s", shift.Date, shift.StartTime, shift.EndTime)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour shift caring for %s on %s from %s to %s has been cancelled.\n",
		caregiver.FirstName, shift.ElderName, shift.Date, shift.StartTime, shift.EndTime)
	return c.SendEmail(caregiver.Email, subject, body)
}
