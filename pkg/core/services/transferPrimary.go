package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

// TransferPrimaryStore defines the database operations needed for primary
// caregiver grants and transfers
type TransferPrimaryStore interface {
	GetGroup(ctx context.Context, id string) (model.CareGroup, error)
	GetCaregiver(ctx context.Context, id string) (model.Caregiver, error)
	SetPrimaryCaregiver(ctx context.Context, groupID, caregiverID, expectedCurrent string) error
}

// TransferPrimaryInput names the new primary caregiver and, when the role is
// already held, the holder the caller saw. The store only writes if the
// stored holder still matches, so two admins transferring concurrently
// cannot silently overwrite each other.
type TransferPrimaryInput struct {
	GroupID         string `validate:"required"`
	CaregiverID     string `validate:"required"`
	ExpectedCurrent string
}

// TransferPrimaryCaregiver grants or transfers a group's primary caregiver
// role. The new caregiver must be active and in the group's agency.
func TransferPrimaryCaregiver(ctx context.Context, store TransferPrimaryStore, logger *zap.Logger, input TransferPrimaryInput) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("invalid transfer input: %w", err)
	}

	group, err := store.GetGroup(ctx, input.GroupID)
	if err != nil {
		return fmt.Errorf("failed to fetch care group: %w", err)
	}

	caregiver, err := store.GetCaregiver(ctx, input.CaregiverID)
	if err != nil {
		return fmt.Errorf("failed to fetch caregiver: %w", err)
	}
	if !caregiver.Active {
		return fmt.Errorf("caregiver %s is not active", caregiver.ID)
	}
	if caregiver.AgencyID != group.AgencyID {
		return fmt.Errorf("caregiver %s belongs to a different agency than group %s", caregiver.ID, group.ID)
	}
	if group.PrimaryCaregiverID == caregiver.ID {
		return fmt.Errorf("caregiver %s is already the primary caregiver for group %s", caregiver.ID, group.ID)
	}

	logger.Info("Transferring primary caregiver",
		zap.String("group_id", group.ID),
		zap.String("from", input.ExpectedCurrent),
		zap.String("to", caregiver.ID))

	if err := store.SetPrimaryCaregiver(ctx, group.ID, caregiver.ID, input.ExpectedCurrent); err != nil {
		return fmt.Errorf("failed to set primary caregiver: %w", err)
	}

	return nil
}
