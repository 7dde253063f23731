package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecosmart-backend/internal/model"
)

// rowExists is the in-transaction variant of the existence check.
func rowExists(tx *gorm.DB, mdl any, id int64) (bool, error) {
	var n int64
	if err := tx.Model(mdl).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return n > 0, nil
}

// AssignDevice sets the device's environment reference. The environment's
// device collection is derived by query, so this single write is the whole
// association.
func (s *gormStore) AssignDevice(ctx context.Context, deviceID, environmentID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := rowExists(tx, &model.Device{}, deviceID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("device %d: %w", deviceID, ErrNotFound)
		}
		ok, err = rowExists(tx, &model.Environment{}, environmentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("environment %d: %w", environmentID, ErrNotFound)
		}
		if err := tx.Model(&model.Device{}).Where("id = ?", deviceID).
			Update("environment_id", environmentID).Error; err != nil {
			return fmt.Errorf("assign device %d to environment %d: %w", deviceID, environmentID, err)
		}
		return nil
	})
}

// UnassignDevice clears the device's environment reference. The caller names
// the environment it believes the device is in; a mismatch is rejected.
func (s *gormStore) UnassignDevice(ctx context.Context, deviceID, environmentID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dev model.Device
		if err := tx.First(&dev, deviceID).Error; err != nil {
			return translate(err, "device %d", deviceID)
		}
		ok, err := rowExists(tx, &model.Environment{}, environmentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("environment %d: %w", environmentID, ErrNotFound)
		}
		if dev.EnvironmentID == nil || *dev.EnvironmentID != environmentID {
			return fmt.Errorf("device %d is not assigned to environment %d: %w",
				deviceID, environmentID, ErrValidation)
		}
		if err := tx.Model(&model.Device{}).Where("id = ?", deviceID).
			Update("environment_id", nil).Error; err != nil {
			return fmt.Errorf("unassign device %d: %w", deviceID, err)
		}
		return nil
	})
}

// LinkUser adds the user to the environment's membership. Linking twice is a
// no-op.
func (s *gormStore) LinkUser(ctx context.Context, userID, environmentID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := rowExists(tx, &model.User{}, userID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		ok, err = rowExists(tx, &model.Environment{}, environmentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("environment %d: %w", environmentID, ErrNotFound)
		}
		link := model.UserEnvironment{UserID: userID, EnvironmentID: environmentID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return fmt.Errorf("link user %d to environment %d: %w", userID, environmentID, err)
		}
		return nil
	})
}

// UnlinkUser removes the user from the environment's membership.
func (s *gormStore) UnlinkUser(ctx context.Context, userID, environmentID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := rowExists(tx, &model.User{}, userID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		ok, err = rowExists(tx, &model.Environment{}, environmentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("environment %d: %w", environmentID, ErrNotFound)
		}
		res := tx.Where("user_id = ? AND environment_id = ?", userID, environmentID).
			Delete(&model.UserEnvironment{})
		if res.Error != nil {
			return fmt.Errorf("unlink user %d from environment %d: %w", userID, environmentID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %d is not a member of environment %d: %w",
				userID, environmentID, ErrValidation)
		}
		return nil
	})
}

// DeleteEnvironment removes the environment and cascades: owned devices and
// reports are deleted, user memberships are cleared. All writes share one
// transaction so readers never see a half-cascaded delete.
func (s *gormStore) DeleteEnvironment(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := rowExists(tx, &model.Environment{}, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("environment %d: %w", id, ErrNotFound)
		}
		if err := tx.Where("environment_id = ?", id).Delete(&model.Report{}).Error; err != nil {
			return fmt.Errorf("delete reports of environment %d: %w", id, err)
		}
		if err := tx.Where("environment_id = ?", id).Delete(&model.Device{}).Error; err != nil {
			return fmt.Errorf("delete devices of environment %d: %w", id, err)
		}
		if err := tx.Where("environment_id = ?", id).Delete(&model.UserEnvironment{}).Error; err != nil {
			return fmt.Errorf("clear memberships of environment %d: %w", id, err)
		}
		if err := tx.Delete(&model.Environment{}, id).Error; err != nil {
			return fmt.Errorf("delete environment %d: %w", id, err)
		}
		return nil
	})
}

// DeleteUser removes the user and cascades: owned reports are deleted and
// the user leaves every environment. Devices and environments are untouched.
func (s *gormStore) DeleteUser(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := rowExists(tx, &model.User{}, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Report{}).Error; err != nil {
			return fmt.Errorf("delete reports of user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.UserEnvironment{}).Error; err != nil {
			return fmt.Errorf("clear memberships of user %d: %w", id, err)
		}
		if err := tx.Delete(&model.User{}, id).Error; err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}
		return nil
	})
}

// CreateReport records that the user generated a report about the
// environment. Both references must exist when the row is written.
func (s *gormStore) CreateReport(ctx context.Context, environmentID, userID int64) (*model.Report, error) {
	report := model.Report{EnvironmentID: environmentID, UserID: userID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := rowExists(tx, &model.Environment{}, environmentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("environment %d: %w", environmentID, ErrNotFound)
		}
		ok, err = rowExists(tx, &model.User{}, userID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		if err := tx.Omit(clause.Associations).Create(&report).Error; err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// DeleteReportsByEnvironment removes every report about the environment.
// Filtering on an absent id is a no-op, not an error.
func (s *gormStore) DeleteReportsByEnvironment(ctx context.Context, environmentID int64) error {
	if err := s.db.WithContext(ctx).Where("environment_id = ?", environmentID).
		Delete(&model.Report{}).Error; err != nil {
		return fmt.Errorf("delete reports of environment %d: %w", environmentID, err)
	}
	return nil
}

// DeleteReportsByUser removes every report owned by the user.
func (s *gormStore) DeleteReportsByUser(ctx context.Context, userID int64) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Delete(&model.Report{}).Error; err != nil {
		return fmt.Errorf("delete reports of user %d: %w", userID, err)
	}
	return nil
}
