package service

import (
	"context"
	"errors"
	"fmt"

	"ecosmart-backend/internal/model"
	"ecosmart-backend/internal/store"
)

// Service implements the business rules on top of the store: uniqueness
// checks before creation, existence checks before mutation, completeness
// validation, and batch cascades. All dependencies are passed in
// explicitly; there is no ambient instance.
type Service struct {
	store store.Store
	hooks []Hook
}

// New creates a service over the given store. Hooks, if any, wrap every
// facade operation.
func New(st store.Store, hooks ...Hook) *Service {
	return &Service{store: st, hooks: hooks}
}

// --- Environments ---

// CreateEnvironment persists a new environment. Names are unique across all
// environments.
func (s *Service) CreateEnvironment(ctx context.Context, env *model.Environment) error {
	return s.around("create environment", func() error {
		taken, err := s.store.EnvironmentExistsByName(ctx, env.Name)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("environment name %q is taken: %w", env.Name, store.ErrDuplicate)
		}
		return s.store.CreateEnvironment(ctx, env)
	})
}

// UpdateEnvironment replaces the stored environment wholesale.
func (s *Service) UpdateEnvironment(ctx context.Context, id int64, env *model.Environment) error {
	return s.around("update environment", func() error {
		env.ID = id
		return s.store.UpdateEnvironment(ctx, env)
	})
}

// DeleteEnvironment routes through the association manager so the cascade
// rules apply.
func (s *Service) DeleteEnvironment(ctx context.Context, id int64) error {
	return s.around("delete environment", func() error {
		return s.store.DeleteEnvironment(ctx, id)
	})
}

// IsEnvironmentComplete reports whether the environment has both a name and
// a non-blank description.
func (s *Service) IsEnvironmentComplete(ctx context.Context, id int64) (bool, error) {
	env, err := s.store.GetEnvironment(ctx, id)
	if err != nil {
		return false, err
	}
	return env.Complete(), nil
}

// EnvironmentSummary renders a human-readable digest of the environment and
// its relationship counts.
func (s *Service) EnvironmentSummary(ctx context.Context, id int64) (string, error) {
	env, err := s.store.GetEnvironment(ctx, id)
	if err != nil {
		return "", err
	}
	devices, err := s.store.CountDevicesOfEnvironment(ctx, id)
	if err != nil {
		return "", err
	}
	users, err := s.store.CountUsersOfEnvironment(ctx, id)
	if err != nil {
		return "", err
	}
	reports, err := s.store.CountReportsByEnvironment(ctx, id)
	if err != nil {
		return "", err
	}
	return env.Summary(devices, users, reports), nil
}

// --- Devices ---

// CreateDevice persists a new device. Device names are not unique at the
// storage level, but creation still rejects a name that is already in use.
func (s *Service) CreateDevice(ctx context.Context, dev *model.Device) error {
	return s.around("create device", func() error {
		taken, err := s.store.DeviceExistsByName(ctx, dev.Name)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("device name %q is taken: %w", dev.Name, store.ErrDuplicate)
		}
		return s.store.CreateDevice(ctx, dev)
	})
}

// UpdateDevice replaces the stored device wholesale.
func (s *Service) UpdateDevice(ctx context.Context, id int64, dev *model.Device) error {
	return s.around("update device", func() error {
		dev.ID = id
		return s.store.UpdateDevice(ctx, dev)
	})
}

// DeleteDevice removes a single device row.
func (s *Service) DeleteDevice(ctx context.Context, id int64) error {
	return s.around("delete device", func() error {
		return s.store.DeleteDevice(ctx, id)
	})
}

// AssignDevice places the device in the environment.
func (s *Service) AssignDevice(ctx context.Context, deviceID, environmentID int64) error {
	return s.around("assign device", func() error {
		return s.store.AssignDevice(ctx, deviceID, environmentID)
	})
}

// UnassignDevice removes the device from the environment the caller expects
// it to be in.
func (s *Service) UnassignDevice(ctx context.Context, deviceID, environmentID int64) error {
	return s.around("unassign device", func() error {
		return s.store.UnassignDevice(ctx, deviceID, environmentID)
	})
}

// --- Users ---

// CreateUser persists a new user. Emails are unique across all users.
func (s *Service) CreateUser(ctx context.Context, u *model.User) error {
	return s.around("create user", func() error {
		taken, err := s.store.UserExistsByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("email %q is taken: %w", u.Email, store.ErrDuplicate)
		}
		return s.store.CreateUser(ctx, u)
	})
}

// UpdateUser replaces the stored user wholesale.
func (s *Service) UpdateUser(ctx context.Context, id int64, u *model.User) error {
	return s.around("update user", func() error {
		u.ID = id
		return s.store.UpdateUser(ctx, u)
	})
}

// DeleteUser routes through the association manager so owned reports and
// memberships are cascaded.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.around("delete user", func() error {
		return s.store.DeleteUser(ctx, id)
	})
}

// LinkUser adds the user to the environment's membership.
func (s *Service) LinkUser(ctx context.Context, userID, environmentID int64) error {
	return s.around("link user", func() error {
		return s.store.LinkUser(ctx, userID, environmentID)
	})
}

// UnlinkUser removes the user from the environment's membership.
func (s *Service) UnlinkUser(ctx context.Context, userID, environmentID int64) error {
	return s.around("unlink user", func() error {
		return s.store.UnlinkUser(ctx, userID, environmentID)
	})
}

// Login authenticates by email and password. Passwords are stored and
// compared as plaintext; this mirrors the existing deployments and is a
// known weakness, not an invitation to guess a hashing scheme.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if u.Password != password {
		return nil, store.ErrUnauthorized
	}
	return u, nil
}

// --- Reports ---

// CreateReport records that the user generated a report about the
// environment.
func (s *Service) CreateReport(ctx context.Context, environmentID, userID int64) (*model.Report, error) {
	var report *model.Report
	err := s.around("create report", func() error {
		var err error
		report, err = s.store.CreateReport(ctx, environmentID, userID)
		return err
	})
	return report, err
}

// DeleteReport removes a single report.
func (s *Service) DeleteReport(ctx context.Context, id int64) error {
	return s.around("delete report", func() error {
		return s.store.DeleteReport(ctx, id)
	})
}

// DeleteReportsByEnvironment removes every report about the environment.
func (s *Service) DeleteReportsByEnvironment(ctx context.Context, environmentID int64) error {
	return s.around("delete reports by environment", func() error {
		return s.store.DeleteReportsByEnvironment(ctx, environmentID)
	})
}

// DeleteReportsByUser removes every report owned by the user.
func (s *Service) DeleteReportsByUser(ctx context.Context, userID int64) error {
	return s.around("delete reports by user", func() error {
		return s.store.DeleteReportsByUser(ctx, userID)
	})
}

// Store exposes the read-only query surface to the boundary layer.
func (s *Service) Store() store.Store {
	return s.store
}
