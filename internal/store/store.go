package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ecosmart-backend/internal/model"
)

// Store bundles entity persistence, association management, and the
// read-only query surface for the four entity types.
type Store interface {
	EnvironmentStore
	DeviceStore
	UserStore
	ReportStore
	AssociationStore
}

// EnvironmentStore covers environment rows and the queries anchored on them.
type EnvironmentStore interface {
	CreateEnvironment(ctx context.Context, env *model.Environment) error
	GetEnvironment(ctx context.Context, id int64) (*model.Environment, error)
	UpdateEnvironment(ctx context.Context, env *model.Environment) error
	ListEnvironments(ctx context.Context) ([]model.Environment, error)
	CountEnvironments(ctx context.Context) (int64, error)
	EnvironmentExists(ctx context.Context, id int64) (bool, error)
	EnvironmentExistsByName(ctx context.Context, name string) (bool, error)

	EnvironmentsByName(ctx context.Context, name string) ([]model.Environment, error)
	EnvironmentsNameContains(ctx context.Context, q string) ([]model.Environment, error)
	EnvironmentsNamePrefix(ctx context.Context, q string) ([]model.Environment, error)
	EnvironmentsDescriptionContains(ctx context.Context, q string) ([]model.Environment, error)

	EnvironmentsByDeviceID(ctx context.Context, deviceID int64) ([]model.Environment, error)
	EnvironmentsByDeviceKind(ctx context.Context, kind string) ([]model.Environment, error)
	EnvironmentsByDeviceName(ctx context.Context, name string) ([]model.Environment, error)
	EnvironmentsByDeviceStatus(ctx context.Context, status string) ([]model.Environment, error)
	EnvironmentsByDeviceActive(ctx context.Context, active int) ([]model.Environment, error)
	EnvironmentsByDevicePowerAbove(ctx context.Context, power int) ([]model.Environment, error)
	EnvironmentsByDevicePowerBetween(ctx context.Context, min, max int) ([]model.Environment, error)
	EnvironmentsWithMoreDevicesThan(ctx context.Context, n int64) ([]model.Environment, error)
	EnvironmentsWithoutDevices(ctx context.Context) ([]model.Environment, error)
	EnvironmentsWithoutUsers(ctx context.Context) ([]model.Environment, error)

	EnvironmentsOfUser(ctx context.Context, userID int64) ([]model.Environment, error)
	CountEnvironmentsOfUser(ctx context.Context, userID int64) (int64, error)
	DevicesOfEnvironment(ctx context.Context, environmentID int64) ([]model.Device, error)
	CountDevicesOfEnvironment(ctx context.Context, environmentID int64) (int64, error)
	UsersOfEnvironment(ctx context.Context, environmentID int64) ([]model.User, error)
	CountUsersOfEnvironment(ctx context.Context, environmentID int64) (int64, error)
	DeviceCountByEnvironment(ctx context.Context) ([]EnvironmentDeviceCount, error)
}

// DeviceStore covers device rows and their scalar-field queries.
type DeviceStore interface {
	CreateDevice(ctx context.Context, dev *model.Device) error
	GetDevice(ctx context.Context, id int64) (*model.Device, error)
	UpdateDevice(ctx context.Context, dev *model.Device) error
	DeleteDevice(ctx context.Context, id int64) error
	ListDevices(ctx context.Context) ([]model.Device, error)
	CountDevices(ctx context.Context) (int64, error)
	DeviceExists(ctx context.Context, id int64) (bool, error)
	DeviceExistsByName(ctx context.Context, name string) (bool, error)

	DevicesByName(ctx context.Context, name string) ([]model.Device, error)
	DevicesNameContains(ctx context.Context, q string) ([]model.Device, error)
	DevicesNamePrefix(ctx context.Context, q string) ([]model.Device, error)
	DevicesByKind(ctx context.Context, kind string) ([]model.Device, error)
	DevicesKindContains(ctx context.Context, q string) ([]model.Device, error)
	DevicesKindPrefix(ctx context.Context, q string) ([]model.Device, error)
	DevicesByStatus(ctx context.Context, status string) ([]model.Device, error)
	DevicesByActive(ctx context.Context, active int) ([]model.Device, error)
	DevicesByPower(ctx context.Context, power int) ([]model.Device, error)
	DevicesByPowerAbove(ctx context.Context, power int) ([]model.Device, error)
	DevicesByPowerBetween(ctx context.Context, min, max int) ([]model.Device, error)
	DevicesByUsageAbove(ctx context.Context, usage float64) ([]model.Device, error)
	CountDevicesByKind(ctx context.Context, kind string) (int64, error)
	CountDevicesByStatus(ctx context.Context, status string) (int64, error)
	CountDevicesByActive(ctx context.Context, active int) (int64, error)
}

// UserStore covers user rows, email lookup included.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
	CountUsers(ctx context.Context) (int64, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)

	UsersByName(ctx context.Context, name string) ([]model.User, error)
	UsersNameContains(ctx context.Context, q string) ([]model.User, error)
	UsersNamePrefix(ctx context.Context, q string) ([]model.User, error)
}

// ReportStore covers report rows and their relationship queries. Report
// creation lives on AssociationStore because it validates two references.
type ReportStore interface {
	GetReport(ctx context.Context, id int64) (*model.Report, error)
	DeleteReport(ctx context.Context, id int64) error
	ListReports(ctx context.Context) ([]model.Report, error)
	CountReports(ctx context.Context) (int64, error)
	ReportExists(ctx context.Context, id int64) (bool, error)

	ReportsByEnvironment(ctx context.Context, environmentID int64) ([]model.Report, error)
	ReportsByUser(ctx context.Context, userID int64) ([]model.Report, error)
	ReportsByEnvironmentAndUser(ctx context.Context, environmentID, userID int64) ([]model.Report, error)
	CountReportsByEnvironment(ctx context.Context, environmentID int64) (int64, error)
	CountReportsByUser(ctx context.Context, userID int64) (int64, error)
	ReportExistsByEnvironmentAndUser(ctx context.Context, environmentID, userID int64) (bool, error)
	DeleteReportsByEnvironment(ctx context.Context, environmentID int64) error
	DeleteReportsByUser(ctx context.Context, userID int64) error
}

// AssociationStore is the only component that performs multi-row writes.
// Every method leaves the relationship graph consistent or fails without
// partial effects.
type AssociationStore interface {
	AssignDevice(ctx context.Context, deviceID, environmentID int64) error
	UnassignDevice(ctx context.Context, deviceID, environmentID int64) error
	LinkUser(ctx context.Context, userID, environmentID int64) error
	UnlinkUser(ctx context.Context, userID, environmentID int64) error
	DeleteEnvironment(ctx context.Context, id int64) error
	DeleteUser(ctx context.Context, id int64) error
	CreateReport(ctx context.Context, environmentID, userID int64) (*model.Report, error)
}

// EnvironmentDeviceCount is one row of the device-count aggregate. Every
// environment appears, with DeviceCount zero when it holds no devices.
type EnvironmentDeviceCount struct {
	EnvironmentID int64  `json:"environmentId"`
	Name          string `json:"name"`
	DeviceCount   int64  `json:"deviceCount"`
}

// gormStore implements Store on a GORM database handle.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// --- Environments ---

func (s *gormStore) CreateEnvironment(ctx context.Context, env *model.Environment) error {
	if strings.TrimSpace(env.Name) == "" {
		return fmt.Errorf("environment name is required: %w", ErrValidation)
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(env).Error; err != nil {
		return fmt.Errorf("create environment: %w", err)
	}
	return nil
}

func (s *gormStore) GetEnvironment(ctx context.Context, id int64) (*model.Environment, error) {
	var env model.Environment
	if err := s.db.WithContext(ctx).First(&env, id).Error; err != nil {
		return nil, translate(err, "environment %d", id)
	}
	return &env, nil
}

func (s *gormStore) UpdateEnvironment(ctx context.Context, env *model.Environment) error {
	ok, err := s.EnvironmentExists(ctx, env.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("environment %d: %w", env.ID, ErrNotFound)
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(env).Error; err != nil {
		return fmt.Errorf("update environment %d: %w", env.ID, err)
	}
	return nil
}

func (s *gormStore) ListEnvironments(ctx context.Context) ([]model.Environment, error) {
	var envs []model.Environment
	if err := s.db.WithContext(ctx).Find(&envs).Error; err != nil {
		return nil, fmt.Errorf("list environments: %w", err)
	}
	return envs, nil
}

func (s *gormStore) CountEnvironments(ctx context.Context) (int64, error) {
	return s.count(ctx, &model.Environment{}, "")
}

func (s *gormStore) EnvironmentExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, &model.Environment{}, "id = ?", id)
}

func (s *gormStore) EnvironmentExistsByName(ctx context.Context, name string) (bool, error) {
	return s.exists(ctx, &model.Environment{}, "name = ?", name)
}

// --- Devices ---

func (s *gormStore) CreateDevice(ctx context.Context, dev *model.Device) error {
	if strings.TrimSpace(dev.Name) == "" {
		return fmt.Errorf("device name is required: %w", ErrValidation)
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(dev).Error; err != nil {
		return fmt.Errorf("create device: %w", err)
	}
	return nil
}

func (s *gormStore) GetDevice(ctx context.Context, id int64) (*model.Device, error) {
	var dev model.Device
	if err := s.db.WithContext(ctx).First(&dev, id).Error; err != nil {
		return nil, translate(err, "device %d", id)
	}
	return &dev, nil
}

func (s *gormStore) UpdateDevice(ctx context.Context, dev *model.Device) error {
	ok, err := s.DeviceExists(ctx, dev.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("device %d: %w", dev.ID, ErrNotFound)
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(dev).Error; err != nil {
		return fmt.Errorf("update device %d: %w", dev.ID, err)
	}
	return nil
}

func (s *gormStore) DeleteDevice(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Device{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete device %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("device %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *gormStore) ListDevices(ctx context.Context) ([]model.Device, error) {
	var devs []model.Device
	if err := s.db.WithContext(ctx).Find(&devs).Error; err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	return devs, nil
}

func (s *gormStore) CountDevices(ctx context.Context) (int64, error) {
	return s.count(ctx, &model.Device{}, "")
}

func (s *gormStore) DeviceExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, &model.Device{}, "id = ?", id)
}

func (s *gormStore) DeviceExistsByName(ctx context.Context, name string) (bool, error) {
	return s.exists(ctx, &model.Device{}, "name = ?", name)
}

// --- Users ---

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user name and email are required: %w", ErrValidation)
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *gormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "user %d", id)
	}
	return &u, nil
}

func (s *gormStore) UpdateUser(ctx context.Context, u *model.User) error {
	ok, err := s.UserExists(ctx, u.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d: %w", u.ID, ErrNotFound)
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error; err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *gormStore) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, &model.User{}, "")
}

func (s *gormStore) UserExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, &model.User{}, "id = ?", id)
}

func (s *gormStore) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, &model.User{}, "email = ?", email)
}

func (s *gormStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "user with email %q", email)
	}
	return &u, nil
}

// --- Reports ---

func (s *gormStore) GetReport(ctx context.Context, id int64) (*model.Report, error) {
	var r model.Report
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, translate(err, "report %d", id)
	}
	return &r, nil
}

func (s *gormStore) DeleteReport(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.Report{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete report %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("report %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *gormStore) ListReports(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	if err := s.db.WithContext(ctx).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (s *gormStore) CountReports(ctx context.Context) (int64, error) {
	return s.count(ctx, &model.Report{}, "")
}

func (s *gormStore) ReportExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, &model.Report{}, "id = ?", id)
}

// --- Shared helpers ---

// translate maps a GORM lookup error onto the store taxonomy, attaching
// entity context to the message.
func translate(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func (s *gormStore) count(ctx context.Context, mdl any, query string, args ...any) (int64, error) {
	var n int64
	q := s.db.WithContext(ctx).Model(mdl)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// exists runs a LIMIT 1 point lookup so the check short-circuits instead of
// materializing rows.
func (s *gormStore) exists(ctx context.Context, mdl any, query string, args ...any) (bool, error) {
	err := s.db.WithContext(ctx).Select("id").Where(query, args...).Take(mdl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return true, nil
}
