package store

import (
	"context"
	"fmt"
	"strings"

	"ecosmart-backend/internal/model"
)

// Case-insensitive LIKE patterns. SQLite's LIKE is already
// case-insensitive for ASCII but postgres is not, so both operands are
// lower-cased explicitly.
func containsPattern(q string) string { return "%" + strings.ToLower(q) + "%" }
func prefixPattern(q string) string   { return strings.ToLower(q) + "%" }

func (s *gormStore) findEnvironments(ctx context.Context, query string, args ...any) ([]model.Environment, error) {
	var envs []model.Environment
	if err := s.db.WithContext(ctx).Where(query, args...).Find(&envs).Error; err != nil {
		return nil, fmt.Errorf("query environments: %w", err)
	}
	return envs, nil
}

// environmentsByDeviceField joins the device table and returns the distinct
// environments whose devices match the condition.
func (s *gormStore) environmentsByDeviceField(ctx context.Context, cond string, args ...any) ([]model.Environment, error) {
	var envs []model.Environment
	err := s.db.WithContext(ctx).
		Model(&model.Environment{}).
		Distinct("environments.*").
		Joins("JOIN devices ON devices.environment_id = environments.id").
		Where(cond, args...).
		Find(&envs).Error
	if err != nil {
		return nil, fmt.Errorf("query environments by device: %w", err)
	}
	return envs, nil
}

// --- Environment scalar queries ---

func (s *gormStore) EnvironmentsByName(ctx context.Context, name string) ([]model.Environment, error) {
	return s.findEnvironments(ctx, "name = ?", name)
}

func (s *gormStore) EnvironmentsNameContains(ctx context.Context, q string) ([]model.Environment, error) {
	return s.findEnvironments(ctx, "LOWER(name) LIKE ?", containsPattern(q))
}

func (s *gormStore) EnvironmentsNamePrefix(ctx context.Context, q string) ([]model.Environment, error) {
	return s.findEnvironments(ctx, "LOWER(name) LIKE ?", prefixPattern(q))
}

func (s *gormStore) EnvironmentsDescriptionContains(ctx context.Context, q string) ([]model.Environment, error) {
	return s.findEnvironments(ctx, "LOWER(description) LIKE ?", containsPattern(q))
}

// --- Environment relationship queries ---

func (s *gormStore) EnvironmentsByDeviceID(ctx context.Context, deviceID int64) ([]model.Environment, error) {
	return s.environmentsByDeviceField(ctx, "devices.id = ?", deviceID)
}

func (s *gormStore) EnvironmentsByDeviceKind(ctx context.Context, kind string) ([]model.Environment, error) {
	return s.environmentsByDeviceField(ctx, "devices.kind = ?", kind)
}

func (s *gormStore) EnvironmentsByDeviceName(ctx context.Context, name string) ([]model.Environment, error) {
	return s.environmentsByDeviceField(ctx, "devices.name = ?", name)
}

func (s *gormStore) EnvironmentsByDeviceStatus(ctx context.Context, status string) ([]model.Environment, error) {
	return s.environmentsByDeviceField(ctx, "devices.status = ?", status)
}

func (s *gormStore) EnvironmentsByDeviceActive(ctx context.Context, active int) ([]model.Environment, error) {
	return s.environmentsByDeviceField(ctx, "devices.active = ?", active)
}

func (s *gormStore) EnvironmentsByDevicePowerAbove(ctx context.Context, power int) ([]model.Environment, error) {
	return s.environmentsByDeviceField(ctx, "devices.power > ?", power)
}

// EnvironmentsByDevicePowerBetween filters on the inclusive range
// [min, max]. An inverted range matches nothing.
func (s *gormStore) EnvironmentsByDevicePowerBetween(ctx context.Context, min, max int) ([]model.Environment, error) {
	return s.environmentsByDeviceField(ctx, "devices.power BETWEEN ? AND ?", min, max)
}

func (s *gormStore) EnvironmentsWithMoreDevicesThan(ctx context.Context, n int64) ([]model.Environment, error) {
	var envs []model.Environment
	err := s.db.WithContext(ctx).
		Model(&model.Environment{}).
		Joins("JOIN devices ON devices.environment_id = environments.id").
		Group("environments.id").
		Having("COUNT(devices.id) > ?", n).
		Find(&envs).Error
	if err != nil {
		return nil, fmt.Errorf("query environments by device count: %w", err)
	}
	return envs, nil
}

func (s *gormStore) EnvironmentsWithoutDevices(ctx context.Context) ([]model.Environment, error) {
	return s.findEnvironments(ctx,
		"NOT EXISTS (SELECT 1 FROM devices WHERE devices.environment_id = environments.id)")
}

func (s *gormStore) EnvironmentsWithoutUsers(ctx context.Context) ([]model.Environment, error) {
	return s.findEnvironments(ctx,
		"NOT EXISTS (SELECT 1 FROM user_environments WHERE user_environments.environment_id = environments.id)")
}

func (s *gormStore) EnvironmentsOfUser(ctx context.Context, userID int64) ([]model.Environment, error) {
	var envs []model.Environment
	err := s.db.WithContext(ctx).
		Model(&model.Environment{}).
		Joins("JOIN user_environments ON user_environments.environment_id = environments.id").
		Where("user_environments.user_id = ?", userID).
		Find(&envs).Error
	if err != nil {
		return nil, fmt.Errorf("query environments of user %d: %w", userID, err)
	}
	return envs, nil
}

func (s *gormStore) CountEnvironmentsOfUser(ctx context.Context, userID int64) (int64, error) {
	return s.count(ctx, &model.UserEnvironment{}, "user_id = ?", userID)
}

func (s *gormStore) DevicesOfEnvironment(ctx context.Context, environmentID int64) ([]model.Device, error) {
	return s.findDevices(ctx, "environment_id = ?", environmentID)
}

func (s *gormStore) CountDevicesOfEnvironment(ctx context.Context, environmentID int64) (int64, error) {
	return s.count(ctx, &model.Device{}, "environment_id = ?", environmentID)
}

func (s *gormStore) UsersOfEnvironment(ctx context.Context, environmentID int64) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN user_environments ON user_environments.user_id = users.id").
		Where("user_environments.environment_id = ?", environmentID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("query users of environment %d: %w", environmentID, err)
	}
	return users, nil
}

func (s *gormStore) CountUsersOfEnvironment(ctx context.Context, environmentID int64) (int64, error) {
	return s.count(ctx, &model.UserEnvironment{}, "environment_id = ?", environmentID)
}

// DeviceCountByEnvironment aggregates devices per environment in one grouped
// query and merges against the full environment list, so environments with
// no devices still appear with a zero count.
func (s *gormStore) DeviceCountByEnvironment(ctx context.Context) ([]EnvironmentDeviceCount, error) {
	envs, err := s.ListEnvironments(ctx)
	if err != nil {
		return nil, err
	}

	type aggRow struct {
		EnvironmentID int64
		Total         int64
	}
	var aggs []aggRow
	err = s.db.WithContext(ctx).
		Model(&model.Device{}).
		Select("environment_id, COUNT(*) as total").
		Where("environment_id IS NOT NULL").
		Group("environment_id").
		Scan(&aggs).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate devices by environment: %w", err)
	}

	aggMap := make(map[int64]int64, len(aggs))
	for _, a := range aggs {
		aggMap[a.EnvironmentID] = a.Total
	}

	counts := make([]EnvironmentDeviceCount, 0, len(envs))
	for _, e := range envs {
		counts = append(counts, EnvironmentDeviceCount{
			EnvironmentID: e.ID,
			Name:          e.Name,
			DeviceCount:   aggMap[e.ID],
		})
	}
	return counts, nil
}

// --- Device scalar queries ---

func (s *gormStore) findDevices(ctx context.Context, query string, args ...any) ([]model.Device, error) {
	var devs []model.Device
	if err := s.db.WithContext(ctx).Where(query, args...).Find(&devs).Error; err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	return devs, nil
}

func (s *gormStore) DevicesByName(ctx context.Context, name string) ([]model.Device, error) {
	return s.findDevices(ctx, "name = ?", name)
}

func (s *gormStore) DevicesNameContains(ctx context.Context, q string) ([]model.Device, error) {
	return s.findDevices(ctx, "LOWER(name) LIKE ?", containsPattern(q))
}

func (s *gormStore) DevicesNamePrefix(ctx context.Context, q string) ([]model.Device, error) {
	return s.findDevices(ctx, "LOWER(name) LIKE ?", prefixPattern(q))
}

func (s *gormStore) DevicesByKind(ctx context.Context, kind string) ([]model.Device, error) {
	return s.findDevices(ctx, "kind = ?", kind)
}

func (s *gormStore) DevicesKindContains(ctx context.Context, q string) ([]model.Device, error) {
	return s.findDevices(ctx, "LOWER(kind) LIKE ?", containsPattern(q))
}

func (s *gormStore) DevicesKindPrefix(ctx context.Context, q string) ([]model.Device, error) {
	return s.findDevices(ctx, "LOWER(kind) LIKE ?", prefixPattern(q))
}

func (s *gormStore) DevicesByStatus(ctx context.Context, status string) ([]model.Device, error) {
	return s.findDevices(ctx, "status = ?", status)
}

func (s *gormStore) DevicesByActive(ctx context.Context, active int) ([]model.Device, error) {
	return s.findDevices(ctx, "active = ?", active)
}

func (s *gormStore) DevicesByPower(ctx context.Context, power int) ([]model.Device, error) {
	return s.findDevices(ctx, "power = ?", power)
}

func (s *gormStore) DevicesByPowerAbove(ctx context.Context, power int) ([]model.Device, error) {
	return s.findDevices(ctx, "power > ?", power)
}

func (s *gormStore) DevicesByPowerBetween(ctx context.Context, min, max int) ([]model.Device, error) {
	return s.findDevices(ctx, "power BETWEEN ? AND ?", min, max)
}

func (s *gormStore) DevicesByUsageAbove(ctx context.Context, usage float64) ([]model.Device, error) {
	return s.findDevices(ctx, "usage_time > ?", usage)
}

func (s *gormStore) CountDevicesByKind(ctx context.Context, kind string) (int64, error) {
	return s.count(ctx, &model.Device{}, "kind = ?", kind)
}

func (s *gormStore) CountDevicesByStatus(ctx context.Context, status string) (int64, error) {
	return s.count(ctx, &model.Device{}, "status = ?", status)
}

func (s *gormStore) CountDevicesByActive(ctx context.Context, active int) (int64, error) {
	return s.count(ctx, &model.Device{}, "active = ?", active)
}

// --- User queries ---

func (s *gormStore) findUsers(ctx context.Context, query string, args ...any) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Where(query, args...).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return users, nil
}

func (s *gormStore) UsersByName(ctx context.Context, name string) ([]model.User, error) {
	return s.findUsers(ctx, "name = ?", name)
}

func (s *gormStore) UsersNameContains(ctx context.Context, q string) ([]model.User, error) {
	return s.findUsers(ctx, "LOWER(name) LIKE ?", containsPattern(q))
}

func (s *gormStore) UsersNamePrefix(ctx context.Context, q string) ([]model.User, error) {
	return s.findUsers(ctx, "LOWER(name) LIKE ?", prefixPattern(q))
}

// --- Report queries ---

func (s *gormStore) findReports(ctx context.Context, query string, args ...any) ([]model.Report, error) {
	var reports []model.Report
	if err := s.db.WithContext(ctx).Where(query, args...).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	return reports, nil
}

func (s *gormStore) ReportsByEnvironment(ctx context.Context, environmentID int64) ([]model.Report, error) {
	return s.findReports(ctx, "environment_id = ?", environmentID)
}

func (s *gormStore) ReportsByUser(ctx context.Context, userID int64) ([]model.Report, error) {
	return s.findReports(ctx, "user_id = ?", userID)
}

func (s *gormStore) ReportsByEnvironmentAndUser(ctx context.Context, environmentID, userID int64) ([]model.Report, error) {
	return s.findReports(ctx, "environment_id = ? AND user_id = ?", environmentID, userID)
}

func (s *gormStore) CountReportsByEnvironment(ctx context.Context, environmentID int64) (int64, error) {
	return s.count(ctx, &model.Report{}, "environment_id = ?", environmentID)
}

func (s *gormStore) CountReportsByUser(ctx context.Context, userID int64) (int64, error) {
	return s.count(ctx, &model.Report{}, "user_id = ?", userID)
}

func (s *gormStore) ReportExistsByEnvironmentAndUser(ctx context.Context, environmentID, userID int64) (bool, error) {
	return s.exists(ctx, &model.Report{}, "environment_id = ? AND user_id = ?", environmentID, userID)
}
