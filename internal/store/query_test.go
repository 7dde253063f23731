package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecosmart-backend/internal/model"
)

// seedHouse builds a small fixture: two furnished environments, one empty
// one, one unplaced device, and two users with mixed memberships.
func seedHouse(t *testing.T, s Store) (kitchen, bedroom, attic *model.Environment) {
	t.Helper()
	ctx := context.Background()

	kitchen = &model.Environment{Name: "Kitchen", Description: "Where the fridge lives"}
	bedroom = &model.Environment{Name: "Bedroom", Description: "Quiet room"}
	attic = &model.Environment{Name: "Attic"}
	for _, env := range []*model.Environment{kitchen, bedroom, attic} {
		require.NoError(t, s.CreateEnvironment(ctx, env))
	}

	fridge := model.NewRefrigerator("Fridge", 150)
	lamp := model.NewLamp("Kitchen Lamp", 9)
	tv := model.NewTelevision("Bedroom TV", 80)
	spare := model.NewFan("Spare Fan", 40)
	for _, dev := range []*model.Device{fridge, lamp, tv, spare} {
		require.NoError(t, s.CreateDevice(ctx, dev))
	}
	require.NoError(t, s.AssignDevice(ctx, fridge.ID, kitchen.ID))
	require.NoError(t, s.AssignDevice(ctx, lamp.ID, kitchen.ID))
	require.NoError(t, s.AssignDevice(ctx, tv.ID, bedroom.ID))

	alice := model.NewUser(model.UserConfig{Name: "Alice", Email: "alice@example.com", Password: "pw"})
	bob := model.NewUser(model.UserConfig{Name: "Bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, s.CreateUser(ctx, alice))
	require.NoError(t, s.CreateUser(ctx, bob))
	require.NoError(t, s.LinkUser(ctx, alice.ID, kitchen.ID))
	require.NoError(t, s.LinkUser(ctx, alice.ID, bedroom.ID))
	require.NoError(t, s.LinkUser(ctx, bob.ID, kitchen.ID))

	return kitchen, bedroom, attic
}

func environmentNames(envs []model.Environment) []string {
	names := make([]string, 0, len(envs))
	for _, e := range envs {
		names = append(names, e.Name)
	}
	return names
}

func TestEnvironmentNameSearches(t *testing.T) {
	s := newTestStore(t)
	seedHouse(t, s)
	ctx := context.Background()

	envs, err := s.EnvironmentsByName(ctx, "Kitchen")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Kitchen"}, environmentNames(envs))

	// Substring and prefix matching ignore case.
	envs, err = s.EnvironmentsNameContains(ctx, "ROOM")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bedroom"}, environmentNames(envs))

	envs, err = s.EnvironmentsNamePrefix(ctx, "kit")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Kitchen"}, environmentNames(envs))

	envs, err = s.EnvironmentsDescriptionContains(ctx, "fridge")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Kitchen"}, environmentNames(envs))

	envs, err = s.EnvironmentsNameContains(ctx, "garage")
	require.NoError(t, err)
	assert.Empty(t, envs)
}

func TestEnvironmentsByDeviceFields(t *testing.T) {
	s := newTestStore(t)
	seedHouse(t, s)
	ctx := context.Background()

	envs, err := s.EnvironmentsByDeviceKind(ctx, "REFRIGERATOR")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Kitchen"}, environmentNames(envs))

	envs, err = s.EnvironmentsByDeviceName(ctx, "Bedroom TV")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bedroom"}, environmentNames(envs))

	envs, err = s.EnvironmentsByDeviceStatus(ctx, model.StatusOn)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Kitchen"}, environmentNames(envs))

	// Two matching devices in the kitchen still yield one row.
	envs, err = s.EnvironmentsByDeviceActive(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Kitchen", "Bedroom"}, environmentNames(envs))

	envs, err = s.EnvironmentsByDevicePowerAbove(ctx, 100)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Kitchen"}, environmentNames(envs))

	envs, err = s.EnvironmentsByDevicePowerBetween(ctx, 50, 150)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Kitchen", "Bedroom"}, environmentNames(envs))

	// An inverted range matches nothing.
	envs, err = s.EnvironmentsByDevicePowerBetween(ctx, 150, 50)
	require.NoError(t, err)
	assert.Empty(t, envs)

	// Filtering on an absent device id yields an empty result, not an error.
	envs, err = s.EnvironmentsByDeviceID(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, envs)
}

func TestEnvironmentDeviceAggregates(t *testing.T) {
	s := newTestStore(t)
	kitchen, bedroom, attic := seedHouse(t, s)
	ctx := context.Background()

	envs, err := s.EnvironmentsWithMoreDevicesThan(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Kitchen"}, environmentNames(envs))

	envs, err = s.EnvironmentsWithoutDevices(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Attic"}, environmentNames(envs))

	envs, err = s.EnvironmentsWithoutUsers(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Attic"}, environmentNames(envs))

	counts, err := s.DeviceCountByEnvironment(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 3)

	byID := make(map[int64]int64, len(counts))
	for _, row := range counts {
		byID[row.EnvironmentID] = row.DeviceCount
	}
	assert.EqualValues(t, 2, byID[kitchen.ID])
	assert.EqualValues(t, 1, byID[bedroom.ID])
	// Deviceless environments still get a row.
	assert.EqualValues(t, 0, byID[attic.ID])
}

func TestMembershipQueries(t *testing.T) {
	s := newTestStore(t)
	kitchen, _, _ := seedHouse(t, s)
	ctx := context.Background()

	users, err := s.UsersOfEnvironment(ctx, kitchen.ID)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	n, err := s.CountUsersOfEnvironment(ctx, kitchen.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	alice, err := s.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)

	envs, err := s.EnvironmentsOfUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Kitchen", "Bedroom"}, environmentNames(envs))

	n, err = s.CountEnvironmentsOfUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// Queries keyed on absent ids yield empty results, not errors.
	users, err = s.UsersOfEnvironment(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestDeviceScalarQueries(t *testing.T) {
	s := newTestStore(t)
	seedHouse(t, s)
	ctx := context.Background()

	devs, err := s.DevicesByKind(ctx, "LAMP")
	require.NoError(t, err)
	require.Len(t, devs, 1)
	assert.Equal(t, "Kitchen Lamp", devs[0].Name)

	devs, err = s.DevicesNameContains(ctx, "FAN")
	require.NoError(t, err)
	require.Len(t, devs, 1)
	assert.Equal(t, "Spare Fan", devs[0].Name)

	devs, err = s.DevicesNamePrefix(ctx, "bed")
	require.NoError(t, err)
	require.Len(t, devs, 1)
	assert.Equal(t, "Bedroom TV", devs[0].Name)

	devs, err = s.DevicesKindPrefix(ctx, "tele")
	require.NoError(t, err)
	assert.Len(t, devs, 1)

	devs, err = s.DevicesByStatus(ctx, model.StatusOn)
	require.NoError(t, err)
	assert.Len(t, devs, 1)

	devs, err = s.DevicesByPower(ctx, 150)
	require.NoError(t, err)
	assert.Len(t, devs, 1)

	devs, err = s.DevicesByPowerAbove(ctx, 40)
	require.NoError(t, err)
	assert.Len(t, devs, 2)

	devs, err = s.DevicesByPowerBetween(ctx, 9, 80)
	require.NoError(t, err)
	assert.Len(t, devs, 3)

	devs, err = s.DevicesByPowerBetween(ctx, 80, 9)
	require.NoError(t, err)
	assert.Empty(t, devs)

	n, err := s.CountDevicesByKind(ctx, "LAMP")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.CountDevicesByStatus(ctx, model.StatusOff)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = s.CountDevicesByActive(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestDevicesByUsageAbove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	low := model.NewLamp("Low", 9)
	require.NoError(t, s.CreateDevice(ctx, low))
	high := model.NewLamp("High", 9)
	high.UsageTime = 12.5
	require.NoError(t, s.CreateDevice(ctx, high))

	devs, err := s.DevicesByUsageAbove(ctx, 10)
	require.NoError(t, err)
	require.Len(t, devs, 1)
	assert.Equal(t, "High", devs[0].Name)
}

func TestUserNameSearches(t *testing.T) {
	s := newTestStore(t)
	seedHouse(t, s)
	ctx := context.Background()

	users, err := s.UsersByName(ctx, "Alice")
	require.NoError(t, err)
	assert.Len(t, users, 1)

	users, err = s.UsersNameContains(ctx, "O")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Name)

	users, err = s.UsersNamePrefix(ctx, "al")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)
}

func TestReportQueries(t *testing.T) {
	s := newTestStore(t)
	kitchen, bedroom, _ := seedHouse(t, s)
	ctx := context.Background()

	alice, err := s.UserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	bob, err := s.UserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)

	_, err = s.CreateReport(ctx, kitchen.ID, alice.ID)
	require.NoError(t, err)
	_, err = s.CreateReport(ctx, kitchen.ID, bob.ID)
	require.NoError(t, err)
	_, err = s.CreateReport(ctx, bedroom.ID, alice.ID)
	require.NoError(t, err)

	reports, err := s.ReportsByEnvironment(ctx, kitchen.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	reports, err = s.ReportsByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 2)

	reports, err = s.ReportsByEnvironmentAndUser(ctx, kitchen.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	n, err := s.CountReportsByEnvironment(ctx, kitchen.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = s.CountReportsByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	exists, err := s.ReportExistsByEnvironmentAndUser(ctx, bedroom.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.ReportExistsByEnvironmentAndUser(ctx, bedroom.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
