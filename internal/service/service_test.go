package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ecosmart-backend/internal/model"
	"ecosmart-backend/internal/store"
)

func newTestService(t *testing.T, hooks ...Hook) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	err = gormDB.AutoMigrate(
		&model.Environment{},
		&model.Device{},
		&model.User{},
		&model.Report{},
		&model.UserEnvironment{},
	)
	require.NoError(t, err)

	return New(store.NewGormStore(gormDB), hooks...)
}

func TestCreateEnvironmentRejectsDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateEnvironment(ctx, &model.Environment{Name: "Kitchen"}))

	err := svc.CreateEnvironment(ctx, &model.Environment{Name: "Kitchen"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestCreateDeviceRejectsDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateDevice(ctx, model.NewLamp("Desk Lamp", 9)))

	err := svc.CreateDevice(ctx, model.NewFan("Desk Lamp", 40))
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u := model.NewUser(model.UserConfig{Name: "Alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, svc.CreateUser(ctx, u))

	dup := model.NewUser(model.UserConfig{Name: "Other Alice", Email: "alice@example.com", Password: "pw2"})
	err := svc.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestUpdateEnvironmentTakesPathID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	env := &model.Environment{Name: "Kitchen"}
	require.NoError(t, svc.CreateEnvironment(ctx, env))

	replacement := &model.Environment{Name: "Big Kitchen", Description: "Renovated"}
	require.NoError(t, svc.UpdateEnvironment(ctx, env.ID, replacement))

	got, err := svc.Store().GetEnvironment(ctx, env.ID)
	require.NoError(t, err)
	assert.Equal(t, "Big Kitchen", got.Name)
	assert.Equal(t, "Renovated", got.Description)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u := model.NewUser(model.UserConfig{Name: "Alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, svc.CreateUser(ctx, u))

	got, err := svc.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// A wrong password and an unknown email fail the same way, so a caller
	// cannot probe which emails are registered.
	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, store.ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, store.ErrUnauthorized)
}

func TestIsEnvironmentComplete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bare := &model.Environment{Name: "Attic"}
	require.NoError(t, svc.CreateEnvironment(ctx, bare))
	full := &model.Environment{Name: "Kitchen", Description: "Ground floor"}
	require.NoError(t, svc.CreateEnvironment(ctx, full))

	complete, err := svc.IsEnvironmentComplete(ctx, bare.ID)
	require.NoError(t, err)
	assert.False(t, complete)

	complete, err = svc.IsEnvironmentComplete(ctx, full.ID)
	require.NoError(t, err)
	assert.True(t, complete)

	_, err = svc.IsEnvironmentComplete(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEnvironmentSummary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	env := &model.Environment{Name: "Kitchen", Description: "Ground floor"}
	require.NoError(t, svc.CreateEnvironment(ctx, env))

	summary, err := svc.EnvironmentSummary(ctx, env.ID)
	require.NoError(t, err)
	assert.Equal(t, "Environment: Kitchen - Ground floor", summary)

	dev := model.NewRefrigerator("Fridge", 150)
	require.NoError(t, svc.CreateDevice(ctx, dev))
	require.NoError(t, svc.AssignDevice(ctx, dev.ID, env.ID))

	u := model.NewUser(model.UserConfig{Name: "Alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, svc.CreateUser(ctx, u))
	require.NoError(t, svc.LinkUser(ctx, u.ID, env.ID))

	_, err = svc.CreateReport(ctx, env.ID, u.ID)
	require.NoError(t, err)

	summary, err = svc.EnvironmentSummary(ctx, env.ID)
	require.NoError(t, err)
	assert.Equal(t, "Environment: Kitchen - Ground floor | Devices: 1 | Users: 1 | Reports: 1", summary)
}

func TestHooksWrapOperations(t *testing.T) {
	var calls []string
	first := Hook{
		Before: func(op string) { calls = append(calls, "first-before:"+op) },
		After:  func(op string, err error) { calls = append(calls, "first-after") },
	}
	second := Hook{
		Before: func(op string) { calls = append(calls, "second-before") },
		After:  func(op string, err error) { calls = append(calls, "second-after") },
	}

	svc := newTestService(t, first, second)
	require.NoError(t, svc.CreateEnvironment(context.Background(), &model.Environment{Name: "Kitchen"}))

	// Befores run in registration order, Afters in reverse.
	assert.Equal(t, []string{
		"first-before:create environment",
		"second-before",
		"second-after",
		"first-after",
	}, calls)
}

func TestHooksObserveFailures(t *testing.T) {
	var seen error
	hook := Hook{After: func(op string, err error) { seen = err }}

	svc := newTestService(t, hook)
	ctx := context.Background()
	require.NoError(t, svc.CreateEnvironment(ctx, &model.Environment{Name: "Kitchen"}))

	err := svc.CreateEnvironment(ctx, &model.Environment{Name: "Kitchen"})
	require.Error(t, err)
	assert.ErrorIs(t, seen, store.ErrDuplicate)
}

func TestDeleteUserThroughService(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	env := &model.Environment{Name: "Kitchen"}
	require.NoError(t, svc.CreateEnvironment(ctx, env))
	u := model.NewUser(model.UserConfig{Name: "Alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, svc.CreateUser(ctx, u))
	require.NoError(t, svc.LinkUser(ctx, u.ID, env.ID))
	_, err := svc.CreateReport(ctx, env.ID, u.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, u.ID))

	_, err = svc.Store().GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	n, err := svc.Store().CountReportsByEnvironment(ctx, env.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
