package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanmobility/umob/internal/auth"
	"github.com/urbanmobility/umob/internal/common"
	"github.com/urbanmobility/umob/internal/repositories/scooters"
)

func validScooterInput() ScooterInput {
	return ScooterInput{
		Brand:           "Segway",
		Model:           "Ninebot Max",
		SerialNumber:    "SN1234567890",
		TopSpeed:        25,
		BatteryCapacity: 551,
		StateOfCharge:   80,
		TargetRangeMin:  20,
		TargetRangeMax:  90,
		Latitude:        51.92,
		Longitude:       4.48,
	}
}

type scooterFixture struct {
	repo     scooters.Repository
	session  *fakeSession
	recorder *fakeRecorder
	svc      *ScooterService
}

func newScooterFixture(t *testing.T) *scooterFixture {
	t.Helper()
	repo := scooters.NewSQLiteRepository(testDB(t))
	session := &fakeSession{username: "sysadmin1", role: auth.RoleSystemAdmin, loggedIn: true}
	recorder := &fakeRecorder{}
	svc := NewScooterService(repo, testCipher(t), session, recorder, testLogger())
	return &scooterFixture{repo: repo, session: session, recorder: recorder, svc: svc}
}

func TestScooterService_AddAndGet(t *testing.T) {
	ctx := context.Background()
	fx := newScooterFixture(t)

	id, err := fx.svc.Add(ctx, validScooterInput())
	require.NoError(t, err)
	require.Positive(t, id)

	view, err := fx.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "SN1234567890", view.SerialNumber)
	assert.Equal(t, 80, view.StateOfCharge)
	assert.NotEmpty(t, view.InServiceDate)

	raw, err := fx.repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, "SN1234567890", raw.SerialNumber)
}

func TestScooterService_AddValidation(t *testing.T) {
	ctx := context.Background()
	fx := newScooterFixture(t)

	bad := validScooterInput()
	bad.SerialNumber = "short"
	_, err := fx.svc.Add(ctx, bad)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	bad = validScooterInput()
	bad.Latitude = 53.0
	_, err = fx.svc.Add(ctx, bad)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	bad = validScooterInput()
	bad.TargetRangeMin = 90
	bad.TargetRangeMax = 20
	_, err = fx.svc.Add(ctx, bad)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestScooterService_SearchBySerial(t *testing.T) {
	ctx := context.Background()
	fx := newScooterFixture(t)

	_, err := fx.svc.Add(ctx, validScooterInput())
	require.NoError(t, err)
	other := validScooterInput()
	other.Brand = "NIU"
	other.SerialNumber = "XY9876543210"
	_, err = fx.svc.Add(ctx, other)
	require.NoError(t, err)

	// Serial matching only works through decryption.
	bySerial, err := fx.svc.Search(ctx, "9876")
	require.NoError(t, err)
	require.Len(t, bySerial, 1)
	assert.Equal(t, "NIU", bySerial[0].Brand)

	byBrand, err := fx.svc.Search(ctx, "segway")
	require.NoError(t, err)
	require.Len(t, byBrand, 1)
	assert.Equal(t, "SN1234567890", byBrand[0].SerialNumber)
}

func TestScooterService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	fx := newScooterFixture(t)

	id, err := fx.svc.Add(ctx, validScooterInput())
	require.NoError(t, err)

	fx.session.role = auth.RoleServiceEngineer

	soc := 55
	status := "battery swap pending"
	maint := "2026-02-01"
	err = fx.svc.UpdateStatus(ctx, id, ScooterStatus{
		StateOfCharge:       &soc,
		OutOfServiceStatus:  &status,
		LastMaintenanceDate: &maint,
	})
	require.NoError(t, err)

	view, err := fx.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 55, view.StateOfCharge)
	assert.Equal(t, "battery swap pending", view.OutOfServiceStatus)
	assert.Equal(t, "2026-02-01", view.LastMaintenanceDate)
	// Untouched fields keep their values.
	assert.Equal(t, 25, view.TopSpeed)
	assert.Equal(t, "SN1234567890", view.SerialNumber)
}

func TestScooterService_UpdateStatusValidation(t *testing.T) {
	ctx := context.Background()
	fx := newScooterFixture(t)

	id, err := fx.svc.Add(ctx, validScooterInput())
	require.NoError(t, err)

	soc := 150
	err = fx.svc.UpdateStatus(ctx, id, ScooterStatus{StateOfCharge: &soc})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// Changing only the minimum must still respect the stored maximum.
	badMin := 95
	err = fx.svc.UpdateStatus(ctx, id, ScooterStatus{TargetRangeMin: &badMin})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestScooterService_EngineerCannotAddOrDelete(t *testing.T) {
	ctx := context.Background()
	fx := newScooterFixture(t)

	id, err := fx.svc.Add(ctx, validScooterInput())
	require.NoError(t, err)

	fx.session.role = auth.RoleServiceEngineer

	_, err = fx.svc.Add(ctx, validScooterInput())
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
	err = fx.svc.Delete(ctx, id)
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
	err = fx.svc.Update(ctx, id, validScooterInput())
	assert.ErrorIs(t, err, common.ErrPermissionDenied)

	// Status updates and fleet reads stay available.
	_, err = fx.svc.List(ctx)
	require.NoError(t, err)
}

func TestScooterService_Delete(t *testing.T) {
	ctx := context.Background()
	fx := newScooterFixture(t)

	id, err := fx.svc.Add(ctx, validScooterInput())
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, id))
	_, err = fx.svc.Get(ctx, id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
