package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/psds-microservice/repair-service/internal/errs"
	"github.com/psds-microservice/repair-service/internal/model"
	"github.com/psds-microservice/repair-service/internal/store"
	"github.com/psds-microservice/repair-service/internal/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAdminService(st store.AdminStore) *AdminService {
	s := NewAdminService(st, zap.NewNop())
	s.hashCost = bcrypt.MinCost
	return s
}

func seedAdmin(t *testing.T, st *memstore.Store, a model.Admin) *model.Admin {
	t.Helper()
	require.NoError(t, st.CreateAdmin(context.Background(), &a))
	return &a
}

func TestResolve_EmptyStore(t *testing.T) {
	s := newAdminService(memstore.New())
	_, err := s.Resolve(context.Background(), Hints{})
	assert.ErrorIs(t, err, errs.ErrAdminNotFound)
}

func TestResolve_SingleAdminIgnoresMismatchedHints(t *testing.T) {
	st := memstore.New()
	only := seedAdmin(t, st, model.Admin{Email: "boss@shop", Role: model.RoleAdmin})
	s := newAdminService(st)

	for _, h := range []Hints{
		{},
		{AdminID: "not-an-id"},
		{AdminID: "6f1c2b1e-4c1a-4f57-9a0f-1b2c3d4e5f60"},
		{Email: "someone@else"},
	} {
		a, err := s.Resolve(context.Background(), h)
		require.NoError(t, err, "hints %+v", h)
		assert.Equal(t, only.ID, a.ID)
	}
}

func TestResolve_IDBeatsEmail(t *testing.T) {
	st := memstore.New()
	x := seedAdmin(t, st, model.Admin{Email: "x@shop", Role: model.RoleAdmin})
	y := seedAdmin(t, st, model.Admin{Email: "y@shop", Role: model.RoleAdmin})
	s := newAdminService(st)

	a, err := s.Resolve(context.Background(), Hints{AdminID: x.ID, Email: y.Email})
	require.NoError(t, err)
	assert.Equal(t, x.ID, a.ID)
}

func TestResolve_EmailBeatsRole(t *testing.T) {
	st := memstore.New()
	base := time.Unix(1_700_000_000, 0)
	seedAdmin(t, st, model.Admin{Email: "first@shop", Role: model.RoleAdmin, CreatedAt: base})
	second := seedAdmin(t, st, model.Admin{Email: "second@shop", Role: model.RoleAdmin, CreatedAt: base.Add(time.Minute)})
	s := newAdminService(st)

	a, err := s.Resolve(context.Background(), Hints{Email: "second@shop"})
	require.NoError(t, err)
	assert.Equal(t, second.ID, a.ID)
}

func TestResolve_OldestAdminRoleThenOldestAny(t *testing.T) {
	st := memstore.New()
	base := time.Unix(1_700_000_000, 0)
	seedAdmin(t, st, model.Admin{Email: "staff@shop", Role: "staff", CreatedAt: base.Add(-time.Hour)})
	newer := seedAdmin(t, st, model.Admin{Email: "b@shop", Role: model.RoleAdmin, CreatedAt: base.Add(time.Hour)})
	older := seedAdmin(t, st, model.Admin{Email: "a@shop", Role: model.RoleAdmin, CreatedAt: base})
	s := newAdminService(st)

	a, err := s.Resolve(context.Background(), Hints{})
	require.NoError(t, err)
	assert.Equal(t, older.ID, a.ID)
	assert.NotEqual(t, newer.ID, a.ID)

	onlyStaff := memstore.New()
	staff := seedAdmin(t, onlyStaff, model.Admin{Email: "staff@shop", Role: "staff"})
	a, err = newAdminService(onlyStaff).Resolve(context.Background(), Hints{})
	require.NoError(t, err)
	assert.Equal(t, staff.ID, a.ID)
}

type failingAdminStore struct {
	*memstore.Store
	err error
}

func (f failingAdminStore) FindOldestAdmin(context.Context, store.AdminFilter) (*model.Admin, error) {
	return nil, f.err
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	s := newAdminService(failingAdminStore{Store: memstore.New(), err: boom})
	_, err := s.Resolve(context.Background(), Hints{Email: "a@shop"})
	assert.ErrorIs(t, err, boom)

	_, _, err = s.Bootstrap(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestBootstrap_Idempotent(t *testing.T) {
	st := memstore.New()
	s := newAdminService(st)
	ctx := context.Background()

	first, created, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, DefaultAdminEmail, first.Email)
	assert.Equal(t, model.RoleAdmin, first.Role)
	assert.NotEqual(t, DefaultAdminPassword, first.Password, "stored as hash")

	second, created, err := s.Bootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	_, err = s.Login(ctx, DefaultAdminEmail, DefaultAdminPassword)
	require.NoError(t, err)
}

func TestBootstrap_KeepsExistingAdmin(t *testing.T) {
	st := memstore.New()
	existing := seedAdmin(t, st, model.Admin{Email: "owner@shop", Role: model.RoleAdmin})
	a, created, err := newAdminService(st).Bootstrap(context.Background())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, a.ID)
}

func TestLogin(t *testing.T) {
	st := memstore.New()
	s := newAdminService(st)
	fixed := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()
	admin, _, err := s.Bootstrap(ctx)
	require.NoError(t, err)

	_, err = s.Login(ctx, DefaultAdminEmail, "wrong")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	stored, err := st.GetAdmin(ctx, admin.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastLoginAt, "failed login leaves last login untouched")

	_, err = s.Login(ctx, "nobody@shop", DefaultAdminPassword)
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	a, err := s.Login(ctx, DefaultAdminEmail, DefaultAdminPassword)
	require.NoError(t, err)
	require.NotNil(t, a.LastLoginAt)
	assert.True(t, a.LastLoginAt.Equal(fixed))
}

func TestLogin_LegacyPlaintextIsRehashed(t *testing.T) {
	st := memstore.New()
	legacy := seedAdmin(t, st, model.Admin{Email: "old@shop", Password: "secret", Role: model.RoleAdmin})
	s := newAdminService(st)
	ctx := context.Background()

	_, err := s.Login(ctx, "old@shop", "secre")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = s.Login(ctx, "old@shop", "secret")
	require.NoError(t, err)
	stored, err := st.GetAdmin(ctx, legacy.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret")))

	_, err = s.Login(ctx, "old@shop", "secret")
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	st := memstore.New()
	s := newAdminService(st)
	ctx := context.Background()
	admin, _, err := s.Bootstrap(ctx)
	require.NoError(t, err)

	err = s.ChangePassword(ctx, Hints{AdminID: admin.ID}, "wrong", "n3w")
	assert.ErrorIs(t, err, errs.ErrPasswordMismatch)

	err = s.ChangePassword(ctx, Hints{}, DefaultAdminPassword, "")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	require.NoError(t, s.ChangePassword(ctx, Hints{Email: DefaultAdminEmail}, DefaultAdminPassword, "n3w"))

	_, err = s.Login(ctx, DefaultAdminEmail, DefaultAdminPassword)
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	_, err = s.Login(ctx, DefaultAdminEmail, "n3w")
	assert.NoError(t, err)
}

func TestChangePassword_NoAdmin(t *testing.T) {
	s := newAdminService(memstore.New())
	err := s.ChangePassword(context.Background(), Hints{}, "a", "b")
	assert.ErrorIs(t, err, errs.ErrAdminNotFound)
}

func TestUpdateProfile(t *testing.T) {
	st := memstore.New()
	s := newAdminService(st)
	ctx := context.Background()
	admin, _, err := s.Bootstrap(ctx)
	require.NoError(t, err)

	name, email := "Shop Owner", "owner@shop"
	a, err := s.UpdateProfile(ctx, Hints{AdminID: admin.ID}, ProfileUpdate{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, name, a.Name)
	assert.Equal(t, email, a.Email)
	assert.Equal(t, DefaultAdminPhone, a.Phone)

	// the old email hint is stale now, resolution falls back to the role lookup
	a, err = s.Resolve(ctx, Hints{Email: DefaultAdminEmail})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, a.ID)

	_, err = s.UpdateProfile(ctx, Hints{}, ProfileUpdate{})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
	empty := ""
	_, err = s.UpdateProfile(ctx, Hints{}, ProfileUpdate{Email: &empty})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}
