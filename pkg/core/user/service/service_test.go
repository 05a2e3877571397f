package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/common/testdb"
	"samaajseva/pkg/core/user/model"
	dao "samaajseva/pkg/core/user/repository/dao/impl"
	"samaajseva/pkg/core/user/service"
)

func newServices(t *testing.T) (*service.AuthService, *service.ProfileService, *dao.GormUserRepository) {
	t.Helper()
	repo := dao.NewGormUserRepository(testdb.Open(t))
	return service.NewAuthService(repo, bcrypt.MinCost), service.NewProfileService(repo), repo
}

func TestRegisterThenLogin(t *testing.T) {
	auth, _, repo := newServices(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, service.RegisterInput{Name: "A", Email: " A@X.com ", Password: "pw", Role: "ngo"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, model.RoleNGO, user.Role)

	stored, err := repo.QueryByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw")))

	got, err := auth.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestRegisterValidation(t *testing.T) {
	auth, _, _ := newServices(t)

	_, err := auth.Register(context.Background(), service.RegisterInput{Name: "A", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"email", "role"}, appErr.Fields)

	_, err = auth.Register(context.Background(), service.RegisterInput{Name: "A", Email: "a@x.com", Password: "pw", Role: "Admin"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _, _ := newServices(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, service.RegisterInput{Name: "A", Email: "a@x.com", Password: "pw", Role: "Donor"})
	require.NoError(t, err)

	_, err = auth.Register(ctx, service.RegisterInput{Name: "B", Email: "A@x.com", Password: "other", Role: "NGO"})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestLoginFailuresAreUniform(t *testing.T) {
	auth, _, _ := newServices(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, service.RegisterInput{Name: "A", Email: "a@x.com", Password: "pw", Role: "Donor"})
	require.NoError(t, err)

	_, wrongPw := auth.Login(ctx, "a@x.com", "nope")
	_, unknown := auth.Login(ctx, "ghost@x.com", "pw")
	assert.ErrorIs(t, wrongPw, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, apperrors.ErrInvalidCredentials)
	assert.Equal(t, apperrors.PublicMessage(wrongPw), apperrors.PublicMessage(unknown))
}

func TestProfileDefaults(t *testing.T) {
	auth, profiles, _ := newServices(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, service.RegisterInput{Name: "A", Email: "a@x.com", Password: "pw", Role: "NGO"})
	require.NoError(t, err)

	view, err := profiles.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "", view.Bio)
	assert.Equal(t, "", view.City)
	assert.NotNil(t, view.Skills)
	assert.Empty(t, view.Skills)
	assert.NotNil(t, view.Interests)
	assert.Nil(t, view.CurrentBadge)
	assert.Equal(t, 0, view.CIS)
}

func TestProfileRoundTrip(t *testing.T) {
	auth, profiles, _ := newServices(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, service.RegisterInput{Name: "A", Email: "a@x.com", Password: "pw", Role: "Volunteer"})
	require.NoError(t, err)

	update := service.ProfileUpdate{
		Bio:       "hi",
		City:      "Pune",
		Skills:    []string{" first aid", "", "driving  "},
		Interests: []string{"education"},
	}
	// repeated identical updates are idempotent
	for i := 0; i < 2; i++ {
		require.NoError(t, profiles.UpdateProfile(ctx, user.ID, update))

		view, err := profiles.GetProfile(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "hi", view.Bio)
		assert.Equal(t, "Pune", view.City)
		assert.Equal(t, []string{"first aid", "driving"}, view.Skills)
		assert.Equal(t, []string{"education"}, view.Interests)
	}
}

func TestProfileNotFound(t *testing.T) {
	_, profiles, _ := newServices(t)
	ctx := context.Background()

	_, err := profiles.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = profiles.UpdateProfile(ctx, 999, service.ProfileUpdate{Bio: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestProfileRejectsCommaEntries(t *testing.T) {
	auth, profiles, _ := newServices(t)
	ctx := context.Background()
	user, err := auth.Register(ctx, service.RegisterInput{Name: "A", Email: "a@x.com", Password: "pw", Role: "Donor"})
	require.NoError(t, err)

	err = profiles.UpdateProfile(ctx, user.ID, service.ProfileUpdate{Skills: []string{"a,b"}})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
