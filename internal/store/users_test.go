package store_test

import (
	"context"
	"testing"

	"backoffice/internal/db/dbtest"
	"backoffice/internal/domain"
	"backoffice/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateAndAuthenticate(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	user, err := s.Users.Create(ctx, "alice", "s3cret-pass", domain.RoleUser)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	settings, err := s.Settings.Get(ctx, user.ID)
	require.NoError(t, err, "settings are created with the user")
	assert.Equal(t, "alice", settings.PhoneticName)
	assert.True(t, settings.SoundEffectsEnabled)

	got, err := s.Users.Authenticate(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.Users.Authenticate(ctx, "alice", "wrong")
	assert.Equal(t, domain.CodeUnauthorized, domain.CodeOf(err))
	_, err = s.Users.Authenticate(ctx, "nobody", "s3cret-pass")
	assert.Equal(t, domain.CodeUnauthorized, domain.CodeOf(err))

	_, err = s.Users.Authenticate(ctx, "admin", dbtest.AdminPassword)
	assert.NoError(t, err)
}

func TestUserCreateRequiresCredentials(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Users.Create(context.Background(), "  ", "pw", domain.RoleUser)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestFindOrCreateDemoReusesAccount(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	first, err := s.Users.FindOrCreateDemo(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.DemoUsername, first.Username)
	assert.Equal(t, domain.RoleDemo, first.Role)

	second, err := s.Users.FindOrCreateDemo(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = s.Settings.Get(ctx, first.ID)
	assert.NoError(t, err)
}

func TestFindOrCreateDemoIgnoresRegularAccountNamedDemo(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	regular, err := s.Users.Create(ctx, store.DemoUsername, "s3cret-pass", domain.RoleUser)
	require.NoError(t, err)

	demo, err := s.Users.FindOrCreateDemo(ctx)
	assert.Nil(t, demo)
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))

	got, err := s.Users.Get(ctx, regular.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, got.Role, "the regular account is untouched")
}

func TestUserListPaginates(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	for _, name := range []string{"bob", "carol", "dave"} {
		_, err := s.Users.Create(ctx, name, "password", domain.RoleUser)
		require.NoError(t, err)
	}

	page, total, err := s.Users.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, page, 2)
	assert.Equal(t, "bob", page[0].Username)
	assert.Equal(t, "carol", page[1].Username)
}

func TestDeletingUserRemovesSettings(t *testing.T) {
	s, gdb := newStore(t)
	ctx := context.Background()

	user, err := s.Users.Create(ctx, "erin", "password", domain.RoleUser)
	require.NoError(t, err)
	require.NoError(t, gdb.Delete(&domain.User{}, user.ID).Error)

	_, err = s.Settings.Get(ctx, user.ID)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

func TestSettingsUpdate(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	want := domain.UserSettings{
		PhoneticName:                "Admin",
		EmailForNotifications:       "admin@example.com",
		CurrencySymbol:              "$",
		DateFormat:                  "DD/MM/YYYY",
		DarkModeEnabled:             true,
		DesktopNotificationsEnabled: true,
		SoundEffectsEnabled:         false,
		PhoneNumberForNotifications: "+27 11 000 0000",
	}
	require.NoError(t, s.Settings.Update(ctx, 1, &want))

	got, err := s.Settings.Get(ctx, 1)
	require.NoError(t, err)
	want.UserID = 1
	assert.Equal(t, want, *got)

	err = s.Settings.Update(ctx, 99, &want)
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}
