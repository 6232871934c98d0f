package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yotip/homestead/internal/profile"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(filepath.Join(t.TempDir(), "nested", "homestead.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func tasksPtr(v []profile.Task) *[]profile.Task { return &v }

func TestOpen_RejectsEmptyPath(t *testing.T) {
	_, err := Open("", nil)
	assert.Error(t, err)
}

func TestGetProfile_Missing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertProfile_CreatesThenMerges(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	deadline := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	created, err := s.UpsertProfile(ctx, "u1", profile.Fields{
		Coins: intPtr(40),
		Tasks: tasksPtr([]profile.Task{{ID: 1, Name: "Sweep", Reward: 10, Deadline: &deadline}}),
	})
	require.NoError(t, err)
	assert.Equal(t, 40, created.Coins)

	objects := []profile.DecorativeObject{{ID: "o1", Kind: "dog", Cost: 150, Position: profile.Position{Top: 10, Left: 20}}}
	_, err = s.UpsertProfile(ctx, "u1", profile.Fields{Objects: &objects})
	require.NoError(t, err)

	got, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 40, got.Coins, "coins survive a partial update")
	require.Len(t, got.Tasks, 1, "tasks survive a partial update")
	assert.Equal(t, "Sweep", got.Tasks[0].Name)
	require.NotNil(t, got.Tasks[0].Deadline)
	assert.True(t, got.Tasks[0].Deadline.Equal(deadline))
	require.Len(t, got.Objects, 1)
	assert.Equal(t, profile.Position{Top: 10, Left: 20}, got.Objects[0].Position)
}

func TestUpsertProfile_ClampsCoins(t *testing.T) {
	s := openTestStore(t)

	got, err := s.UpsertProfile(context.Background(), "u1", profile.Fields{Coins: intPtr(-5)})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Coins)
}

func TestUpsertProfile_UsernameCollision(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertProfile(ctx, "u1", profile.Fields{Username: strPtr("farmer")})
	require.NoError(t, err)
	_, err = s.UpsertProfile(ctx, "u2", profile.Fields{Coins: intPtr(5)})
	require.NoError(t, err)

	_, err = s.UpsertProfile(ctx, "u2", profile.Fields{Username: strPtr("Farmer"), Coins: intPtr(99)})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := s.GetProfile(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Coins, "failed upsert leaves the row unchanged")
	assert.Empty(t, got.Username)

	_, err = s.UpsertProfile(ctx, "u1", profile.Fields{Username: strPtr("farmer"), Theme: strPtr("forest")})
	assert.NoError(t, err, "re-saving your own username is allowed")
}

func TestUpsertProfile_ProfilesWithoutUsernamesCoexist(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := s.UpsertProfile(ctx, id, profile.Fields{Coins: intPtr(1)})
		require.NoError(t, err)
	}
}

func TestUsernameOwner(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertProfile(ctx, "u1", profile.Fields{Username: strPtr("farmer")})
	require.NoError(t, err)

	owner, err := s.UsernameOwner(ctx, " FARMER ")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)

	_, err = s.UsernameOwner(ctx, "rancher")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccounts_SignUpAndAuthenticate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	acct, err := s.CreateAccount(ctx, " Farmer@Example.com ", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, acct.ID)
	assert.Equal(t, "farmer@example.com", acct.Email)

	got, err := s.Authenticate(ctx, "farmer@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)

	_, err = s.Authenticate(ctx, "farmer@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.CreateAccount(ctx, "farmer@example.com", "another1")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateAccount_Validation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.CreateAccount(ctx, "not-an-email", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.CreateAccount(ctx, "farmer@example.com", "123")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
