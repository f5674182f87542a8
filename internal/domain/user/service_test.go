package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/dm-server/internal/domain/user"
	"github.com/janhq/dm-server/internal/infrastructure/auth"
	"github.com/janhq/dm-server/internal/infrastructure/memstore"
	"github.com/janhq/dm-server/internal/utils/platformerrors"
)

// plainHasher keeps tests fast; bcrypt is covered in the auth package.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "h:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "h:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func newService(t *testing.T) user.Service {
	t.Helper()
	store := memstore.NewStore(zerolog.Nop())
	return user.NewService(store.Users(), plainHasher{}, auth.RawTokenCodec{}, zerolog.Nop())
}

func register(t *testing.T, svc user.Service, name, email string) *user.User {
	t.Helper()
	u, err := svc.Register(context.Background(), user.RegisterInput{
		Name: name, Email: email, Password: "secret", ConfirmPassword: "secret",
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	svc := newService(t)

	u := register(t, svc, "  Alice ", "Alice@Example.com ")
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "h:secret", u.PasswordHash)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	register(t, svc, "Alice", "alice@example.com")

	tests := []struct {
		name     string
		in       user.RegisterInput
		wantType platformerrors.ErrorType
	}{
		{
			name:     "missing name",
			in:       user.RegisterInput{Email: "x@example.com", Password: "a", ConfirmPassword: "a"},
			wantType: platformerrors.ErrorTypeValidation,
		},
		{
			name:     "confirmation mismatch",
			in:       user.RegisterInput{Name: "X", Email: "x@example.com", Password: "a", ConfirmPassword: "b"},
			wantType: platformerrors.ErrorTypeValidation,
		},
		{
			name:     "duplicate email differing in case",
			in:       user.RegisterInput{Name: "A2", Email: "ALICE@example.com", Password: "a", ConfirmPassword: "a"},
			wantType: platformerrors.ErrorTypeConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	alice := register(t, svc, "Alice", "alice@example.com")

	u, token, err := svc.Authenticate(ctx, "ALICE@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
	assert.Equal(t, alice.ID, token)

	_, _, err = svc.Authenticate(ctx, "alice@example.com", "wrong")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized))

	_, _, err = svc.Authenticate(ctx, "nobody@example.com", "secret")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	alice := register(t, svc, "Alice", "alice@example.com")
	register(t, svc, "Bob", "bob@example.com")
	register(t, svc, "Carol", "carol@elsewhere.org")

	users, err := svc.Search(ctx, "EXAMPLE", alice.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Name)

	users, err = svc.Search(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, []string{users[0].Name, users[1].Name, users[2].Name})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	alice := register(t, svc, "Alice", "alice@example.com")

	u, err := svc.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = svc.Get(ctx, "missing")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	users, err := svc.GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}
