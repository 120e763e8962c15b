package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vista/internal/model"
)

type fakeUserStore struct {
	users  map[string]*model.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User), nextID: 1}
}

func (s *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	user.ID = s.nextID
	s.nextID++
	s.users[user.Username] = user
	return nil
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.users[username], nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeTokenIssuer struct {
	byUser  map[uint]string
	byToken map[string]uint
	issued  int
}

func newFakeTokenIssuer() *fakeTokenIssuer {
	return &fakeTokenIssuer{byUser: make(map[uint]string), byToken: make(map[string]uint)}
}

func (f *fakeTokenIssuer) Issue(ctx context.Context, userID uint) (string, bool, error) {
	if tok, ok := f.byUser[userID]; ok {
		return tok, false, nil
	}
	f.issued++
	tok := fmt.Sprintf("token-%d", f.issued)
	f.byUser[userID] = tok
	f.byToken[tok] = userID
	return tok, true, nil
}

func (f *fakeTokenIssuer) Revoke(ctx context.Context, token string) error {
	userID, ok := f.byToken[token]
	if !ok {
		return fmt.Errorf("unknown token %q", token)
	}
	delete(f.byToken, token)
	delete(f.byUser, userID)
	return nil
}

func addUser(t *testing.T, store *fakeUserStore, username, password string, disabled bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Disabled:     disabled,
	}
	require.NoError(t, store.Create(context.Background(), user))
	return user
}

func newAuthServiceForTest(store *fakeUserStore, tokens *fakeTokenIssuer) *AuthService {
	return NewAuthService(store, tokens, zerolog.Nop())
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeUserStore()
	tokens := newFakeTokenIssuer()
	svc := newAuthServiceForTest(store, tokens)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Username: "operator",
		Email:    "Operator@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "operator@example.com", result.User.Email)

	login, err := svc.Login(ctx, LoginInput{Username: "operator", Password: "s3cret-pass"})
	require.NoError(t, err)
	// Live token reused, matching issue-or-reuse semantics.
	assert.Equal(t, result.Token, login.Token)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	store := newFakeUserStore()
	svc := newAuthServiceForTest(store, newFakeTokenIssuer())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "operator", Email: "op@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "operator", Email: "other@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrUsernameExists)

	_, err = svc.Register(ctx, RegisterInput{Username: "other", Email: "op@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := newAuthServiceForTest(newFakeUserStore(), newFakeTokenIssuer())
	ctx := context.Background()

	for name, input := range map[string]RegisterInput{
		"empty username": {Email: "a@example.com", Password: "s3cret-pass"},
		"empty email":    {Username: "operator", Password: "s3cret-pass"},
		"short password": {Username: "operator", Email: "a@example.com", Password: "short"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLoginFailures(t *testing.T) {
	store := newFakeUserStore()
	addUser(t, store, "operator", "s3cret-pass", false)
	addUser(t, store, "ghost", "s3cret-pass", true)
	svc := newAuthServiceForTest(store, newFakeTokenIssuer())
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginInput{Username: "operator", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = svc.Login(ctx, LoginInput{Username: "ghost", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrAccountDisabled)

	_, err = svc.Login(ctx, LoginInput{Username: "", Password: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLogoutRevokesToken(t *testing.T) {
	store := newFakeUserStore()
	addUser(t, store, "operator", "s3cret-pass", false)
	tokens := newFakeTokenIssuer()
	svc := newAuthServiceForTest(store, tokens)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginInput{Username: "operator", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.Token))
	assert.Empty(t, tokens.byToken)

	// A second logout with the same token fails: it is gone.
	assert.Error(t, svc.Logout(ctx, login.Token))
}
