package httpx

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davitran/storefront/internal/users"
)

var handlerSecret = []byte("handler-test-secret")

type fakeUsers struct {
	seq    int
	byName map[string]users.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]users.User{}}
}

func (f *fakeUsers) FindActiveByUsername(ctx context.Context, username string) (users.User, error) {
	u, ok := f.byName[username]
	if !ok || !u.IsActive {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Create(ctx context.Context, username, passwordHash string) (users.User, error) {
	if _, ok := f.byName[username]; ok {
		return users.User{}, users.ErrUsernameTaken
	}
	f.seq++
	u := users.User{
		ID:           fmt.Sprintf("u%d", f.seq),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         users.RoleUser,
		IsActive:     true,
	}
	f.byName[username] = u
	return u, nil
}

func newAuthServer(store UserStore) http.Handler {
	r := chi.NewRouter()
	h := &AuthHandler{Store: store, Secret: handlerSecret}
	h.Register(r)
	return r
}

func TestRegister(t *testing.T) {
	srv := newAuthServer(newFakeUsers())

	rec, env := doJSON(t, srv, http.MethodPost, "/register", map[string]string{
		"username": "alice", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, env.Success)

	u := decodeData[users.User](t, env)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, users.RoleUser, u.Role)
	assert.NotContains(t, rec.Body.String(), "s3cret")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_MissingFields(t *testing.T) {
	srv := newAuthServer(newFakeUsers())

	rec, env := doJSON(t, srv, http.MethodPost, "/register", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestRegister_DuplicateLeavesStoreUntouched(t *testing.T) {
	store := newFakeUsers()
	srv := newAuthServer(store)

	body := map[string]string{"username": "alice", "password": "first"}
	rec, _ := doJSON(t, srv, http.MethodPost, "/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	firstHash := store.byName["alice"].PasswordHash

	rec, env := doJSON(t, srv, http.MethodPost, "/register", map[string]string{
		"username": "alice", "password": "second",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username already exists", env.Message)
	assert.Len(t, store.byName, 1)
	assert.Equal(t, firstHash, store.byName["alice"].PasswordHash)
}

func TestLogin(t *testing.T) {
	store := newFakeUsers()
	srv := newAuthServer(store)

	_, _ = doJSON(t, srv, http.MethodPost, "/register", map[string]string{
		"username": "alice", "password": "s3cret",
	})

	rec, env := doJSON(t, srv, http.MethodPost, "/login", map[string]string{
		"username": "alice", "password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeData[loginResp](t, env)
	assert.Equal(t, "alice", resp.User.Username)
	require.NotEmpty(t, resp.Token)
	assert.NotContains(t, rec.Body.String(), "s3cret")

	claims, err := users.ParseToken(handlerSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, users.RoleUser, claims.Role)
}

func TestLogin_UnknownUser(t *testing.T) {
	srv := newAuthServer(newFakeUsers())

	rec, env := doJSON(t, srv, http.MethodPost, "/login", map[string]string{
		"username": "nobody", "password": "x",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found", env.Message)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newFakeUsers()
	srv := newAuthServer(store)

	_, _ = doJSON(t, srv, http.MethodPost, "/register", map[string]string{
		"username": "alice", "password": "right",
	})

	rec, env := doJSON(t, srv, http.MethodPost, "/login", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", env.Message)
}
