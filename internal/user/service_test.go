package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/roomiesplit/roomiesplit/internal/auth"
)

type fakeStore struct {
	users []*User
}

func (f *fakeStore) Insert(_ context.Context, u *User) error {
	u.ID = bson.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	f.users = append(f.users, u)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id bson.ObjectID) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetByIDs(_ context.Context, ids []bson.ObjectID) ([]*User, error) {
	var out []*User
	for _, id := range ids {
		for _, u := range f.users {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) FindByEmails(_ context.Context, emails []string) ([]*User, error) {
	var out []*User
	for _, email := range emails {
		for _, u := range f.users {
			if u.Email == email {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func newTestService() (*Service, *auth.JWTManager) {
	jwt := auth.NewJWTManager("test-secret", time.Hour)
	return NewService(&fakeStore{}, jwt), jwt
}

func TestRegister(t *testing.T) {
	svc, jwt := newTestService()

	u, token, err := svc.Register(context.Background(), &SignupRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})

	require.NoError(t, err)
	assert.False(t, u.ID.IsZero())
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash, "password must be hashed")

	claims, err := jwt.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Register(context.Background(), &SignupRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), &SignupRequest{
		Email:    "alice@example.com",
		Password: "another-password",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyInUse)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()

	registered, _, err := svc.Register(context.Background(), &SignupRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	u, token, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Register(context.Background(), &SignupRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "not-the-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
