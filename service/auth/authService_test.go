package authsvc_test

import (
	"context"
	"database/sql"
	"testing"

	authsvc "carrental/service/auth"
	"carrental/model"
	"carrental/util/hash"
	jwtutil "carrental/util/jwt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type userRepoMock struct {
	createFn  func(ctx context.Context, u *model.User) error
	byEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *userRepoMock) Create(ctx context.Context, u *model.User) error { return m.createFn(ctx, u) }
func (m *userRepoMock) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.byEmailFn(ctx, email)
}
func (m *userRepoMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	return nil, sql.ErrNoRows
}
func (m *userRepoMock) List(ctx context.Context) ([]model.UserRow, error) { return nil, nil }
func (m *userRepoMock) Update(ctx context.Context, id int64, name, email, role *string) (*model.User, error) {
	return nil, sql.ErrNoRows
}
func (m *userRepoMock) Delete(ctx context.Context, id int64) error { return sql.ErrNoRows }

const secret = "test-secret"

func TestRegister_Success(t *testing.T) {
	var saved *model.User
	m := &userRepoMock{
		createFn: func(ctx context.Context, u *model.User) error {
			u.ID = 1
			saved = u
			return nil
		},
	}
	svc := authsvc.New(m, secret)

	u, token, err := svc.Register(context.Background(), model.RegisterReq{
		Name:     "  Alice  ",
		Email:    "Alice@Example.COM",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, "Alice", u.Name)
	require.Equal(t, "alice@example.com", u.Email)
	require.Equal(t, "user", u.Role)
	require.NotEmpty(t, token)

	// stored hash verifies, plaintext is never stored
	require.NotEqual(t, "secret1", saved.PasswordHash)
	require.True(t, hash.Check(saved.PasswordHash, "secret1"))

	claims, err := jwtutil.ParseAuth("Bearer "+token, secret)
	require.NoError(t, err)
	require.EqualValues(t, 1, claims["sub"])
	require.Equal(t, "user", claims["role"])
}

func TestRegister_BadInput(t *testing.T) {
	svc := authsvc.New(&userRepoMock{}, secret)

	cases := []model.RegisterReq{
		{Name: "", Email: "a@b.com", Password: "secret1"},
		{Name: "Alice", Email: "", Password: "secret1"},
		{Name: "Alice", Email: "a@b.com", Password: "short"},
	}
	for _, req := range cases {
		_, _, err := svc.Register(context.Background(), req)
		require.Error(t, err)
		require.Equal(t, authsvc.ErrBadInput, authsvc.Code(err))
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	m := &userRepoMock{
		createFn: func(ctx context.Context, u *model.User) error {
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		},
	}
	svc := authsvc.New(m, secret)

	_, _, err := svc.Register(context.Background(), model.RegisterReq{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	})
	require.Error(t, err)
	require.Equal(t, authsvc.ErrEmailTaken, authsvc.Code(err))
}

func TestLogin_Success(t *testing.T) {
	hashed, err := hash.HashPassword("secret1")
	require.NoError(t, err)

	m := &userRepoMock{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			require.Equal(t, "alice@example.com", email)
			return &model.User{ID: 7, Email: email, PasswordHash: hashed, Role: "admin"}, nil
		},
	}
	svc := authsvc.New(m, secret)

	u, token, err := svc.Login(context.Background(), model.LoginReq{
		Email: "alice@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)

	claims, err := jwtutil.ParseAuth("Bearer "+token, secret)
	require.NoError(t, err)
	require.EqualValues(t, 7, claims["sub"])
	require.Equal(t, "admin", claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	hashed, err := hash.HashPassword("secret1")
	require.NoError(t, err)

	m := &userRepoMock{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 7, Email: email, PasswordHash: hashed}, nil
		},
	}
	svc := authsvc.New(m, secret)

	_, _, err = svc.Login(context.Background(), model.LoginReq{
		Email: "alice@example.com", Password: "wrong",
	})
	require.Error(t, err)
	require.Equal(t, authsvc.ErrInvalidCreds, authsvc.Code(err))
}

func TestLogin_UnknownEmail(t *testing.T) {
	m := &userRepoMock{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := authsvc.New(m, secret)

	_, _, err := svc.Login(context.Background(), model.LoginReq{
		Email: "nobody@example.com", Password: "secret1",
	})
	require.Error(t, err)
	require.Equal(t, authsvc.ErrInvalidCreds, authsvc.Code(err))
}
