package adminsvc_test

import (
	"context"
	"database/sql"
	"testing"

	statsrepo "carrental/repository/stats"
	adminsvc "carrental/service/admin"
	"carrental/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type userRepoMock struct {
	listFn   func(ctx context.Context) ([]model.UserRow, error)
	updateFn func(ctx context.Context, id int64, name, email, role *string) (*model.User, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *userRepoMock) Create(ctx context.Context, u *model.User) error { return nil }
func (m *userRepoMock) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, sql.ErrNoRows
}
func (m *userRepoMock) ByID(ctx context.Context, id int64) (*model.User, error) {
	return nil, sql.ErrNoRows
}
func (m *userRepoMock) List(ctx context.Context) ([]model.UserRow, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *userRepoMock) Update(ctx context.Context, id int64, name, email, role *string) (*model.User, error) {
	return m.updateFn(ctx, id, name, email, role)
}
func (m *userRepoMock) Delete(ctx context.Context, id int64) error { return m.deleteFn(ctx, id) }

type statsMock struct{ s *statsrepo.Stats }

func (m *statsMock) Dashboard(ctx context.Context) (*statsrepo.Stats, error) { return m.s, nil }

func strp(s string) *string { return &s }

func TestListUsers_BookingCounts(t *testing.T) {
	m := &userRepoMock{
		listFn: func(ctx context.Context) ([]model.UserRow, error) {
			return []model.UserRow{
				{User: model.User{ID: 1, Name: "Alice", Role: "admin"}, Bookings: 4},
				{User: model.User{ID: 2, Name: "Bob", Role: "user"}, Bookings: 0},
			}, nil
		},
	}
	svc := adminsvc.New(m, &statsMock{})

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, int64(4), users[0].Bookings)
	require.Equal(t, int64(0), users[1].Bookings)
}

func TestUpdateUser_BadRole(t *testing.T) {
	svc := adminsvc.New(&userRepoMock{}, &statsMock{})

	_, err := svc.UpdateUser(context.Background(), 1, nil, nil, strp("root"))
	require.Error(t, err)
	require.Equal(t, adminsvc.ErrBadRole, adminsvc.Code(err))
}

func TestUpdateUser_Promote(t *testing.T) {
	m := &userRepoMock{
		updateFn: func(ctx context.Context, id int64, name, email, role *string) (*model.User, error) {
			return &model.User{ID: id, Role: *role}, nil
		},
	}
	svc := adminsvc.New(m, &statsMock{})

	u, err := svc.UpdateUser(context.Background(), 5, nil, nil, strp("admin"))
	require.NoError(t, err)
	require.Equal(t, "admin", u.Role)
}

func TestUpdateUser_NotFound(t *testing.T) {
	m := &userRepoMock{
		updateFn: func(ctx context.Context, id int64, name, email, role *string) (*model.User, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := adminsvc.New(m, &statsMock{})

	_, err := svc.UpdateUser(context.Background(), 404, strp("x"), nil, nil)
	require.Error(t, err)
	require.Equal(t, adminsvc.ErrUserNotFound, adminsvc.Code(err))
}

func TestUpdateUser_DuplicateEmail(t *testing.T) {
	m := &userRepoMock{
		updateFn: func(ctx context.Context, id int64, name, email, role *string) (*model.User, error) {
			return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		},
	}
	svc := adminsvc.New(m, &statsMock{})

	_, err := svc.UpdateUser(context.Background(), 1, nil, strp("taken@example.com"), nil)
	require.Error(t, err)
	require.Equal(t, adminsvc.ErrEmailTaken, adminsvc.Code(err))
}

func TestDeleteUser_Self(t *testing.T) {
	svc := adminsvc.New(&userRepoMock{}, &statsMock{})

	err := svc.DeleteUser(context.Background(), 7, 7)
	require.Error(t, err)
	require.Equal(t, adminsvc.ErrSelfDelete, adminsvc.Code(err))
}

func TestDeleteUser_WithBookings(t *testing.T) {
	m := &userRepoMock{
		deleteFn: func(ctx context.Context, id int64) error {
			return &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
		},
	}
	svc := adminsvc.New(m, &statsMock{})

	err := svc.DeleteUser(context.Background(), 1, 2)
	require.Error(t, err)
	require.Equal(t, adminsvc.ErrUserInUse, adminsvc.Code(err))
}

func TestDeleteUser_NotFound(t *testing.T) {
	m := &userRepoMock{
		deleteFn: func(ctx context.Context, id int64) error { return sql.ErrNoRows },
	}
	svc := adminsvc.New(m, &statsMock{})

	err := svc.DeleteUser(context.Background(), 1, 404)
	require.Error(t, err)
	require.Equal(t, adminsvc.ErrUserNotFound, adminsvc.Code(err))
}

func TestDashboard(t *testing.T) {
	want := &statsrepo.Stats{
		TotalCars:        8,
		TotalUsers:       3,
		TotalBookings:    12,
		BookingsByStatus: map[string]int64{"pending": 2, "confirmed": 6, "completed": 4},
		Revenue:          1840.50,
		PopularCars: []statsrepo.PopularCar{
			{CarID: 1, Make: "Toyota", Model: "Camry", Year: 2023, Bookings: 5},
		},
	}
	svc := adminsvc.New(&userRepoMock{}, &statsMock{s: want})

	got, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}
