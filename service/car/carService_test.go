package carsvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	specsrepo "carrental/repository/carspecs"
	"carrental/model"

	"github.com/go-redis/redismock/v9"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type repoMock struct {
	createFn func(ctx context.Context, c *model.Car) error
	listFn   func(ctx context.Context, f model.CarFilter) ([]model.Car, int64, error)
	getFn    func(ctx context.Context, id int64) (*model.Car, error)
	updateFn func(ctx context.Context, id int64, u CarUpdate) (*model.Car, error)
	deleteFn func(ctx context.Context, id int64) error
	imageFn  func(ctx context.Context, id int64, url string) (*model.Car, error)

	listCalls int
}

var _ Repo = (*repoMock)(nil)

func (m *repoMock) Create(ctx context.Context, c *model.Car) error { return m.createFn(ctx, c) }
func (m *repoMock) List(ctx context.Context, f model.CarFilter) ([]model.Car, int64, error) {
	m.listCalls++
	return m.listFn(ctx, f)
}
func (m *repoMock) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	return m.getFn(ctx, id)
}
func (m *repoMock) Update(ctx context.Context, id int64, u CarUpdate) (*model.Car, error) {
	return m.updateFn(ctx, id, u)
}
func (m *repoMock) Delete(ctx context.Context, id int64) error { return m.deleteFn(ctx, id) }
func (m *repoMock) AppendImage(ctx context.Context, id int64, url string) (*model.Car, error) {
	return m.imageFn(ctx, id, url)
}

type counterMock struct {
	n int64
}

func (m *counterMock) CountActiveByCar(ctx context.Context, carID int64) (int64, error) {
	return m.n, nil
}

type specsMock struct {
	specs []specsrepo.Spec
	err   error
}

func (m *specsMock) Lookup(make, model string, year int) ([]specsrepo.Spec, error) {
	return m.specs, m.err
}

func sampleCars() []model.Car {
	return []model.Car{
		{ID: 1, Make: "Toyota", Model: "Camry", Year: 2023, PricePerDay: 45, Available: true},
		{ID: 2, Make: "Honda", Model: "Civic", Year: 2024, PricePerDay: 40, Available: true},
	}
}

func TestList_DefaultsAndPaging(t *testing.T) {
	var seen model.CarFilter
	m := &repoMock{
		listFn: func(ctx context.Context, f model.CarFilter) ([]model.Car, int64, error) {
			seen = f
			return sampleCars(), 25, nil
		},
	}
	svc := New(m, &counterMock{}, &specsMock{}, nil)

	page, err := svc.List(context.Background(), model.CarFilter{Offset: -3})
	require.NoError(t, err)
	require.Equal(t, 10, seen.Limit)
	require.Equal(t, 0, seen.Offset)
	require.Equal(t, int64(25), page.Total)
	require.True(t, page.HasMore)
	require.Len(t, page.Cars, 2)
}

func TestList_FilterPassThrough(t *testing.T) {
	minPrice, maxPrice := 30.0, 60.0
	var seen model.CarFilter
	m := &repoMock{
		listFn: func(ctx context.Context, f model.CarFilter) ([]model.Car, int64, error) {
			seen = f
			return nil, 0, nil
		},
	}
	svc := New(m, &counterMock{}, &specsMock{}, nil)

	_, err := svc.List(context.Background(), model.CarFilter{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		Make:     "Toyota",
		Limit:    5,
	})
	require.NoError(t, err)
	require.Equal(t, "Toyota", seen.Make)
	require.Equal(t, minPrice, *seen.MinPrice)
	require.Equal(t, maxPrice, *seen.MaxPrice)
}

func TestList_EmptyPage(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context, f model.CarFilter) ([]model.Car, int64, error) {
			return nil, 0, nil
		},
	}
	svc := New(m, &counterMock{}, &specsMock{}, nil)

	page, err := svc.List(context.Background(), model.CarFilter{Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, page.Cars)
	require.Empty(t, page.Cars)
	require.Equal(t, int64(0), page.Total)
	require.False(t, page.HasMore)
}

func TestList_CacheMissThenHit(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context, f model.CarFilter) ([]model.Car, int64, error) {
			return sampleCars(), 2, nil
		},
	}
	rdb, mock := redismock.NewClientMock()
	svc := New(m, &counterMock{}, &specsMock{}, rdb)

	f := model.CarFilter{Make: "Toyota", Limit: 10}
	key := cacheKey(f)

	want := &model.CarPage{Cars: sampleCars(), Total: 2, Limit: 10, Offset: 0}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, raw, listTTL).SetVal("OK")

	page, err := svc.List(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)
	require.Equal(t, 1, m.listCalls)

	// second call is served from redis, the repo is not touched again
	mock.ExpectGet(key).SetVal(string(raw))

	page, err = svc.List(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)
	require.Len(t, page.Cars, 2)
	require.Equal(t, 1, m.listCalls)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheKey_VariesWithFilter(t *testing.T) {
	a := cacheKey(model.CarFilter{Make: "Toyota", Limit: 10})
	b := cacheKey(model.CarFilter{Make: "Honda", Limit: 10})
	require.NotEqual(t, a, b)
	require.Equal(t, a, cacheKey(model.CarFilter{Make: "Toyota", Limit: 10}))
}

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{
		getFn: func(ctx context.Context, id int64) (*model.Car, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(m, &counterMock{}, &specsMock{}, nil)

	_, err := svc.Detail(context.Background(), 99)
	require.Error(t, err)
	require.Equal(t, ErrCarNotFound, Code(err))
}

func TestCreate_RejectsNonPositiveNumbers(t *testing.T) {
	svc := New(&repoMock{}, &counterMock{}, &specsMock{}, nil)

	c := model.Car{Make: "Toyota", Model: "Camry", Year: 2023, Cylinders: 4,
		Displacement: 2.0, CityMpg: 23, HighwayMpg: 28, CombinationMpg: 25, PricePerDay: 0}
	err := svc.Create(context.Background(), &c)
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestUpdate_RejectsNonPositivePrice(t *testing.T) {
	svc := New(&repoMock{}, &counterMock{}, &specsMock{}, nil)

	bad := -1.0
	_, err := svc.Update(context.Background(), 1, CarUpdate{PricePerDay: &bad})
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestDelete_GuardedByActiveBookings(t *testing.T) {
	deleted := false
	m := &repoMock{
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	svc := New(m, &counterMock{n: 2}, &specsMock{}, nil)

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	require.Equal(t, ErrCarInUse, Code(err))
	require.False(t, deleted)
}

func TestDelete_FKViolationMapped(t *testing.T) {
	m := &repoMock{
		deleteFn: func(ctx context.Context, id int64) error {
			return &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
		},
	}
	svc := New(m, &counterMock{}, &specsMock{}, nil)

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	require.Equal(t, ErrCarInUse, Code(err))
}

func TestDelete_NotFound(t *testing.T) {
	m := &repoMock{
		deleteFn: func(ctx context.Context, id int64) error { return sql.ErrNoRows },
	}
	svc := New(m, &counterMock{}, &specsMock{}, nil)

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	require.Equal(t, ErrCarNotFound, Code(err))
}

func TestImportSpecs(t *testing.T) {
	var created []model.Car
	m := &repoMock{
		createFn: func(ctx context.Context, c *model.Car) error {
			c.ID = int64(len(created) + 1)
			created = append(created, *c)
			return nil
		},
	}
	sm := &specsMock{specs: []specsrepo.Spec{
		{Make: "toyota", Model: "camry", Year: 2023, Class: "midsize", FuelType: "gas",
			Drive: "fwd", Transmission: "a", Cylinders: 4, Displacement: 2.0,
			CityMpg: 23, HighwayMpg: 28, CombinationMpg: 25},
	}}
	svc := New(m, &counterMock{}, sm, nil)

	out, err := svc.ImportSpecs(context.Background(), "toyota", "camry", 2023, 55)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 55.0, out[0].PricePerDay)
	require.True(t, out[0].Available)
	require.Equal(t, "toyota", created[0].Make)
}

func TestImportSpecs_NoQuery(t *testing.T) {
	svc := New(&repoMock{}, &counterMock{}, &specsMock{}, nil)

	_, err := svc.ImportSpecs(context.Background(), "", "", 0, 55)
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestImportSpecs_NoMatches(t *testing.T) {
	svc := New(&repoMock{}, &counterMock{}, &specsMock{}, nil)

	_, err := svc.ImportSpecs(context.Background(), "yugo", "", 0, 55)
	require.Error(t, err)
	require.Equal(t, ErrNoSpecs, Code(err))
}
