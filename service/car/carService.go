package carsvc

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	carrepo "carrental/repository/car"
	specsrepo "carrental/repository/carspecs"
	"carrental/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

type ErrCode string

const (
	ErrCarNotFound ErrCode = "CAR_NOT_FOUND"
	ErrCarInUse    ErrCode = "CAR_IN_USE"
	ErrBadInput    ErrCode = "BAD_INPUT"
	ErrNoSpecs     ErrCode = "NO_SPECS"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// listTTL bounds how stale a memoized catalog page may get. Deduplication
// only, not a correctness mechanism.
const listTTL = 5 * time.Second

type CarUpdate = carrepo.CarUpdate

type Repo interface {
	Create(ctx context.Context, c *model.Car) error
	List(ctx context.Context, f model.CarFilter) ([]model.Car, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Car, error)
	Update(ctx context.Context, id int64, u CarUpdate) (*model.Car, error)
	Delete(ctx context.Context, id int64) error
	AppendImage(ctx context.Context, id int64, url string) (*model.Car, error)
}

// ActiveCounter reports pending/confirmed bookings per car, used to guard
// car deletion.
type ActiveCounter interface {
	CountActiveByCar(ctx context.Context, carID int64) (int64, error)
}

type Service interface {
	List(ctx context.Context, f model.CarFilter) (*model.CarPage, error)
	Detail(ctx context.Context, id int64) (*model.Car, error)

	// Admin operations.
	Create(ctx context.Context, c *model.Car) error
	Update(ctx context.Context, id int64, u CarUpdate) (*model.Car, error)
	Delete(ctx context.Context, id int64) error
	AppendImage(ctx context.Context, id int64, url string) (*model.Car, error)
	ImportSpecs(ctx context.Context, carMake, carModel string, year int, pricePerDay float64) ([]model.Car, error)
}

type service struct {
	r        Repo
	bookings ActiveCounter
	specs    specsrepo.Repo
	cache    *redis.Client
}

func New(r Repo, bookings ActiveCounter, specs specsrepo.Repo, cache *redis.Client) Service {
	return &service{r: r, bookings: bookings, specs: specs, cache: cache}
}

func (s *service) List(ctx context.Context, f model.CarFilter) (*model.CarPage, error) {
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	key := cacheKey(f)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var page model.CarPage
			if json.Unmarshal(raw, &page) == nil {
				return &page, nil
			}
		}
	}

	cars, total, err := s.r.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if cars == nil {
		cars = []model.Car{}
	}
	page := &model.CarPage{
		Cars:    cars,
		Total:   total,
		Limit:   f.Limit,
		Offset:  f.Offset,
		HasMore: int64(f.Offset+f.Limit) < total,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(page); err == nil {
			// best effort, a cold cache just means one more query
			_ = s.cache.Set(ctx, key, raw, listTTL).Err()
		}
	}
	return page, nil
}

func cacheKey(f model.CarFilter) string {
	b, _ := json.Marshal(f)
	return fmt.Sprintf("cars:q:%x", sha256.Sum256(b))
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Car, error) {
	c, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrCarNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, c *model.Car) error {
	if c.PricePerDay <= 0 || c.CityMpg <= 0 || c.HighwayMpg <= 0 ||
		c.CombinationMpg <= 0 || c.Displacement <= 0 || c.Cylinders <= 0 {
		return makeErr(ErrBadInput)
	}
	return s.r.Create(ctx, c)
}

func (s *service) Update(ctx context.Context, id int64, u CarUpdate) (*model.Car, error) {
	if u.PricePerDay != nil && *u.PricePerDay <= 0 {
		return nil, makeErr(ErrBadInput)
	}
	c, err := s.r.Update(ctx, id, u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrCarNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	n, err := s.bookings.CountActiveByCar(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return makeErr(ErrCarInUse)
	}
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrCarNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			// historical bookings still reference the car
			return makeErr(ErrCarInUse)
		}
		return err
	}
	return nil
}

func (s *service) AppendImage(ctx context.Context, id int64, url string) (*model.Car, error) {
	c, err := s.r.AppendImage(ctx, id, url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrCarNotFound)
		}
		return nil, err
	}
	return c, nil
}

// ImportSpecs pulls vehicle specs from API Ninjas and registers each match
// as a rentable car at the given daily price.
func (s *service) ImportSpecs(ctx context.Context, carMake, carModel string, year int, pricePerDay float64) ([]model.Car, error) {
	if carMake == "" && carModel == "" {
		return nil, makeErr(ErrBadInput)
	}
	if pricePerDay <= 0 {
		pricePerDay = 50.0
	}

	specs, err := s.specs.Lookup(carMake, carModel, year)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, makeErr(ErrNoSpecs)
	}

	var out []model.Car
	for _, sp := range specs {
		c := model.Car{
			Make:           sp.Make,
			Model:          sp.Model,
			Year:           sp.Year,
			Class:          sp.Class,
			FuelType:       sp.FuelType,
			Drive:          sp.Drive,
			Transmission:   sp.Transmission,
			Cylinders:      sp.Cylinders,
			Displacement:   sp.Displacement,
			CityMpg:        sp.CityMpg,
			HighwayMpg:     sp.HighwayMpg,
			CombinationMpg: sp.CombinationMpg,
			PricePerDay:    pricePerDay,
			Available:      true,
			Images:         []string{},
		}
		if err := s.r.Create(ctx, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
