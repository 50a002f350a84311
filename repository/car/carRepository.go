package carrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"carrental/model"
)

// CarUpdate is a partial update. Nil = leave the column alone.
type CarUpdate struct {
	Make           *string
	Model          *string
	Year           *int
	Class          *string
	FuelType       *string
	Drive          *string
	Transmission   *string
	Cylinders      *int
	Displacement   *float64
	CityMpg        *int
	HighwayMpg     *int
	CombinationMpg *int
	PricePerDay    *float64
	Available      *bool
	Description    *string
	Location       *string
	Images         *[]string
}

type Repo interface {
	Create(ctx context.Context, c *model.Car) error
	List(ctx context.Context, f model.CarFilter) ([]model.Car, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Car, error)
	Update(ctx context.Context, id int64, u CarUpdate) (*model.Car, error)
	Delete(ctx context.Context, id int64) error
	AppendImage(ctx context.Context, id int64, url string) (*model.Car, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const carCols = `
	id, make, model, year, class, fuel_type, drive, transmission,
	cylinders, displacement, city_mpg, highway_mpg, combination_mpg,
	price_per_day, available, images, description, location,
	created_at, updated_at`

func (r *repo) Create(ctx context.Context, c *model.Car) error {
	if c.Images == nil {
		c.Images = []string{}
	}
	imgs, err := json.Marshal(c.Images)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO cars (
			make, model, year, class, fuel_type, drive, transmission,
			cylinders, displacement, city_mpg, highway_mpg, combination_mpg,
			price_per_day, available, images, description, location
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		c.Make, c.Model, c.Year, c.Class, c.FuelType, c.Drive, c.Transmission,
		c.Cylinders, c.Displacement, c.CityMpg, c.HighwayMpg, c.CombinationMpg,
		c.PricePerDay, c.Available, imgs, c.Description, c.Location,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *repo) List(ctx context.Context, f model.CarFilter) ([]model.Car, int64, error) {
	where, args := buildWhere(f)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + carCols + ` FROM cars` + where +
		fmt.Sprintf(" ORDER BY %s %s, id DESC", sortColumn(f.SortBy), sortDirection(f.SortOrder)) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	const q = `SELECT ` + carCols + ` FROM cars WHERE id = $1`
	return scanCar(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) Update(ctx context.Context, id int64, u CarUpdate) (*model.Car, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if u.Make != nil {
		add("make", *u.Make)
	}
	if u.Model != nil {
		add("model", *u.Model)
	}
	if u.Year != nil {
		add("year", *u.Year)
	}
	if u.Class != nil {
		add("class", *u.Class)
	}
	if u.FuelType != nil {
		add("fuel_type", *u.FuelType)
	}
	if u.Drive != nil {
		add("drive", *u.Drive)
	}
	if u.Transmission != nil {
		add("transmission", *u.Transmission)
	}
	if u.Cylinders != nil {
		add("cylinders", *u.Cylinders)
	}
	if u.Displacement != nil {
		add("displacement", *u.Displacement)
	}
	if u.CityMpg != nil {
		add("city_mpg", *u.CityMpg)
	}
	if u.HighwayMpg != nil {
		add("highway_mpg", *u.HighwayMpg)
	}
	if u.CombinationMpg != nil {
		add("combination_mpg", *u.CombinationMpg)
	}
	if u.PricePerDay != nil {
		add("price_per_day", *u.PricePerDay)
	}
	if u.Available != nil {
		add("available", *u.Available)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Location != nil {
		add("location", *u.Location)
	}
	if u.Images != nil {
		imgs, err := json.Marshal(*u.Images)
		if err != nil {
			return nil, err
		}
		add("images", imgs)
	}

	q := "UPDATE cars SET " + strings.Join(sets, ", ") + " WHERE id = $1 RETURNING " + carCols
	return scanCar(r.db.QueryRowContext(ctx, q, args...))
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) AppendImage(ctx context.Context, id int64, url string) (*model.Car, error) {
	const q = `
		UPDATE cars
		SET images = images || to_jsonb($2::text),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + carCols
	return scanCar(r.db.QueryRowContext(ctx, q, id, url))
}

// buildWhere translates a CarFilter into a WHERE clause. Free-text and MPG
// conditions are OR groups nested inside the top-level AND.
func buildWhere(f model.CarFilter) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Query != "" {
		like := "%" + f.Query + "%"
		conds = append(conds, fmt.Sprintf(
			"(make ILIKE %s OR model ILIKE %s OR class ILIKE %s OR fuel_type ILIKE %s OR COALESCE(description, '') ILIKE %s)",
			arg(like), arg(like), arg(like), arg(like), arg(like)))
	}
	if f.Make != "" {
		conds = append(conds, "make ILIKE "+arg("%"+f.Make+"%"))
	}
	if f.Model != "" {
		conds = append(conds, "model ILIKE "+arg("%"+f.Model+"%"))
	}
	if f.Class != "" {
		conds = append(conds, "class = "+arg(f.Class))
	}
	if f.FuelType != "" {
		conds = append(conds, "fuel_type = "+arg(f.FuelType))
	}
	if f.Drive != "" {
		conds = append(conds, "drive = "+arg(f.Drive))
	}
	if f.Transmission != "" {
		conds = append(conds, "transmission = "+arg(f.Transmission))
	}
	if f.MinYear != nil || f.MaxYear != nil {
		if f.MinYear != nil {
			conds = append(conds, "year >= "+arg(*f.MinYear))
		}
		if f.MaxYear != nil {
			conds = append(conds, "year <= "+arg(*f.MaxYear))
		}
	} else if f.Year != nil {
		conds = append(conds, "year = "+arg(*f.Year))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price_per_day >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price_per_day <= "+arg(*f.MaxPrice))
	}
	if f.MinMpg != nil || f.MaxMpg != nil {
		// A car matches when ANY of the three MPG figures falls in range.
		var group []string
		for _, col := range []string{"city_mpg", "highway_mpg", "combination_mpg"} {
			var parts []string
			if f.MinMpg != nil {
				parts = append(parts, col+" >= "+arg(*f.MinMpg))
			}
			if f.MaxMpg != nil {
				parts = append(parts, col+" <= "+arg(*f.MaxMpg))
			}
			group = append(group, "("+strings.Join(parts, " AND ")+")")
		}
		conds = append(conds, "("+strings.Join(group, " OR ")+")")
	}
	if f.Available != nil {
		conds = append(conds, "available = "+arg(*f.Available))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var sortCols = map[string]string{
	"created_at":      "created_at",
	"price":           "price_per_day",
	"year":            "year",
	"city_mpg":        "city_mpg",
	"highway_mpg":     "highway_mpg",
	"combination_mpg": "combination_mpg",
	"make":            "make",
	"model":           "model",
}

func sortColumn(key string) string {
	if col, ok := sortCols[key]; ok {
		return col
	}
	return "created_at"
}

func sortDirection(order string) string {
	if order == "asc" {
		return "ASC"
	}
	return "DESC"
}

func scanCar(row interface{ Scan(dest ...any) error }) (*model.Car, error) {
	c := &model.Car{}
	var imgs []byte
	err := row.Scan(
		&c.ID, &c.Make, &c.Model, &c.Year, &c.Class, &c.FuelType, &c.Drive, &c.Transmission,
		&c.Cylinders, &c.Displacement, &c.CityMpg, &c.HighwayMpg, &c.CombinationMpg,
		&c.PricePerDay, &c.Available, &imgs, &c.Description, &c.Location,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(imgs, &c.Images); err != nil {
		return nil, err
	}
	return c, nil
}
