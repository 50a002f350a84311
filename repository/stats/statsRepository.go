// repository/stats/statsRepository.go
package statsrepo

import (
	"context"
	"database/sql"

	"carrental/model"
)

type PopularCar struct {
	CarID    int64  `json:"car_id"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	Bookings int64  `json:"bookings"`
}

type Stats struct {
	TotalCars        int64            `json:"total_cars"`
	TotalUsers       int64            `json:"total_users"`
	TotalBookings    int64            `json:"total_bookings"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	Revenue          float64          `json:"revenue"`
	PopularCars      []PopularCar     `json:"popular_cars"`
}

type Repo interface {
	Dashboard(ctx context.Context) (*Stats, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Dashboard(ctx context.Context) (*Stats, error) {
	s := &Stats{BookingsByStatus: map[string]int64{}}

	const totals = `
		SELECT
			(SELECT COUNT(*) FROM cars),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM bookings),
			(SELECT COALESCE(SUM(total_price), 0)
			 FROM bookings
			 WHERE status IN ($1, $2))`
	if err := r.db.QueryRowContext(ctx, totals,
		model.BookingConfirmed, model.BookingCompleted,
	).Scan(&s.TotalCars, &s.TotalUsers, &s.TotalBookings, &s.Revenue); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM bookings
		GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		s.BookingsByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	top, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.make, c.model, c.year, COUNT(b.id) AS bookings
		FROM cars c
		JOIN bookings b ON b.car_id = c.id
		GROUP BY c.id
		ORDER BY bookings DESC, c.id
		LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer top.Close()
	for top.Next() {
		var p PopularCar
		if err := top.Scan(&p.CarID, &p.Make, &p.Model, &p.Year, &p.Bookings); err != nil {
			return nil, err
		}
		s.PopularCars = append(s.PopularCars, p)
	}
	return s, top.Err()
}
