// repository/booking/bookingRepository.go
package bookingrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"carrental/model"
)

const bookingCols = `
	id, user_id, car_id, start_date, end_date, total_price, status,
	phone_number, drivers_license, pickup_location, dropoff_location,
	emergency_contact, emergency_phone, special_requests,
	created_at, updated_at`

type ContactDetails struct {
	PhoneNumber     string
	DriversLicense  string
	PickupLocation  string
	DropoffLocation string
	EmergencyName   string
	EmergencyPhone  string
	SpecialRequests *string
}

type Repo interface {
	GetCarPricePerDay(ctx context.Context, tx *sql.Tx, carID int64) (float64, error)
	HasActiveOverlap(ctx context.Context, tx *sql.Tx, carID int64, start, end time.Time) (bool, error)
	Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) error

	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	SaveContactDetails(ctx context.Context, id int64, d ContactDetails, status model.BookingStatus) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error)

	ListByUser(ctx context.Context, userID int64) ([]model.BookingRow, error)
	ListAll(ctx context.Context) ([]model.BookingRow, error)
	CountActiveByCar(ctx context.Context, carID int64) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) GetCarPricePerDay(ctx context.Context, tx *sql.Tx, carID int64) (float64, error) {
	const q = `
		SELECT price_per_day
		FROM cars
		WHERE id = $1`
	var price float64
	err := tx.QueryRowContext(ctx, q, carID).Scan(&price)
	return price, err
}

// HasActiveOverlap is inclusive on both range ends: a booking ending on the
// requested start day still conflicts.
func (r *repo) HasActiveOverlap(ctx context.Context, tx *sql.Tx, carID int64, start, end time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE car_id = $1
			AND status IN ('pending', 'confirmed')
			AND start_date <= $3
			AND end_date >= $2
		)`
	var conflict bool
	err := tx.QueryRowContext(ctx, q, carID, start, end).Scan(&conflict)
	return conflict, err
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `
		INSERT INTO bookings (user_id, car_id, start_date, end_date, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return tx.QueryRowContext(ctx, q,
		b.UserID, b.CarID, b.StartDate, b.EndDate, b.TotalPrice, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) SaveContactDetails(ctx context.Context, id int64, d ContactDetails, status model.BookingStatus) (*model.Booking, error) {
	const q = `
		UPDATE bookings
		SET phone_number = $2,
			drivers_license = $3,
			pickup_location = $4,
			dropoff_location = $5,
			emergency_contact = $6,
			emergency_phone = $7,
			special_requests = $8,
			status = $9,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + bookingCols
	return scanBooking(r.db.QueryRowContext(ctx, q, id,
		d.PhoneNumber, d.DriversLicense, d.PickupLocation, d.DropoffLocation,
		d.EmergencyName, d.EmergencyPhone, d.SpecialRequests, status,
	))
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	const q = `
		UPDATE bookings
		SET status = $2,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + bookingCols
	return scanBooking(r.db.QueryRowContext(ctx, q, id, status))
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.BookingRow, error) {
	const q = `
		SELECT ` + joinedCols + `
		FROM bookings b
		JOIN cars c ON c.id = b.car_id
		JOIN users u ON u.id = b.user_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC`
	return r.listRows(ctx, q, userID)
}

func (r *repo) ListAll(ctx context.Context) ([]model.BookingRow, error) {
	const q = `
		SELECT ` + joinedCols + `
		FROM bookings b
		JOIN cars c ON c.id = b.car_id
		JOIN users u ON u.id = b.user_id
		ORDER BY b.created_at DESC, b.id DESC`
	return r.listRows(ctx, q)
}

func (r *repo) CountActiveByCar(ctx context.Context, carID int64) (int64, error) {
	const q = `
		SELECT COUNT(*)
		FROM bookings
		WHERE car_id = $1
		AND status IN ('pending', 'confirmed')`
	var n int64
	err := r.db.QueryRowContext(ctx, q, carID).Scan(&n)
	return n, err
}

const joinedCols = `
	b.id, b.user_id, b.car_id, b.start_date, b.end_date, b.total_price, b.status,
	b.phone_number, b.drivers_license, b.pickup_location, b.dropoff_location,
	b.emergency_contact, b.emergency_phone, b.special_requests,
	b.created_at, b.updated_at,
	c.make, c.model, c.year, c.price_per_day, c.images, u.name, u.email`

type rowScanner interface{ Scan(dest ...any) error }

func scanBooking(row rowScanner) (*model.Booking, error) {
	b := &model.Booking{}
	err := row.Scan(
		&b.ID, &b.UserID, &b.CarID, &b.StartDate, &b.EndDate, &b.TotalPrice, &b.Status,
		&b.PhoneNumber, &b.DriversLicense, &b.PickupLocation, &b.DropoffLocation,
		&b.EmergencyName, &b.EmergencyPhone, &b.SpecialRequests,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) listRows(ctx context.Context, q string, args ...any) ([]model.BookingRow, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookingRow
	for rows.Next() {
		var br model.BookingRow
		var imgs []byte
		if err := rows.Scan(
			&br.ID, &br.UserID, &br.CarID, &br.StartDate, &br.EndDate, &br.TotalPrice, &br.Status,
			&br.PhoneNumber, &br.DriversLicense, &br.PickupLocation, &br.DropoffLocation,
			&br.EmergencyName, &br.EmergencyPhone, &br.SpecialRequests,
			&br.CreatedAt, &br.UpdatedAt,
			&br.CarMake, &br.CarModel, &br.CarYear, &br.CarPricePerDay, &imgs, &br.UserName, &br.UserEmail,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(imgs, &br.CarImages); err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}
