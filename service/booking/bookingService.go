package bookingsvc

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	bookingrepo "carrental/repository/booking"
	"carrental/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// errors used by controllers

type ErrCode string

const (
	ErrInvalidDate      ErrCode = "INVALID_DATE"
	ErrInvalidDateRange ErrCode = "INVALID_DATE_RANGE"
	ErrPastStartDate    ErrCode = "PAST_START_DATE"
	ErrCarNotFound      ErrCode = "CAR_NOT_FOUND"
	ErrDateUnavailable  ErrCode = "DATE_UNAVAILABLE"
	ErrBookingNotFound  ErrCode = "BOOKING_NOT_FOUND"
	ErrNotOwner         ErrCode = "NOT_OWNER"
	ErrBadStatus        ErrCode = "BAD_STATUS"
	ErrBadInput         ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const dateLayout = "2006-01-02"

type ContactDetails = bookingrepo.ContactDetails

type Repo interface {
	GetCarPricePerDay(ctx context.Context, tx *sql.Tx, carID int64) (float64, error)
	HasActiveOverlap(ctx context.Context, tx *sql.Tx, carID int64, start, end time.Time) (bool, error)
	Insert(ctx context.Context, tx *sql.Tx, b *model.Booking) error

	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	SaveContactDetails(ctx context.Context, id int64, d ContactDetails, status model.BookingStatus) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error)

	ListByUser(ctx context.Context, userID int64) ([]model.BookingRow, error)
	ListAll(ctx context.Context) ([]model.BookingRow, error)
}

type Service interface {
	// Create: reserve a car for [start, end] and price the stay (status pending).
	Create(ctx context.Context, userID, carID int64, startStr, endStr string) (*model.Booking, error)

	// CompleteDetails: owner-only one-time contact/logistics enrichment.
	// Moves pending to confirmed; any other status stays as is.
	CompleteDetails(ctx context.Context, userID, bookingID int64, d ContactDetails) (*model.Booking, error)

	// ChangeStatus: admin status override, unrestricted transition table.
	ChangeStatus(ctx context.Context, bookingID int64, status string) (*model.Booking, error)

	MyBookings(ctx context.Context, userID int64) ([]model.BookingRow, error)
	ListAll(ctx context.Context) ([]model.BookingRow, error)
}

// ----- Service implementation -----

type service struct {
	db *sql.DB
	r  Repo
}

func New(db *sql.DB, r Repo) Service {
	return &service{db: db, r: r}
}

// Create validates the requested range, checks it against active bookings on
// the car and inserts the pending booking. Check and insert run inside one
// serializable transaction so two racing requests for an overlapping range
// cannot both commit; the bookings_no_overlap constraint backs this up.
func (s *service) Create(ctx context.Context, userID, carID int64, startStr, endStr string) (b *model.Booking, err error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return nil, makeErr(ErrInvalidDate)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return nil, makeErr(ErrInvalidDate)
	}
	if !start.Before(end) {
		return nil, makeErr(ErrInvalidDateRange)
	}
	if start.Before(today()) {
		return nil, makeErr(ErrPastStartDate)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	price, err := s.r.GetCarPricePerDay(ctx, tx, carID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrCarNotFound)
		}
		return nil, err
	}

	conflict, err := s.r.HasActiveOverlap(ctx, tx, carID, start, end)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, makeErr(ErrDateUnavailable)
	}

	b = &model.Booking{
		UserID:     userID,
		CarID:      carID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: TotalPrice(price, start, end),
		Status:     model.BookingPending,
	}
	if err = s.r.Insert(ctx, tx, b); err != nil {
		return nil, mapConflict(err)
	}
	if err = tx.Commit(); err != nil {
		return nil, mapConflict(err)
	}
	return b, nil
}

// TotalPrice charges any partial day as a full day and rounds to cents.
func TotalPrice(pricePerDay float64, start, end time.Time) float64 {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	return math.Round(pricePerDay*float64(days)*100) / 100
}

// today is the current UTC date with no time-of-day component.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mapConflict turns a lost race (exclusion constraint hit or serialization
// failure) into the same error as a plain availability miss.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ExclusionViolation, pgerrcode.SerializationFailure:
			return makeErr(ErrDateUnavailable)
		}
	}
	return err
}

func (s *service) CompleteDetails(ctx context.Context, userID, bookingID int64, d ContactDetails) (*model.Booking, error) {
	b, err := s.r.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookingNotFound)
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, makeErr(ErrNotOwner)
	}
	if err := validateContact(d); err != nil {
		return nil, err
	}

	status := b.Status
	if status == model.BookingPending {
		status = model.BookingConfirmed
	}
	return s.r.SaveContactDetails(ctx, bookingID, d, status)
}

func validateContact(d ContactDetails) error {
	switch {
	case len(strings.TrimSpace(d.PhoneNumber)) < 10,
		len(strings.TrimSpace(d.DriversLicense)) < 5,
		strings.TrimSpace(d.PickupLocation) == "",
		strings.TrimSpace(d.DropoffLocation) == "",
		len(strings.TrimSpace(d.EmergencyName)) < 2,
		len(strings.TrimSpace(d.EmergencyPhone)) < 10:
		return makeErr(ErrBadInput)
	}
	return nil
}

func (s *service) ChangeStatus(ctx context.Context, bookingID int64, status string) (*model.Booking, error) {
	st := model.BookingStatus(status)
	if !st.Valid() {
		return nil, makeErr(ErrBadStatus)
	}
	b, err := s.r.UpdateStatus(ctx, bookingID, st)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookingNotFound)
		}
		return nil, mapConflict(err)
	}
	return b, nil
}

func (s *service) MyBookings(ctx context.Context, userID int64) ([]model.BookingRow, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context) ([]model.BookingRow, error) {
	return s.r.ListAll(ctx)
}
