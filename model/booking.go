// model/booking.go
package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Active statuses block other bookings on the same car for overlapping dates.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Booking struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"user_id"`
	CarID           int64         `json:"car_id"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	TotalPrice      float64       `json:"total_price"`
	Status          BookingStatus `json:"status"`
	PhoneNumber     *string       `json:"phone_number,omitempty"`
	DriversLicense  *string       `json:"drivers_license,omitempty"`
	PickupLocation  *string       `json:"pickup_location,omitempty"`
	DropoffLocation *string       `json:"dropoff_location,omitempty"`
	EmergencyName   *string       `json:"emergency_contact_name,omitempty"`
	EmergencyPhone  *string       `json:"emergency_contact_phone,omitempty"`
	SpecialRequests *string       `json:"special_requests,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// BookingRow is a booking joined with car/user summaries for listings.
type BookingRow struct {
	Booking
	CarMake        string   `json:"car_make"`
	CarModel       string   `json:"car_model"`
	CarYear        int      `json:"car_year"`
	CarPricePerDay float64  `json:"car_price_per_day"`
	CarImages      []string `json:"car_images"`
	UserName       string   `json:"user_name,omitempty"`
	UserEmail      string   `json:"user_email,omitempty"`
}
