package booking

type CreateBookingReq struct {
	CarID     int64  `json:"car_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

type CompleteBookingReq struct {
	PhoneNumber           string  `json:"phone_number" validate:"required,min=10"`
	DriversLicenseNumber  string  `json:"drivers_license_number" validate:"required,min=5"`
	PickupLocation        string  `json:"pickup_location" validate:"required,min=1"`
	DropoffLocation       string  `json:"dropoff_location" validate:"required,min=1"`
	EmergencyContactName  string  `json:"emergency_contact_name" validate:"required,min=2"`
	EmergencyContactPhone string  `json:"emergency_contact_phone" validate:"required,min=10"`
	SpecialRequests       *string `json:"special_requests"`
}

type ChangeStatusReq struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}
