// model/car.go
package model

import "time"

type Car struct {
	ID             int64     `json:"id"`
	Make           string    `json:"make"`
	Model          string    `json:"model"`
	Year           int       `json:"year"`
	Class          string    `json:"class"`
	FuelType       string    `json:"fuel_type"`
	Drive          string    `json:"drive"`
	Transmission   string    `json:"transmission"`
	Cylinders      int       `json:"cylinders"`
	Displacement   float64   `json:"displacement"`
	CityMpg        int       `json:"city_mpg"`
	HighwayMpg     int       `json:"highway_mpg"`
	CombinationMpg int       `json:"combination_mpg"`
	PricePerDay    float64   `json:"price_per_day"`
	Available      bool      `json:"available"`
	Images         []string  `json:"images"`
	Description    *string   `json:"description,omitempty"`
	Location       *string   `json:"location,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CarFilter is the parsed catalog query. Nil pointer = filter not applied.
type CarFilter struct {
	Query        string
	Make         string
	Model        string
	Class        string
	FuelType     string
	Drive        string
	Transmission string
	Year         *int
	MinYear      *int
	MaxYear      *int
	MinPrice     *float64
	MaxPrice     *float64
	MinMpg       *int
	MaxMpg       *int
	Available    *bool
	SortBy       string
	SortOrder    string
	Limit        int
	Offset       int
}

type CarPage struct {
	Cars    []Car `json:"cars"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}
