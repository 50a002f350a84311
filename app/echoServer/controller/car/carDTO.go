package car

type CreateCarReq struct {
	Make           string   `json:"make" validate:"required"`
	Model          string   `json:"model" validate:"required"`
	Year           int      `json:"year" validate:"required,gte=1900"`
	Class          string   `json:"class" validate:"required"`
	FuelType       string   `json:"fuel_type" validate:"required"`
	Drive          string   `json:"drive" validate:"required"`
	Transmission   string   `json:"transmission" validate:"required"`
	Cylinders      int      `json:"cylinders" validate:"required,gt=0"`
	Displacement   float64  `json:"displacement" validate:"required,gt=0"`
	CityMpg        int      `json:"city_mpg" validate:"required,gt=0"`
	HighwayMpg     int      `json:"highway_mpg" validate:"required,gt=0"`
	CombinationMpg int      `json:"combination_mpg" validate:"required,gt=0"`
	PricePerDay    float64  `json:"price_per_day" validate:"omitempty,gt=0"`
	Available      *bool    `json:"available"`
	Description    *string  `json:"description"`
	Location       *string  `json:"location"`
	Images         []string `json:"images"`
}

type UpdateCarReq struct {
	Make           *string   `json:"make" validate:"omitempty,min=1"`
	Model          *string   `json:"model" validate:"omitempty,min=1"`
	Year           *int      `json:"year" validate:"omitempty,gte=1900"`
	Class          *string   `json:"class" validate:"omitempty,min=1"`
	FuelType       *string   `json:"fuel_type" validate:"omitempty,min=1"`
	Drive          *string   `json:"drive" validate:"omitempty,min=1"`
	Transmission   *string   `json:"transmission" validate:"omitempty,min=1"`
	Cylinders      *int      `json:"cylinders" validate:"omitempty,gt=0"`
	Displacement   *float64  `json:"displacement" validate:"omitempty,gt=0"`
	CityMpg        *int      `json:"city_mpg" validate:"omitempty,gt=0"`
	HighwayMpg     *int      `json:"highway_mpg" validate:"omitempty,gt=0"`
	CombinationMpg *int      `json:"combination_mpg" validate:"omitempty,gt=0"`
	PricePerDay    *float64  `json:"price_per_day" validate:"omitempty,gt=0"`
	Available      *bool     `json:"available"`
	Description    *string   `json:"description"`
	Location       *string   `json:"location"`
	Images         *[]string `json:"images"`
}

type ImportCarsReq struct {
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year" validate:"omitempty,gte=1900"`
	PricePerDay float64 `json:"price_per_day" validate:"omitempty,gt=0"`
}
