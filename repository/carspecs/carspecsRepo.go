package specsrepo

// Spec is one vehicle record from the API Ninjas /v1/cars endpoint. The
// field set mirrors the cars table spec columns.
type Spec struct {
	Make           string  `json:"make"`
	Model          string  `json:"model"`
	Year           int     `json:"year"`
	Class          string  `json:"class"`
	FuelType       string  `json:"fuel_type"`
	Drive          string  `json:"drive"`
	Transmission   string  `json:"transmission"`
	Cylinders      int     `json:"cylinders"`
	Displacement   float64 `json:"displacement"`
	CityMpg        int     `json:"city_mpg"`
	HighwayMpg     int     `json:"highway_mpg"`
	CombinationMpg int     `json:"combination_mpg"`
}

type Repo interface {
	Lookup(make, model string, year int) ([]Spec, error)
}
