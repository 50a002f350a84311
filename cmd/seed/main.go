// Seeds the database with a demo admin account and a starter fleet.
package main

import (
	"context"
	"log/slog"
	"os"

	"carrental/config"
	carrepo "carrental/repository/car"
	userrepo "carrental/repository/user"
	"carrental/model"
	"carrental/util/database"
	"carrental/util/hash"
)

var fleet = []model.Car{
	{Make: "Toyota", Model: "Camry", Year: 2023, Class: "midsize", FuelType: "gas", Drive: "fwd", Transmission: "a", Cylinders: 4, Displacement: 2.0, CityMpg: 23, HighwayMpg: 28, CombinationMpg: 25, PricePerDay: 45.00, Available: true},
	{Make: "Honda", Model: "Civic", Year: 2024, Class: "compact", FuelType: "gas", Drive: "fwd", Transmission: "a", Cylinders: 4, Displacement: 1.8, CityMpg: 28, HighwayMpg: 33, CombinationMpg: 30, PricePerDay: 40.00, Available: true},
	{Make: "Ford", Model: "Explorer", Year: 2023, Class: "suv", FuelType: "gas", Drive: "awd", Transmission: "a", Cylinders: 6, Displacement: 3.5, CityMpg: 18, HighwayMpg: 23, CombinationMpg: 20, PricePerDay: 65.00, Available: true},
	{Make: "Toyota", Model: "Prius", Year: 2024, Class: "compact", FuelType: "hybrid", Drive: "fwd", Transmission: "a", Cylinders: 4, Displacement: 2.0, CityMpg: 30, HighwayMpg: 36, CombinationMpg: 33, PricePerDay: 50.00, Available: true},
	{Make: "BMW", Model: "3 Series", Year: 2023, Class: "sports car", FuelType: "gas", Drive: "rwd", Transmission: "a", Cylinders: 6, Displacement: 3.0, CityMpg: 20, HighwayMpg: 25, CombinationMpg: 22, PricePerDay: 85.00, Available: true},
	{Make: "Nissan", Model: "Altima", Year: 2024, Class: "midsize", FuelType: "gas", Drive: "fwd", Transmission: "a", Cylinders: 4, Displacement: 2.5, CityMpg: 25, HighwayMpg: 30, CombinationMpg: 27, PricePerDay: 42.00, Available: true},
	{Make: "Ram", Model: "1500", Year: 2023, Class: "pickup", FuelType: "gas", Drive: "4wd", Transmission: "a", Cylinders: 8, Displacement: 5.7, CityMpg: 15, HighwayMpg: 20, CombinationMpg: 17, PricePerDay: 70.00, Available: true},
	{Make: "Mazda", Model: "CX-5", Year: 2024, Class: "compact", FuelType: "gas", Drive: "fwd", Transmission: "a", Cylinders: 4, Displacement: 2.0, CityMpg: 26, HighwayMpg: 31, CombinationMpg: 28, PricePerDay: 48.00, Available: true},
}

func main() {
	cfg := config.Load()
	ctx := context.Background()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ur := userrepo.New(db)
	cr := carrepo.New(db)

	adminPass := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPass == "" {
		adminPass = "admin123"
	}
	hashed, err := hash.HashPassword(adminPass)
	if err != nil {
		log.Error("hash failed", "err", err)
		os.Exit(1)
	}
	admin := &model.User{
		Name:         "Admin",
		Email:        "admin@carrental.local",
		PasswordHash: hashed,
		Role:         "admin",
	}
	if err := ur.Create(ctx, admin); err != nil {
		log.Warn("admin seed skipped", "err", err)
	} else {
		log.Info("admin created", "id", admin.ID, "email", admin.Email)
	}

	for i := range fleet {
		c := fleet[i]
		if err := cr.Create(ctx, &c); err != nil {
			log.Error("car seed failed", "make", c.Make, "model", c.Model, "err", err)
			os.Exit(1)
		}
		log.Info("car created", "id", c.ID, "make", c.Make, "model", c.Model)
	}
}
