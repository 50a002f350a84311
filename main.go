// Package main car rental API.
//
// @title           Car Rental API
// @version         1.0
// @description     car rental service (catalog, bookings, admin).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carrental/app/echoServer"
	adminctrl "carrental/app/echoServer/controller/admin"
	authctrl "carrental/app/echoServer/controller/auth"
	bookingctrl "carrental/app/echoServer/controller/booking"
	carctrl "carrental/app/echoServer/controller/car"
	"carrental/app/echoServer/validation"
	"carrental/config"
	bookingrepo "carrental/repository/booking"
	carrepo "carrental/repository/car"
	specsrepo "carrental/repository/carspecs"
	statsrepo "carrental/repository/stats"
	userrepo "carrental/repository/user"
	adminsvc "carrental/service/admin"
	authsvc "carrental/service/auth"
	bookingsvc "carrental/service/booking"
	carsvc "carrental/service/car"
	"carrental/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB over pgx, migrations applied on startup
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// redis: catalog query memoization only, the API works without it
	var cache *redis.Client
	rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rc.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, catalog cache disabled", "err", err)
	} else {
		cache = rc
	}

	// repos
	ur := userrepo.New(db)
	cr := carrepo.New(db)
	br := bookingrepo.New(db)
	sr := statsrepo.New(db)
	xr := specsrepo.NewHTTP(cfg.ApiNinjasKey)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	cs := carsvc.New(cr, br, xr, cache)
	bs := bookingsvc.New(db, br)
	ads := adminsvc.New(ur, sr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	carC := &carctrl.Controller{Svc: cs, V: v, Log: log, UploadDir: cfg.UploadDir}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}
	adminC := &adminctrl.Controller{Svc: ads, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", cfg.UploadDir)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Car:     carC,
		Booking: bookingC,
		Admin:   adminC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	go func() {
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}
