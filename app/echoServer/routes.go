package echoServer

import (
	"net/http"

	adminctrl "carrental/app/echoServer/controller/admin"
	authctrl "carrental/app/echoServer/controller/auth"
	bookingctrl "carrental/app/echoServer/controller/booking"
	carctrl "carrental/app/echoServer/controller/car"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth    *authctrl.Controller
	Car     *carctrl.Controller
	Booking *bookingctrl.Controller
	Admin   *adminctrl.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Catalog is public
	pub.GET("/cars", c.Car.List)
	pub.GET("/cars/:id", c.Car.Detail)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// user_id + role extraction
	auth.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tokenObj := ctx.Get("user")
			if tokenObj == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			tok, ok := tokenObj.(*jwt.Token)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			ctx.Set("user_id", int64(sub))
			if role, ok := claims["role"].(string); ok {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	})

	// Bookings
	auth.POST("/bookings", c.Booking.Create)
	auth.GET("/bookings/my", c.Booking.My)
	auth.POST("/bookings/:id/complete", c.Booking.Complete)
	// Admin endpoints
	auth.GET("/bookings", c.Booking.ListAll)
	auth.PATCH("/bookings/:id/status", c.Booking.ChangeStatus)

	// Admin: fleet
	auth.POST("/admin/cars", c.Car.Create)
	auth.PATCH("/admin/cars/:id", c.Car.Update)
	auth.DELETE("/admin/cars/:id", c.Car.Delete)
	auth.POST("/admin/cars/:id/images", c.Car.UploadImage)
	auth.POST("/admin/cars/import", c.Car.Import)

	// Admin: users + dashboard
	auth.GET("/admin/users", c.Admin.Users)
	auth.PATCH("/admin/users/:id", c.Admin.UpdateUser)
	auth.DELETE("/admin/users/:id", c.Admin.DeleteUser)
	auth.GET("/admin/stats", c.Admin.Stats)
}
