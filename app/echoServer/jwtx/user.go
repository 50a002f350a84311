// app/echoServer/jwtx/user.go
package jwtx

import (
	"github.com/labstack/echo/v4"
)

// UserID returns the authenticated user id placed in the context by the
// claims middleware, 0 if absent.
func UserID(c echo.Context) int64 {
	id, _ := c.Get("user_id").(int64)
	return id
}

func IsAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}
