package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/psiconecta/booking-system/internal/core/authz"
)

// ctxActor extracts the actor injected by the Auth middleware and performs a
// fast-fail check before any service call: both claims must be present
// (presence proves the middleware ran).
func ctxActor(c echo.Context) (authz.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return authz.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return authz.Actor{ID: userID, Role: role}, nil
}
