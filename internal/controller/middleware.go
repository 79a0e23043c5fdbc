package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/model"
	"github.com/talentvote/backend/internal/repository"
)

const userIDHeader = "X-User-ID"

// RequireAdmin gates privileged routes on the caller's persisted role. The
// X-User-ID header carries the username established at login.
func RequireAdmin(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username := c.Request().Header.Get(userIDHeader)
			if username == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication header")
			}

			user, err := users.GetByUsername(username)
			if err != nil {
				if errors.Is(err, dto.ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
				}
				logrus.Errorf("Admin gate lookup failed for %s: %v", username, err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}

			if user.Role != model.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}

			c.Set(string(dto.UserContextKey), user)
			return next(c)
		}
	}
}
