package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/service"
)

type AuthController interface {
	Login(c echo.Context) error
}

type authController struct {
	authService service.AuthService
}

func newAuthController(authService service.AuthService) AuthController {
	return &authController{
		authService: authService,
	}
}

func (a authController) Login(c echo.Context) error {
	var request dto.LoginRequest
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := a.authService.Login(request.Username)
	if err != nil {
		if errors.Is(err, dto.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "username is required")
		}
		logrus.Errorf("Login failed for %q: %v", request.Username, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		UserID:   user.Username,
		Username: user.Username,
		Role:     string(user.Role),
	})
}
