package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/service"
)

type AdminController interface {
	LoadInitialData(c echo.Context) error
	AddContestant(c echo.Context) error
	Dashboard(c echo.Context) error
	Stats(c echo.Context) error
	Top3(c echo.Context) error
	ZeroVotes(c echo.Context) error
	Reconcile(c echo.Context) error
}

type adminController struct {
	adminService service.AdminService
	config       dto.Config
}

func newAdminController(adminService service.AdminService, config dto.Config) AdminController {
	return &adminController{
		adminService: adminService,
		config:       config,
	}
}

// LoadInitialData replaces the whole contest from a JSON array of entrant
// descriptors, either uploaded as a "file" form field or sent as the request
// body.
func (a adminController) LoadInitialData(c echo.Context) error {
	payload, err := descriptorPayload(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read entrant data")
	}

	var descriptors []dto.EntrantDescriptor
	if err := json.Unmarshal(payload, &descriptors); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
	}

	count, err := a.adminService.Reinitialize(c.Request().Context(), descriptors)
	if err != nil {
		logrus.Errorf("Reinitialization failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("database initialized with %d contestants", count),
		"count":   count,
	})
}

func descriptorPayload(c echo.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return io.ReadAll(src)
	}

	return io.ReadAll(c.Request().Body)
}

// AddContestant creates one entrant from a multipart form. The photo is
// stored under the static directory; only its filename is persisted.
func (a adminController) AddContestant(c echo.Context) error {
	name := c.FormValue("name")
	if name == "" {
		name = c.FormValue("nombre")
	}
	category := c.FormValue("category")
	if category == "" {
		category = c.FormValue("categoria")
	}
	if name == "" || category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and category are required")
	}

	photo := ""
	if file, err := c.FormFile("file"); err == nil {
		if err := a.savePhoto(file.Filename, file); err != nil {
			logrus.Errorf("Saving photo %s failed: %v", file.Filename, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "could not store photo")
		}
		photo = file.Filename
	}

	entrant, err := a.adminService.AddEntrant(c.Request().Context(), name, category, photo)
	if err != nil {
		if errors.Is(err, dto.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "name and category are required")
		}
		logrus.Errorf("Adding contestant failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "contestant added",
		"id":      entrant.ID,
		"photo":   entrant.Photo,
	})
}

func (a adminController) savePhoto(filename string, file *multipart.FileHeader) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(a.config.StaticDir, 0o755); err != nil {
		return err
	}

	dst, err := os.Create(filepath.Join(a.config.StaticDir, filepath.Base(filename)))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (a adminController) Dashboard(c echo.Context) error {
	views, err := a.adminService.Dashboard(c.Request().Context())
	if err != nil {
		logrus.Errorf("Dashboard failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, views)
}

func (a adminController) Stats(c echo.Context) error {
	stats, err := a.adminService.SystemStats(c.Request().Context())
	if err != nil {
		logrus.Errorf("System stats failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, stats)
}

func (a adminController) Top3(c echo.Context) error {
	views, err := a.adminService.Top3(c.Request().Context())
	if err != nil {
		logrus.Errorf("Top3 report failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, views)
}

func (a adminController) ZeroVotes(c echo.Context) error {
	views, err := a.adminService.ZeroVoteEntrants(c.Request().Context())
	if err != nil {
		logrus.Errorf("Zero-vote report failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, views)
}

func (a adminController) Reconcile(c echo.Context) error {
	if err := a.adminService.Reconcile(c.Request().Context()); err != nil {
		logrus.Errorf("Reconciliation failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "counters reconciled from ledger",
	})
}
