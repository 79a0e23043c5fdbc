package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/repository"
	"github.com/talentvote/backend/internal/service"
)

type Controllers interface {
	Auth() AuthController
	Public() PublicController
	Admin() AdminController
	Stream() StreamController
	Info() InfoController

	Route(e *echo.Echo)
}

type controllers struct {
	authController   AuthController
	publicController PublicController
	adminController  AdminController
	streamController StreamController
	infoController   InfoController
	userRepository   repository.UserRepository
	config           dto.Config
}

func NewControllers(services service.Services, repositories repository.Repositories, config dto.Config) Controllers {
	return &controllers{
		authController:   newAuthController(services.Auth()),
		publicController: newPublicController(services.Vote()),
		adminController:  newAdminController(services.Admin(), config),
		streamController: newStreamController(services.Broker()),
		infoController:   newInfoController(),
		userRepository:   repositories.User(),
		config:           config,
	}
}

func (c controllers) Auth() AuthController {
	return c.authController
}

func (c controllers) Public() PublicController {
	return c.publicController
}

func (c controllers) Admin() AdminController {
	return c.adminController
}

func (c controllers) Stream() StreamController {
	return c.streamController
}

func (c controllers) Info() InfoController {
	return c.infoController
}

func (c controllers) Route(e *echo.Echo) {
	e.GET("/", c.infoController.Info)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static("/static", c.config.StaticDir)

	e.POST("/api/login", c.authController.Login)

	e.GET("/api/public/contestants", c.publicController.Contestants)
	e.POST("/api/public/vote", c.publicController.Vote)

	e.GET("/api/stream", c.streamController.Stream)

	admin := e.Group("/api/admin", RequireAdmin(c.userRepository))
	admin.POST("/load-initial-data", c.adminController.LoadInitialData)
	admin.POST("/contestants", c.adminController.AddContestant)
	admin.GET("/dashboard", c.adminController.Dashboard)
	admin.GET("/stats", c.adminController.Stats)
	admin.GET("/reports/top3", c.adminController.Top3)
	admin.GET("/reports/zeros", c.adminController.ZeroVotes)
	admin.POST("/reconcile", c.adminController.Reconcile)
}
