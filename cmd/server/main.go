package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/talentvote/backend/internal/client"
	"github.com/talentvote/backend/internal/controller"
	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/repository"
	"github.com/talentvote/backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment")
	}
	cfg := dto.ConfigFromEnv()

	if err := os.MkdirAll(cfg.StaticDir, 0o755); err != nil {
		logrus.Panic(err)
	}

	clients := client.NewClients(cfg)
	defer clients.Close()

	repositories := repository.NewRepositories(clients.DB(), clients.Redis())
	services := service.NewServices(repositories, cfg)
	defer func() {
		if err := services.Broker().Close(); err != nil {
			logrus.Errorf("Error closing vote broker: %v", err)
		}
	}()

	controllers := controller.NewControllers(services, repositories, cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	controllers.Route(e)

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logrus.Panic(err)
		}
	}()
	logrus.Infof("Listening on %s", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logrus.Errorf("Error during shutdown: %v", err)
	}
}
