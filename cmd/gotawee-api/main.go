// README: Entry point; loads config, wires the trackers, resumes the current ride and serves the HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yksu0/GoTawee/internal/config"
	httptransport "github.com/yksu0/GoTawee/internal/http"
	"github.com/yksu0/GoTawee/internal/logging"
	"github.com/yksu0/GoTawee/internal/modules/location"
	"github.com/yksu0/GoTawee/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info").WithError(err).Fatal("load config")
	}
	logger := logging.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := service.New(ctx, cfg, logger, service.Options{})
	if err != nil {
		logger.WithError(err).Fatal("build app")
	}
	defer app.Close()

	app.Rides.Resume(ctx)

	gin.SetMode(gin.ReleaseMode)
	handler := httptransport.NewServer(httptransport.ServerDeps{
		Rides:    app.Rides,
		Orders:   app.Orders,
		Pricing:  app.Pricing,
		Geocoder: app.Geocoder,
		Locator:  location.StaticLocator{Point: location.DefaultBase},
		Hub:      app.Hub,
		Logger:   logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("shutdown")
		}
	}()

	logger.WithFields(logrus.Fields{"addr": cfg.HTTP.Addr, "store": cfg.Store.Backend}).Info("listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("serve")
	}
	logger.Info("stopped")
}
