// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/yksu0/GoTawee/internal/http/handlers"
	"github.com/yksu0/GoTawee/internal/http/middleware"
	"github.com/yksu0/GoTawee/internal/modules/location"
	"github.com/yksu0/GoTawee/internal/modules/order"
	"github.com/yksu0/GoTawee/internal/modules/pricing"
	"github.com/yksu0/GoTawee/internal/modules/ride"
	"github.com/yksu0/GoTawee/internal/tracking"
)

type ServerDeps struct {
	Rides    *ride.Tracker
	Orders   *order.Tracker
	Pricing  *pricing.Service
	Geocoder *location.Geocoder
	Locator  location.Locator
	Hub      *tracking.Hub
	Logger   *logrus.Logger
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Server{deps: deps}
}

func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(s.deps.Logger), middleware.Logging(s.deps.Logger), middleware.Metrics())

	api := r.Group("/api")

	rideHandler := handlers.NewRideHandler(s.deps.Rides)
	api.POST("/rides", rideHandler.Book)
	api.GET("/rides/current", rideHandler.Current)
	api.POST("/rides/current/advance", rideHandler.Advance)
	api.POST("/rides/current/cancel", rideHandler.Cancel)

	fareHandler := handlers.NewFareHandler(s.deps.Pricing)
	api.GET("/fares/quote", fareHandler.Quote)

	orderHandler := handlers.NewOrderHandler(s.deps.Orders)
	api.GET("/orders/current", orderHandler.Current)
	api.POST("/orders/current/jump", orderHandler.Jump)
	api.POST("/orders/current/advance", orderHandler.Advance)

	locationHandler := handlers.NewLocationHandler(s.deps.Geocoder, s.deps.Locator)
	api.GET("/places/saved/:name", locationHandler.Saved)
	api.GET("/places/geocode", locationHandler.Geocode)
	api.GET("/places/reverse", locationHandler.Reverse)
	api.GET("/places/current", locationHandler.Current)

	if s.deps.Hub != nil {
		r.GET("/ws/rides/current", gin.WrapF(s.deps.Hub.HandleWS))
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
