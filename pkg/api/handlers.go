package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rental-booking/pkg/catalog"
	"rental-booking/pkg/logging"
	"rental-booking/pkg/middleware"
	"rental-booking/pkg/models"
	"rental-booking/pkg/services"
	"rental-booking/pkg/wizard"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	booking *services.BookingService
	catalog *catalog.Catalog
}

// NewHandlers creates a new Handlers instance
func NewHandlers(booking *services.BookingService) *Handlers {
	return &Handlers{
		booking: booking,
		catalog: booking.Catalog(),
	}
}

// RegisterRoutes mounts the API on router
func (h *Handlers) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	api.GET("/countries", h.ListCountries)
	api.GET("/countries/:code/stations", h.ListStations)
	api.GET("/vehicles", h.ListVehicles)
	api.GET("/options", h.ListOptions)

	sessions := api.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("/:id", h.GetSession)
	sessions.PATCH("/:id", h.UpdateSession)
	sessions.DELETE("/:id", h.DeleteSession)
	sessions.PUT("/:id/vehicle", h.SelectVehicle)
	sessions.DELETE("/:id/vehicle", h.ClearVehicle)
	sessions.POST("/:id/next", h.Next)
	sessions.POST("/:id/back", h.Back)
	sessions.POST("/:id/submit", h.Submit)
	sessions.POST("/:id/reset", h.Reset)
}

// RegisterMetrics exposes the prometheus collectors, behind basic auth when
// credentials are set
func RegisterMetrics(router gin.IRouter, username, password string) {
	router.GET("/metrics", middleware.MetricsAuth(username, password), gin.WrapH(promhttp.Handler()))
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ListCountries returns the country selector entries
func (h *Handlers) ListCountries(c *gin.Context) {
	countries := h.catalog.Countries()
	views := make([]CountryView, 0, len(countries))
	for _, country := range countries {
		views = append(views, CountryView{Code: country.Code, Name: country.Name})
	}
	c.JSON(http.StatusOK, views)
}

// ListStations returns the stations of a country. Unknown countries have
// no stations.
func (h *Handlers) ListStations(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.StationOptions(c.Param("code")))
}

// ListVehicles returns the vehicle catalog
func (h *Handlers) ListVehicles(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Vehicles())
}

// ListOptions returns the time and age choices
func (h *Handlers) ListOptions(c *gin.Context) {
	c.JSON(http.StatusOK, OptionsView{
		Times: catalog.TimeOptions(),
		Ages:  catalog.AgeOptions(),
	})
}

// CreateSession opens a booking. The body is an optional prefill.
func (h *Handlers) CreateSession(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logging.Warn("Error reading request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading request"})
		return
	}

	var prefill *models.FormUpdate
	if len(body) > 0 {
		var u models.FormUpdate
		if err := binding.JSON.BindBody(body, &u); err != nil {
			writeBindError(c, err)
			return
		}
		prefill = &u
	}

	id, state, err := h.booking.Create(c.Request.Context(), prefill)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionView(id, state, h.catalog))
}

// GetSession returns the current session view
func (h *Handlers) GetSession(c *gin.Context) {
	id := c.Param("id")
	state, err := h.booking.Get(id)
	h.respond(c, id, state, err)
}

// UpdateSession applies a partial form update
func (h *Handlers) UpdateSession(c *gin.Context) {
	var u models.FormUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		writeBindError(c, err)
		return
	}

	id := c.Param("id")
	state, err := h.booking.Update(c.Request.Context(), id, u)
	h.respond(c, id, state, err)
}

// DeleteSession discards a session
func (h *Handlers) DeleteSession(c *gin.Context) {
	h.booking.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// SelectVehicle selects a vehicle by name
func (h *Handlers) SelectVehicle(c *gin.Context) {
	var req SelectVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	id := c.Param("id")
	state, err := h.booking.SelectVehicle(c.Request.Context(), id, req.Name)
	h.respond(c, id, state, err)
}

// ClearVehicle unsets the vehicle
func (h *Handlers) ClearVehicle(c *gin.Context) {
	id := c.Param("id")
	state, err := h.booking.ClearVehicle(c.Request.Context(), id)
	h.respond(c, id, state, err)
}

// Next moves forward when the current step allows it
func (h *Handlers) Next(c *gin.Context) {
	id := c.Param("id")
	state, err := h.booking.Next(c.Request.Context(), id)
	h.respond(c, id, state, err)
}

// Back moves one step back
func (h *Handlers) Back(c *gin.Context) {
	id := c.Param("id")
	state, err := h.booking.Back(c.Request.Context(), id)
	h.respond(c, id, state, err)
}

// Submit builds the WhatsApp link. The client opens it.
func (h *Handlers) Submit(c *gin.Context) {
	id := c.Param("id")
	res, err := h.booking.Submit(c.Request.Context(), id, c.Request.UserAgent(), services.ClientOpener)

	if errors.Is(err, services.ErrLinkFailed) {
		c.JSON(http.StatusInternalServerError, SubmitResponse{
			Session: newSessionView(id, res.State, h.catalog),
			Notice:  res.Notice,
		})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubmitResponse{
		Session: newSessionView(id, res.State, h.catalog),
		Link:    res.Link,
		Notice:  res.Notice,
	})
}

// Reset starts a new request from the submitted screen
func (h *Handlers) Reset(c *gin.Context) {
	id := c.Param("id")
	state, err := h.booking.Reset(c.Request.Context(), id)
	h.respond(c, id, state, err)
}

func (h *Handlers) respond(c *gin.Context, id string, state wizard.State, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(id, state, h.catalog))
}

// statusFor maps service errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrInvalidAge),
		errors.Is(err, wizard.ErrInvalidTime),
		errors.Is(err, wizard.ErrInvalidDate),
		errors.Is(err, wizard.ErrInvalidRange),
		errors.Is(err, services.ErrUnknownVehicle):
		return http.StatusUnprocessableEntity
	case errors.Is(err, wizard.ErrSubmitted),
		errors.Is(err, wizard.ErrNotAtContact),
		errors.Is(err, wizard.ErrIncomplete),
		errors.Is(err, wizard.ErrSubmitInFlight):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error("Error handling request", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// writeBindError answers 422 for bodies that fail validation and 400 for
// bodies that cannot be decoded
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid field values", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
}
