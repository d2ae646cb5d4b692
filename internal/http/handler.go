package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/kostenersatz/internal/http/middleware"
	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/service"
)

type Handler struct {
	rates        *service.RateService
	calculations *service.CalculationService
	vehicles     *service.VehicleService
	templates    *service.TemplateService
	log          zerolog.Logger
}

func NewHandler(
	rates *service.RateService,
	calculations *service.CalculationService,
	vehicles *service.VehicleService,
	templates *service.TemplateService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		rates:        rates,
		calculations: calculations,
		vehicles:     vehicles,
		templates:    templates,
		log:          log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/rates", h.listRates)
	protected.GET("/rate-versions", h.listRateVersions)
	protected.GET("/rate-versions/active", h.activeRateVersion)
	protected.POST("/admin/rate-versions", h.seedRateVersion)
	protected.POST("/admin/rate-versions/:versionId/activate", h.activateRateVersion)

	protected.GET("/vehicles", h.listVehicles)
	protected.POST("/vehicles", h.createVehicle)
	protected.PUT("/vehicles/order", h.reorderVehicles)
	protected.PUT("/vehicles/:vehicleId", h.updateVehicle)
	protected.DELETE("/vehicles/:vehicleId", h.deleteVehicle)

	protected.GET("/templates", h.listTemplates)
	protected.POST("/templates", h.createTemplate)
	protected.PUT("/templates/:templateId", h.updateTemplate)
	protected.DELETE("/templates/:templateId", h.deleteTemplate)

	calcs := protected.Group("/incidents/:incidentId/calculations")
	calcs.GET("", h.listCalculations)
	calcs.POST("", h.createCalculation)
	calcs.GET("/:calcId", h.getCalculation)
	calcs.PATCH("/:calcId", h.updateCalculation)
	calcs.DELETE("/:calcId", h.deleteCalculation)
	calcs.POST("/:calcId/vehicles/:vehicleId/toggle", h.toggleVehicle)
	calcs.POST("/:calcId/template/:templateId", h.applyTemplate)
	calcs.POST("/:calcId/complete", h.completeCalculation)
	calcs.POST("/:calcId/duplicate", h.duplicateCalculation)
	calcs.POST("/:calcId/send", h.sendCalculation)
	calcs.GET("/:calcId/pdf", h.calculationPDF)
	calcs.GET("/:calcId/xlsx", h.calculationExcel)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var persistErr *service.PersistenceError
	switch {
	case errors.As(err, &persistErr):
		h.log.Error().Err(err).Msg("calculation not persisted")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":       err.Error(),
			"calculation": persistErr.Calculation,
		})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRateNotFound), errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDispatchFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func principalOrAbort(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
	}
	return principal, ok
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// calculationParams reads the incident and calculation ids of the route.
func calculationParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	incidentID, ok := uuidParam(c, "incidentId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	calcID, ok := uuidParam(c, "calcId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return incidentID, calcID, true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

func sendFile(c *gin.Context, file *service.DocumentFile) {
	c.Header("Content-Disposition", "attachment; filename=\""+file.FileName+"\"")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
