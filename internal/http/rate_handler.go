package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/kostenersatz/internal/model"
	"github.com/nurpe/kostenersatz/internal/service"
)

type seedRateVersionRequest struct {
	ID        string       `json:"id" binding:"required"`
	Name      string       `json:"name"`
	ValidFrom string       `json:"validFrom" binding:"required"`
	Activate  bool         `json:"activate"`
	Rates     []model.Rate `json:"rates"`
}

func (h *Handler) listRates(c *gin.Context) {
	version := strings.TrimSpace(c.Query("version"))
	if version == "" {
		active, err := h.rates.ActiveVersionID(c.Request.Context())
		if err != nil {
			h.handleError(c, err)
			return
		}
		version = active
	}

	rates, err := h.rates.Rates(c.Request.Context(), version)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": version, "rates": rates})
}

func (h *Handler) listRateVersions(c *gin.Context) {
	versions, err := h.rates.ListVersions(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": versions})
}

func (h *Handler) activeRateVersion(c *gin.Context) {
	version, err := h.rates.ActiveVersion(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}

func (h *Handler) seedRateVersion(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req seedRateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	validFrom, err := parseDate(req.ValidFrom)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid validFrom"})
		return
	}

	result, err := h.rates.Seed(c.Request.Context(), service.SeedInput{
		Version: model.RateVersion{
			ID:        req.ID,
			Name:      req.Name,
			ValidFrom: validFrom,
		},
		Rates:     req.Rates,
		Activate:  req.Activate,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) activateRateVersion(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	version, err := h.rates.Activate(c.Request.Context(), principal, c.Param("versionId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, version)
}
