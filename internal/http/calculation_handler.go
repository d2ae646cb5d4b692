package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/kostenersatz/internal/service"
)

type createCalculationRequest struct {
	DefaultStunden decimal.NullDecimal `json:"defaultStunden"`
	TemplateID     string              `json:"templateId"`
}

type sendCalculationRequest struct {
	To      []string `json:"to"`
	Cc      []string `json:"cc"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// bindOptionalJSON accepts an empty request body.
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) listCalculations(c *gin.Context) {
	incidentID, ok := uuidParam(c, "incidentId")
	if !ok {
		return
	}

	calcs, err := h.calculations.List(c.Request.Context(), incidentID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": calcs})
}

func (h *Handler) createCalculation(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	incidentID, ok := uuidParam(c, "incidentId")
	if !ok {
		return
	}

	var req createCalculationRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	input := service.CreateCalculationInput{
		IncidentID:     incidentID,
		DefaultStunden: req.DefaultStunden,
		Principal:      principal,
	}
	if raw := strings.TrimSpace(req.TemplateID); raw != "" {
		templateID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid templateId"})
			return
		}
		input.TemplateID = &templateID
	}

	detail, err := h.calculations.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *Handler) getCalculation(c *gin.Context) {
	incidentID, calcID, ok := calculationParams(c)
	if !ok {
		return
	}

	detail, err := h.calculations.Get(c.Request.Context(), incidentID, calcID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) updateCalculation(c *gin.Context) {
	incidentID, calcID, ok := calculationParams(c)
	if !ok {
		return
	}

	var patch service.CalculationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	calc, err := h.calculations.Update(c.Request.Context(), incidentID, calcID, patch)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, calc)
}

func (h *Handler) deleteCalculation(c *gin.Context) {
	incidentID, calcID, ok := calculationParams(c)
	if !ok {
		return
	}

	if err := h.calculations.Delete(c.Request.Context(), incidentID, calcID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) toggleVehicle(c *gin.Context) {
	incidentID, calcID, ok := calculationParams(c)
	if !ok {
		return
	}
	vehicleID, ok := uuidParam(c, "vehicleId")
	if !ok {
		return
	}

	calc, err := h.calculations.ToggleVehicle(c.Request.Context(), incidentID, calcID, vehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, calc)
}

func (h *Handler) applyTemplate(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	incidentID, calcID, ok := calculationParams(c)
	if !ok {
		return
	}
	templateID, ok := uuidParam(c, "templateId")
	if !ok {
		return
	}

	detail, err := h.calculations.ApplyTemplate(c.Request.Context(), principal, incidentID, calcID, templateID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) completeCalculation(c *gin.Context) {
	incidentID, calcID, ok := calculationParams(c)
	if !ok {
		return
	}

	calc, err := h.calculations.Complete(c.Request.Context(), incidentID, calcID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, calc)
}

func (h *Handler) duplicateCalculation(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	incidentID, calcID, ok := calculationParams(c)
	if !ok {
		return
	}

	calc, err := h.calculations.Duplicate(c.Request.Context(), principal, incidentID, calcID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, calc)
}

func (h *Handler) sendCalculation(c *gin.Context) {
	incidentID, calcID, ok := calculationParams(c)
	if !ok {
		return
	}

	var req sendCalculationRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.calculations.Send(c.Request.Context(), incidentID, calcID, service.SendInput{
		To:      req.To,
		Cc:      req.Cc,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) calculationPDF(c *gin.Context) {
	incidentID, calcID, ok := calculationParams(c)
	if !ok {
		return
	}

	file, err := h.calculations.RenderPDF(c.Request.Context(), incidentID, calcID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, file)
}

func (h *Handler) calculationExcel(c *gin.Context) {
	incidentID, calcID, ok := calculationParams(c)
	if !ok {
		return
	}

	file, err := h.calculations.ExportExcel(c.Request.Context(), incidentID, calcID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, file)
}
