package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/kostenersatz/internal/service"
)

func (h *Handler) listTemplates(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	templates, err := h.templates.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": templates})
}

func (h *Handler) createTemplate(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req service.CreateTemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tpl, err := h.templates.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

func (h *Handler) updateTemplate(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "templateId")
	if !ok {
		return
	}

	var req service.UpdateTemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tpl, err := h.templates.Update(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *Handler) deleteTemplate(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "templateId")
	if !ok {
		return
	}

	if err := h.templates.Delete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
