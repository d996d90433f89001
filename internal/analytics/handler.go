package analytics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service      Service
	adminSiteURL string
}

func NewHandler(service Service, adminSiteURL string) *Handler {
	return &Handler{service: service, adminSiteURL: adminSiteURL}
}

// Query godoc
// @Summary Run an analytics query, optionally exported
// @Tags analytics
// @Produce json
// @Param denomination query string false "Denomination id"
// @Param family query string false "Census family"
// @Param state query string false "Two-letter state code"
// @Param county query string false "County name"
// @Param city query string false "City name"
// @Param status query string false "Transcription status"
// @Param has_clergy query bool false "Filter by clergy presence"
// @Param min_members query int false "Minimum total members"
// @Param max_members query int false "Maximum total members"
// @Param format query string false "html, csv, json, excel, or pdf" default(html)
// @Success 200 {object} map[string]interface{}
// @Router /analytics/query [get]
func (h *Handler) Query(c *gin.Context) {
	filter := QueryFilter{
		Denomination: c.Query("denomination"),
		Family:       c.Query("family"),
		State:        c.Query("state"),
		County:       c.Query("county"),
		City:         c.Query("city"),
		Status:       c.Query("status"),
	}
	if v := c.Query("has_clergy"); v != "" {
		has := v == "true" || v == "1"
		filter.HasClergy = &has
	}
	if v := c.Query("min_members"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MinMembers = &n
		}
	}
	if v := c.Query("max_members"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MaxMembers = &n
		}
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))

	rows, err := h.service.Query(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	format := c.DefaultQuery("format", "html")
	if format == "html" {
		c.JSON(http.StatusOK, gin.H{
			"data":  rows,
			"count": len(rows),
		})
		return
	}

	exporter := NewExporter(format, h.adminSiteURL)
	if exporter == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format: " + format})
		return
	}

	data, contentType, filename, err := exporter.Export(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

// Dashboard godoc
// @Summary Project status overview
// @Tags analytics
// @Produce json
// @Success 200 {object} Dashboard
// @Router /analytics/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// Completeness godoc
// @Summary Fill rates of the transcribed fields
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /analytics/completeness [get]
func (h *Handler) Completeness(c *gin.Context) {
	fields, err := h.service.Completeness()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute completeness"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": fields})
}
