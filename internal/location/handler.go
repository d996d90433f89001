package location

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// List godoc
// @Summary List locations
// @Tags locations
// @Produce json
// @Param state query string false "Two-letter state code or full name"
// @Param county query string false "County name"
// @Param search query string false "Search city or map name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /locations [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "100"))

	locations, total, err := h.service.List(
		c.Query("state"),
		c.Query("county"),
		c.Query("search"),
		page, pageSize,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch locations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  locations,
		"total": total,
		"page":  page,
	})
}

// States godoc
// @Summary List states that have locations
// @Tags locations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /locations/states [get]
func (h *Handler) States(c *gin.Context) {
	codes, err := h.service.States()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch states"})
		return
	}

	states := make([]gin.H, 0, len(codes))
	for _, code := range codes {
		states = append(states, gin.H{"code": code, "name": StateName(code)})
	}

	c.JSON(http.StatusOK, gin.H{"states": states})
}
