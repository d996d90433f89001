package denomination

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// List godoc
// @Summary List denominations
// @Tags denominations
// @Produce json
// @Param family_census query string false "Filter by census family"
// @Param family_arda query string false "Filter by ARDA family"
// @Param search query string false "Search by name"
// @Success 200 {object} map[string]interface{}
// @Router /denominations [get]
func (h *Handler) List(c *gin.Context) {
	denominations, err := h.service.List(
		c.Query("family_census"),
		c.Query("family_arda"),
		c.Query("search"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch denominations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  denominations,
		"count": len(denominations),
	})
}

// Families godoc
// @Summary List distinct denomination families
// @Tags denominations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /denominations/families [get]
func (h *Handler) Families(c *gin.Context) {
	census, arda, err := h.service.Families()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch families"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"family_census": census,
		"family_arda":   arda,
	})
}

// ByFamily godoc
// @Summary List denominations grouped by census family
// @Tags denominations
// @Produce json
// @Success 200 {object} map[string][]Denomination
// @Router /denominations/by-family [get]
func (h *Handler) ByFamily(c *gin.Context) {
	grouped, err := h.service.GroupedByFamily()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch denominations"})
		return
	}

	c.JSON(http.StatusOK, grouped)
}
