package auditlog

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
// @Summary List audit log entries
// @Tags audit
// @Produce json
// @Param user_id query int false "Filter by user"
// @Param schedule_id query int false "Filter by schedule"
// @Param action query string false "Filter by action name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /audit-logs [get]
func (h *Handler) List(c *gin.Context) {
	var filter Filter

	if v := c.Query("user_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			uid := uint(id)
			filter.UserID = &uid
		}
	}
	if v := c.Query("schedule_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			sid := uint(id)
			filter.ScheduleID = &sid
		}
	}
	filter.Action = c.Query("action")
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))

	entries, total, err := h.service.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  entries,
		"total": total,
		"page":  filter.Page,
	})
}
