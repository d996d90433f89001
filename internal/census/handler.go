package census

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chnm/relcensus-backend/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// actorFromContext rebuilds the acting user from the claims set by the JWT
// middleware. Returns nil on public routes.
func actorFromContext(c *gin.Context) *auth.User {
	userID, ok := c.Get("user_id")
	if !ok {
		return nil
	}
	id, ok := userID.(uint)
	if !ok {
		return nil
	}

	user := &auth.User{ID: id}
	if email, ok := c.Get("user_email"); ok {
		user.Email, _ = email.(string)
	}
	if roleName, ok := c.Get("role_name"); ok {
		name, _ := roleName.(string)
		user.Role = auth.UserRole{RoleName: name}
	}
	return user
}

// ListSchedules godoc
// @Summary Browse census schedules
// @Tags schedules
// @Produce json
// @Param search query string false "Search resource id, title, or body name"
// @Param denomination query string false "Denomination id"
// @Param family query string false "Census family"
// @Param state query string false "Two-letter state code"
// @Param status query string false "Transcription status"
// @Param has_image query bool false "Filter by image presence"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /schedules [get]
func (h *Handler) ListSchedules(c *gin.Context) {
	filter := ScheduleFilter{
		Search:       c.Query("search"),
		Denomination: c.Query("denomination"),
		Family:       c.Query("family"),
		State:        c.Query("state"),
		Status:       c.Query("status"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "25"))

	if v := c.Query("has_image"); v != "" {
		hasImage := v == "true" || v == "1"
		filter.HasImage = &hasImage
	}

	schedules, total, err := h.service.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch schedules"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  schedules,
		"total": total,
		"page":  filter.Page,
	})
}

// GetSchedule godoc
// @Summary Get one schedule with all transcribed data
// @Tags schedules
// @Produce json
// @Param resourceID path string true "Resource ID"
// @Success 200 {object} CensusSchedule
// @Failure 404 {object} map[string]string
// @Router /schedules/{resourceID} [get]
func (h *Handler) GetSchedule(c *gin.Context) {
	schedule, err := h.service.GetByResourceID(c.Param("resourceID"))
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch schedule"})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus godoc
// @Summary Set a schedule's transcription status
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param request body statusRequest true "New status"
// @Success 200 {object} CensusSchedule
// @Failure 400 {object} map[string]string
// @Router /schedules/{id}/status [patch]
func (h *Handler) SetStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.service.SetStatus(uint(id), req.Status, actorFromContext(c), c.ClientIP())
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

type bulkStatusRequest struct {
	ScheduleIDs []uint `json:"schedule_ids" binding:"required,min=1"`
	Status      string `json:"status" binding:"required"`
}

// BulkSetStatus godoc
// @Summary Set one transcription status on many schedules
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body bulkStatusRequest true "Schedule ids and status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /schedules/bulk-status [patch]
func (h *Handler) BulkSetStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.BulkSetStatus(req.ScheduleIDs, req.Status, actorFromContext(c), c.ClientIP())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updated":   updated,
		"requested": len(req.ScheduleIDs),
	})
}

type updateScheduleRequest struct {
	ScheduleTitle      *string `json:"schedule_title"`
	BoxNumber          *string `json:"box_number"`
	Notes              *string `json:"notes"`
	TranscriptionNotes *string `json:"transcription_notes"`
}

// UpdateSchedule godoc
// @Summary Save edits to a schedule
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param request body updateScheduleRequest true "Editable fields"
// @Success 200 {object} CensusSchedule
// @Failure 404 {object} map[string]string
// @Router /schedules/{id} [put]
func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}

	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.service.GetByID(uint(id))
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch schedule"})
		return
	}

	if req.ScheduleTitle != nil {
		schedule.ScheduleTitle = *req.ScheduleTitle
	}
	if req.BoxNumber != nil {
		schedule.BoxNumber = *req.BoxNumber
	}
	if req.Notes != nil {
		schedule.Notes = *req.Notes
	}
	if req.TranscriptionNotes != nil {
		schedule.TranscriptionNotes = *req.TranscriptionNotes
	}

	if err := h.service.SaveAsActor(schedule, actorFromContext(c), c.ClientIP()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save schedule"})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

type assignRequest struct {
	TranscriberID *uint `json:"transcriber_id"`
	ReviewerID    *uint `json:"reviewer_id"`
}

// Assign godoc
// @Summary Assign a transcriber and/or reviewer to a schedule
// @Tags schedules
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param request body assignRequest true "Assignment"
// @Success 200 {object} CensusSchedule
// @Failure 400 {object} map[string]string
// @Router /schedules/{id}/assign [patch]
func (h *Handler) Assign(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TranscriberID == nil && req.ReviewerID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transcriber_id or reviewer_id is required"})
		return
	}

	schedule, err := h.service.Assign(uint(id), req.TranscriberID, req.ReviewerID, actorFromContext(c), c.ClientIP())
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign schedule"})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// ListBodies godoc
// @Summary Browse religious bodies
// @Tags religious-bodies
// @Produce json
// @Param family_census query string false "Census family"
// @Param denomination query string false "Denomination id"
// @Param search query string false "Search by name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /religious-bodies [get]
func (h *Handler) ListBodies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "25"))

	bodies, total, err := h.service.ListBodies(
		c.Query("family_census"),
		c.Query("denomination"),
		c.Query("search"),
		page, pageSize,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch religious bodies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  bodies,
		"total": total,
		"page":  page,
	})
}

// GetBody godoc
// @Summary Get one religious body
// @Tags religious-bodies
// @Produce json
// @Param id path int true "Religious body ID"
// @Success 200 {object} ReligiousBody
// @Failure 404 {object} map[string]string
// @Router /religious-bodies/{id} [get]
func (h *Handler) GetBody(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	body, err := h.service.GetBody(uint(id))
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "religious body not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch religious body"})
		return
	}

	c.JSON(http.StatusOK, body)
}

// MapData godoc
// @Summary Map markers for religious bodies with coordinates
// @Tags religious-bodies
// @Produce json
// @Param family_census query string false "Census family"
// @Param denomination query string false "Denomination id"
// @Param bounds query string false "south,west,north,east"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /religious-bodies/map-data [get]
func (h *Handler) MapData(c *gin.Context) {
	filter := MapFilter{
		FamilyCensus: c.Query("family_census"),
		Denomination: c.Query("denomination"),
	}

	if boundsParam := c.Query("bounds"); boundsParam != "" {
		parts := strings.Split(boundsParam, ",")
		if len(parts) != 4 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bounds must be south,west,north,east"})
			return
		}
		var bounds [4]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "bounds must be numeric"})
				return
			}
			bounds[i] = v
		}
		filter.Bounds = &bounds
	}

	markers, err := h.service.MapData(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch map data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"markers": markers,
		"count":   len(markers),
	})
}
