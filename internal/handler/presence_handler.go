package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"signal-service/internal/domain"
	"signal-service/internal/response"
	"signal-service/internal/service"
)

type PresenceHandler struct {
	presenceService service.PresenceService
	logger          *zap.Logger
}

func NewPresenceHandler(presenceService service.PresenceService, logger *zap.Logger) *PresenceHandler {
	return &PresenceHandler{
		presenceService: presenceService,
		logger:          logger,
	}
}

// UpdateStatus godoc
// @Summary      Update the caller's presence status
// @Tags         presence
// @Accept       json
// @Produce      json
// @Param        request body domain.UpdateStatusRequest true "New status"
// @Success      200 {object} domain.UserPresence
// @Failure      400 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /presence/status [put]
func (h *PresenceHandler) UpdateStatus(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeBadRequest, err.Error())
		return
	}
	if !req.Status.Valid() {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeBadRequest, "Unknown presence status")
		return
	}

	presence, err := h.presenceService.SetStatus(c.Request.Context(), userID, &req)
	if err != nil {
		h.logger.Error("failed to update status", zap.Error(err))
		response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to update status")
		return
	}

	response.SendSuccess(c, http.StatusOK, presence)
}

// GetStatus godoc
// @Summary      Get a user's presence status
// @Tags         presence
// @Produce      json
// @Param        userId path string true "User ID"
// @Success      200 {object} domain.UserPresence
// @Failure      404 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /presence/status/{userId} [get]
func (h *PresenceHandler) GetStatus(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeBadRequest, "Invalid user ID")
		return
	}

	presence, err := h.presenceService.GetStatus(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "User presence not found")
			return
		}
		h.logger.Error("failed to get status", zap.Error(err))
		response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to get status")
		return
	}

	response.SendSuccess(c, http.StatusOK, presence)
}
