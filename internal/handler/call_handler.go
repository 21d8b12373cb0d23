package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signal-service/internal/domain"
	"signal-service/internal/response"
	"signal-service/internal/service"
)

type CallHandler struct {
	callService service.CallService
	logger      *zap.Logger
}

func NewCallHandler(callService service.CallService, logger *zap.Logger) *CallHandler {
	return &CallHandler{
		callService: callService,
		logger:      logger,
	}
}

// StartCall godoc
// @Summary      Signal that a call has started in a conversation
// @Tags         calls
// @Accept       json
// @Produce      json
// @Param        request body domain.CallRequest true "Conversation and call type"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /calls/start [post]
func (h *CallHandler) StartCall(c *gin.Context) {
	var req domain.CallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeBadRequest, err.Error())
		return
	}
	if !req.Type.Valid() {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeBadRequest, "Unknown call type")
		return
	}

	if err := h.callService.StartCall(c.Request.Context(), &req); err != nil {
		h.logger.Error("failed to start call", zap.Error(err))
		response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to start call")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// EndCall godoc
// @Summary      Signal that a call has ended in a conversation
// @Description  Idempotent: ending an already-ended call succeeds and re-emits the event
// @Tags         calls
// @Accept       json
// @Produce      json
// @Param        request body domain.CallRequest true "Conversation and call type"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /calls/end [post]
func (h *CallHandler) EndCall(c *gin.Context) {
	var req domain.CallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeBadRequest, err.Error())
		return
	}
	if !req.Type.Valid() {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeBadRequest, "Unknown call type")
		return
	}

	if err := h.callService.EndCall(c.Request.Context(), &req); err != nil {
		h.logger.Error("failed to end call", zap.Error(err))
		response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Failed to end call")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
