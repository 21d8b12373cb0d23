package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signal-service/internal/domain"
	"signal-service/internal/response"
	"signal-service/internal/service"
)

type MemberHandler struct {
	memberService service.MemberService
	logger        *zap.Logger
}

func NewMemberHandler(memberService service.MemberService, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		logger:        logger,
	}
}

// TriggerPoll godoc
// @Summary      Broadcast a membership-changed signal
// @Description  Marks the members channel so polling clients re-fetch their membership data
// @Tags         members
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{}
// @Failure      405 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /members/poll [post]
func (h *MemberHandler) TriggerPoll(c *gin.Context) {
	h.memberService.NotifyChanged(c.Request.Context(), domain.MembersChannel)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Membership poll triggered",
	})
}

// PollChanged godoc
// @Summary      Poll for a pending membership-changed signal
// @Description  Returns and clears the pending flag for the members channel
// @Tags         members
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /members/changed [get]
func (h *MemberHandler) PollChanged(c *gin.Context) {
	changed := h.memberService.ConsumeChanged(domain.MembersChannel)

	response.SendSuccess(c, http.StatusOK, gin.H{"changed": changed})
}
