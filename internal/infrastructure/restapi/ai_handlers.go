package restapi

import (
	"net/http"

	"defi_assistant/internal/app/port"
	"defi_assistant/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// AIHandler handles the conversational intent-extraction endpoint.
type AIHandler struct {
	intentService port.IntentService
	logger        port.Logger
}

// NewAIHandler creates a new instance of AIHandler.
func NewAIHandler(is port.IntentService, l port.Logger) *AIHandler {
	return &AIHandler{intentService: is, logger: l}
}

// ChatHandler handles POST /ai/chat: one conversational turn in, the reply
// plus the updated transaction record out. Extraction failures still answer
// 200 with status "error" so the conversation can continue.
func (h *AIHandler) ChatHandler(c *gin.Context) {
	var req entity.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	response := h.intentService.ProcessMessage(c.Request.Context(), req)
	c.JSON(http.StatusOK, response)
}
