package httpapi

import (
	"net/http"

	"github.com/aqsa08/training-mvp-backend/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	emptyTwiML = "<Response></Response>"
	ackTwiML   = "<Response><Message>Thanks for your reflection. Keep going - one day at a time.</Message></Response>"
)

type InboundHandler struct {
	reflectionService *app.ReflectionService
	logger            *logrus.Logger
}

func NewInboundHandler(rs *app.ReflectionService, logger *logrus.Logger) *InboundHandler {
	return &InboundHandler{reflectionService: rs, logger: logger}
}

// Inbound handles POST /twilio/inbound. The gateway posts form-encoded
// From/Body pairs and expects a 200 TwiML response in every case; an error
// status would make it retry and spam the learner.
func (h *InboundHandler) Inbound(c *gin.Context) {
	from := c.PostForm("From")
	body := c.PostForm("Body")

	recorded, err := h.reflectionService.ProcessInbound(c.Request.Context(), from, body)
	if err != nil {
		h.logger.Errorf("Failed to process inbound message: %v", err)
		c.Data(http.StatusOK, "text/xml", []byte(emptyTwiML))
		return
	}
	if !recorded {
		c.Data(http.StatusOK, "text/xml", []byte(emptyTwiML))
		return
	}

	c.Data(http.StatusOK, "text/xml", []byte(ackTwiML))
}
