package handler

import (
	"net/http"

	"photoline/internal/services"
	"photoline/internal/transport/httpdto"
	"photoline/internal/twilio"
	"photoline/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TwilioHandler terminates the inbound MMS webhook.
type TwilioHandler struct {
	validator *twilio.RequestValidator
	ingest    *services.IngestService
	logger    *logger.Logger
}

func NewTwilioHandler(validator *twilio.RequestValidator, ingest *services.IngestService, l *logger.Logger) *TwilioHandler {
	return &TwilioHandler{validator: validator, ingest: ingest, logger: l}
}

// ReceiveMMS handles POST /v1/twilio/mms.
//
// 403 on a bad signature, 202 for non-media messages (an accepted-looking
// response keeps the provider from retrying or alerting), 200 on full
// ingestion, 400 on policy or fetch failure.
func (h *TwilioHandler) ReceiveMMS(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid form", "INVALID_REQUEST"))
		return
	}

	if !h.validator.ValidateRequest(c.Request) {
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
		return
	}

	fields := make(map[string]string, len(c.Request.PostForm))
	for k, vals := range c.Request.PostForm {
		if len(vals) > 0 {
			fields[k] = vals[0]
		}
	}

	result, err := h.ingest.HandleInbound(c.Request.Context(), fields)
	if err != nil {
		h.logger.Errorf("ingest inbound message: %s", err)
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}

	if result.Outcome == services.OutcomeIgnored {
		c.JSON(http.StatusAccepted, httpdto.NewSuccessResponse[any](nil))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.IngestResponse{
		Created: len(result.Submissions),
	}))
}
