package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"photoline/internal/services"
	"photoline/internal/transport/httpdto"
	photoline_errors "photoline/pkg/errors"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	service       *services.SubmissionService
	imageCacheSec int
}

func NewSubmissionHandler(service *services.SubmissionService, imageCacheSec int) *SubmissionHandler {
	return &SubmissionHandler{service: service, imageCacheSec: imageCacheSec}
}

func (h *SubmissionHandler) ListPending(c *gin.Context) {
	items, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"submissions": items}))
}

func (h *SubmissionHandler) ListApproved(c *gin.Context) {
	items, err := h.service.ListApproved(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"submissions": items}))
}

// GetImage serves the raw stored image. Content is immutable once created,
// so responses carry a long public cache lifetime. Discarded submissions are
// served as 404.
func (h *SubmissionHandler) GetImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid submission id", "INVALID_REQUEST"))
		return
	}

	img, err := h.service.GetImage(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, photoline_errors.ErrNotFound) {
			c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("not found", "NOT_FOUND"))
			return
		}
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", h.imageCacheSec))
	c.Data(http.StatusOK, img.MimeType, img.Data)
}

func (h *SubmissionHandler) Approve(c *gin.Context) {
	h.transition(c, h.service.Approve)
}

func (h *SubmissionHandler) Discard(c *gin.Context) {
	h.transition(c, h.service.Discard)
}

func (h *SubmissionHandler) transition(c *gin.Context, op func(ctx context.Context, id int64) error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid submission id", "INVALID_REQUEST"))
		return
	}
	if err := op(c.Request.Context(), id); err != nil {
		if errors.Is(err, photoline_errors.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, httpdto.NewErrorResponse("submission already moderated or missing", "CONFLICT"))
			return
		}
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}
