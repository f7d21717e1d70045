package handler

import (
	"net/http"

	"photoline/internal/services"
	"photoline/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type MetadataHandler struct {
	service *services.MetadataService
}

func NewMetadataHandler(service *services.MetadataService) *MetadataHandler {
	return &MetadataHandler{service: service}
}

func (h *MetadataHandler) ListNumbers(c *gin.Context) {
	numbers, err := h.service.IncomingPhoneNumbers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse(err.Error(), "REQUEST_FAILED"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"numbers": numbers}))
}
