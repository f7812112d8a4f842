package controller

import (
	"net/http"
	"strconv"

	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps apperr kinds onto HTTP statuses. Access-control
// failures deliberately share the 404 path with true not-founds.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindExternal:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(status, dto.ErrorResponse{Error: "internal server error", Details: apperr.MessageOf(err)})
		return
	}
	c.JSON(status, dto.ErrorResponse{Error: apperr.MessageOf(err)})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// Health godoc
// @Summary Liveness probe
// @Tags ops
// @Produce json
// @Success 200 {object} dto.OkResponse
// @Router /healthz [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.OkResponse{Ok: true})
}
