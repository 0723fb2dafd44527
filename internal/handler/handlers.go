package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizdeck/quizdeck-gateway/internal/gateway"
	"github.com/quizdeck/quizdeck-gateway/internal/response"
)

// pathID parses a numeric path parameter, responding with INVALID_ID on
// failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// failUpstream maps a gateway failure onto the response envelope. fallback
// is the domain code used for 4xx rejections, whose upstream detail text is
// surfaced to the user.
func failUpstream(c *gin.Context, err error, fallback response.ErrCode) {
	ge, ok := gateway.AsError(err)
	if !ok {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	switch {
	case ge.Transport():
		response.Fail(c, http.StatusBadGateway, response.ErrUpstreamUnavailable)
	case ge.StatusCode == http.StatusUnauthorized:
		// The upstream token expired or was revoked. No automatic refresh:
		// the user logs in again.
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionExpired)
	case ge.StatusCode == http.StatusForbidden:
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case ge.StatusCode == http.StatusNotFound:
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case ge.Validation():
		response.FailWithMessage(c, http.StatusBadRequest, fallback, ge.Message)
	default:
		response.Fail(c, http.StatusBadGateway, response.ErrUpstreamRejected)
	}
}
