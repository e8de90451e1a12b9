package server

import (
	"errors"
	"net/http"
	"strconv"

	"milk-admin/src/helpers"
	"milk-admin/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// queryDate reads ?date=YYYY-MM-DD. A missing date is the zero Date, which the
// services treat as today.
func queryDate(c *gin.Context) (models.Date, bool) {
	raw := c.Query("date")
	if raw == "" {
		return models.Date{}, true
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		badRequest(c, "Invalid date, expected YYYY-MM-DD")
		return models.Date{}, false
	}
	return d, true
}

func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// -----------------------------------------------------------------------------

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg, "kind": helpers.KindValidation.String()})
}

func respond(c *gin.Context, status int, body interface{}, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, body)
}

func respondNoContent(c *gin.Context, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError renders {"error": <user message>, "kind": <kind>}. A blocked
// milk collection also carries the cow details.
func writeError(c *gin.Context, err error) {
	kind := helpers.KindOf(err)
	body := gin.H{"error": helpers.UserMessage(err), "kind": kind.String()}

	var blocked *helpers.MilkCollectionBlockedError
	if errors.As(err, &blocked) {
		details := gin.H{
			"cowId":        blocked.CowID,
			"cowName":      blocked.CowName,
			"healthStatus": blocked.HealthStatus,
			"suggestions":  blocked.Suggestions,
		}
		if blocked.BlockedUntil != nil {
			details["blockedUntil"] = blocked.BlockedUntil.Format("2006-01-02T15:04:05")
		}
		body["blocked"] = details
	}

	c.AbortWithStatusJSON(statusFor(kind), body)
}

func statusFor(kind helpers.ErrorKind) int {
	switch kind {
	case helpers.KindValidation, helpers.KindBadRequest:
		return http.StatusBadRequest
	case helpers.KindMilkCollectionBlocked:
		return http.StatusConflict
	case helpers.KindNotFound:
		return http.StatusNotFound
	case helpers.KindUnauthorized, helpers.KindNetwork, helpers.KindServer, helpers.KindDecode:
		return http.StatusBadGateway
	case helpers.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
