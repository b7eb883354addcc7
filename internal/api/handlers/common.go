package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"

	"github.com/coldbrew-labs/franchise-inventory/internal/api/middleware"
	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// actorFrom returns the Actor placed in the context by the middleware. The
// routes are registered behind it, so absence is a programming error.
func actorFrom(c *gin.Context) domain.Actor {
	v, _ := c.Get(middleware.ActorKey)
	actor, _ := v.(domain.Actor)
	return actor
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func companyIDFrom(c *gin.Context) (int64, bool) {
	return pathID(c, "id")
}

// respondError maps the domain error taxonomy onto HTTP statuses. Internal
// failures get a correlation id so the log line can be found from the client
// report without leaking the error text.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case domain.IsConflict(err), errors.Is(err, domain.ErrIntegrity):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "operation timed out"})
	default:
		id := correlationID()
		log.Error().Err(err).Str("correlation_id", id).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "correlation_id": id})
	}
}

func correlationID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func parseDateQuery(c *gin.Context, name string) (domain.DateKey, bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return domain.DateKey{}, false, true
	}
	date, err := domain.ParseDateKey(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be YYYY-MM-DD"})
		return domain.DateKey{}, false, false
	}
	return date, true, true
}
