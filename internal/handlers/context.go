package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
)

// actor returns the authenticated professional and location set by
// middleware.AuthMiddleware. Private routes are always behind it.
func actor(c *gin.Context) (professionalID, locationID uint) {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		panic("handlers: private route without auth scope")
	}
	return scope.ProfessionalID, scope.LocationID
}

// optionalInt parses an integer query parameter; missing means 0.
func optionalInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
