package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
)

// ContextScope holds the Scope of an authenticated request.
const ContextScope = "authScope"

// Scope is who is calling and which location every private query is
// confined to. Both come from the token, never from the request.
type Scope struct {
	ProfessionalID uint
	LocationID     uint
	Role           string
}

var errInvalidScope = errors.New("token carries no professional or location")

// ScopeFrom returns the scope set by AuthMiddleware.
func ScopeFrom(c *gin.Context) (Scope, bool) {
	v, ok := c.Get(ContextScope)
	if !ok {
		return Scope{}, false
	}
	s, ok := v.(Scope)
	return s, ok
}

// AuthMiddleware accepts HS256 bearer tokens whose "sub" is the
// professional id and whose "locationId" is the location they work at.
// Tokens are issued elsewhere.
func AuthMiddleware(secret string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	key := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			httperr.Unauthorized(c, "missing_authorization_header", "Autenticação necessária.")
			c.Abort()
			return
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, key); err != nil {
			httperr.Unauthorized(c, "invalid_token", "Token inválido ou expirado.")
			c.Abort()
			return
		}

		scope, err := scopeFromClaims(claims)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token_payload", "Token sem profissional ou local.")
			c.Abort()
			return
		}

		c.Set(ContextScope, scope)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// scopeFromClaims accepts "sub" as a JSON number or a numeric string.
func scopeFromClaims(claims jwt.MapClaims) (Scope, error) {
	professionalID, ok := positiveID(claims["sub"])
	if !ok {
		return Scope{}, errInvalidScope
	}
	locationID, ok := positiveID(claims["locationId"])
	if !ok {
		return Scope{}, errInvalidScope
	}
	role, _ := claims["role"].(string)

	return Scope{ProfessionalID: professionalID, LocationID: locationID, Role: role}, nil
}

func positiveID(v any) (uint, bool) {
	switch n := v.(type) {
	case float64:
		if n >= 1 && n == float64(uint(n)) {
			return uint(n), true
		}
	case string:
		id, err := strconv.ParseUint(n, 10, 64)
		if err == nil && id > 0 {
			return uint(id), true
		}
	}
	return 0, false
}
