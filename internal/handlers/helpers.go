package handlers

import (
	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getClaimsFromContext returns the JWT claims stored by the auth middleware,
// or nil on unauthenticated routes
func getClaimsFromContext(c echo.Context) *models.JwtCustomClaims {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// getUserIDFromContext returns the authenticated user's ID, or "" when the
// request carries no identity
func getUserIDFromContext(c echo.Context) string {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return ""
	}
	return claims.UserID
}
