package middleware

import (
	"net/http"
	"strings"

	"credipos/internal/apierror"
	"credipos/internal/service"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth_claims"

// JWTAuth validates the Bearer token and stores the claims in the context.
func JWTAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.APIError{Detail: "token requerido"})
			return
		}
		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.APIError{Detail: "token invalido o expirado"})
			return
		}
		if claims.Refresh {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.APIError{Detail: "un refresh token no sirve para acceder"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAcceso gates a route group behind one capability key. The key is the
// formulario URL carried in the token; the administrador role passes every
// gate.
func RequireAcceso(capacidad string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.APIError{Detail: "token requerido"})
			return
		}
		if claims.Rol == "administrador" {
			c.Next()
			return
		}
		for _, f := range claims.Formularios {
			if f == capacidad {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apierror.APIError{Detail: "no tiene acceso a esta seccion"})
	}
}

// GetClaims returns the authenticated claims, or nil outside JWTAuth.
func GetClaims(c *gin.Context) *service.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*service.Claims)
	return claims
}
