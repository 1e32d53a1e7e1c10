package handlers

import (
	"errors"
	"net/http"
	"strings"

	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	operatorCtx         = "operator"
)

var (
	errMissingAuthHeader = errors.New("missing Authorization header")
	errBadAuthHeader     = errors.New("invalid Authorization header format")
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader(authorizationHeader)
	if header == "" {
		return "", errMissingAuthHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errBadAuthHeader
	}
	return strings.TrimSpace(token), nil
}

// operatorMiddleware admits growers signed in to the live device session.
func (h *Handler) operatorMiddleware(c *gin.Context) {
	token, err := bearerToken(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	op, err := h.services.Authenticate(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("operator_token_rejected", "path", c.FullPath(), "err", err)
		}
		msg := "invalid or expired token"
		if errors.Is(err, service.ErrSessionEnded) {
			msg = "device session ended, sign in again"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}

	c.Set(operatorCtx, op)
	c.Next()
}

// currentOperator returns the operator set by operatorMiddleware.
func currentOperator(c *gin.Context) (models.Operator, bool) {
	v, ok := c.Get(operatorCtx)
	if !ok {
		return models.Operator{}, false
	}
	op, ok := v.(models.Operator)
	return op, ok
}
