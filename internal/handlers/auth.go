package handlers

import (
	"errors"
	"net/http"

	"farmbeats_sheets/internal/repository"
	"farmbeats_sheets/internal/service"

	"github.com/gin-gonic/gin"
)

// GrowerCredentials is the payload for registering and signing in.
type GrowerCredentials struct {
	Name     string `json:"name" binding:"required" example:"north-field"`
	Password string `json:"password" binding:"required" example:"tomatoes1"`
}

// bindJSONOrBadRequest binds the body into dst, answering 400 on failure.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary      Register a grower
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  GrowerCredentials  true  "Credentials"
// @Success      201   {object}  map[string]int  "id"
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input GrowerCredentials
	if !h.bindJSONOrBadRequest(c, &input) {
		return
	}

	id, err := h.services.Register(c.Request.Context(), input.Name, input.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"id": id})
	case errors.Is(err, repository.ErrGrowerExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyName), errors.Is(err, service.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "registration failed", "register_failed", err, "grower", input.Name)
	}
}

// @Summary      Sign in
// @Description  Returns a bearer token for the /api/v1 routes, valid until the device session ends.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  GrowerCredentials  true  "Credentials"
// @Success      200   {object}  map[string]string  "token"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input GrowerCredentials
	if !h.bindJSONOrBadRequest(c, &input) {
		return
	}

	token, err := h.services.SignIn(c.Request.Context(), input.Name, input.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"token": token})
	case errors.Is(err, service.ErrInvalidCredentials):
		if h.log != nil {
			h.log.Infow("sign_in_refused", "grower", input.Name)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "sign-in failed", "sign_in_failed", err, "grower", input.Name)
	}
}

// @Summary      Current operator
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Operator
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/session [get]
func (h *Handler) getSession(c *gin.Context) {
	op, _ := currentOperator(c)
	c.JSON(http.StatusOK, op)
}

// @Summary      End the device session
// @Description  Stops streaming, forgets the device and signs every grower out.
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.StatusEvent
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/session/end [post]
func (h *Handler) endSession(c *gin.Context) {
	op, _ := currentOperator(c)
	if h.log != nil {
		h.log.Infow("session_end", "grower", op.Name, "session", op.SessionID)
	}
	c.JSON(http.StatusOK, h.services.EndSession(c.Request.Context()))
}
