package identity

import (
	"net/http"
	"time"

	"docvault/pkg/logger"
	reasoncodes "docvault/pkg/reason_codes"
	"docvault/pkg/rest"
	"docvault/src/auth"

	"github.com/gin-gonic/gin"
)

type TokenIssuer interface {
	Issue(address string) (string, auth.Claims, error)
}

type Handler struct {
	Service *Service
	tokens  TokenIssuer
	revoked auth.RevocationList
	cookie  auth.AuthConfig
}

func NewHandler(service *Service, tokens TokenIssuer, revoked auth.RevocationList, cookie auth.AuthConfig) *Handler {
	return &Handler{Service: service, tokens: tokens, revoked: revoked, cookie: cookie}
}

type RegisterRequest struct {
	Address   string `json:"address"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// Register godoc
// @Summary      Log in with a wallet signature
// @Description  Verifies a personal_sign signature, registers the wallet on first use and issues a token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Signed login challenge"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rest.AbortWithError(c, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "invalid request body", err))
		return
	}

	identity, err := h.Service.Authenticate(c.Request.Context(), req.Address, req.Message, req.Signature)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}

	token, claims, err := h.tokens.Issue(identity.Address)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}

	h.setTokenCookie(c, token, claims.ExpiresAt)
	rest.OK(c, gin.H{
		"token":      token,
		"expires_at": claims.ExpiresAt,
		"user":       identity,
	})
}

// Logout godoc
// @Summary      Revoke the current token
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.revokeCurrentToken(c); err != nil {
		rest.AbortWithError(c, err)
		return
	}

	h.clearTokenCookie(c)
	rest.OK(c, gin.H{"message": "logged out"})
}

// CompleteProfile godoc
// @Summary      Complete the caller's profile
// @Description  Sets name, email and phone; registers the wallet if it is unknown
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      ProfileFields  true  "Profile fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /auth/complete-profile [post]
func (h *Handler) CompleteProfile(c *gin.Context) {
	var fields ProfileFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		rest.AbortWithError(c, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "invalid profile", err))
		return
	}

	identity, err := h.Service.CompleteProfile(c.Request.Context(), auth.AddressFromContext(c), fields)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{"user": identity})
}

// GetProfile godoc
// @Summary      Get the caller's profile with owned documents
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /auth/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	identity, err := h.Service.GetProfile(c.Request.Context(), auth.AddressFromContext(c))
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{"user": identity})
}

// UpdateProfile godoc
// @Summary      Update the caller's profile
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      ProfileFields  true  "Profile fields"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /auth/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var fields ProfileFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		rest.AbortWithError(c, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "invalid profile", err))
		return
	}

	identity, err := h.Service.UpdateProfile(c.Request.Context(), auth.AddressFromContext(c), fields)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{"user": identity})
}

// DeleteProfile godoc
// @Summary      Delete the caller's identity, documents and access requests
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /auth/profile [delete]
func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.Service.DeleteProfile(c.Request.Context(), auth.AddressFromContext(c)); err != nil {
		rest.AbortWithError(c, err)
		return
	}

	if err := h.revokeCurrentToken(c); err != nil {
		logger.Default().Error(err, "Could not revoke token of deleted identity")
	}
	h.clearTokenCookie(c)
	rest.OK(c, gin.H{"message": "profile deleted"})
}

func (h *Handler) revokeCurrentToken(c *gin.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return auth.ErrInvalidToken
	}
	if err := h.revoked.Revoke(c.Request.Context(), claims.TokenId, claims.ExpiresAt); err != nil {
		return reasoncodes.Wrap(reasoncodes.ErrUpstreamFailure, "could not revoke token", err)
	}
	return nil
}

func (h *Handler) setTokenCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, token, maxAge, "/", h.cookie.CookieDomain, h.cookie.CookieSecure, true)
}

func (h *Handler) clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", h.cookie.CookieDomain, h.cookie.CookieSecure, true)
}
