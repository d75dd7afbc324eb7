package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-api/internal/presentation/http/middleware"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func principalJSON(p *utils.Principal) gin.H {
	permissions := p.Permissions
	if len(permissions) == 0 {
		permissions = utils.PermissionsForRoles(p.Roles)
	}
	return gin.H{
		"id":          p.UserID,
		"email":       p.Email,
		"tenant_id":   p.TenantID,
		"roles":       p.Roles,
		"permissions": permissions,
	}
}

func tokensJSON(output *service.LoginOutput) gin.H {
	return gin.H{
		"user":          principalJSON(output.User),
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	}
}

// Exchange trades an identity provider ID token for API tokens
// @Summary Exchange ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.TokenExchangeRequest true "ID token"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/token [post]
func (h *AuthHandler) Exchange(c *gin.Context) {
	var req request.TokenExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Exchange(c.Request.Context(), req.IDToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", tokensJSON(output))
}

// RefreshToken handles token refresh
// @Summary Refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed successfully", tokensJSON(output))
}

// Me returns the authenticated principal
func (h *AuthHandler) Me(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	response.OK(c, "User retrieved successfully", principalJSON(principal))
}
