package service

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/utils"
)

// UserLookup reads an account from the identity provider.
type UserLookup interface {
	GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error)
}

// AuthService exchanges identity provider sign-ins for API tokens
type AuthService struct {
	idTokens   utils.TokenVerifier
	users      UserLookup
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(idTokens utils.TokenVerifier, users UserLookup, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		idTokens:   idTokens,
		users:      users,
		jwtManager: jwtManager,
	}
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *utils.Principal
	AccessToken  string
	RefreshToken string
}

// Exchange verifies an identity provider ID token and issues an API token
// pair carrying the same tenant and roles.
func (s *AuthService) Exchange(ctx context.Context, idToken string) (*LoginOutput, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, apperror.ErrUnauthorized
	}
	if s.idTokens == nil {
		return nil, apperror.NewAppError(http.StatusServiceUnavailable, "Sign-in is not available")
	}
	principal, err := s.idTokens.Verify(ctx, idToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issue(principal)
}

// RefreshToken issues a new token pair. Roles are re-read from the identity
// provider so revoked access does not survive a refresh.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	uid, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	if s.users == nil {
		return nil, apperror.NewAppError(http.StatusServiceUnavailable, "Token refresh is not available")
	}

	record, err := s.users.GetUser(ctx, uid)
	if err != nil {
		if fbauth.IsUserNotFound(err) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}
	if record.Disabled {
		return nil, apperror.ErrForbidden
	}

	principal := utils.PrincipalFromClaims(uid, record.CustomClaims)
	if principal.Email == "" && record.UserInfo != nil {
		principal.Email = record.Email
	}
	return s.issue(principal)
}

func (s *AuthService) issue(principal *utils.Principal) (*LoginOutput, error) {
	if principal.TenantID == "" && !principal.IsSuperAdmin() {
		return nil, apperror.NewAppError(http.StatusForbidden, "Account is not assigned to a salon")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(*principal)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(principal.UserID)
	if err != nil {
		return nil, err
	}

	if len(principal.Permissions) == 0 {
		principal.Permissions = utils.PermissionsForRoles(principal.Roles)
	}
	return &LoginOutput{
		User:         principal,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
