package utils

import (
	"context"
	"errors"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID      string
	TenantID    string
	Email       string
	Roles       []string
	Permissions []string
}

// HasPermission reports whether the principal was granted permission.
func (p *Principal) HasPermission(permission string) bool {
	for _, granted := range p.Permissions {
		if granted == permission {
			return true
		}
	}
	return false
}

// HasRole reports whether the principal holds any of the roles.
func (p *Principal) HasRole(roles ...string) bool {
	for _, held := range p.Roles {
		for _, want := range roles {
			if held == want {
				return true
			}
		}
	}
	return false
}

// IsSuperAdmin reports whether the principal may read across tenants.
func (p *Principal) IsSuperAdmin() bool {
	return p.HasRole(RoleSuperAdmin)
}

// TokenVerifier turns a bearer token into a principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// IDTokenVerifier is the part of the Firebase auth client used here.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens. The tenant and roles come
// from the custom claims "tenantId" and "roles".
type FirebaseVerifier struct {
	client IDTokenVerifier
}

func NewFirebaseVerifier(client IDTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*Principal, error) {
	if v.client == nil {
		return nil, errors.New("firebase auth is not configured")
	}

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	uid := strings.TrimSpace(token.UID)
	if uid == "" {
		return nil, errors.New("invalid uid in token")
	}

	return PrincipalFromClaims(uid, token.Claims), nil
}

// PrincipalFromClaims builds a principal from Firebase custom claims.
func PrincipalFromClaims(uid string, claims map[string]interface{}) *Principal {
	p := &Principal{
		UserID:   uid,
		TenantID: claimString(claims, "tenantId"),
		Email:    claimString(claims, "email"),
		Roles:    claimStrings(claims, "roles"),
	}
	if role := claimString(claims, "role"); role != "" && !p.HasRole(role) {
		p.Roles = append(p.Roles, role)
	}
	p.Permissions = PermissionsForRoles(p.Roles)

	return p
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func claimStrings(claims map[string]interface{}, key string) []string {
	switch v := claims[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}
