package request

// TokenExchangeRequest carries an identity provider ID token to exchange
// for API tokens
type TokenExchangeRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
