package services

import (
	"time"

	portssvc "github.com/invoicelab/invoicing_backend/internal/core/ports/services"
	"github.com/invoicelab/invoicing_backend/internal/utils"
)

// JWTTokenIssuer issues HS256-signed JWTs for authenticated sessions.
type JWTTokenIssuer struct {
	secret         string
	expiryDuration time.Duration
	issuer         string
}

// NewJWTTokenIssuer creates a new JWTTokenIssuer.
func NewJWTTokenIssuer(secret string, expiryDuration time.Duration, issuer string) *JWTTokenIssuer {
	return &JWTTokenIssuer{
		secret:         secret,
		expiryDuration: expiryDuration,
		issuer:         issuer,
	}
}

// Ensure JWTTokenIssuer implements the portssvc.TokenIssuer interface
var _ portssvc.TokenIssuer = (*JWTTokenIssuer)(nil)

// GenerateToken issues a token for the user, returning the token string and
// its expiry.
func (j *JWTTokenIssuer) GenerateToken(userID string) (string, time.Time, error) {
	expiresAt := time.Now().Add(j.expiryDuration)
	token, err := utils.GenerateJWT(userID, j.secret, j.expiryDuration, j.issuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}
