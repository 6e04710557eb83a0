package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "spendchat/internal/errors"
)

// maxWebhookBody is the largest inbound webhook body accepted.
const maxWebhookBody = 1 << 20

// SignatureClaims are the claims of a Vonage signed webhook JWT.
type SignatureClaims struct {
	PayloadHash string `json:"payload_hash"`
	jwt.RegisteredClaims
}

// SignPayload returns an HS256 bearer token for body, in the format Vonage
// uses for signed webhooks.
func SignPayload(secret string, body []byte) (string, error) {
	claims := &SignatureClaims{PayloadHash: PayloadHash(body)}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// PayloadHash returns the SHA-256 hex digest of body.
func PayloadHash(body []byte) string {
	h := sha256.Sum256(body)
	return hex.EncodeToString(h[:])
}

// WebhookSignature verifies the "Authorization: Bearer <jwt>" header of
// inbound Vonage webhooks and requires the payload_hash claim to match the
// body. Bodies over maxWebhookBody are rejected. An empty secret disables the check.
func WebhookSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
		if err != nil {
			abortWithAppError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
			return
		}
		if len(body) > maxWebhookBody {
			abortWithAppError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "request body too large"))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithAppError(c, apperrors.ErrInvalidSignature)
			return
		}

		claims := &SignatureClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			abortWithAppError(c, apperrors.Wrap(apperrors.ErrInvalidSignature, err))
			return
		}

		// The hash binds the token to this body; a token without one is rejected.
		if claims.PayloadHash == "" || claims.PayloadHash != PayloadHash(body) {
			abortWithAppError(c, apperrors.ErrInvalidSignature)
			return
		}

		c.Next()
	}
}
