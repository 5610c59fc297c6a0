// ABOUTME: Reads identity claims out of a session token
// ABOUTME: Decodes without verifying the signature; the booking service verifies

package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
)

// Decode extracts claims from token. The subject id comes from "id" and falls
// back to "sub"; a missing role means a regular user. Tokens without an
// expiry or subject are rejected.
func Decode(token string) (*models.Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, apperr.Wrap(apperr.DecodeFailure, "invalid session token", err)
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return nil, apperr.Wrap(apperr.DecodeFailure, "invalid session token", err)
	}
	if exp == nil {
		return nil, apperr.New(apperr.DecodeFailure, "session token has no expiry")
	}

	id := stringClaim(mc, "id")
	if id == "" {
		id = stringClaim(mc, "sub")
	}
	if id == "" {
		return nil, apperr.New(apperr.DecodeFailure, "session token has no subject")
	}

	role := models.Role(stringClaim(mc, "role"))
	if role == "" {
		role = models.RoleUser
	}

	return &models.Claims{
		ID:        id,
		Name:      stringClaim(mc, "name"),
		Email:     stringClaim(mc, "email"),
		Role:      role,
		ExpiresAt: exp.Time,
	}, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	switch v := mc[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}
