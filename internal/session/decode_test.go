// ABOUTME: Tests for claim extraction from session tokens
// ABOUTME: Covers subject fallback, default role and malformed tokens

package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yaswanth756/vibha-sports-client/internal/apperr"
	"github.com/yaswanth756/vibha-sports-client/internal/models"
	"github.com/yaswanth756/vibha-sports-client/internal/session"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}
	return s
}

func TestDecode(t *testing.T) {
	exp := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		claims   jwt.MapClaims
		wantID   string
		wantRole models.Role
		wantErr  bool
	}{
		{"id claim", jwt.MapClaims{"id": "u-1", "role": "admin", "exp": exp.Unix()}, "u-1", models.RoleAdmin, false},
		{"sub fallback", jwt.MapClaims{"sub": "u-2", "exp": exp.Unix()}, "u-2", models.RoleUser, false},
		{"id wins over sub", jwt.MapClaims{"id": "u-3", "sub": "other", "exp": exp.Unix()}, "u-3", models.RoleUser, false},
		{"missing exp", jwt.MapClaims{"id": "u-1"}, "", "", true},
		{"missing subject", jwt.MapClaims{"exp": exp.Unix()}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := session.Decode(sign(t, tt.claims))
			if tt.wantErr {
				if apperr.KindOf(err) != apperr.DecodeFailure {
					t.Fatalf("Expected DecodeFailure, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if claims.ID != tt.wantID || claims.Role != tt.wantRole {
				t.Errorf("got id=%q role=%q, want id=%q role=%q", claims.ID, claims.Role, tt.wantID, tt.wantRole)
			}
			if !claims.ExpiresAt.Equal(exp) {
				t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, token := range []string{"", "abc", "a.b.c"} {
		if _, err := session.Decode(token); apperr.KindOf(err) != apperr.DecodeFailure {
			t.Errorf("Decode(%q): expected DecodeFailure, got %v", token, err)
		}
	}
}
