package token

import (
	"errors"
	"testing"
	"time"

	"gamerx/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func testUser() *model.User {
	return &model.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Role:     model.RoleAdmin,
	}
}

func TestIssueEmbedsClaimsAndSevenDayExpiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager("secret", 0).WithClock(func() time.Time { return now })
	user := testUser()

	raw, expiresAt, err := m.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := now.Add(7 * 24 * time.Hour); !expiresAt.Equal(want) {
		t.Fatalf("expiresAt = %v, want %v", expiresAt, want)
	}

	claims, err := m.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.ID != user.ID || claims.Email != user.Email || claims.Username != user.Username || claims.Role != user.Role {
		t.Fatalf("claims = %+v, want fields of %+v", claims, user)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(DefaultTTL)) {
		t.Fatalf("exp = %v", claims.ExpiresAt.Time)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager("secret", time.Hour).WithClock(func() time.Time { return now })
	raw, _, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	m.WithClock(func() time.Time { return now.Add(2 * time.Hour) })
	if _, err := m.Parse(raw); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Parse expired = %v, want ErrInvalid", err)
	}
}

func TestParseRejectsForeignSignatureAndAlgorithm(t *testing.T) {
	raw, _, err := NewManager("other", 0).Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	m := NewManager("secret", 0)
	if _, err := m.Parse(raw); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Parse foreign signature = %v, want ErrInvalid", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: uuid.New()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := m.Parse(none); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Parse alg=none = %v, want ErrInvalid", err)
	}
	if _, err := m.Parse("garbage"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Parse garbage = %v, want ErrInvalid", err)
	}
}
