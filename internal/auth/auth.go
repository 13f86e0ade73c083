package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/parkjunho/labor-settlement/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type accessClaims struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	TeamID string `json:"team_id,omitempty"`
	jwt.RegisteredClaims
}

// Parse validates an access token and extracts the principal. Tokens whose
// role claim is not a known internal role are rejected outright.
func (p *Parser) Parse(raw string) (model.Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Principal{}, ErrInvalidToken
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}
	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return model.Principal{}, ErrInvalidToken
	}

	principal := model.Principal{
		UserID: userID,
		Name:   claims.Name,
		Role:   role,
	}
	if claims.TeamID != "" {
		teamID, err := uuid.Parse(claims.TeamID)
		if err != nil {
			return model.Principal{}, ErrInvalidToken
		}
		principal.TeamID = &teamID
	}
	return principal, nil
}

// Sign issues an access token for the principal, used by tests and tooling.
func (p *Parser) Sign(principal model.Principal, ttl time.Duration) (string, error) {
	claims := accessClaims{
		Name: principal.Name,
		Role: string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if principal.TeamID != nil {
		claims.TeamID = principal.TeamID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}
