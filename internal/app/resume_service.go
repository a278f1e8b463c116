package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// ResumeService issues and verifies signed tokens that let a player load a
// saved game snapshot later. The token binds the user to one save key so a
// leaked save key alone grants nothing.
type ResumeService struct {
	secret string
	issuer string
	ttl    time.Duration
}

const defaultResumeTokenTTL = 24 * time.Hour

func NewResumeService(secret, issuer string, ttl time.Duration) *ResumeService {
	if ttl <= 0 {
		ttl = defaultResumeTokenTTL
	}
	return &ResumeService{secret: secret, issuer: issuer, ttl: ttl}
}

// GenerateToken signs an HS256 token for the given user and save key.
func (s *ResumeService) GenerateToken(userID, saveKey string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("resume service is nil")
	}
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	if saveKey == "" {
		return "", fmt.Errorf("save key is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("resume token config is incomplete")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  userID,
		"save": saveKey,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// VerifyToken parses a resume token and returns the user and save key it
// was issued for. Tampered, expired or foreign-issuer tokens fail.
func (s *ResumeService) VerifyToken(tokenString string) (userID, saveKey string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse resume token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid resume token")
	}
	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return "", "", fmt.Errorf("unexpected issuer")
	}
	userID, _ = claims["sub"].(string)
	saveKey, _ = claims["save"].(string)
	if userID == "" || saveKey == "" {
		return "", "", fmt.Errorf("resume token claims incomplete")
	}
	return userID, saveKey, nil
}
