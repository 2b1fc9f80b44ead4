package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dataplatform/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies signed bearer tokens carrying the caller
// identity.
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

func NewTokenManager(secret string, expiryHours int) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		expiry: time.Duration(expiryHours) * time.Hour,
	}
}

func (m *TokenManager) Generate(caller model.Caller) (string, error) {
	claims := jwt.MapClaims{
		"user_id": caller.ID,
		"email":   caller.Email,
		"role":    caller.Role,
		"exp":     time.Now().Add(m.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) Parse(tokenStr string) (*model.Caller, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	id, _ := claims["user_id"].(string)
	if id == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &model.Caller{ID: id, Email: email, Role: role}, nil
}
