package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTMaker signs and verifies HS256 tokens. Tokens are issued by the accounts
// service; this service mostly verifies them.
type JWTMaker struct {
	secret []byte
}

func NewJWTMaker(secret string) *JWTMaker {
	return &JWTMaker{secret: []byte(secret)}
}

func (m *JWTMaker) GenerateToken(userID uuid.UUID, role model.UserRole, companyID *uuid.UUID, duration time.Duration) (string, *UserClaims, error) {
	claims, err := NewUserClaims(userID, role, companyID, duration)
	if err != nil {
		return "", nil, err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("error signing token: %w", err)
	}
	return signed, claims, nil
}

func (m *JWTMaker) VerifyToken(tokenStr string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("error parsing token: %w", err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	if !claims.Role.IsValid() {
		return nil, errors.New("unknown role in token")
	}
	if claims.Role == model.UserRoleEmployer && claims.CompanyID == nil {
		return nil, errors.New("employer token without company")
	}
	return claims, nil
}
