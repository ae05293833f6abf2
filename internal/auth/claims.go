package auth

import (
	"fmt"
	"time"

	"github.com/abhishek622/slotwise/pkg/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type UserClaims struct {
	UserID    uuid.UUID      `json:"user_id"`
	Role      model.UserRole `json:"role"`
	CompanyID *uuid.UUID     `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

func NewUserClaims(userID uuid.UUID, role model.UserRole, companyID *uuid.UUID, duration time.Duration) (*UserClaims, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("error generating token iD: %w", err)
	}

	return &UserClaims{
		UserID:    userID,
		Role:      role,
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		},
	}, nil
}

// IsEmployerOf reports whether the claims belong to an employer of companyID.
func (c *UserClaims) IsEmployerOf(companyID uuid.UUID) bool {
	return c.Role == model.UserRoleEmployer && c.CompanyID != nil && *c.CompanyID == companyID
}
