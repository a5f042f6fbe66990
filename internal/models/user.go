package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User is an identity record. There is no password: authentication is a
// magic-link token emailed to the address and exchanged for a JWT on verify.
// At most one magic-link token is active at a time; requesting a new link
// overwrites the previous token.
type User struct {
	gorm.Model  `json:"-"`
	ID          uint       `json:"id" gorm:"primaryKey"`
	Email       string     `json:"email" gorm:"uniqueIndex"`
	MagicToken  *string    `json:"-" gorm:"uniqueIndex"`
	TokenExpiry *time.Time `json:"-"`
	IsAdmin     bool       `json:"is_admin" gorm:"default:false"`
}

// Profile is the public-facing identity, 1:1 with User, created lazily on
// the first profile write.
type Profile struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MagicLinkRequest defines the request body for requesting a login link
type MagicLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyTokenRequest defines the request body for redeeming a magic link
type VerifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// UpdateProfileRequest defines the request body for updating the caller's profile
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=300"`
	AvatarURL   string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
