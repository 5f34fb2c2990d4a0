package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"` // User's email address for login.
	Password string `json:"password" binding:"required" example:"password123"`         // User's password.
}

// LoginResponse represents the successful JSON response after login.
type LoginResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJI..."` // Short-lived JWT access token.
	RefreshToken string `json:"refresh_token" example:"4f1trt8s..."`    // Longer-lived refresh token.
	Message      string `json:"message" example:"Login successful"`     // Confirmation message.
}

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required" example:"Test User"`                  // User's display name.
	Email    string `json:"email" binding:"required,email" example:"newuser@example.com"` // User's email address. Must be unique.
	Password string `json:"password" binding:"required,min=8" example:"Str0ngP@ss!"`      // User's desired password (min length 8).
}

// RefreshTokenRequest represents the expected JSON body for refreshing tokens.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"4f1trt8s..."` // The refresh token obtained during login.
}

// TokenResponse represents the successful JSON response after refreshing tokens.
type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJI..."` // The new short-lived JWT access token.
	RefreshToken string `json:"refresh_token" example:"9a8b7c..."`      // The new rotated refresh token.
}

// LogoutRequest represents the expected JSON body for logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"` // Refresh token to invalidate.
}

// Claims represents the custom claims included in the JWT access token.
type Claims struct {
	UserID               string `json:"uid"`           // Custom claim for User ID.
	Name                 string `json:"usr,omitempty"` // Custom claim for display name.
	Email                string `json:"eml"`           // Custom claim for Email.
	jwt.RegisteredClaims        // Embed standard claims (ExpiresAt, IssuedAt, Subject, etc.).
}
