package models

import "github.com/golang-jwt/jwt/v5"

// UserRole enumerates who is calling the advising API.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleAdvisor UserRole = "ADVISOR"
	RoleAdmin   UserRole = "ADMIN"
)

// JWTClaims represents the JWT payload for access tokens. StudentID is set for
// student accounts and resolves "my schedule" requests.
type JWTClaims struct {
	UserID    string   `json:"user_id"`
	Role      UserRole `json:"role"`
	Email     string   `json:"email"`
	StudentID string   `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}
