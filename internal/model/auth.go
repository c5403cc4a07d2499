package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are JWT claims for operator authentication
type AdminClaims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// PlayerClaims are JWT claims for a bound player session
type PlayerClaims struct {
	PlayerKey string `json:"playerKey"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful admin login
type LoginResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"adminId"`
}

// BindResponse is returned when a player starts (or resumes) an adventure
type BindResponse struct {
	Token  string      `json:"token"`
	Player *PlayerView `json:"player"`
}
