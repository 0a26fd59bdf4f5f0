// Package models holds the wire and persistence types shared by the
// API client, the live feed and the local state store.
package models

import "time"

// Session is the authentication state returned by the login and refresh
// endpoints. The platform-admin flag is derived client-side from the ID
// token and survives refreshes whose response omits it.
type Session struct {
	AccessToken     string    `json:"accessToken"`
	RefreshToken    string    `json:"refreshToken,omitempty"`
	IDToken         string    `json:"idToken"`
	ExpiresAt       time.Time `json:"expiresAt"`
	EmailVerified   bool      `json:"emailVerified"`
	UserID          string    `json:"userId,omitempty"`
	IsPlatformAdmin bool      `json:"isPlatformAdmin"`
}

// SessionRecord is the persisted form of Session. At most one row
// exists at a time.
type SessionRecord struct {
	ID              uint `gorm:"primaryKey"`
	AccessToken     string
	RefreshToken    string
	IDToken         string
	ExpiresAt       time.Time
	EmailVerified   bool
	UserID          string
	IsPlatformAdmin bool
	UpdatedAt       time.Time
}

// Setting is a small key/value row for console state that outlives the
// session, such as the selected tenant.
type Setting struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}
