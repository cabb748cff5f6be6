package models

import "time"

// User represents a platform account. Authentication is OTP-based; no password is stored.
type User struct {
	ID         int       `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UserToken stores an issued refresh token
type UserToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// OtpVerification is an ephemeral one-time code, bcrypt-hashed at rest.
// A newer code for the same user supersedes older ones; rows are deleted on successful use.
type OtpVerification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	OtpHash   string    `json:"-"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// OTP purposes
const (
	OtpPurposeSignup = "signup"
	OtpPurposeLogin  = "login"
)

// SignupRequest is the payload for account creation
type SignupRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// SendOtpRequest is the payload for requesting a login code
type SendOtpRequest struct {
	Email string `json:"email"`
}

// VerifyOtpRequest is the payload for exchanging a code for session tokens
type VerifyOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

// LogoutRequest is the payload for revoking a refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthTokens is the session token pair returned after OTP verification
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}
