package domain

import "time"

// UserProfile holds what the backend knows about an app user: the device token used for direct pushes.
// PK: email (normalized).
type UserProfile struct {
	Email     string    `json:"email" dynamodbav:"email"`
	FCMToken  string    `json:"fcm_token,omitempty" dynamodbav:"fcm_token"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// ClaimAdmin is the token claim that grants access to admin-only endpoints.
// Firebase custom claims and locally signed JWTs both carry it.
const ClaimAdmin = "admin"

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserID string
	Email  string
	Admin  bool
}

type RegisterPushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}
