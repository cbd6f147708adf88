package models

import "time"

type JsonModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GoogleAuthSignIn struct {
	IdToken  string `json:"idToken" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}

type AppleAuthRequest struct {
	IdentityToken     string `json:"identity_token" validate:"required"`
	Platform          string `json:"platform" validate:"required"`
	AuthorizationCode string `json:"authorization_code" validate:"required"`
}

type SignUpIn struct {
	ProfileIn
	IdToken  string `json:"idToken" validate:"required"`
	Platform string `json:"platform" validate:"required"`
}

type ProfileIn struct {
	Name      string `json:"name" validate:"required"`
	UTMSource string `json:"utm_source" validate:"required"`
	Gender    string `json:"gender" validate:"omitempty,max=40"`
}

type SignInOut struct {
	Id          string `json:"id"`
	Email       string `json:"email"`
	New         bool   `json:"new"`
	Avatar      string `json:"avatar"`
	AccessToken string `json:"access_token"`
}

type UserMeInfoOut struct {
	Id                     uint    `json:"id"`
	Name                   string  `json:"name"`
	Email                  string  `json:"email"`
	Status                 string  `json:"-"`
	AvatarURL              string  `json:"avatar_url"`
	Gender                 *string `json:"gender"`
	ReceiveNotifications   bool    `json:"receive_notifications"`
	DailySuggestionEnabled bool    `json:"daily_suggestion_enabled"`
}
