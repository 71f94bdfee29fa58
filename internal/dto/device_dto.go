package dto

import "github.com/google/uuid"

type DeviceRegisterRequest struct {
	Platform string `json:"platform"`
}

type DeviceLoginRequest struct {
	DeviceID     string `json:"device_id"`
	DeviceSecret string `json:"device_secret"`
}

// DeviceAuthResponse carries the secret only on registration.
type DeviceAuthResponse struct {
	AccessToken  string    `json:"access_token"`
	ExpiresIn    int64     `json:"expires_in"`
	DeviceID     uuid.UUID `json:"device_id"`
	DeviceSecret string    `json:"device_secret,omitempty"`
}
