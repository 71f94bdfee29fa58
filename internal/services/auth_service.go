package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid device credentials")
	ErrDeviceNotFound     = errors.New("device not found")
)

// AuthService registers anonymous devices and issues their access tokens.
// A device proves itself with the secret handed out at registration.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

func (s *AuthService) Register(ctx context.Context, req *dto.DeviceRegisterRequest) (*dto.DeviceAuthResponse, error) {
	secret, err := randomSecret()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash device secret: %w", err)
	}

	device := models.Device{
		ID:         uuid.New(),
		SecretHash: string(hash),
		Platform:   strings.ToLower(strings.TrimSpace(req.Platform)),
		LastSeenAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&device).Error; err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	resp, err := s.issue(&device)
	if err != nil {
		return nil, err
	}
	resp.DeviceSecret = secret
	return resp, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.DeviceLoginRequest) (*dto.DeviceAuthResponse, error) {
	id, err := uuid.Parse(req.DeviceID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var device models.Device
	if err := s.db.WithContext(ctx).First(&device, "id = ?", id).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(device.SecretHash), []byte(req.DeviceSecret)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.db.WithContext(ctx).Model(&device).Update("last_seen_at", time.Now().UTC())
	return s.issue(&device)
}

// Exists reports whether the device is registered.
func (s *AuthService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Device{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *AuthService) issue(device *models.Device) (*dto.DeviceAuthResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      device.ID.String(),
		"platform": device.Platform,
		"iat":      now.Unix(),
		"exp":      now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.DeviceAuthResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.JWTAccessExpiry.Seconds()),
		DeviceID:    device.ID,
	}, nil
}

func randomSecret() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
