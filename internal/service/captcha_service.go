package service

import (
	"strings"
	"sync"
	"time"

	"github.com/quickkart/quickkart/internal/config"
	"github.com/quickkart/quickkart/internal/constants"

	"github.com/mojocn/base64Captcha"
)

const (
	captchaProviderNone  = "none"
	captchaProviderImage = "image"
)

// CaptchaVerifyPayload is the client-supplied challenge answer.
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge is a generated image challenge.
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService generates and verifies image captchas, gated per scene.
// With provider "none" or a disabled scene, Verify is a no-op.
type CaptchaService struct {
	cfg config.CaptchaConfig

	mu         sync.Mutex
	imageStore base64Captcha.Store
}

// NewCaptchaService creates a captcha service.
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: cfg}
}

// SceneEnabled reports whether a scene requires a captcha.
func (s *CaptchaService) SceneEnabled(scene string) bool {
	if s == nil || strings.ToLower(strings.TrimSpace(s.cfg.Provider)) == captchaProviderNone {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(scene)) {
	case constants.CaptchaSceneResendVerification:
		return s.cfg.Scenes.ResendVerification
	default:
		return false
	}
}

// GenerateImageChallenge generates an image challenge.
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if strings.ToLower(strings.TrimSpace(s.cfg.Provider)) != captchaProviderImage {
		return nil, ErrCaptchaConfigInvalid
	}

	store := s.ensureImageStore()
	driver := base64Captcha.NewDriverString(
		s.cfg.Image.Height,
		s.cfg.Image.Width,
		s.cfg.Image.NoiseCount,
		s.cfg.Image.ShowLine,
		s.cfg.Image.Length,
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, store)
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}

	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify checks the challenge answer for a scene.
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if !s.SceneEnabled(scene) {
		return nil
	}

	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	store := s.ensureImageStore()
	if !store.Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) ensureImageStore() base64Captcha.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.imageStore != nil {
		return s.imageStore
	}
	maxStore := s.cfg.Image.MaxStore
	if maxStore <= 0 {
		maxStore = 10240
	}
	expire := s.cfg.Image.ExpireSeconds
	if expire <= 0 {
		expire = 300
	}
	s.imageStore = base64Captcha.NewMemoryStore(maxStore, time.Duration(expire)*time.Second)
	return s.imageStore
}
