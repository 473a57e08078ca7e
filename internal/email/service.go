package email

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// Service renders transactional email and hands it to the configured
// producer. Delivery failures are logged, never returned: email is
// best-effort from the caller's point of view.
type Service struct {
	producer      Producer
	portalBaseURL string
	logger        *zap.Logger
}

func NewService(producer Producer, portalBaseURL string, logger *zap.Logger) *Service {
	return &Service{
		producer:      producer,
		portalBaseURL: portalBaseURL,
		logger:        logger,
	}
}

// SendWelcome sends the new account email to the given address.
func (s *Service) SendWelcome(ctx context.Context, to string) {
	html, err := RenderWelcome(WelcomeData{Name: to})
	if err != nil {
		s.logger.Error("render welcome email", zap.Error(err))
		return
	}
	s.enqueue(ctx, Message{To: to, Subject: "Welcome", HTML: html})
}

// SendPasswordReset sends the reset link email carrying token.
func (s *Service) SendPasswordReset(ctx context.Context, to, token string) {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.portalBaseURL, url.QueryEscape(token))
	html, err := RenderPasswordReset(PasswordResetData{Name: to, ResetURL: resetURL})
	if err != nil {
		s.logger.Error("render password reset email", zap.Error(err))
		return
	}
	s.enqueue(ctx, Message{To: to, Subject: "Password reset", HTML: html})
}

func (s *Service) enqueue(ctx context.Context, msg Message) {
	if err := s.producer.Enqueue(ctx, msg); err != nil {
		s.logger.Error("enqueue email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
	}
}
