package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para envio de notificaciones por correo.
type Sender interface {
	SendCommentNotification(ctx context.Context, toEmail string, postTitle string, commenterLogin string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendCommentNotification(_ context.Context, _ string, _ string, _ string) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
