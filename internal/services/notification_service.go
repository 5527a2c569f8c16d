package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// EmailServiceInterface is the notification sink for demand lifecycle
// emails. Failures are logged by callers, never propagated: a committed
// lifecycle mutation must not be reported as failed because mail is down.
type EmailServiceInterface interface {
	SendDemandAcknowledgementEmail(ctx context.Context, name, email string) error
	SendDemandAssignedEmail(ctx context.Context, creatorName, creatorEmail string) error
	SendDemandStateChangedEmail(ctx context.Context, name, email, state string) error
}

// mockEmailService writes the message to the log instead of an SMTP
// gateway. Production swaps in a real sender with the same interface.
type mockEmailService struct {
	logger *zap.Logger
}

func NewMockEmailService(logger *zap.Logger) EmailServiceInterface {
	return &mockEmailService{logger: logger}
}

func (s *mockEmailService) SendDemandAcknowledgementEmail(ctx context.Context, name, email string) error {
	body := buildAcknowledgementEmailBody(name)
	s.logger.Info("email: demand acknowledgement",
		zap.String("to", email),
		zap.Int("bodyBytes", len(body)),
	)
	return nil
}

func (s *mockEmailService) SendDemandAssignedEmail(ctx context.Context, creatorName, creatorEmail string) error {
	body := buildAssignedEmailBody(creatorName)
	s.logger.Info("email: demand assigned",
		zap.String("to", creatorEmail),
		zap.Int("bodyBytes", len(body)),
	)
	return nil
}

func (s *mockEmailService) SendDemandStateChangedEmail(ctx context.Context, name, email, state string) error {
	s.logger.Info("email: demand state changed",
		zap.String("to", email),
		zap.String("state", state),
	)
	return nil
}

func buildAcknowledgementEmailBody(nombre string) string {
	return "<h2>¡Gracias por tu mensaje, " + nombre + "!</h2>" +
		"<p>Hemos recibido tu solicitud correctamente y estamos trabajando en ella.</p>" +
		"<p>En breve uno de nuestros agentes se pondrá en contacto contigo si es necesario.</p>" +
		"<p>Puedes hacer seguimiento de tu solicitud a través de nuestra aplicación web usando el mapa.</p>" +
		"<br/>" +
		"<p>Un saludo,<br/>El equipo de Grúas Tre-Mart</p>"
}

func buildAssignedEmailBody(nombre string) string {
	return fmt.Sprintf("<h2>¡Buenas noticias, %s!</h2>"+
		"<p>Un operador ha tomado tu solicitud de grúa y está en camino.</p>"+
		"<p>Puedes seguir su posición en tiempo real desde el mapa de la aplicación.</p>"+
		"<br/>"+
		"<p>Un saludo,<br/>El equipo de Grúas Tre-Mart</p>", nombre)
}
