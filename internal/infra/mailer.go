package infra

import (
	"bytes"
	"fmt"
	"net/smtp"
	"time"

	"credipos/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends settlement notifications. The SMTP implementation sits behind
// a circuit breaker so a dead relay fails fast instead of stalling workers.
type Mailer interface {
	Enviar(destinatario, asunto, cuerpo string, adjunto []byte, nombreAdjunto string) error
}

type smtpMailer struct {
	cfg     *config.Config
	breaker *CircuitBreaker
}

func NewSMTPMailer(cfg *config.Config) Mailer {
	return &smtpMailer{
		cfg:     cfg,
		breaker: NewCircuitBreaker(5, 2*time.Minute),
	}
}

func (m *smtpMailer) Enviar(destinatario, asunto, cuerpo string, adjunto []byte, nombreAdjunto string) error {
	return m.breaker.Ejecutar(func() error {
		e := email.NewEmail()
		e.From = m.cfg.SMTPUser
		e.To = []string{destinatario}
		e.Subject = asunto
		e.Text = []byte(cuerpo)

		if len(adjunto) > 0 {
			if _, err := e.Attach(bytes.NewReader(adjunto), nombreAdjunto, "application/pdf"); err != nil {
				return err
			}
		}

		addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
		auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
		return e.Send(addr, auth)
	})
}
