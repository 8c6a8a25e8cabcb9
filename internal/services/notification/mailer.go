package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

const sendTimeout = 10 * time.Second

// ErrRejected marks a message the email service refused outright. Sending
// it again cannot succeed.
var ErrRejected = errors.New("email rejected")

type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPMailer hands messages to the email service over HTTP.
type HTTPMailer struct {
	url string
}

func NewHTTPMailer(url string) *HTTPMailer {
	return &HTTPMailer{url: url}
}

func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Post(m.url)
	agent.Timeout(sendTimeout)
	agent.JSON(msg)
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("prepare email request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("send email to %s: %w", msg.To, errs[0])
	}
	if code >= 400 && code < 500 && code != 408 && code != 429 {
		return fmt.Errorf("%w: email service returned %d: %s", ErrRejected, code, truncate(body, 200))
	}
	if code < 200 || code >= 300 {
		return fmt.Errorf("email service returned %d: %s", code, truncate(body, 200))
	}
	return nil
}

// LogMailer is used when no email service is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Printf("📧 email to %s skipped (no EMAIL_SERVICE_URL): %s", msg.To, msg.Subject)
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
