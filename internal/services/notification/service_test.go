package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"aesthetx/internal/events"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func envelope(t *testing.T, eventType string, payload any) events.Envelope {
	t.Helper()
	env, err := events.NewEnvelope("test", eventType, "", payload)
	require.NoError(t, err)
	return env
}

func TestOrderConfirmationEmail(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(mailer, "shop@example.com")

	err := svc.Handle(context.Background(), envelope(t, events.EventOrderPlaced, events.OrderPlacedPayload{
		OrderNumber: "AX-20250101-ABC123",
		Email:       "asha@example.com",
		FullName:    "Asha <Rao>",
		Items: []events.OrderLine{
			{Name: "Box Tee", Size: "M", Quantity: 2, Price: decimal.RequireFromString("899")},
		},
		Total:    decimal.RequireFromString("1798"),
		Currency: "INR",
	}))
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, "asha@example.com", msg.To)
	assert.Equal(t, "shop@example.com", msg.From)
	assert.Equal(t, "Order confirmed: AX-20250101-ABC123", msg.Subject)
	assert.Contains(t, msg.HTML, "Asha &lt;Rao&gt;")
	assert.Contains(t, msg.HTML, "INR 1798.00")
	assert.Contains(t, msg.Text, "- Box Tee (M) x2 @ 899.00")
}

func TestStatusAndWelcomeEmails(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(mailer, "shop@example.com")
	ctx := context.Background()

	require.NoError(t, svc.Handle(ctx, envelope(t, events.EventOrderStatusChanged, events.OrderStatusChangedPayload{
		OrderNumber: "AX-1", Email: "a@b.co", FullName: "A", From: "processing", To: "shipped",
	})))
	require.NoError(t, svc.Handle(ctx, envelope(t, events.EventUserSignedUp, events.UserSignedUpPayload{
		UserID: 1, Email: "new@b.co", Name: "Nia",
	})))

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "Order AX-1 is shipped", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[1].Text, "Welcome to AesthetX Ways, Nia!")
}

func TestHandleMessageRetriesOnSendFailure(t *testing.T) {
	svc := NewService(&recordingMailer{err: errors.New("smtp down")}, "shop@example.com")

	value, err := json.Marshal(envelope(t, events.EventUserSignedUp, events.UserSignedUpPayload{Email: "x@y.co"}))
	require.NoError(t, err)

	assert.Error(t, svc.HandleMessage(context.Background(), kafka.Message{Value: value}))
	assert.NoError(t, svc.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")}))
}

func TestHandleDropsRejectedEmail(t *testing.T) {
	svc := NewService(&recordingMailer{err: fmt.Errorf("%w: email service returned 422", ErrRejected)}, "shop@example.com")

	err := svc.Handle(context.Background(), envelope(t, events.EventUserSignedUp, events.UserSignedUpPayload{Email: "x@y.co"}))
	assert.NoError(t, err)
}

func TestUnknownEventIgnored(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewService(mailer, "shop@example.com")

	assert.NoError(t, svc.Handle(context.Background(), envelope(t, "ProductViewed", map[string]string{})))
	assert.Empty(t, mailer.sent)
}

func TestHTTPMailer(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		switch got.To {
		case "fail@b.co":
			w.WriteHeader(http.StatusBadGateway)
			return
		case "bad@b.co":
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		case "slow@b.co":
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL)
	require.NoError(t, m.Send(context.Background(), Message{To: "a@b.co", Subject: "hi"}))
	assert.Equal(t, "hi", got.Subject)

	err := m.Send(context.Background(), Message{To: "fail@b.co"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrRejected)

	assert.ErrorIs(t, m.Send(context.Background(), Message{To: "bad@b.co"}), ErrRejected)
	assert.NotErrorIs(t, m.Send(context.Background(), Message{To: "slow@b.co"}), ErrRejected)
}
