package notification

import (
	"context"
	"fmt"
	"sync"

	"sepagateway/kit/observability"
)

// Message is a notice addressed to a subscriber (customer id or guest reference).
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Service delivers customer notices. Delivery is a log line; Sent keeps the history
// so consumers and tests can inspect it.
type Service struct {
	logger *observability.Logger

	mu   sync.Mutex
	sent []Message
}

func NewService(logger *observability.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) Notify(ctx context.Context, recipient, subject, body string) {
	msg := Message{Recipient: recipient, Subject: subject, Body: body}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()

	if s.logger == nil {
		return
	}
	s.logger.Info("notify", "recipient", recipient, "subject", subject, "body", body)
}

func (s *Service) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

func MandateReauthorizationBody(reason string) string {
	return fmt.Sprintf("Your direct-debit mandate can no longer be used: %s Please sign a new mandate at your next checkout.", reason)
}

func RecurringFailureBody(reason string) string {
	return fmt.Sprintf("We could not collect your scheduled payment: %s", reason)
}

func SignatureFailedBody(orderID string) string {
	return fmt.Sprintf("The mandate signature for order %s was not completed. You can retry from the checkout page.", orderID)
}
