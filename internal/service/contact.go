package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chapelworks/mediasync/internal/adapter"
	"github.com/chapelworks/mediasync/models"
)

// ContactService submits visitor messages to the write-only contacts
// collection. Submissions are fire-and-forget; the client never lists
// them back.
type ContactService struct {
	gateway adapter.CollectionGateway
}

// NewContactService creates a ContactService over the given gateway.
func NewContactService(gateway adapter.CollectionGateway) *ContactService {
	return &ContactService{gateway: gateway}
}

// Submit validates and sends one contact request. New messages always
// enter the backend with status "unread".
func (s *ContactService) Submit(ctx context.Context, req models.ContactRequest) error {
	if err := validateContactRequest(req); err != nil {
		return err
	}

	payload := models.CreatePayload{
		Fields: map[string]string{
			"name":    strings.TrimSpace(req.Name),
			"email":   strings.TrimSpace(req.Email),
			"subject": strings.TrimSpace(req.Subject),
			"message": strings.TrimSpace(req.Message),
			"status":  "unread",
		},
	}

	if _, err := s.gateway.Create(ctx, "contacts", payload); err != nil {
		return fmt.Errorf("submit contact request: %w", err)
	}
	return nil
}

func validateContactRequest(req models.ContactRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return fmt.Errorf("%w: name is required", adapter.ErrValidation)
	case strings.TrimSpace(req.Email) == "":
		return fmt.Errorf("%w: email is required", adapter.ErrValidation)
	case !strings.Contains(req.Email, "@"):
		return fmt.Errorf("%w: email %q is not an address", adapter.ErrValidation, req.Email)
	case strings.TrimSpace(req.Message) == "":
		return fmt.Errorf("%w: message is required", adapter.ErrValidation)
	}
	return nil
}
