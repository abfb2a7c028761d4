package queue

import (
	"encoding/json"

	"github.com/quickkart/quickkart/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskVerificationEmail delivers the email verification link.
	TaskVerificationEmail = constants.TaskVerificationEmail
	// TaskOrderConfirmationEmail delivers the order confirmation.
	TaskOrderConfirmationEmail = constants.TaskOrderConfirmationEmail
)

// VerificationEmailPayload carries the verification mail parameters.
type VerificationEmailPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// OrderConfirmationEmailPayload carries the order confirmation parameters.
type OrderConfirmationEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// NewVerificationEmailTask creates a verification mail task.
func NewVerificationEmailTask(payload VerificationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVerificationEmail, body), nil
}

// NewOrderConfirmationEmailTask creates an order confirmation task.
func NewOrderConfirmationEmailTask(payload OrderConfirmationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmationEmail, body), nil
}
