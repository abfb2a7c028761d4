package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/quickkart/quickkart/internal/logger"
	"github.com/quickkart/quickkart/internal/provider"
	"github.com/quickkart/quickkart/internal/queue"
	"github.com/quickkart/quickkart/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles async mail tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates a consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register attaches the task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskVerificationEmail, c.handleVerificationEmail)
	mux.HandleFunc(queue.TaskOrderConfirmationEmail, c.handleOrderConfirmationEmail)
}

func (c *Consumer) handleVerificationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.VerificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_verification_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || strings.TrimSpace(payload.Token) == "" {
		logger.Debugw("worker_verification_email_skip_invalid_payload", "email", email)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_verification_email_skip_email_service_nil", "email", email)
		return nil
	}
	if err := c.EmailService.SendVerificationLink(email, payload.Token); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) {
			logger.Debugw("worker_verification_email_skip_disabled", "email", email)
			return nil
		}
		logger.Warnw("worker_verification_email_send_failed", "email", email, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderConfirmationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderConfirmationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmation_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirmation_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	full, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_confirmation_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if full == nil {
		logger.Debugw("worker_order_confirmation_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}

	user, err := c.UserRepo.GetByID(full.UserID)
	if err != nil {
		logger.Warnw("worker_order_confirmation_fetch_user_failed", "order_id", full.ID, "user_id", full.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_order_confirmation_skip_empty_receiver", "order_id", full.ID, "order_no", full.OrderNo)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_confirmation_skip_email_service_nil", "order_id", full.ID)
		return nil
	}

	input := service.OrderConfirmationInput{
		OrderNo: full.OrderNo,
		Total:   full.TotalAmount,
	}
	if err := c.EmailService.SendOrderConfirmation(user.Email, input); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) {
			logger.Debugw("worker_order_confirmation_skip_disabled", "order_no", full.OrderNo)
			return nil
		}
		logger.Warnw("worker_order_confirmation_send_failed",
			"order_id", full.ID,
			"order_no", full.OrderNo,
			"receiver_email", user.Email,
			"error", err,
		)
		return err
	}
	return nil
}
