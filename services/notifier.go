package services

import (
	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
)

// Notifier delivers a message to a buyer. Delivery failures are logged by
// callers, never retried by the engine.
type Notifier interface {
	Notify(user *models.User, subject, body string) error
}

// EmailNotifier sends notifications over SMTP.
type EmailNotifier struct{}

// Notify implements Notifier.
func (EmailNotifier) Notify(user *models.User, subject, body string) error {
	return utils.SendEmail(user.Email, subject, body)
}
