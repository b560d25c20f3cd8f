package services

import (
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"fmt"
	"html"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

// EmailService sends staff notifications through Resend. Without an API key
// it only logs what it would have sent.
type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	var client *resend.Client
	if cfg.Email.ApiKey != "" {
		client = resend.NewClient(cfg.Email.ApiKey)
	} else {
		logger.Warn("RESEND_API_KEY not set, emails will not be sent")
	}

	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: client,
	}
}

func (es *EmailService) Enabled() bool {
	return es != nil && es.client != nil
}

func (es *EmailService) SendEmail(to []string, subject string, body string) error {
	if !es.Enabled() {
		es.logger.Debug("Email delivery disabled", gecho.Field("to", to), gecho.Field("subject", subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	sent, err := es.client.Emails.Send(params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	es.logger.Info("Email sent", gecho.Field("id", sent.Id), gecho.Field("subject", subject))
	return nil
}

// SendWelcomeEmail tells a new staff member their username and role.
func (es *EmailService) SendWelcomeEmail(user *tables.User) error {
	if user.Email == "" {
		return nil
	}

	content := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>An account has been created for you on the %s point of sale.</p>
		<p>Username: <strong>%s</strong><br>Role: <strong>%s</strong></p>
		<p>Your manager will give you your initial password. Please change it after your first login.</p>`,
		html.EscapeString(user.FullName),
		html.EscapeString(es.cfg.Server.AppName),
		html.EscapeString(user.Username),
		html.EscapeString(string(user.Role)),
	)

	return es.SendEmail([]string{user.Email}, "Welcome to "+es.cfg.Server.AppName, es.layout("Welcome", content))
}

// SendPasswordChangedEmail notifies the user that their password changed.
func (es *EmailService) SendPasswordChangedEmail(user *tables.User) error {
	if user.Email == "" {
		return nil
	}

	content := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>The password of your account <strong>%s</strong> was just changed.</p>
		<p>If this was not you, contact your manager immediately.</p>`,
		html.EscapeString(user.FullName),
		html.EscapeString(user.Username),
	)

	return es.SendEmail([]string{user.Email}, "Your password was changed", es.layout("Password changed", content))
}

func (es *EmailService) layout(title, content string) string {
	return fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.header { background-color: #6F4E37; color: white; padding: 20px; text-align: center; }
				.content { padding: 20px; background-color: #f9f9f9; }
				.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="header"><h1>%s</h1></div>
				<div class="content">%s</div>
				<div class="footer">%s</div>
			</div>
		</body>
		</html>`,
		html.EscapeString(title), content, html.EscapeString(es.cfg.Server.AppName))
}
