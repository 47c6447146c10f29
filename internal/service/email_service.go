package service

import (
	"fmt"
	"net/smtp"
	"strings"

	"learnify_backend/internal/config"
)

// EmailService 通过 SMTP 发送系统邮件（验证码、重置密码）
type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) Send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	var msg strings.Builder
	msg.WriteString("From: " + s.cfg.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}

func (s *EmailService) SendVerificationCode(to, firstname, code string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Verify Your Email</h2>
			<p>Hi %s,</p>
			<p>Your verification code is:</p>
			<div style="font-size: 32px; font-weight: bold; letter-spacing: 8px; padding: 16px 0;">%s</div>
			<p>This code expires in 15 minutes. If you did not create an account, you can ignore this email.</p>
		</div>`, firstname, code)
	return s.Send(to, "Verify your email address", body)
}

func (s *EmailService) SendPasswordReset(to, firstname, resetURL string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Password Reset</h2>
			<p>Hi %s,</p>
			<p>We received a request to reset your password. Click the link below to choose a new one:</p>
			<p><a href="%s" style="display: inline-block; padding: 12px 24px; background: #4f46e5; color: #fff; text-decoration: none; border-radius: 6px;">Reset Password</a></p>
			<p>The link expires in 1 hour. If you did not request a reset, you can ignore this email.</p>
		</div>`, firstname, resetURL)
	return s.Send(to, "Reset your password", body)
}
