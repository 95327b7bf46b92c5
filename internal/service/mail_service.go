package service

import (
	"bytes"
	"eduwithme_backend/internal/config"
	"fmt"
	"html/template"
	"net/smtp"
)

type MailService struct {
	Cfg *config.MailConfig
}

func NewMailService(cfg *config.MailConfig) *MailService {
	return &MailService{Cfg: cfg}
}

func (s *MailService) send(to, subject, body string) error {
	var auth smtp.Auth
	if s.Cfg.Username != "" || s.Cfg.Password != "" {
		auth = smtp.PlainAuth("", s.Cfg.Username, s.Cfg.Password, s.Cfg.Host)
	}

	msg := fmt.Sprintf("From: %s\r\n", s.Cfg.From)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=UTF-8\r\n"
	msg += "\r\n"
	msg += body

	addr := fmt.Sprintf("%s:%d", s.Cfg.Host, s.Cfg.Port)

	if err := smtp.SendMail(addr, auth, s.Cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

const authCodeTemplate = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .code { font-size: 32px; font-weight: bold; color: #007bff; letter-spacing: 5px; margin: 20px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h2>EduWithMe - Verification Code</h2>
        <p>Your verification code is:</p>
        <div class="code">{{.Code}}</div>
        <p>This code will expire in 5 minutes.</p>
        <div class="footer">
            <p>If you didn't request this code, please ignore this email.</p>
        </div>
    </div>
</body>
</html>
`

// SendAuthCode 发送注册/找回密码的验证码邮件
func (s *MailService) SendAuthCode(email, code string) error {
	t, err := template.New("auth_code").Parse(authCodeTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, map[string]string{"Code": code}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.send(email, "EduWithMe - Your Verification Code", body.String())
}

const tempPasswordTemplate = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .code { font-size: 24px; font-weight: bold; color: #007bff; margin: 20px 0; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h2>EduWithMe - Temporary Password</h2>
        <p>Your temporary password is:</p>
        <div class="code">{{.Password}}</div>
        <p>Please log in and change it right away.</p>
        <div class="footer">
            <p>If you didn't request this, please contact support.</p>
        </div>
    </div>
</body>
</html>
`

// SendTempPassword 发送临时密码邮件
func (s *MailService) SendTempPassword(email, tempPassword string) error {
	t, err := template.New("temp_password").Parse(tempPasswordTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, map[string]string{"Password": tempPassword}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.send(email, "EduWithMe - Temporary Password", body.String())
}
