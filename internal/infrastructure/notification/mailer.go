package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/cleardrip/cleardrip/internal/infrastructure/config"
	apperrors "github.com/cleardrip/cleardrip/pkg/errors"
)

// Mailer 邮件发送接口(worker进程使用)
type Mailer interface {
	// Send 发送HTML邮件
	Send(to, subject, htmlBody string) error
}

// smtpMailer 基于SMTP的邮件发送实现
type smtpMailer struct {
	addr     string
	from     string
	auth     smtp.Auth
	hasCreds bool
}

// NewMailer 创建SMTP邮件发送器
func NewMailer(cfg config.SMTPConfig) Mailer {
	m := &smtpMailer{
		addr: cfg.Addr(),
		from: cfg.From,
	}
	if cfg.Username != "" {
		m.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
		m.hasCreds = true
	}
	return m
}

// Send 发送HTML邮件
// 教学要点:
// 1. 消息体按RFC 5322组装,Content-Type声明HTML
// 2. 发送失败返回错误,由Consumer的Nack机制重试
func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.hasCreds {
		auth = m.auth
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return apperrors.Wrap(err, "邮件发送失败")
	}

	zap.L().Info("邮件已发送",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
