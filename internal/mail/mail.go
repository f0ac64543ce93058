package mail

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
)

// Message 純文字郵件
type Message struct {
	To      string
	Subject string
	Text    string
}

// Mailer sends transactional email such as password reset links.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Options SMTP 連線設定
type Options struct {
	Host      string
	Port      int
	User      string
	Pass      string
	FromEmail string
	FromName  string
}

var smtpSendMail = smtp.SendMail

type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from mail.Address
}

func NewSMTPMailer(o Options) (*SMTPMailer, error) {
	if o.Host == "" || o.Port == 0 || o.FromEmail == "" {
		return nil, errors.New("smtp not configured")
	}
	m := &SMTPMailer{
		addr: o.Host + ":" + strconv.Itoa(o.Port),
		from: mail.Address{Name: o.FromName, Address: o.FromEmail},
	}
	if o.User != "" {
		m.auth = smtp.PlainAuth("", o.User, o.Pass, o.Host)
	}
	return m, nil
}

// Send 寄出前先確認 ctx 尚未取消；smtp.SendMail 本身不支援 ctx
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(msg.To+msg.Subject, "\r\n") {
		return errors.New("invalid header value")
	}
	if err := smtpSendMail(m.addr, m.auth, m.from.Address, []string{msg.To}, m.build(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.from.String() + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.Text + "\r\n")
	return []byte(b.String())
}

// FakeMailer 測試用
type FakeMailer struct {
	SendFn func(ctx context.Context, msg Message) error
}

func (f *FakeMailer) Send(ctx context.Context, msg Message) error {
	if f.SendFn != nil {
		return f.SendFn(ctx, msg)
	}
	panic("unexpected Send")
}
