package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// sessionTimeout bounds a whole SMTP exchange when the caller's context has no deadline.
const sessionTimeout = 30 * time.Second

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// OTPMinutes is the validity window quoted in verification mail.
	OTPMinutes int
}

// SMTPSender delivers mail over SMTP. Port 465 uses implicit TLS,
// any other port upgrades with STARTTLS when the server offers it.
type SMTPSender struct {
	cfg Config
}

func NewSMTPSender(cfg Config) *SMTPSender {
	if cfg.From == "" {
		cfg.From = fmt.Sprintf("%q <%s>", "HostelWala Support", cfg.Username)
	}
	if cfg.OTPMinutes <= 0 {
		cfg.OTPMinutes = 10
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendOTP(ctx context.Context, to string, code string) error {
	body, err := renderOTP(code, s.cfg.OTPMinutes)
	if err != nil {
		return err
	}
	return s.send(ctx, to, otpSubject, body)
}

func (s *SMTPSender) SendBookingConfirmation(ctx context.Context, to string, booking Booking) error {
	body, err := renderBooking(booking)
	if err != nil {
		return err
	}
	return s.send(ctx, to, "Booking Confirmed: "+booking.HostelName, body)
}

func (s *SMTPSender) send(ctx context.Context, to string, subject string, body string) error {
	message := buildMessage(s.cfg.From, to, subject, body)
	fromAddr := parseAddress(s.cfg.From)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	client, err := smtpClient(ctx, s.cfg.Host, s.cfg.Port)
	if err != nil {
		return fmt.Errorf("smtp connect: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(fromAddr); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(message)); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func smtpClient(ctx context.Context, host string, port int) (*smtp.Client, error) {
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	dialer := &net.Dialer{Timeout: 15 * time.Second}

	var conn net.Conn
	var err error
	if port == 465 {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: host}}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	_ = conn.SetDeadline(sessionDeadline(ctx, time.Now()))

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
				_ = client.Close()
				return nil, err
			}
		}
	}
	return client, nil
}

// sessionDeadline is the context deadline, or now+sessionTimeout when there is none.
func sessionDeadline(ctx context.Context, now time.Time) time.Time {
	if deadline, ok := ctx.Deadline(); ok {
		return deadline
	}
	return now.Add(sessionTimeout)
}

func buildMessage(from string, to string, subject string, body string) string {
	var buf bytes.Buffer
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=utf-8",
		"",
	}
	buf.WriteString(strings.Join(headers, "\r\n"))
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func parseAddress(from string) string {
	start := strings.Index(from, "<")
	end := strings.Index(from, ">")
	if start >= 0 && end > start {
		return strings.TrimSpace(from[start+1 : end])
	}
	return strings.TrimSpace(from)
}
