package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"time"
)

// ErrStartTLSUnsupported is returned when the server does not offer STARTTLS.
// Credentials are never sent over an unencrypted session.
var ErrStartTLSUnsupported = errors.New("mailer: server does not support STARTTLS")

// Transport delivers a composed message.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPConfig describes the submission server and account.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// Timeout bounds the dial and the whole session. Zero means 30 seconds.
	Timeout time.Duration

	// TLSConfig overrides the STARTTLS configuration. Nil verifies the
	// server certificate against Host.
	TLSConfig *tls.Config
}

const defaultTimeout = 30 * time.Second

// SMTPTransport submits each message over its own connection: dial, STARTTLS,
// PLAIN auth, MAIL/RCPT/DATA, QUIT.
type SMTPTransport struct {
	cfg  SMTPConfig
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewSMTPTransport returns a transport for cfg.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	d := &net.Dialer{Timeout: cfg.Timeout}
	return &SMTPTransport{
		cfg:  cfg,
		dial: d.DialContext,
	}
}

// Send delivers msg. The connection is never reused.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))

	conn, err := t.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	if err := conn.SetDeadline(time.Now().Add(t.cfg.Timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set deadline: %w", err)
	}

	c, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); !ok {
		return ErrStartTLSUnsupported
	}
	if err := c.StartTLS(t.tlsConfig()); err != nil {
		return fmt.Errorf("STARTTLS failed: %w", err)
	}

	if err := c.Auth(smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := c.Mail(msg.From); err != nil {
		return fmt.Errorf("MAIL FROM rejected: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("RCPT TO %s rejected: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA rejected: %w", err)
	}
	if _, err := w.Write(msg.Raw); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("message rejected: %w", err)
	}

	return c.Quit()
}

func (t *SMTPTransport) tlsConfig() *tls.Config {
	if t.cfg.TLSConfig != nil {
		return t.cfg.TLSConfig.Clone()
	}
	return &tls.Config{ServerName: t.cfg.Host}
}

// DryRunTransport logs what would be sent and delivers nothing.
type DryRunTransport struct {
	logger *slog.Logger
}

// NewDryRunTransport returns a DryRunTransport. A nil logger uses slog.Default().
func NewDryRunTransport(logger *slog.Logger) *DryRunTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRunTransport{logger: logger}
}

// Send logs msg and returns nil.
func (t *DryRunTransport) Send(ctx context.Context, msg *Message) error {
	t.logger.Info("dry run: email not sent",
		"to", msg.To,
		"subject", msg.Subject,
		"bytes", len(msg.Raw),
		"attachment", msg.Attachment,
	)
	return nil
}
