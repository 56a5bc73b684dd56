package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/yuin/goldmark"
)

// Template is the fixed content sent to every recipient.
type Template struct {
	// From is the sender address, normally the authenticated account.
	From string

	Subject string

	// Body is the plain-text message body.
	Body string

	// Markdown adds a text/html alternative rendered from Body. The plain
	// part still carries Body verbatim.
	Markdown bool

	// AttachmentPath is attached when the file exists. Empty or missing means
	// the message goes out without an attachment.
	AttachmentPath string
}

// Message is a composed message ready for a Transport.
type Message struct {
	From    string
	To      []string
	Subject string

	// Raw is the RFC 5322 message including headers.
	Raw []byte

	// Attachment is the attached file name, or "" if none was attached.
	Attachment string
}

// Composer builds one Message per recipient from a Template.
type Composer struct {
	tmpl     Template
	now      func() time.Time
	readFile func(string) ([]byte, error)
}

// NewComposer returns a Composer for tmpl.
func NewComposer(tmpl Template) *Composer {
	return &Composer{
		tmpl:     tmpl,
		now:      time.Now,
		readFile: os.ReadFile,
	}
}

// Compose builds the message for one recipient.
//
// The message is multipart/mixed with a UTF-8 text/plain part (plus a
// text/html alternative for Markdown templates). The attachment
// is re-read from disk on every call; if it does not exist the message is built
// without it and no error is returned. Any other read failure is an error.
func (c *Composer) Compose(to string) (*Message, error) {
	attachment, name, err := c.loadAttachment()
	if err != nil {
		return nil, err
	}

	var h mail.Header
	h.SetDate(c.now())
	h.SetAddressList("From", []*mail.Address{{Address: c.tmpl.From}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(c.tmpl.Subject)

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("failed to create text section: %w", err)
	}
	if err := writeInline(tw, "text/plain", []byte(c.tmpl.Body)); err != nil {
		return nil, err
	}
	if c.tmpl.Markdown {
		var html bytes.Buffer
		if err := goldmark.Convert([]byte(c.tmpl.Body), &html); err != nil {
			return nil, fmt.Errorf("failed to render markdown body: %w", err)
		}
		if err := writeInline(tw, "text/html", html.Bytes()); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close text section: %w", err)
	}

	if attachment != nil {
		var ah mail.AttachmentHeader
		ah.SetContentType(attachmentType(name), nil)
		ah.SetFilename(name)
		w, err := mw.CreateAttachment(ah)
		if err != nil {
			return nil, fmt.Errorf("failed to create attachment part: %w", err)
		}
		if _, err := w.Write(attachment); err != nil {
			return nil, fmt.Errorf("failed to write attachment: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("failed to close attachment part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish message: %w", err)
	}

	return &Message{
		From:       c.tmpl.From,
		To:         []string{to},
		Subject:    c.tmpl.Subject,
		Raw:        buf.Bytes(),
		Attachment: name,
	}, nil
}

// writeInline adds one UTF-8 part of contentType to the text section.
func writeInline(tw *mail.InlineWriter, contentType string, body []byte) error {
	var h mail.InlineHeader
	h.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	w, err := tw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", contentType, err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write %s part: %w", contentType, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s part: %w", contentType, err)
	}
	return nil
}

// loadAttachment returns the attachment bytes and base name, or nil when the
// template has no attachment or the file is absent.
func (c *Composer) loadAttachment() ([]byte, string, error) {
	if c.tmpl.AttachmentPath == "" {
		return nil, "", nil
	}

	data, err := c.readFile(c.tmpl.AttachmentPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read attachment: %w", err)
	}

	return data, filepath.Base(c.tmpl.AttachmentPath), nil
}

// attachmentType picks a MIME type from the file extension, falling back to
// application/octet-stream.
func attachmentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		mediaType, _, err := mime.ParseMediaType(t)
		if err == nil {
			return mediaType
		}
	}
	return "application/octet-stream"
}
