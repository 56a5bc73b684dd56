// Package config loads shotmail settings from defaults, an optional YAML file,
// an optional .env file and SHOTMAIL_* environment variables, in that order of
// precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/shotmail/internal/ocr"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "shotmail.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SHOTMAIL_"

// ErrInvalid marks validation failures.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every setting of a run.
type Config struct {
	// ImageDir is the directory scanned for .png/.jpg screenshots.
	ImageDir string `yaml:"image_dir"`

	// OutputFile is the address list CSV. Empty means
	// <ImageDir>/extracted_emails.csv.
	OutputFile string `yaml:"output_file"`

	RowHeight  int     `yaml:"row_height"`
	Scale      float64 `yaml:"scale"`
	KernelSize int     `yaml:"kernel_size"`

	OCR  OCRConfig  `yaml:"ocr"`
	SMTP SMTPConfig `yaml:"smtp"`
	Mail MailConfig `yaml:"mail"`
}

// OCRConfig selects Tesseract language data.
type OCRConfig struct {
	Language       string `yaml:"language"`
	TessdataPrefix string `yaml:"tessdata_prefix"`

	// EngineMode is one of lstm, default, legacy or combined.
	EngineMode string `yaml:"engine_mode"`
}

// SMTPConfig describes the submission server and account.
type SMTPConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	From     string        `yaml:"from"`
	Timeout  time.Duration `yaml:"timeout"`
}

// MailConfig is the outreach template.
type MailConfig struct {
	Subject    string        `yaml:"subject"`
	Body       string        `yaml:"body"`
	BodyFile   string        `yaml:"body_file"`
	Markdown   bool          `yaml:"markdown"`
	Attachment string        `yaml:"attachment"`
	SendDelay  time.Duration `yaml:"send_delay"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ImageDir:   "screenshots",
		RowHeight:  60,
		Scale:      3.0,
		KernelSize: 3,
		OCR: OCRConfig{
			Language:   "eng",
			EngineMode: "lstm",
		},
		SMTP: SMTPConfig{
			Host:    "smtp.gmail.com",
			Port:    587,
			Timeout: 30 * time.Second,
		},
		Mail: MailConfig{
			SendDelay: 500 * time.Millisecond,
		},
	}
}

// LoadEnv loads .env files into the process environment. Missing files are
// ignored; variables already set are not overridden.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load builds the configuration.
//
// path names a YAML file. When required is false a missing file is skipped,
// which is how the default shotmail.yaml is treated. Environment variables are
// applied on top and the result is validated.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays SHOTMAIL_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalid, EnvPrefix, key, v)
			}
			*dst = n
		}
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: %s%s=%q is not a duration", ErrInvalid, EnvPrefix, key, v)
			}
			*dst = d
		}
		return nil
	}

	str("IMAGE_DIR", &c.ImageDir)
	str("OUTPUT_FILE", &c.OutputFile)
	str("OCR_LANGUAGE", &c.OCR.Language)
	str("TESSDATA_PREFIX", &c.OCR.TessdataPrefix)
	str("OCR_ENGINE_MODE", &c.OCR.EngineMode)
	str("SMTP_HOST", &c.SMTP.Host)
	str("SMTP_USERNAME", &c.SMTP.Username)
	str("SMTP_PASSWORD", &c.SMTP.Password)
	str("SMTP_FROM", &c.SMTP.From)
	str("MAIL_SUBJECT", &c.Mail.Subject)
	str("MAIL_BODY_FILE", &c.Mail.BodyFile)
	str("RESUME_PATH", &c.Mail.Attachment)

	if err := num("ROW_HEIGHT", &c.RowHeight); err != nil {
		return err
	}
	if err := num("SMTP_PORT", &c.SMTP.Port); err != nil {
		return err
	}
	return dur("SEND_DELAY", &c.Mail.SendDelay)
}

// resolve fills derived values.
func (c *Config) resolve() error {
	if c.OutputFile == "" {
		c.OutputFile = filepath.Join(c.ImageDir, "extracted_emails.csv")
	}
	if c.SMTP.From == "" {
		c.SMTP.From = c.SMTP.Username
	}
	if strings.EqualFold(filepath.Ext(c.Mail.BodyFile), ".md") {
		c.Mail.Markdown = true
	}
	return nil
}

// MailBody returns the message body, reading mail.body_file when mail.body is
// empty. The file is only read here, so commands that never send do not need
// it to exist.
func (c *Config) MailBody() (string, error) {
	if c.Mail.Body != "" || c.Mail.BodyFile == "" {
		return c.Mail.Body, nil
	}
	data, err := os.ReadFile(c.Mail.BodyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read mail body: %w", err)
	}
	return string(data), nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	var problems []string

	if c.ImageDir == "" {
		problems = append(problems, "image_dir is required")
	}
	if c.RowHeight <= 0 {
		problems = append(problems, "row_height must be positive")
	}
	if c.Scale <= 0 {
		problems = append(problems, "scale must be positive")
	}
	if c.KernelSize < 0 {
		problems = append(problems, "kernel_size must not be negative")
	}
	if c.Mail.SendDelay < 0 {
		problems = append(problems, "mail.send_delay must not be negative")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		problems = append(problems, "smtp.port must be between 1 and 65535")
	}
	if _, err := ocr.ParseEngineMode(c.OCR.EngineMode); err != nil {
		problems = append(problems, "ocr.engine_mode must be lstm, default, legacy or combined")
	}

	return problemsError(problems)
}

// ValidateSend checks the settings needed to deliver mail.
func (c *Config) ValidateSend() error {
	var problems []string

	if c.SMTP.Host == "" {
		problems = append(problems, "smtp.host is required")
	}
	if c.SMTP.Username == "" {
		problems = append(problems, "smtp.username is required (or "+EnvPrefix+"SMTP_USERNAME)")
	}
	if c.SMTP.Password == "" {
		problems = append(problems, "smtp.password is required (or "+EnvPrefix+"SMTP_PASSWORD)")
	}
	if c.SMTP.From == "" {
		problems = append(problems, "smtp.from is required")
	}
	if strings.TrimSpace(c.Mail.Subject) == "" {
		problems = append(problems, "mail.subject is required")
	}
	switch body, err := c.MailBody(); {
	case err != nil:
		problems = append(problems, "mail.body_file: "+err.Error())
	case strings.TrimSpace(body) == "" && c.Mail.BodyFile != "":
		problems = append(problems, "mail.body_file is empty")
	case strings.TrimSpace(body) == "":
		problems = append(problems, "mail.body or mail.body_file is required")
	}

	return problemsError(problems)
}

func problemsError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}
