// Package cli wires the shotmail commands together.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/shotmail/internal/config"
	"github.com/ironsheep/shotmail/internal/mailer"
	"github.com/ironsheep/shotmail/internal/ocr"
)

// BuildInfo is stamped into the binary with ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// engine is an OCR recognizer that can verify its setup.
type engine interface {
	ocr.Recognizer
	Probe(ctx context.Context) error
	Close() error
}

// app carries the collaborators commands depend on, swappable in tests.
type app struct {
	info BuildInfo

	configPath string
	debug      bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	newEngine    func(opts ocr.Options) engine
	newTransport func(cfg mailer.SMTPConfig) mailer.Transport
	now          func() time.Time

	logger *slog.Logger
}

func newApp(info BuildInfo) *app {
	return &app{
		info:   info,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		newEngine: func(opts ocr.Options) engine {
			return ocr.NewTesseract(opts)
		},
		newTransport: func(cfg mailer.SMTPConfig) mailer.Transport {
			return mailer.NewSMTPTransport(cfg)
		},
		now: time.Now,
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(info BuildInfo) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(newApp(info))
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	var runOpts runOptions

	cmd := &cobra.Command{
		Use:   "shotmail",
		Short: "Extract email addresses from screenshots and send an application to each",
		Long: `shotmail reads .png/.jpg screenshots, recognizes the text with Tesseract,
collects every valid email address into a CSV file (backing up the previous
one), and after confirmation sends the configured message and resume to each
address.

Secrets are best kept in a .env file or the environment:
  SHOTMAIL_SMTP_USERNAME, SHOTMAIL_SMTP_PASSWORD

Set SHOTMAIL_LOG_LEVEL=debug (or pass --debug) to log recognized text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.setupLogger()
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPipeline(cmd.Context(), runOpts)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is ./"+config.DefaultPath+" if present)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "log recognized text and other details")
	addRunFlags(cmd, &runOpts)

	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newExtractCmd(a))
	cmd.AddCommand(newSendCmd(a))
	cmd.AddCommand(newVersionCmd(a))

	return cmd
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "log the messages instead of sending them")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "send without asking for confirmation")
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(a.stdout, "shotmail %s\n", a.info.Version)
			fmt.Fprintf(a.stdout, "  Build time: %s\n", a.info.BuildTime)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", a.info.GitCommit)
			return nil
		},
	}
}

// setupLogger configures the text logger on stderr.
func (a *app) setupLogger() {
	level := slog.LevelInfo
	if a.debug || strings.EqualFold(os.Getenv("SHOTMAIL_LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
}

// loadConfig reads the .env file and the YAML config.
func (a *app) loadConfig() (*config.Config, error) {
	config.LoadEnv()

	path, required := a.configPath, true
	if path == "" {
		path, required = config.DefaultPath, false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("configuration loaded", "config", path, "image_dir", cfg.ImageDir, "output", cfg.OutputFile)
	return cfg, nil
}
