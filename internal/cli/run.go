package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/shotmail/internal/config"
	"github.com/ironsheep/shotmail/internal/extract"
	"github.com/ironsheep/shotmail/internal/imaging"
	"github.com/ironsheep/shotmail/internal/mailer"
	"github.com/ironsheep/shotmail/internal/ocr"
	"github.com/ironsheep/shotmail/internal/store"
)

// errAborted is returned when the operator declines to send.
var errAborted = errors.New("sending cancelled by operator")

type runOptions struct {
	dryRun bool
	yes    bool
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract addresses, confirm, then send (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPipeline(cmd.Context(), opts)
		},
	}
	addRunFlags(cmd, &opts)
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Extract addresses into the CSV file without sending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			_, err = a.extract(cmd.Context(), cfg)
			return err
		},
	}
}

func newSendCmd(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send to the addresses in the CSV file",
		Long: `Send reads the address list written by extract (after any manual edits)
and sends the configured message to every address in it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			addrs, err := store.ReadAddresses(cfg.OutputFile)
			if err != nil {
				return err
			}
			return a.confirmAndSend(cmd.Context(), cfg, addrs, opts)
		},
	}
	addRunFlags(cmd, &opts)
	return cmd
}

// runPipeline extracts, persists, confirms and sends.
func (a *app) runPipeline(ctx context.Context, opts runOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if !opts.dryRun {
		if err := cfg.ValidateSend(); err != nil {
			return err
		}
	}

	addrs, err := a.extract(ctx, cfg)
	if err != nil {
		return err
	}
	return a.confirmAndSend(ctx, cfg, addrs, opts)
}

// extract probes the OCR engine, scans the image directory and persists the
// address list.
func (a *app) extract(ctx context.Context, cfg *config.Config) ([]string, error) {
	mode, err := ocr.ParseEngineMode(cfg.OCR.EngineMode)
	if err != nil {
		return nil, err
	}
	eng := a.newEngine(ocr.Options{
		Language:       cfg.OCR.Language,
		TessdataPrefix: cfg.OCR.TessdataPrefix,
		EngineMode:     mode,
	})
	defer eng.Close()

	if err := eng.Probe(ctx); err != nil {
		return nil, err
	}

	a.logger.Info("extracting email addresses from screenshots", "dir", cfg.ImageDir)

	ex := extract.New(eng, extract.Options{
		RowHeight: cfg.RowHeight,
		Preprocess: imaging.PreprocessOptions{
			KernelSize: cfg.KernelSize,
			Scale:      cfg.Scale,
		},
	}, a.logger)

	result, err := ex.ExtractDir(ctx, cfg.ImageDir)
	if err != nil {
		return nil, err
	}
	if failed := result.Failed(); failed > 0 {
		a.logger.Warn("some images could not be processed", "failed", failed, "total", len(result.Images))
	}

	saved, err := store.Persist(cfg.OutputFile, result.Addresses, a.now())
	if err != nil {
		return nil, err
	}
	if saved.BackupPath != "" {
		a.logger.Info("backed up existing address list", "backup", saved.BackupPath)
	}
	if saved.Written {
		a.logger.Info("saved email addresses", "count", saved.Count, "path", cfg.OutputFile)
	} else {
		a.logger.Info("no emails extracted")
	}

	return result.Addresses, nil
}

// confirmAndSend lists the recipients, waits for the operator, and dispatches.
func (a *app) confirmAndSend(ctx context.Context, cfg *config.Config, addrs []string, opts runOptions) error {
	fmt.Fprintf(a.stdout, "Found %d unique email addresses:\n", len(addrs))
	if len(addrs) == 0 {
		fmt.Fprintln(a.stdout, "No emails to send.")
		return nil
	}
	for _, addr := range addrs {
		fmt.Fprintf(a.stdout, "  %s\n", addr)
	}

	if !opts.dryRun {
		if err := cfg.ValidateSend(); err != nil {
			return err
		}
	}

	if !opts.yes {
		ok, err := confirm(a.stdin, a.stdout, "Press Enter to start sending emails (review the list in "+cfg.OutputFile+"), or type 'n' to cancel: ")
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}

	var transport mailer.Transport
	if opts.dryRun {
		transport = mailer.NewDryRunTransport(a.logger)
	} else {
		transport = a.newTransport(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			Timeout:  cfg.SMTP.Timeout,
		})
	}

	body, err := cfg.MailBody()
	if err != nil {
		return err
	}

	composer := mailer.NewComposer(mailer.Template{
		From:           cfg.SMTP.From,
		Subject:        cfg.Mail.Subject,
		Body:           body,
		Markdown:       cfg.Mail.Markdown,
		AttachmentPath: cfg.Mail.Attachment,
	})

	a.logger.Info("sending emails", "count", len(addrs), "dry_run", opts.dryRun)
	report, err := mailer.NewDispatcher(composer, transport, cfg.Mail.SendDelay, a.logger).Dispatch(ctx, addrs)
	a.logger.Info("email sending complete", "attempted", report.Attempted, "sent", report.Sent, "failed", len(report.Failures))
	return err
}

// confirm prints prompt and reads one line. An empty line (Enter) or anything
// other than n/no/q/quit confirms; end of input without an answer declines.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		if line == "" {
			fmt.Fprintln(out)
			return false, nil
		}
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no", "q", "quit":
		return false, nil
	}
	return true, nil
}
