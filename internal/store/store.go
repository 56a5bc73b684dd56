// Package store persists the extracted address list as a one-column CSV file.
//
// Every run overwrites the list, but a list left by a previous run is first
// renamed to a timestamped backup next to it, so no run silently destroys the
// output of the one before.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Header is the single column name written to the address list.
const Header = "email"

// backupLayout formats the backup timestamp as year-month-day_hour-minute.
const backupLayout = "20060102_1504"

// PersistResult describes what Persist did.
type PersistResult struct {
	// BackupPath is where the previous list was moved, or "" if there was none.
	BackupPath string

	// Written reports whether a new list was written. It is false for an empty
	// address set.
	Written bool

	// Count is the number of addresses written.
	Count int
}

// Persist records addrs at path.
//
// Backing up and writing are independent steps: an existing file at path is
// always renamed to a backup, and a new file is written only when addrs is
// non-empty. An empty run therefore leaves the previous list in its backup and
// no file at path.
func Persist(path string, addrs []string, now time.Time) (*PersistResult, error) {
	result := &PersistResult{}

	if _, err := os.Stat(path); err == nil {
		backup, err := BackupName(path, now)
		if err != nil {
			return nil, err
		}
		if err := os.Rename(path, backup); err != nil {
			return nil, fmt.Errorf("failed to back up %s: %w", path, err)
		}
		result.BackupPath = backup
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if len(addrs) == 0 {
		return result, nil
	}

	if err := writeList(path, addrs); err != nil {
		return nil, err
	}
	result.Written = true
	result.Count = len(addrs)

	return result, nil
}

// BackupName returns a free backup path for path at time now, of the form
// <base>_backup_<YYYYMMDD_HHMM><ext>. If that name is taken (two runs in the
// same minute), "-1", "-2", ... is appended before the extension.
func BackupName(path string, now time.Time) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	stem := fmt.Sprintf("%s_backup_%s", base, now.Format(backupLayout))

	candidate := stem + ext
	for i := 1; ; i++ {
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
}

func writeList(path string, addrs []string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{Header}); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, addr := range addrs {
		if err := w.Write([]string{addr}); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", addr, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// ReadAddresses loads an address list, typically one the operator reviewed or
// edited after extraction.
//
// The first column of every row is used. A leading "email" header, blank rows
// and repeated addresses are skipped; surrounding whitespace is trimmed. Order
// of first appearance is kept.
func ReadAddresses(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open address list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var (
		addrs []string
		seen  = make(map[string]bool)
		first = true
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		if len(record) == 0 {
			continue
		}
		addr := strings.TrimSpace(record[0])
		if first {
			first = false
			if strings.EqualFold(addr, Header) {
				continue
			}
		}
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		addrs = append(addrs, addr)
	}

	return addrs, nil
}
