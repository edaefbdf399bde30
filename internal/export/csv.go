package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bjulian5/prdash/internal/model"
)

// ErrFileExists is returned by WriteFile when the target exists and overwrite was not requested
var ErrFileExists = errors.New("file already exists")

// WriteCSV writes a header row and one row per record
func WriteCSV(w io.Writer, records []model.Record, cols []Column) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers(cols)); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(Row(r, cols)); err != nil {
			return fmt.Errorf("failed to write csv row for PR #%d: %w", r.Number, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// WriteFile writes the CSV to path, refusing to replace an existing file unless overwrite is set
func WriteFile(path string, records []model.Record, cols []Column, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrFileExists)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteCSV(f, records, cols); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
