package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/evilbit/evilcheck/internal/resolver"
)

// ExportCSV appends one record per verdict to path:
//
//	item, category, safe, reason, identified
//
// Absent reason and identified render as empty fields.
func ExportCSV(results map[string]resolver.Verdict, path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening export file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for item, v := range results {
		record := []string{
			item,
			v.Category.String(),
			strconv.FormatBool(v.Safe),
			string(v.Reason),
			v.Identified,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing export record for %q: %w", item, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing export file %q: %w", path, err)
	}
	return nil
}
