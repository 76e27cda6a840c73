package partition

import (
	"bufio"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Persist writes the sealed entries, sorted and newline-separated, through
// a zstd stream to path.
func (s *Sealed) Persist(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating partition file %q: %w", path, err)
	}

	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("opening zstd writer for %q: %w", path, err)
	}

	w := bufio.NewWriter(zw)
	for _, e := range s.entries {
		if _, err := w.WriteString(e + "\n"); err != nil {
			f.Close()
			return fmt.Errorf("writing partition file %q: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing partition file %q: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("closing zstd stream for %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing partition file %q: %w", path, err)
	}
	return nil
}

// Load reads a persisted partition from path and returns it already
// sealed. A nonexistent path yields an empty open partition, not an error.
func Load(name, path string) (*Partition, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(name), nil
		}
		return nil, fmt.Errorf("opening partition file %q: %w", path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("opening zstd reader for %q: %w", path, err)
	}
	defer zr.Close()

	p := New(name)
	scanner := bufio.NewScanner(zr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		p.entries[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading partition file %q: %w", path, err)
	}

	p.Seal()
	return p, nil
}
