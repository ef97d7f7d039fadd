package tailor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DirName builds "YYYY-MM-DD_<Company>_<JobTitle>_v<N>".
func DirName(day time.Time, company, title string, version int) string {
	return fmt.Sprintf("%s_%s_%s_v%d", day.Format("2006-01-02"), slug(company), slug(title), version)
}

// NextOutputDir creates and returns the first unused versioned directory
// under base for this posting.
func NextOutputDir(base string, day time.Time, company, title string) (string, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", fmt.Errorf("could not create output dir: %w", err)
	}
	for v := 1; ; v++ {
		dir := filepath.Join(base, DirName(day, company, title, v))
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("could not create output dir: %w", err)
		}
	}
}

// slug keeps letters, digits, '-' and '.', joining words with '-'.
func slug(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.', r > 127:
			return false
		}
		return true
	})
	out := strings.Trim(strings.Join(words, "-"), ".-")
	if out == "" {
		return "unknown"
	}
	return out
}
