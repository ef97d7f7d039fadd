// Package selectors holds the per-domain selector configuration used by the
// job posting scraper and resolves a posting URL to its domain key.
package selectors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultKey is the fallback domain key used when no configured key matches.
const DefaultKey = "default"

// Field names understood by the scraper.
const (
	FieldTitle       = "job_title"
	FieldLocation    = "job_loc"
	FieldDescription = "job_desc"
	FieldCompany     = "company"
)

// FieldSelectors maps a field name to its ordered candidate selectors.
type FieldSelectors map[string][]string

// Repository is an immutable, ordered mapping of domain key to selectors.
// Key order matters: Resolve returns the first key contained in the URL.
type Repository struct {
	keys []string
	sets map[string]FieldSelectors
}

// New builds a repository from keys in resolution order. Keys missing from
// sets are dropped; duplicates keep their first position.
func New(keys []string, sets map[string]FieldSelectors) *Repository {
	r := &Repository{sets: make(map[string]FieldSelectors, len(sets))}
	for _, k := range keys {
		fs, ok := sets[k]
		if !ok {
			continue
		}
		if _, dup := r.sets[k]; dup {
			continue
		}
		r.keys = append(r.keys, k)
		r.sets[k] = copySet(fs)
	}
	return r
}

// Load reads a JSON selector file.
func Load(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selectors: %w", err)
	}
	repo, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return repo, nil
}

// Parse decodes `{ domain_key: { field: [selector, ...] } }` keeping the
// document order of the domain keys.
func Parse(r io.Reader) (*Repository, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read opening brace: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("selector config must be a JSON object")
	}

	var keys []string
	sets := make(map[string]FieldSelectors)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read domain key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var fs FieldSelectors
		if err := dec.Decode(&fs); err != nil {
			return nil, fmt.Errorf("decode selectors for %q: %w", key, err)
		}
		if _, dup := sets[key]; !dup {
			keys = append(keys, key)
		}
		sets[key] = fs
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read closing brace: %w", err)
	}
	return New(keys, sets), nil
}

// Keys returns the domain keys in resolution order.
func (r *Repository) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Lookup returns the selector set for key.
func (r *Repository) Lookup(key string) (FieldSelectors, bool) {
	fs, ok := r.sets[key]
	if !ok {
		return nil, false
	}
	return copySet(fs), true
}

// HasDefault reports whether the fallback key is configured.
func (r *Repository) HasDefault() bool {
	_, ok := r.sets[DefaultKey]
	return ok
}

// Resolve maps url to the first configured key that is a substring of it,
// or DefaultKey. Matching is case-sensitive and the URL is not normalized.
func (r *Repository) Resolve(url string) string {
	for _, key := range r.keys {
		if key == DefaultKey || key == "" {
			continue
		}
		if strings.Contains(url, key) {
			return key
		}
	}
	return DefaultKey
}

func copySet(fs FieldSelectors) FieldSelectors {
	out := make(FieldSelectors, len(fs))
	for field, list := range fs {
		out[field] = append([]string(nil), list...)
	}
	return out
}
