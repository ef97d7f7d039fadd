package selectors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
  "myworkdayjobs.com": {"job_title": ["h2[data-automation-id='jobPostingHeader']"], "job_loc": ["dd"], "job_desc": ["div[data-automation-id='jobPostingDescription']"]},
  "greenhouse.io": {"job_title": ["h1.app-title", "h1"], "job_loc": [".location"], "job_desc": ["#content"]},
  "job-boards.greenhouse.io": {"job_title": ["h1"], "job_loc": [], "job_desc": [".job__description"]},
  "default": {"job_title": ["h1"], "job_loc": ["span.loc"], "job_desc": ["div.desc"]}
}`

func mustParse(t *testing.T, src string) *Repository {
	t.Helper()
	repo, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	return repo
}

func TestParse_KeepsDocumentOrder(t *testing.T) {
	repo := mustParse(t, sampleConfig)

	assert.Equal(t, []string{"myworkdayjobs.com", "greenhouse.io", "job-boards.greenhouse.io", "default"}, repo.Keys())
	assert.True(t, repo.HasDefault())

	fs, ok := repo.Lookup("greenhouse.io")
	require.True(t, ok)
	assert.Equal(t, []string{"h1.app-title", "h1"}, fs[FieldTitle])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "array root", src: `[]`},
		{name: "bad field list", src: `{"default": {"job_title": "h1"}}`},
		{name: "truncated", src: `{"default": {"job_title": ["h1"]}`},
		{name: "empty", src: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestResolve(t *testing.T) {
	repo := mustParse(t, sampleConfig)

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "workday", url: "https://mjh.wd1.myworkdayjobs.com/Careers/job/NJ/Web_JR102043", want: "myworkdayjobs.com"},
		{name: "first key in order wins", url: "https://job-boards.greenhouse.io/greenhouse/jobs/6605179", want: "greenhouse.io"},
		{name: "no match", url: "https://example.com/careers/1", want: DefaultKey},
		{name: "case sensitive", url: "https://GREENHOUSE.IO/jobs/1", want: DefaultKey},
		{name: "empty url", url: "", want: DefaultKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repo.Resolve(tt.url))
		})
	}
}

func TestResolve_AlwaysReturnsConfiguredKey(t *testing.T) {
	repo := mustParse(t, sampleConfig)

	urls := []string{"", "default", "http://default.example", "\x00", "greenhouse.io", "https://lever.co/x", strings.Repeat("a", 4096)}
	for _, u := range urls {
		key := repo.Resolve(u)
		_, ok := repo.Lookup(key)
		assert.True(t, ok, "resolved key %q for %q must exist", key, u)
	}
}

func TestRepository_IsImmutable(t *testing.T) {
	sets := map[string]FieldSelectors{DefaultKey: {FieldTitle: {"h1"}}}
	repo := New([]string{DefaultKey}, sets)

	sets[DefaultKey][FieldTitle][0] = "mutated"
	fs, _ := repo.Lookup(DefaultKey)
	assert.Equal(t, "h1", fs[FieldTitle][0])

	fs[FieldTitle][0] = "mutated again"
	again, _ := repo.Lookup(DefaultKey)
	assert.Equal(t, "h1", again[FieldTitle][0])

	keys := repo.Keys()
	keys[0] = "other"
	assert.Equal(t, []string{DefaultKey}, repo.Keys())
}

func TestNew_DropsUnknownAndDuplicateKeys(t *testing.T) {
	repo := New([]string{"a.com", "missing", "a.com", DefaultKey}, map[string]FieldSelectors{
		"a.com":    {FieldTitle: {"h1"}},
		DefaultKey: {FieldTitle: {"h2"}},
	})
	assert.Equal(t, []string{"a.com", DefaultKey}, repo.Keys())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job_app_selectors.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

	repo, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, repo.Keys(), 4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
