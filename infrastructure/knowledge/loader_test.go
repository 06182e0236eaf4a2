package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestLibrary(t *testing.T) (*Library, string) {
	t.Helper()
	dir := t.TempDir()

	writeDoc(t, dir, printEstimatorFile, "---\nname: print-estimator\nmodel: opus\n---\nYou are a print estimator.")
	writeDoc(t, dir, competitivePricerFile, "---\nname: competitive-pricer\n---\nYou are a competitive pricer.")
	writeDoc(t, dir, factoryProfileFile, "# Factory Profile\n\nTwo offset presses.")
	writeDoc(t, dir, marketPricingFile, "# Market Pricing\n\nFlyers: $0.28-$0.43/unit.")

	lib, err := NewLibrary(dir)
	require.NoError(t, err)
	return lib, dir
}

func TestNewLibrary_MissingDirectory(t *testing.T) {
	_, err := NewLibrary(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "knowledge directory not accessible")
}

func TestNewLibrary_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewLibrary(file)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestLibrary_StripsFrontMatter(t *testing.T) {
	lib, _ := newTestLibrary(t)

	prompt, err := lib.PrintEstimatorPrompt()
	require.NoError(t, err)

	assert.Equal(t, "You are a print estimator.", prompt)
	assert.NotContains(t, prompt, "name: print-estimator")
}

func TestLibrary_PassesThroughPlainDocuments(t *testing.T) {
	lib, _ := newTestLibrary(t)

	profile, err := lib.FactoryProfile()
	require.NoError(t, err)
	assert.Equal(t, "# Factory Profile\n\nTwo offset presses.", profile)

	pricing, err := lib.MarketPricingDatabase()
	require.NoError(t, err)
	assert.Contains(t, pricing, "$0.28-$0.43/unit")
}

func TestLibrary_CachesReads(t *testing.T) {
	lib, dir := newTestLibrary(t)

	first, err := lib.FactoryProfile()
	require.NoError(t, err)

	// Rewrite the underlying file; the cached copy must win.
	writeDoc(t, dir, factoryProfileFile, "changed on disk")

	second, err := lib.FactoryProfile()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLibrary_MissingDocument(t *testing.T) {
	dir := t.TempDir()
	lib, err := NewLibrary(dir)
	require.NoError(t, err)

	_, err = lib.MarketPricingDatabase()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), marketPricingFile)
}

func TestStripFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "with front matter",
			input:    "---\nkey: value\n---\nbody text",
			expected: "body text",
		},
		{
			name:     "without front matter",
			input:    "just body",
			expected: "just body",
		},
		{
			name:     "dashes mid-document are kept",
			input:    "intro\n---\nnot front matter\n---\n",
			expected: "intro\n---\nnot front matter\n---\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripFrontMatter(tt.input))
		})
	}
}
