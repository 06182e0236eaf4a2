package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// Document file names inside the knowledge directory.
const (
	printEstimatorFile    = "print-estimator.md"
	competitivePricerFile = "competitive-pricer.md"
	factoryProfileFile    = "factory-profile.md"
	marketPricingFile     = "market-pricing-database.md"
)

var frontMatterPattern = regexp.MustCompile(`(?s)\A---\n.*?\n---\n`)

// Library loads static advisory documents from disk. Documents are
// immutable for the process lifetime, so reads go through an LRU cache
// and hit the filesystem at most once per file.
type Library struct {
	dir   string
	cache *lru.Cache[string, string]
}

// NewLibrary creates a library rooted at dir. The directory must exist.
func NewLibrary(dir string) (*Library, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("knowledge directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("knowledge path %s is not a directory", dir)
	}

	cache, err := lru.New[string, string](16)
	if err != nil {
		return nil, fmt.Errorf("failed to create knowledge cache: %w", err)
	}

	return &Library{dir: dir, cache: cache}, nil
}

func (l *Library) load(name string) (string, error) {
	if doc, ok := l.cache.Get(name); ok {
		return doc, nil
	}

	path := filepath.Join(l.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read knowledge document %s: %w", name, err)
	}

	doc := strings.TrimSpace(stripFrontMatter(string(raw)))
	l.cache.Add(name, doc)

	logrus.WithFields(logrus.Fields{
		"document": name,
		"bytes":    len(doc),
	}).Debug("Loaded knowledge document")

	return doc, nil
}

// stripFrontMatter removes a leading YAML metadata block delimited by
// `---` lines. Documents without front matter pass through unchanged.
func stripFrontMatter(content string) string {
	if m := frontMatterPattern.FindString(content); m != "" {
		return content[len(m):]
	}
	return content
}

func (l *Library) PrintEstimatorPrompt() (string, error) {
	return l.load(printEstimatorFile)
}

func (l *Library) CompetitivePricerPrompt() (string, error) {
	return l.load(competitivePricerFile)
}

func (l *Library) FactoryProfile() (string, error) {
	return l.load(factoryProfileFile)
}

func (l *Library) MarketPricingDatabase() (string, error) {
	return l.load(marketPricingFile)
}
