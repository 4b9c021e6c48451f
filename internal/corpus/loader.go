package corpus

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/skriptgen/skriptgen/internal/vectordb"
)

// File is one raw source document read from the corpus directory.
type File struct {
	Path    string // path relative to the corpus root
	Name    string
	Content string
	DocType vectordb.DocumentType
}

// skipDirs are directory names never descended into.
var skipDirs = []string{".git", ".idea", ".vscode", "node_modules", "__pycache__"}

// Loader reads the knowledge corpus from a directory tree.
type Loader struct {
	Dir     string
	Include []string // doublestar globs; empty means everything
	Exclude []string
}

// NewLoader creates a loader for the given corpus directory.
func NewLoader(dir string, include, exclude []string) *Loader {
	return &Loader{Dir: dir, Include: include, Exclude: exclude}
}

// Load walks the corpus directory and reads every matching text file.
// A missing directory is not an error; it yields an empty corpus.
func (l *Loader) Load() ([]File, error) {
	if _, err := os.Stat(l.Dir); os.IsNotExist(err) {
		log.Printf("corpus: directory %s does not exist", l.Dir)
		return nil, nil
	}

	var files []File
	err := filepath.WalkDir(l.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(l.Dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(rel, l.Include, true) || matchesAny(rel, l.Exclude, false) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("corpus: error loading %s: %v", path, err)
			return nil
		}
		if !utf8.Valid(data) {
			log.Printf("corpus: skipping non-text file %s", path)
			return nil
		}

		files = append(files, File{
			Path:    rel,
			Name:    d.Name(),
			Content: string(data),
			DocType: DetermineDocType(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus dir %s: %w", l.Dir, err)
	}

	log.Printf("corpus: %d documents loaded from %s", len(files), l.Dir)
	return files, nil
}

func shouldSkipDir(name string) bool {
	for _, d := range skipDirs {
		if strings.EqualFold(name, d) {
			return true
		}
	}
	return false
}

// matchesAny checks relPath against doublestar globs. emptyResult is returned
// when no patterns are configured (include defaults to everything, exclude to
// nothing).
func matchesAny(relPath string, patterns []string, emptyResult bool) bool {
	if len(patterns) == 0 {
		return emptyResult
	}
	for _, pattern := range patterns {
		if matched, err := doublestar.PathMatch(filepath.ToSlash(pattern), relPath); err == nil && matched {
			return true
		}
	}
	return false
}

// docTypeMarkers maps path substrings to document types, checked in order.
var docTypeMarkers = []struct {
	marker  string
	docType vectordb.DocumentType
}{
	{"template", vectordb.DocTypeTemplate},
	{"policy", vectordb.DocTypePolicy},
	{"richtlinie", vectordb.DocTypePolicy},
	{"compliance", vectordb.DocTypeCompliance},
	{"vorschrift", vectordb.DocTypeCompliance},
	{"best_practice", vectordb.DocTypeBestPractice},
	{"empfehlung", vectordb.DocTypeBestPractice},
	{"beispiel", vectordb.DocTypeExample},
	{"example", vectordb.DocTypeExample},
	{"threat", vectordb.DocTypeThreat},
	{"bedrohung", vectordb.DocTypeThreat},
	{"risiko", vectordb.DocTypeThreat},
	{"industry", vectordb.DocTypeIndustry},
	{"branche", vectordb.DocTypeIndustry},
	{"process", vectordb.DocTypeProcess},
	{"prozess", vectordb.DocTypeProcess},
}

// DetermineDocType derives the document type from the file path.
func DetermineDocType(path string) vectordb.DocumentType {
	lower := strings.ToLower(path)
	for _, m := range docTypeMarkers {
		if strings.Contains(lower, m.marker) {
			return m.docType
		}
	}
	return vectordb.DocTypeGeneric
}
