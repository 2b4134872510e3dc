// pkg/discovery/discovery.go
package discovery

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/flowgen/flowgen/pkg/codegen"
)

// TestCase is one discovered test within a file.
type TestCase struct {
	Name    string   `json:"name"`
	Line    int      `json:"line"`
	Markers []string `json:"markers,omitempty"`
}

// TestFile is one recognized test file and the cases found in it.
type TestFile struct {
	Path      string     `json:"path"`
	Framework string     `json:"framework"`
	Cases     []TestCase `json:"cases"`
}

// Suite is the result of scanning a project root.
type Suite struct {
	Root  string     `json:"root"`
	Files []TestFile `json:"files"`
}

// CaseCount totals the cases across all discovered files.
func (s *Suite) CaseCount() int {
	n := 0
	for _, f := range s.Files {
		n += len(f.Cases)
	}
	return n
}

// ByFramework returns the files belonging to one framework.
func (s *Suite) ByFramework(framework string) []TestFile {
	var out []TestFile
	for _, f := range s.Files {
		if f.Framework == framework {
			out = append(out, f)
		}
	}
	return out
}

// Scanner walks a project tree and indexes its existing test files, so
// generated tests can be placed and named consistently with what is
// already there.
type Scanner struct {
	root   string
	logger *log.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithLogger sets a custom logger for the scanner.
func WithLogger(logger *log.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a scanner rooted at the given directory.
func NewScanner(root string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		root:   root,
		logger: log.New(io.Discard, "", 0),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"dist":         true,
	"build":        true,
}

// Scan walks the root and classifies every test file it recognizes.
// Unreadable files are logged and skipped, not fatal.
func (s *Scanner) Scan() (*Suite, error) {
	suite := &Suite{Root: s.root}

	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		framework := Classify(info.Name())
		if framework == "" {
			return nil
		}

		cases, err := s.parseFile(path, framework)
		if err != nil {
			s.logger.Printf("skipping unreadable test file %s: %v", path, err)
			return nil
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			rel = path
		}
		suite.Files = append(suite.Files, TestFile{
			Path:      rel,
			Framework: framework,
			Cases:     cases,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}

	return suite, nil
}

// Classify maps a file name to the framework it belongs to, or "" when
// the file is not a recognized test file.
func Classify(name string) string {
	switch {
	case strings.HasSuffix(name, ".spec.ts"):
		return codegen.FrameworkTypeScript
	case strings.HasSuffix(name, ".spec.js"), strings.HasSuffix(name, ".test.js"):
		return codegen.FrameworkJavaScript
	case strings.HasSuffix(name, ".robot"):
		return codegen.FrameworkRobot
	case strings.HasSuffix(name, ".py") &&
		(strings.HasPrefix(name, "test_") || strings.HasSuffix(name, "_test.py")):
		return codegen.FrameworkPytest
	}
	return ""
}

var (
	pyTestRe   = regexp.MustCompile(`^\s*def\s+(test_\w+)\s*\(`)
	pyMarkerRe = regexp.MustCompile(`^\s*@pytest\.mark\.(\w+)`)
	ecmaTestRe = regexp.MustCompile(`^\s*(?:test|it)\s*\(\s*['"` + "`" + `]([^'"` + "`" + `]+)`)
)

func (s *Scanner) parseFile(path, framework string) ([]TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch framework {
	case codegen.FrameworkPytest:
		return parsePytest(f), nil
	case codegen.FrameworkRobot:
		return parseRobot(f), nil
	default:
		return parseEcma(f), nil
	}
}

// parsePytest collects test_ functions; pytest.mark decorators seen
// since the previous test attach to the next one.
func parsePytest(r io.Reader) []TestCase {
	var cases []TestCase
	var markers []string

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if m := pyMarkerRe.FindStringSubmatch(text); m != nil {
			markers = append(markers, m[1])
			continue
		}
		if m := pyTestRe.FindStringSubmatch(text); m != nil {
			cases = append(cases, TestCase{Name: m[1], Line: line, Markers: markers})
			markers = nil
			continue
		}
		if strings.TrimSpace(text) != "" {
			markers = nil
		}
	}
	return cases
}

func parseEcma(r io.Reader) []TestCase {
	var cases []TestCase

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if m := ecmaTestRe.FindStringSubmatch(scanner.Text()); m != nil {
			cases = append(cases, TestCase{Name: m[1], Line: line})
		}
	}
	return cases
}

// parseRobot collects the non-indented names under *** Test Cases ***.
func parseRobot(r io.Reader) []TestCase {
	var cases []TestCase
	inCases := false

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		trimmed := strings.TrimSpace(text)

		if strings.HasPrefix(trimmed, "***") {
			inCases = strings.EqualFold(trimmed, "*** Test Cases ***")
			continue
		}
		if !inCases || trimmed == "" {
			continue
		}
		if text[0] == ' ' || text[0] == '\t' || strings.HasPrefix(trimmed, "#") {
			continue
		}
		cases = append(cases, TestCase{Name: trimmed, Line: line})
	}
	return cases
}
