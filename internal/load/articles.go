package load

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gallupBenRyan/multivac/internal/kb"
	"github.com/gallupBenRyan/multivac/internal/model"
)

// Subdirectories and extensions of the data directory
const (
	MorphDir  = "morph"
	DepDir    = "dep"
	TextDir   = "text"
	InputExt  = ".input"
	MorphExt  = ".morph"
	DepExt    = ".dep"
	TextExt   = ".txt"
	rootLabel = "root"
)

// depLine matches a Stanford typed dependency such as nsubj(acquired-2, company-1).
// Copy nodes carry trailing apostrophes after the position.
var depLine = regexp.MustCompile(`^([^(\s]+)\((.+)-(\d+)'*, (.+)-(\d+)'*\)$`)

// Dependency is one typed dependency with 0-based token positions
type Dependency struct {
	Label string
	Gov   int
	Dep   int
}

// Article is the parsed content of one article
type Article struct {
	ID        string
	Sentences []*kb.Sentence
	Dropped   int // dependencies pointing outside their sentence
}

// ListArticles returns the article ids with a morphology input file, sorted
func ListArticles(dataDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dataDir, MorphDir, "*"+InputExt))
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, strings.TrimSuffix(filepath.Base(m), InputExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// ReadArticle reads the morphology, dependencies and optional text of one article
func ReadArticle(dataDir, aid string) (*Article, error) {
	forms, err := readBlocks(filepath.Join(dataDir, MorphDir, aid+InputExt))
	if err != nil {
		return nil, fmt.Errorf("read forms of %s: %w", aid, err)
	}
	lemmas, err := readBlocks(filepath.Join(dataDir, MorphDir, aid+MorphExt))
	if err != nil {
		return nil, fmt.Errorf("read lemmas of %s: %w", aid, err)
	}
	if len(forms) != len(lemmas) {
		return nil, fmt.Errorf("%w: %s has %d form sentences and %d lemma sentences",
			model.ErrMalformedInput, aid, len(forms), len(lemmas))
	}

	deps, err := ReadDependencies(filepath.Join(dataDir, DepDir, aid+DepExt))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read dependencies of %s: %w", aid, err)
	}

	text, err := readLines(filepath.Join(dataDir, TextDir, aid+TextExt))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read text of %s: %w", aid, err)
	}

	art := &Article{ID: aid, Sentences: make([]*kb.Sentence, len(forms))}
	for i := range forms {
		s := kb.NewSentence(forms[i], lower(lemmas[i]))
		if i < len(deps) {
			for _, d := range deps[i] {
				if !s.AddDependency(d.Label, d.Gov, d.Dep) {
					art.Dropped++
				}
			}
		}
		if i < len(text) {
			s.Text = text[i]
		}
		art.Sentences[i] = s
	}
	return art, nil
}

// ReadDependencies reads a Stanford typed dependency file. Sentences are
// separated by blank lines; root edges are dropped.
func ReadDependencies(path string) ([][]Dependency, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return readDependencies(path, file)
}

func readDependencies(name string, r io.Reader) ([][]Dependency, error) {
	var sentences [][]Dependency
	var current []Dependency
	inSentence := false
	lineNo := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if inSentence {
				sentences = append(sentences, current)
				current = nil
				inSentence = false
			}
			continue
		}
		inSentence = true

		m := depLine.FindStringSubmatch(line)
		if m == nil {
			return nil, model.Malformedf(name, lineNo, "dependency %q", line)
		}
		if m[1] == rootLabel {
			continue
		}
		gov, _ := strconv.Atoi(m[3])
		dep, _ := strconv.Atoi(m[5])
		if gov == 0 || dep == 0 {
			continue
		}
		current = append(current, Dependency{Label: m[1], Gov: gov - 1, Dep: dep - 1})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dependencies: %w", err)
	}
	if inSentence {
		sentences = append(sentences, current)
	}

	return sentences, nil
}

// readBlocks reads one item per line with blank lines separating sentences
func readBlocks(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var blocks [][]string
	var current []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	return blocks, nil
}

// readLines reads the non-empty lines of a file
func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func lower(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}
