// Package report writes the answers file and reads it back.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/gallupBenRyan/multivac/internal/kb"
	"github.com/gallupBenRyan/multivac/internal/model"
)

// Element text only needs markup characters escaped; attribute values also
// escape the double quote that delimits them.
var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// SentenceSource resolves sentence text for answer blocks
type SentenceSource interface {
	Sentence(id model.SentenceID) (*kb.Sentence, bool)
}

// Writer renders answers as tagged question blocks
type Writer struct {
	sentences SentenceSource
}

// NewWriter creates a writer resolving sentences from src
func NewWriter(src SentenceSource) *Writer {
	return &Writer{sentences: src}
}

// Write emits one block per answer, questions in the given order and
// answers sorted by sentence id then text. It returns the number of blocks.
func (w *Writer) Write(out io.Writer, questions []model.Question, answers *model.Answers) (int, error) {
	bw := bufio.NewWriter(out)
	n := 0

	for _, q := range questions {
		set := answers.For(q)
		if set == nil {
			continue
		}
		for _, a := range set.Sorted() {
			text := ""
			if s, ok := w.sentences.Sentence(a.Sentence); ok {
				text = s.String()
			}
			if _, err := fmt.Fprintf(bw, "<question str=\"%s\">\n<answer>%s</answer>\n<sentence id=\"%s\">%s</sentence>\n</question>\n\n",
				attrEscaper.Replace(q.String()),
				textEscaper.Replace(a.Text),
				attrEscaper.Replace(a.Sentence.String()),
				textEscaper.Replace(text)); err != nil {
				return n, fmt.Errorf("write answer: %w", err)
			}
			n++
		}
	}

	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("flush answers: %w", err)
	}
	return n, nil
}

// WriteFile writes the answers file at path, creating its directory
func (w *Writer) WriteFile(path string, questions []model.Question, answers *model.Answers) (n int, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("create answers directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create answers file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close answers file: %w", closeErr)
		}
	}()

	return w.Write(f, questions, answers)
}

// Entry is one answer block read back from an answers file
type Entry struct {
	Question string
	Answer   string
	Sentence string
	Text     string
}

// ReadAnswers parses the blocks of an answers file
func ReadAnswers(r io.Reader) ([]Entry, error) {
	z := html.NewTokenizer(r)

	var entries []Entry
	var cur Entry
	var field *string
	var buf strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return entries, nil
			}
			return entries, fmt.Errorf("parse answers: %w", z.Err())

		case html.StartTagToken:
			tok := z.Token()
			switch tok.Data {
			case "question":
				cur = Entry{Question: attr(tok, "str")}
			case "answer":
				field = &cur.Answer
				buf.Reset()
			case "sentence":
				cur.Sentence = attr(tok, "id")
				field = &cur.Text
				buf.Reset()
			}

		case html.TextToken:
			if field != nil {
				buf.WriteString(z.Token().Data)
			}

		case html.EndTagToken:
			tok := z.Token()
			switch tok.Data {
			case "answer", "sentence":
				if field != nil {
					*field = buf.String()
					field = nil
				}
			case "question":
				entries = append(entries, cur)
				cur = Entry{}
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Summary counts the answers per question of an answers file
type Summary struct {
	Questions []string // in first-seen order
	Answers   map[string]int
	Sentences map[string]int // distinct sentences per question
	Total     int
}

// Summarize groups entries by question
func Summarize(entries []Entry) Summary {
	s := Summary{
		Answers:   make(map[string]int),
		Sentences: make(map[string]int),
	}
	seenSentence := make(map[[2]string]bool)

	for _, e := range entries {
		if _, ok := s.Answers[e.Question]; !ok {
			s.Questions = append(s.Questions, e.Question)
		}
		s.Answers[e.Question]++
		s.Total++
		key := [2]string{e.Question, e.Sentence}
		if !seenSentence[key] {
			seenSentence[key] = true
			s.Sentences[e.Question]++
		}
	}
	return s
}
