// Package load reads the flat files of a clustering run into a
// knowledge base: questions, morphology, dependencies, sentence text, the
// MLN cluster file and the part file.
package load

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gallupBenRyan/multivac/internal/model"
)

// Question files inside the evaluation directory
const (
	SubjectQuestionsFile = "questions.sbj.txt"
	ObjectQuestionsFile  = "questions.obj.txt"
)

// LoadQuestions reads the subject questions (required) and the object
// questions (optional) of evalDir into one book.
func LoadQuestions(evalDir string) (*model.QuestionBook, error) {
	book := model.NewQuestionBook()

	if _, err := ReadQuestions(filepath.Join(evalDir, SubjectQuestionsFile), model.RoleSubject, book); err != nil {
		return nil, err
	}
	if _, err := ReadQuestions(filepath.Join(evalDir, ObjectQuestionsFile), model.RoleObject, book); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return book, nil
}

// ReadQuestions reads one question per line into book and returns how many
// were added. Lines that do not follow the template of role are skipped.
func ReadQuestions(path string, role model.Role, book *model.QuestionBook) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open questions: %w", err)
	}
	defer func() { _ = file.Close() }()

	parse := ParseSubjectQuestion
	if role == model.RoleObject {
		parse = ParseObjectQuestion
	}

	added := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		q, ok := parse(line)
		if !ok {
			continue
		}
		if book.Add(q) {
			added++
		}
	}

	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("scan questions: %w", err)
	}

	return added, nil
}

// ParseSubjectQuestion parses "What does <argument> <verb>?"; the argument
// fills the subject slot.
func ParseSubjectQuestion(line string) (model.Question, bool) {
	body, ok := cutPrefixFold(strings.TrimSuffix(strings.TrimSpace(line), "?"), "what does ")
	if !ok {
		return model.Question{}, false
	}
	body = strings.TrimSpace(body)
	i := strings.LastIndex(body, " ")
	if i <= 0 {
		return model.Question{}, false
	}

	arg := normalizeArgument(body[:i])
	verb := strings.ToLower(body[i+1:])
	if arg == "" || verb == "" {
		return model.Question{}, false
	}
	return model.Question{Verb: verb, Argument: arg, Role: model.RoleSubject, Text: line}, true
}

// ParseObjectQuestion parses "What <verb-s> <argument>?"; the argument fills
// the object slot and the verb is reduced to its base form.
func ParseObjectQuestion(line string) (model.Question, bool) {
	body, ok := cutPrefixFold(strings.TrimSuffix(strings.TrimSpace(line), "?"), "what ")
	if !ok {
		return model.Question{}, false
	}
	fields := strings.Fields(strings.ToLower(body))
	if len(fields) < 2 {
		return model.Question{}, false
	}

	verb := RemoveThirdPerson(fields[0])
	arg := normalizeArgument(strings.Join(fields[1:], " "))
	return model.Question{Verb: verb, Argument: arg, Role: model.RoleObject, Text: line}, true
}

// irregularThirdPerson maps third-person forms the suffix rules get wrong
var irregularThirdPerson = map[string]string{
	"has":  "have",
	"is":   "be",
	"does": "do",
	"goes": "go",
}

// RemoveThirdPerson strips the third-person-singular ending of a verb:
// irregular forms are looked up, -ies becomes -y, -oes/-sses/-shes/-ches/
// -xes/-zzes lose "es", any other -s is dropped.
func RemoveThirdPerson(v string) string {
	if base, ok := irregularThirdPerson[v]; ok {
		return base
	}
	switch {
	case len(v) > 3 && strings.HasSuffix(v, "ies"):
		return v[:len(v)-3] + "y"
	case len(v) > 3 && strings.HasSuffix(v, "oes"),
		strings.HasSuffix(v, "sses"), strings.HasSuffix(v, "shes"),
		strings.HasSuffix(v, "ches"), strings.HasSuffix(v, "xes"),
		strings.HasSuffix(v, "zzes"):
		return v[:len(v)-2]
	case len(v) > 1 && strings.HasSuffix(v, "s") && !strings.HasSuffix(v, "ss"):
		return v[:len(v)-1]
	}
	return v
}

// QuestionForms returns every lower-cased word of the questions' arguments
// and verbs; only these forms need a lemma entry.
func QuestionForms(book *model.QuestionBook) map[string]bool {
	forms := make(map[string]bool)
	for _, q := range book.Questions() {
		forms[q.Verb] = true
		for _, w := range strings.Fields(q.Argument) {
			forms[w] = true
		}
	}
	return forms
}

// normalizeArgument lower-cases phrase and collapses its whitespace
func normalizeArgument(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
