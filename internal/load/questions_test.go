package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gallupBenRyan/multivac/internal/model"
)

func TestParseSubjectQuestion(t *testing.T) {
	q, ok := ParseSubjectQuestion("What does the Oil Company acquire?")
	if !ok {
		t.Fatal("expected question to parse")
	}
	if q.Verb != "acquire" || q.Argument != "the oil company" || q.Role != model.RoleSubject {
		t.Errorf("unexpected question %+v", q)
	}
	if q.Text != "What does the Oil Company acquire?" {
		t.Errorf("expected original text kept, got %q", q.Text)
	}

	for _, bad := range []string{"What inhibits IL-2?", "What does acquire?", "Who does it acquire?"} {
		if _, ok := ParseSubjectQuestion(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestReadQuestions_EquivalentLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), SubjectQuestionsFile)
	lines := "What does the company acquire?\nwhat does the company acquire?\nWhat does the  company acquire ?\nWhat does The\tCompany acquire?\n"
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatal(err)
	}

	book := model.NewQuestionBook()
	added, err := ReadQuestions(path, model.RoleSubject, book)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added != 1 || book.Len() != 1 {
		t.Fatalf("expected 1 question, got added=%d len=%d", added, book.Len())
	}
	q := book.Questions()[0]
	if q.Argument != "the company" || q.Text != "What does the company acquire?" {
		t.Errorf("expected first line kept with normalized argument, got %+v", q)
	}
}

func TestParseObjectQuestion_Spacing(t *testing.T) {
	q, ok := ParseObjectQuestion("What  has   the  Company ?")
	if !ok {
		t.Fatal("expected question to parse")
	}
	if q.Verb != "have" || q.Argument != "the company" {
		t.Errorf("unexpected question %+v", q)
	}
}

func TestParseObjectQuestion(t *testing.T) {
	q, ok := ParseObjectQuestion("What inhibits NF-kappaB activation?")
	if !ok {
		t.Fatal("expected question to parse")
	}
	if q.Verb != "inhibit" || q.Argument != "nf-kappab activation" || q.Role != model.RoleObject {
		t.Errorf("unexpected question %+v", q)
	}

	if _, ok := ParseObjectQuestion("What inhibits?"); ok {
		t.Error("expected question without argument to be rejected")
	}
}

func TestRemoveThirdPerson(t *testing.T) {
	tests := map[string]string{
		"inhibits":  "inhibit",
		"carries":   "carry",
		"passes":    "pass",
		"pushes":    "push",
		"catches":   "catch",
		"fixes":     "fix",
		"binds":     "bind",
		"miss":      "miss",
		"acquire":   "acquire",
		"expresses": "express",
		"has":       "have",
		"does":      "do",
		"goes":      "go",
		"is":        "be",
		"echoes":    "echo",
		"vetoes":    "veto",
		"buzzes":    "buzz",
	}
	for in, want := range tests {
		if got := RemoveThirdPerson(in); got != want {
			t.Errorf("RemoveThirdPerson(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestLoadQuestions(t *testing.T) {
	dir := t.TempDir()
	sbj := "What does the company acquire?\n\n# comment\nWhat does IL-2 inhibit?\nWhat does the company acquire?\nnot a question\n"
	obj := "What acquires startups?\n"
	if err := os.WriteFile(filepath.Join(dir, SubjectQuestionsFile), []byte(sbj), 0644); err != nil {
		t.Fatal(err)
	}

	book, err := LoadQuestions(dir)
	if err != nil {
		t.Fatalf("unexpected error without object file: %v", err)
	}
	if book.Len() != 2 {
		t.Errorf("expected 2 subject questions, got %d", book.Len())
	}

	if err := os.WriteFile(filepath.Join(dir, ObjectQuestionsFile), []byte(obj), 0644); err != nil {
		t.Fatal(err)
	}
	book, err = LoadQuestions(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	groups := book.Groups()
	if len(groups) != 2 || groups[0].Relation != "acquire" || len(groups[0].Questions) != 2 {
		t.Fatalf("unexpected groups %+v", groups)
	}
	if groups[0].Questions[1].Role != model.RoleObject {
		t.Error("expected object question grouped under acquire")
	}

	forms := QuestionForms(book)
	for _, w := range []string{"the", "company", "acquire", "il-2", "inhibit", "startups"} {
		if !forms[w] {
			t.Errorf("expected form %q", w)
		}
	}
}

func TestLoadQuestions_MissingSubjectFile(t *testing.T) {
	if _, err := LoadQuestions(t.TempDir()); err == nil {
		t.Error("expected error for missing subject questions")
	}
}
