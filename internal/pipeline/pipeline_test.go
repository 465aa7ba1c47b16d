package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gallupBenRyan/multivac/internal/model"
)

func writeFile(t *testing.T, path string, ls ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(ls, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

// writeRun lays out a corpus named "corpus" with one article, its clustering
// output and the question files. The second sentence negates the relation.
func writeRun(t *testing.T) *model.Config {
	t.Helper()
	root := t.TempDir()

	cfg := model.DefaultConfig()
	cfg.Paths.DataDir = filepath.Join(root, "corpus")
	cfg.Paths.ResultsDir = filepath.Join(root, "results")
	cfg.Paths.EvalDir = filepath.Join(root, "eval")
	cfg.Concurrency.Workers = 2
	cfg.Concurrency.LoadWorkers = 2
	cfg.Metrics.File = filepath.Join(root, "usp.prom")

	writeFile(t, filepath.Join(cfg.Paths.DataDir, "morph", "a1.input"),
		"The", "company", "acquired", "a", "small", "startup", ".", "",
		"The", "company", "did", "not", "acquire", "Oracle", ".")
	writeFile(t, filepath.Join(cfg.Paths.DataDir, "morph", "a1.morph"),
		"the", "company", "acquire", "a", "small", "startup", ".", "",
		"the", "company", "do", "not", "acquire", "oracle", ".")
	writeFile(t, filepath.Join(cfg.Paths.DataDir, "dep", "a1.dep"),
		"det(company-2, The-1)",
		"nsubj(acquired-3, company-2)",
		"root(ROOT-0, acquired-3)",
		"det(startup-6, a-4)",
		"amod(startup-6, small-5)",
		"dobj(acquired-3, startup-6)",
		"",
		"det(company-2, The-1)",
		"nsubj(acquire-5, company-2)",
		"aux(acquire-5, did-3)",
		"neg(acquire-5, not-4)",
		"root(ROOT-0, acquire-5)",
		"dobj(acquire-5, Oracle-6)")

	writeFile(t, filepath.Join(cfg.Paths.ResultsDir, "corpus.mln"),
		"7\t(V:acquire):2",
		"\t1\tnsubj:2",
		"\t2\tdobj:2",
		"\t3\tneg:1",
		"3\t(N:company):2",
		"4\t(N:startup):1\t(N:oracle):1",
		"5\t(J:small):1",
		"6\t(R:not):1")
	writeFile(t, filepath.Join(cfg.Paths.ResultsDir, "corpus.parse"),
		"a1:0:2\t7\tacquired\t-\t-\t-",
		"a1:0:1\t3\tcompany\ta1:0:2\t1\tnsubj",
		"a1:0:5\t4\tstartup\ta1:0:2\t2\tdobj",
		"a1:0:4\t5\tsmall\ta1:0:5\t1\tamod",
		"a1:1:4\t7\tacquire\t-\t-\t-",
		"a1:1:1\t3\tcompany\ta1:1:4\t1\tnsubj",
		"a1:1:3\t6\tnot\ta1:1:4\t3\tneg",
		"a1:1:5\t4\tOracle\ta1:1:4\t2\tdobj")

	writeFile(t, filepath.Join(cfg.Paths.EvalDir, "questions.sbj.txt"),
		"What does the company acquire?",
		"What does the widget acquire?")
	writeFile(t, filepath.Join(cfg.Paths.EvalDir, "questions.obj.txt"),
		"What acquires startup?",
		"What sells startup?")

	return cfg
}

func TestPipeline_Run(t *testing.T) {
	cfg := writeRun(t)

	result, err := NewPipeline(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Questions) != 3 {
		t.Errorf("expected 3 answerable questions, got %d", len(result.Questions))
	}
	if len(result.Ignored) != 1 || result.Ignored[0].Argument != "the widget" {
		t.Errorf("unexpected ignored questions %v", result.Ignored)
	}
	if result.Stats.Negated == 0 {
		t.Errorf("expected the negated part to be excluded, got %+v", result.Stats)
	}
	if result.Stats.MissingRelations != 1 {
		t.Errorf("expected sell to have no relation cluster, got %+v", result.Stats)
	}
	if result.Written != 2 {
		t.Errorf("expected 2 answer blocks, got %d", result.Written)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Paths.EvalDir, "Answers.txt"))
	if err != nil {
		t.Fatal(err)
	}
	want := `<question str="What does the company acquire?">
<answer>a small startup</answer>
<sentence id="a1:0">The company acquired a small startup .</sentence>
</question>

<question str="What acquires startup?">
<answer>The company</answer>
<sentence id="a1:0">The company acquired a small startup .</sentence>
</question>

`
	if string(data) != want {
		t.Errorf("unexpected answers file:\n%s\nwant:\n%s", data, want)
	}

	metrics, err := os.ReadFile(cfg.Metrics.File)
	if err != nil {
		t.Fatalf("expected metrics file: %v", err)
	}
	if !strings.Contains(string(metrics), "usp_answers_total 2") {
		t.Errorf("expected answer count in metrics:\n%s", metrics)
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	cfg := writeRun(t)
	cfg.Metrics.File = ""
	path := filepath.Join(cfg.Paths.EvalDir, "Answers.txt")

	if _, err := NewPipeline(cfg).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewPipeline(cfg).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("expected identical answers across runs")
	}
}

func TestPipeline_MissingQuestions(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Paths.EvalDir = t.TempDir()
	if _, err := NewPipeline(cfg).Run(context.Background()); err == nil {
		t.Error("expected error without question file")
	}
}

func TestPipeline_AnswersPath(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Paths.EvalDir = "eval"
	if got := NewPipeline(cfg).AnswersPath(); got != filepath.Join("eval", "Answers.txt") {
		t.Errorf("unexpected path %s", got)
	}

	abs := filepath.Join(t.TempDir(), "out.txt")
	cfg.Paths.AnswersFile = abs
	if got := NewPipeline(cfg).AnswersPath(); got != abs {
		t.Errorf("expected absolute path kept, got %s", got)
	}
}

func TestPipeline_Cancelled(t *testing.T) {
	cfg := writeRun(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewPipeline(cfg).Run(ctx); err == nil {
		t.Error("expected cancelled run to fail")
	}
}
