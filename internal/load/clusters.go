package load

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gallupBenRyan/multivac/internal/kb"
	"github.com/gallupBenRyan/multivac/internal/model"
)

// RelType is a parsed relation type such as (V:acquire) or
// (N:company (nn (N:oil))).
type RelType struct {
	POS      string
	Lemma    string
	Children []RelArg
}

// RelArg is a dependent of a relation type
type RelArg struct {
	Dep  string
	Type RelType
}

// IsVerb reports whether the relation type is headed by a verb
func (r RelType) IsVerb() bool {
	return strings.HasPrefix(r.POS, "V")
}

// ParseRelType parses a parenthesised relation type
func ParseRelType(s string) (RelType, error) {
	p := &relTypeParser{s: strings.TrimSpace(s)}
	rt, err := p.node()
	if err != nil {
		return RelType{}, err
	}
	if p.pos != len(p.s) {
		return RelType{}, fmt.Errorf("trailing input at %d in %q", p.pos, s)
	}
	return rt, nil
}

type relTypeParser struct {
	s   string
	pos int
}

func (p *relTypeParser) expect(c byte) error {
	if p.pos >= len(p.s) || p.s[p.pos] != c {
		return fmt.Errorf("expected %q at %d in %q", c, p.pos, p.s)
	}
	p.pos++
	return nil
}

func (p *relTypeParser) skipSpace() {
	for p.pos < len(p.s) && p.s[p.pos] == ' ' {
		p.pos++
	}
}

func (p *relTypeParser) atom() string {
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != ' ' && p.s[p.pos] != '(' && p.s[p.pos] != ')' {
		p.pos++
	}
	return p.s[start:p.pos]
}

// node parses "(" POS ":" lemma { " (" dep " " node ")" } ")"
func (p *relTypeParser) node() (RelType, error) {
	if err := p.expect('('); err != nil {
		return RelType{}, err
	}
	head := p.atom()
	i := strings.Index(head, ":")
	if i <= 0 || i == len(head)-1 {
		return RelType{}, fmt.Errorf("bad head %q in %q", head, p.s)
	}
	rt := RelType{POS: head[:i], Lemma: strings.ToLower(head[i+1:])}

	for {
		p.skipSpace()
		if p.pos < len(p.s) && p.s[p.pos] == ')' {
			p.pos++
			return rt, nil
		}
		if err := p.expect('('); err != nil {
			return RelType{}, err
		}
		dep := p.atom()
		p.skipSpace()
		child, err := p.node()
		if err != nil {
			return RelType{}, err
		}
		p.skipSpace()
		if err := p.expect(')'); err != nil {
			return RelType{}, err
		}
		rt.Children = append(rt.Children, RelArg{Dep: dep, Type: child})
	}
}

// ClusterStats counts what ReadClusters registered
type ClusterStats struct {
	Clusters  int
	Lemmas    int
	HeadDeps  int
	Relations int
	ArgSlots  int
	Skipped   int // relation types that are neither single words nor two-word compounds
}

// ReadClusters reads an MLN cluster file into b.
//
// Cluster lines are "<ci>\t<relType>:<count>[\t...]". Argument-cluster lines
// follow their cluster as "\t<aci>\t<dep>:<count>[\t...]".
func ReadClusters(path string, b *kb.Builder) (ClusterStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return ClusterStats{}, fmt.Errorf("open clusters: %w", err)
	}
	defer func() { _ = file.Close() }()

	return readClusters(path, file, b)
}

func readClusters(name string, r io.Reader, b *kb.Builder) (ClusterStats, error) {
	var stats ClusterStats
	current := -1
	lineNo := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if line[0] >= '0' && line[0] <= '9' {
			fields := strings.Split(line, "\t")
			ci, err := strconv.Atoi(fields[0])
			if err != nil {
				return stats, model.Malformedf(name, lineNo, "cluster index %q", fields[0])
			}
			current = ci
			stats.Clusters++
			for _, f := range fields[1:] {
				rt, _, err := splitCount(f)
				if err != nil {
					return stats, model.Malformedf(name, lineNo, "%v", err)
				}
				registerRelType(b, ci, rt, &stats)
			}
			continue
		}

		if current < 0 {
			return stats, model.Malformedf(name, lineNo, "argument cluster before any cluster")
		}
		fields := strings.Split(strings.TrimLeft(line, "\t "), "\t")
		aci, err := strconv.Atoi(fields[0])
		if err != nil {
			return stats, model.Malformedf(name, lineNo, "argument cluster index %q", fields[0])
		}
		for _, f := range fields[1:] {
			dep, count, err := splitCount(f)
			if err != nil {
				return stats, model.Malformedf(name, lineNo, "%v", err)
			}
			b.AddArgSlot(current, dep, aci, count)
			stats.ArgSlots++
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scan clusters: %w", err)
	}

	return stats, nil
}

// splitCount splits "<item>:<count>" at the last colon
func splitCount(f string) (string, int, error) {
	f = strings.TrimSpace(f)
	i := strings.LastIndex(f, ":")
	if i <= 0 {
		return "", 0, fmt.Errorf("missing count in %q", f)
	}
	n, err := strconv.Atoi(f[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("bad count in %q", f)
	}
	return f[:i], n, nil
}

func registerRelType(b *kb.Builder, ci int, s string, stats *ClusterStats) {
	rt, err := ParseRelType(s)
	if err != nil {
		stats.Skipped++
		return
	}

	switch {
	case len(rt.Children) == 0:
		b.AddLemmaCluster(rt.Lemma, ci)
		stats.Lemmas++
		if rt.IsVerb() && b.AddRelation(rt.Lemma, ci) {
			stats.Relations++
		}
	case len(rt.Children) == 1 && len(rt.Children[0].Type.Children) == 0:
		b.AddHeadDep(rt.Lemma, rt.Children[0].Type.Lemma, ci)
		stats.HeadDeps++
	default:
		stats.Skipped++
	}
}

// ReadParts reads a part file into b. Each line is
// "<ptId>\t<ci>\t<label>\t<parentPtId>\t<aci>\t<dep>" with parentPtId "-"
// for parts without a parent.
func ReadParts(path string, b *kb.Builder) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open parts: %w", err)
	}
	defer func() { _ = file.Close() }()

	return readParts(path, file, b)
}

func readParts(name string, r io.Reader, b *kb.Builder) (int, error) {
	n := 0
	lineNo := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 6 {
			return n, model.Malformedf(name, lineNo, "expected 6 fields, got %d", len(fields))
		}
		id, err := model.ParseTreeNodeID(fields[0])
		if err != nil {
			return n, model.Malformedf(name, lineNo, "%v", err)
		}
		ci, err := strconv.Atoi(fields[1])
		if err != nil {
			return n, model.Malformedf(name, lineNo, "cluster index %q", fields[1])
		}
		assignment := model.ClusterAssignment{Cluster: ci, Label: fields[2]}

		if fields[3] == "-" {
			b.AddPart(id, assignment, nil, 0, "")
			n++
			continue
		}
		parent, err := model.ParseTreeNodeID(fields[3])
		if err != nil {
			return n, model.Malformedf(name, lineNo, "%v", err)
		}
		aci, err := strconv.Atoi(fields[4])
		if err != nil {
			return n, model.Malformedf(name, lineNo, "argument cluster index %q", fields[4])
		}
		b.AddPart(id, assignment, &parent, aci, fields[5])
		n++
	}

	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("scan parts: %w", err)
	}

	return n, nil
}
