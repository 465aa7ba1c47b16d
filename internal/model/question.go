package model

import "sort"

// Role is the grammatical slot a question's argument fills
type Role int

const (
	RoleSubject Role = iota // nsubj
	RoleObject              // dobj
)

// Dependency returns the dependency label of the role
func (r Role) Dependency() string {
	if r == RoleObject {
		return "dobj"
	}
	return "nsubj"
}

// Complement returns the slot that holds the answer
func (r Role) Complement() Role {
	if r == RoleObject {
		return RoleSubject
	}
	return RoleObject
}

func (r Role) String() string {
	return r.Dependency()
}

// ClusterAssignment is the cluster a tree node was assigned to, plus the
// canonical surface label of the cluster mention.
type ClusterAssignment struct {
	Cluster int
	Label   string
}

// Question asks for the filler of Role.Complement() of Verb given Argument in Role
type Question struct {
	Verb     string // verb lemma naming the relation
	Argument string // lower-cased argument phrase
	Role     Role
	Text     string // question as read from the input file
}

func (q Question) String() string {
	if q.Text != "" {
		return q.Text
	}
	return q.Verb + "(" + q.Role.Dependency() + ": " + q.Argument + ")"
}

// questionKey identifies a question independently of how its line was written
type questionKey struct {
	verb     string
	argument string
	role     Role
}

func (q Question) key() questionKey {
	return questionKey{verb: q.Verb, argument: q.Argument, role: q.Role}
}

// RelationQuestions groups the questions asked about one relation
type RelationQuestions struct {
	Relation  string
	Questions []Question
}

// QuestionBook holds questions grouped by verb, in first-seen order
type QuestionBook struct {
	groups []RelationQuestions
	index  map[string]int
	seen   map[questionKey]bool
}

// NewQuestionBook creates an empty question book
func NewQuestionBook() *QuestionBook {
	return &QuestionBook{
		index: make(map[string]int),
		seen:  make(map[questionKey]bool),
	}
}

// Add appends q to its relation group. A question with the same verb,
// argument and role as an earlier one is ignored, whatever its text.
func (b *QuestionBook) Add(q Question) bool {
	k := q.key()
	if b.seen[k] {
		return false
	}
	b.seen[k] = true

	i, ok := b.index[q.Verb]
	if !ok {
		i = len(b.groups)
		b.index[q.Verb] = i
		b.groups = append(b.groups, RelationQuestions{Relation: q.Verb})
	}
	b.groups[i].Questions = append(b.groups[i].Questions, q)
	return true
}

// Groups returns the relation groups in insertion order
func (b *QuestionBook) Groups() []RelationQuestions {
	return b.groups
}

// Questions returns every question in insertion order
func (b *QuestionBook) Questions() []Question {
	var out []Question
	for _, g := range b.groups {
		out = append(out, g.Questions...)
	}
	return out
}

// Len returns the number of questions
func (b *QuestionBook) Len() int {
	return len(b.seen)
}

// Answer is a rendered answer phrase and the sentence it came from
type Answer struct {
	Sentence SentenceID
	Text     string
}

// AnswerSet is an insertion-ordered set of answers
type AnswerSet struct {
	items []Answer
	seen  map[Answer]struct{}
}

// NewAnswerSet creates an empty answer set
func NewAnswerSet() *AnswerSet {
	return &AnswerSet{seen: make(map[Answer]struct{})}
}

// Add inserts a, reporting whether it was not already present
func (s *AnswerSet) Add(a Answer) bool {
	if _, ok := s.seen[a]; ok {
		return false
	}
	s.seen[a] = struct{}{}
	s.items = append(s.items, a)
	return true
}

// Contains reports whether a is in the set
func (s *AnswerSet) Contains(a Answer) bool {
	_, ok := s.seen[a]
	return ok
}

// Len returns the set size
func (s *AnswerSet) Len() int {
	return len(s.items)
}

// Answers returns the answers in insertion order
func (s *AnswerSet) Answers() []Answer {
	return s.items
}

// Sorted returns the answers ordered by sentence id, then text
func (s *AnswerSet) Sorted() []Answer {
	out := make([]Answer, len(s.items))
	copy(out, s.items)
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Sentence.Compare(out[j].Sentence); c != 0 {
			return c < 0
		}
		return out[i].Text < out[j].Text
	})
	return out
}

// Answers accumulates answer sets per question
type Answers struct {
	order []Question
	sets  map[Question]*AnswerSet
}

// NewAnswers creates an empty accumulator
func NewAnswers() *Answers {
	return &Answers{sets: make(map[Question]*AnswerSet)}
}

// Add records a for q, reporting whether it was new
func (a *Answers) Add(q Question, ans Answer) bool {
	set, ok := a.sets[q]
	if !ok {
		set = NewAnswerSet()
		a.sets[q] = set
		a.order = append(a.order, q)
	}
	return set.Add(ans)
}

// For returns the answers recorded for q, or nil
func (a *Answers) For(q Question) *AnswerSet {
	return a.sets[q]
}

// Questions returns the answered questions in first-answer order
func (a *Answers) Questions() []Question {
	return a.order
}

// Total returns the number of answers over all questions
func (a *Answers) Total() int {
	n := 0
	for _, s := range a.sets {
		n += s.Len()
	}
	return n
}

// Merge adds every answer of other into a
func (a *Answers) Merge(other *Answers) {
	if other == nil {
		return
	}
	for _, q := range other.order {
		for _, ans := range other.sets[q].items {
			a.Add(q, ans)
		}
	}
}
