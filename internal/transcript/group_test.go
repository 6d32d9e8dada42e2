package transcript

import (
	"reflect"
	"strings"
	"testing"
)

func TestCleanScenarioSingleQuestionAndAnswer(t *testing.T) {
	doc := Clean("Who are you? I am Sam.", nil)
	want := []Group{{Questions: []string{"Who are you?"}, Answers: []string{"I am Sam."}}}
	if !reflect.DeepEqual(doc.Groups, want) {
		t.Fatalf("unexpected groups: %#v", doc.Groups)
	}
	if got := doc.Render(); got != "Who are you?\nI am Sam.\n" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestCleanScenarioQuestionRuns(t *testing.T) {
	doc := Clean("Q1? Q2? A1. A2. Q3? A3.", nil)
	want := []Group{
		{Questions: []string{"Q1?", "Q2?"}, Answers: []string{"A1.", "A2."}},
		{Questions: []string{"Q3?"}, Answers: []string{"A3."}},
	}
	if !reflect.DeepEqual(doc.Groups, want) {
		t.Fatalf("unexpected groups: %#v", doc.Groups)
	}
	if got := doc.Render(); got != "Q1?\nQ2?\nA1.\nA2.\n\nQ3?\nA3.\n" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestCleanScenarioEmptyInputRendersSingleNewline(t *testing.T) {
	doc := Clean("", nil)
	if len(doc.Groups) != 0 {
		t.Fatalf("expected no groups, got %#v", doc.Groups)
	}
	if got := doc.Render(); got != "\n" {
		t.Fatalf("expected single newline, got %q", got)
	}
}

func TestCleanScenarioNoQuestions(t *testing.T) {
	doc := Clean("Hello there. This is fine.", nil)
	want := []Group{{Answers: []string{"Hello there.", "This is fine."}}}
	if !reflect.DeepEqual(doc.Groups, want) {
		t.Fatalf("unexpected groups: %#v", doc.Groups)
	}
	if got := doc.Render(); got != "Hello there.\nThis is fine.\n" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestGroupSentencesFlushesTrailingQuestions(t *testing.T) {
	doc := GroupSentences([]string{"A.", "Why?", " How? "})
	want := []Group{
		{Answers: []string{"A."}},
		{Questions: []string{"Why?", "How?"}},
	}
	if !reflect.DeepEqual(doc.Groups, want) {
		t.Fatalf("unexpected groups: %#v", doc.Groups)
	}
	if got := doc.Render(); got != "A.\n\nWhy?\nHow?\n" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestGroupSentencesTrimsSeparatorControls(t *testing.T) {
	doc := Clean("Hi.\x1f\x1f Yes? \x1f", nil)
	want := []Group{
		{Answers: []string{"Hi."}},
		{Questions: []string{"Yes?"}},
	}
	if !reflect.DeepEqual(doc.Groups, want) {
		t.Fatalf("unexpected groups: %#v", doc.Groups)
	}
	if got := doc.Render(); got != "Hi.\n\nYes?\n" {
		t.Fatalf("unexpected render: %q", got)
	}

	doc = GroupSentences([]string{"\x1c\u00a0\u2028", "\u3000Why?\u0085", "Because.\x1e"})
	want = []Group{{Questions: []string{"Why?"}, Answers: []string{"Because."}}}
	if !reflect.DeepEqual(doc.Groups, want) {
		t.Fatalf("unexpected groups for unicode spaces: %#v", doc.Groups)
	}
}

func TestGroupSentencesEmptySentencesSplitAnswerRuns(t *testing.T) {
	doc := GroupSentences([]string{"Q?", "A1.", "   ", "", "A2.", "\t"})
	want := []Group{
		{Questions: []string{"Q?"}, Answers: []string{"A1."}},
		{Answers: []string{"A2."}},
	}
	if !reflect.DeepEqual(doc.Groups, want) {
		t.Fatalf("unexpected groups: %#v", doc.Groups)
	}
}

func TestGroupSentencesAllBlank(t *testing.T) {
	for _, input := range [][]string{nil, {}, {""}, {" ", "\n", "\t\t"}} {
		doc := GroupSentences(input)
		if len(doc.Groups) != 0 {
			t.Fatalf("expected no groups for %q, got %#v", input, doc.Groups)
		}
		if doc.Render() != "\n" {
			t.Fatalf("expected single newline for %q, got %q", input, doc.Render())
		}
	}
}

func TestGroupSentencesPreservesEveryNonBlankSentence(t *testing.T) {
	inputs := [][]string{
		{"Q1?", "Q2?", "A1.", "", "Q3?", " ", "A2.", "A3!", "Q4?"},
		{"", "", "A.", "B?", "C.", "D?", "", "E?"},
		{"?", "x", "?", "y"},
	}
	for _, sentences := range inputs {
		doc := GroupSentences(sentences)
		var want []string
		for _, s := range sentences {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				want = append(want, trimmed)
			}
		}
		var got []string
		for _, g := range doc.Groups {
			got = append(got, g.Lines()...)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("sentence order not preserved: got %q want %q", got, want)
		}
		if doc.SentenceCount() != len(want) {
			t.Fatalf("SentenceCount = %d, want %d", doc.SentenceCount(), len(want))
		}
	}
}

func TestGroupAnswersNeverEndWithQuestionMark(t *testing.T) {
	doc := Clean("Is it? Yes. Sure? Maybe. Ok? Fine! Why? Because.", nil)
	for _, g := range doc.Groups {
		for _, a := range g.Answers {
			if strings.HasSuffix(a, "?") {
				t.Fatalf("answer %q ends with a question mark", a)
			}
		}
		for _, q := range g.Questions {
			if !strings.HasSuffix(q, "?") {
				t.Fatalf("question %q does not end with a question mark", q)
			}
		}
	}
	if len(doc.Groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(doc.Groups))
	}
}

func TestRenderNeverHasDoubleOrTrailingBlankLines(t *testing.T) {
	inputs := []string{
		"Q1? Q2? A1. A2. Q3? A3.",
		"A. B? C. D? E? F. G?",
		"One.\n\n\n\nTwo? Three.",
		"   ",
	}
	for _, input := range inputs {
		rendered := Clean(input, nil).Render()
		if strings.Contains(rendered, "\n\n\n") {
			t.Fatalf("double blank line in %q", rendered)
		}
		if rendered != "\n" && strings.HasSuffix(rendered, "\n\n") {
			t.Fatalf("trailing blank line in %q", rendered)
		}
		if !strings.HasSuffix(rendered, "\n") {
			t.Fatalf("missing trailing newline in %q", rendered)
		}
	}
}

func TestCleanIsStableOnItsOwnOutput(t *testing.T) {
	inputs := []string{
		"Q1? Q2? A1. A2. Q3? A3.",
		"Hello there. This is fine.",
		"Who are you? I am Sam. Where from? Boston. Why? Work.",
	}
	for _, input := range inputs {
		first := Clean(input, nil).Render()
		second := Clean(first, nil).Render()
		if first != second {
			t.Fatalf("not stable for %q:\nfirst  %q\nsecond %q", input, first, second)
		}
	}
}
