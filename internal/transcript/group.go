package transcript

import "strings"

// Group is one question run and the answers that follow it.
type Group struct {
	Questions []string
	Answers   []string
}

// Len reports the number of sentences in the group.
func (g Group) Len() int {
	return len(g.Questions) + len(g.Answers)
}

// Lines returns the group's sentences in order, questions first.
func (g Group) Lines() []string {
	lines := make([]string, 0, g.Len())
	lines = append(lines, g.Questions...)
	return append(lines, g.Answers...)
}

// Document is the grouped transcript.
type Document struct {
	Groups []Group
}

// SentenceCount reports the number of sentences across all groups.
func (d Document) SentenceCount() int {
	total := 0
	for _, g := range d.Groups {
		total += g.Len()
	}
	return total
}

// Lines returns the output lines with a single empty line between groups and
// none after the last one.
func (d Document) Lines() []string {
	var lines []string
	for i, g := range d.Groups {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, g.Lines()...)
	}
	return lines
}

// Render joins the lines with "\n" and terminates the document with a single
// newline. An empty document renders as "\n".
func (d Document) Render() string {
	return strings.Join(d.Lines(), "\n") + "\n"
}

type groupState int

const (
	accumulateQuestions groupState = iota
	accumulateAnswers
	flushGroup
)

// GroupSentences clusters sentences into question/answer groups in a single
// forward pass. Whitespace-only sentences are dropped; everything else lands
// in exactly one group, in order. Trailing questions without answers still
// form a group.
func GroupSentences(sentences []string) Document {
	var doc Document
	n := len(sentences)
	i := 0
	for i < n {
		var current Group
		state := accumulateQuestions
	machine:
		for {
			switch state {
			case accumulateQuestions:
				if i < n {
					if s := trimSpace(sentences[i]); isQuestion(s) {
						current.Questions = append(current.Questions, s)
						i++
						continue
					}
				}
				state = accumulateAnswers
			case accumulateAnswers:
				if i < n {
					if s := trimSpace(sentences[i]); s != "" && !isQuestion(s) {
						current.Answers = append(current.Answers, s)
						i++
						continue
					}
				}
				state = flushGroup
			case flushGroup:
				if current.Len() > 0 {
					doc.Groups = append(doc.Groups, current)
				}
				break machine
			}
		}
		for i < n && trimSpace(sentences[i]) == "" {
			i++
		}
	}
	return doc
}

// Clean splits text with rule and groups the resulting sentences.
func Clean(text string, rule Rule) Document {
	return GroupSentences(SplitSentences(text, rule))
}

func isQuestion(trimmed string) bool {
	return strings.HasSuffix(trimmed, "?")
}
