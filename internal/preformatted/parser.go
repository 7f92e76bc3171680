// Package preformatted parses quizzes that an instructor has already written
// in the numbered-question / lettered-option convention:
//
//	1. What is 2+2?
//	a) 3
//	b) 4
//
// Parsing is best effort: blocks that do not yield at least two options are
// dropped rather than reported. There is no answer-key convention, so every
// parsed question marks its first option as correct.
package preformatted

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/quizforge/internal/quiz"
)

var (
	// markerLine matches a line that opens a new question block.
	markerLine = regexp.MustCompile(`^\d+\.\s`)

	// bareMarker matches a marker line with nothing after the dot.
	bareMarker = regexp.MustCompile(`^\d+\.$`)

	// markerPrefix strips the number from the question line.
	markerPrefix = regexp.MustCompile(`^\d+\.\s*`)

	// optionLine matches "a) text" through "d) text", any case.
	optionLine = regexp.MustCompile(`(?i)^\s*[a-d]\)\s*(.*)`)
)

// blockParser turns one block into a question. Tests replace it to drive
// the recovery path.
var blockParser = parseBlock

// defaultCorrectIndex is assigned to every parsed question. The input format
// carries no answer key; callers must not treat it as authoritative.
const defaultCorrectIndex = 0

// Parse converts preformatted text into a quiz. It returns *ParseError with
// KindNoValidQuestions when nothing usable was found, and KindInternal for any
// unexpected fault. It never panics.
func Parse(raw string) (z *quiz.Quiz, err error) {
	defer func() {
		if r := recover(); r != nil {
			z = nil
			err = &ParseError{Kind: KindInternal, Err: fmt.Errorf("recovered: %v", r)}
		}
	}()

	var questions []quiz.Question
	for _, block := range splitBlocks(strings.TrimSpace(raw)) {
		q, ok := blockParser(block)
		if !ok {
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, &ParseError{Kind: KindNoValidQuestions}
	}

	z = &quiz.Quiz{Questions: questions}
	if verr := z.Validate(); verr != nil {
		return nil, &ParseError{Kind: KindInternal, Err: verr}
	}
	return z, nil
}

// splitBlocks cuts text into question blocks. A block starts at every line
// that begins with "<n>." followed by whitespace; the marker line stays with
// the block it opens. Text before the first marker forms its own block.
func splitBlocks(text string) [][]string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")

	var blocks [][]string
	var cur []string
	for i, line := range lines {
		if i > 0 && isMarker(line, i == len(lines)-1) {
			blocks = append(blocks, cur)
			cur = nil
		}
		cur = append(cur, line)
	}
	return append(blocks, cur)
}

// isMarker reports whether line opens a block. A bare "<n>." only counts when
// a line break follows it, i.e. when it is not the last line.
func isMarker(line string, last bool) bool {
	if markerLine.MatchString(line) {
		return true
	}
	return !last && bareMarker.MatchString(line)
}

// parseBlock extracts one question. ok is false when the block is blank,
// has an empty question line, or yields fewer than two options.
func parseBlock(lines []string) (q quiz.Question, ok bool) {
	lines = trimBlankEdges(lines)
	if len(lines) == 0 {
		return quiz.Question{}, false
	}

	text := strings.TrimSpace(markerPrefix.ReplaceAllString(strings.TrimSpace(lines[0]), ""))
	if text == "" {
		return quiz.Question{}, false
	}

	var options []string
	for _, line := range lines[1:] {
		m := optionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		options = append(options, strings.TrimSpace(m[1]))
	}

	if len(options) < quiz.MinOptions {
		return quiz.Question{}, false
	}
	// Repeated letters can produce more than four matches; keep the first four.
	if len(options) > quiz.MaxOptions {
		options = options[:quiz.MaxOptions]
	}

	return quiz.Question{
		Text:         text,
		Options:      options,
		CorrectIndex: defaultCorrectIndex,
	}, true
}

func trimBlankEdges(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
