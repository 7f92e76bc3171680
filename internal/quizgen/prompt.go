package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a quiz author. You turn study material into multiple-choice questions.

Rules:
- Return exactly one JSON object and nothing else. No prose before or after it, no markdown, no code fences.
- The object has a single key "questions" holding an array of question objects.
- Each question object has exactly three keys:
  1. "question_text": a string containing the question.
  2. "options": an array of exactly 4 strings, the answer choices.
  3. "correct_answer": an integer from 0 to 3, the index of the correct choice in "options".
- Every question must be answerable from the supplied text alone.
- Exactly one option is correct. Distractors should be plausible.`

// buildUserMessage embeds the source text verbatim between delimiters.
func buildUserMessage(sourceText string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following text and generate a %d-question multiple-choice quiz.\n", count)
	b.WriteString("Here is the text to analyze:\n---\n")
	b.WriteString(sourceText)
	b.WriteString("\n---")
	return b.String()
}
