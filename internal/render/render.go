// Package render formats quizzes for the terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizforge/internal/quiz"
	"github.com/abhisek/quizforge/internal/store"
)

// Renderer turns quizzes into terminal text.
type Renderer struct {
	theme theme
	color bool
}

// New returns a Renderer. With color false the output carries no ANSI
// escapes, which suits pipes and files.
func New(color bool) *Renderer {
	if color {
		return &Renderer{theme: colorTheme(), color: true}
	}
	return &Renderer{theme: plainTheme()}
}

// Options controls Quiz output.
type Options struct {
	Title       string
	Subtitle    string
	ShowAnswers bool
}

// Quiz renders every question with lettered options. When ShowAnswers is
// set the correct option is marked.
func (r *Renderer) Quiz(z *quiz.Quiz, opts Options) string {
	t := r.theme
	var blocks []string

	if opts.Title != "" {
		blocks = append(blocks, t.title.Render(opts.Title))
	}
	if opts.Subtitle != "" {
		blocks = append(blocks, t.subtitle.Render(opts.Subtitle))
	}

	for i, q := range z.Questions {
		lines := []string{t.question.Render(fmt.Sprintf("%d. %s", i+1, q.Text))}
		for j, opt := range q.Options {
			label := fmt.Sprintf("%c) %s", 'a'+j, opt)
			if opts.ShowAnswers && j == q.CorrectIndex {
				lines = append(lines, t.correct.Render(label+"  ✓"))
				continue
			}
			lines = append(lines, t.option.Render(label))
		}
		blocks = append(blocks, t.card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}

	if opts.ShowAnswers && hasPreformattedDefault(z) {
		blocks = append(blocks, t.hint.Render("Answers default to the first option for preformatted input."))
	}
	return strings.Join(blocks, "\n")
}

// hasPreformattedDefault reports whether every answer is the first option,
// which is what the preformatted parser always produces.
func hasPreformattedDefault(z *quiz.Quiz) bool {
	if z.Len() == 0 {
		return false
	}
	for _, q := range z.Questions {
		if q.CorrectIndex != 0 {
			return false
		}
	}
	return true
}

// QuizList renders saved quiz summaries as an aligned table.
func (r *Renderer) QuizList(items []store.QuizSummary) string {
	if len(items) == 0 {
		return r.theme.hint.Render("No quizzes saved yet.")
	}

	rows := [][]string{{"ID", "TITLE", "MODE", "QUESTIONS", "CREATED"}}
	for _, s := range items {
		rows = append(rows, []string{
			s.ID,
			truncate(s.Title, 40),
			s.Mode,
			fmt.Sprintf("%d", s.QuestionCount),
			s.CreatedAt.Local().Format(time.DateTime),
		})
	}
	return r.table(rows)
}

// table pads columns to equal width and styles the header row.
func (r *Renderer) table(rows [][]string) string {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for ri, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if ri == 0 {
			line = r.theme.header.Render(line)
		}
		b.WriteString(line)
		if ri < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
