package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizforge/internal/ingest"
	"github.com/abhisek/quizforge/internal/preformatted"
	"github.com/abhisek/quizforge/internal/quizgen"
	"github.com/abhisek/quizforge/internal/render"
	"github.com/abhisek/quizforge/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file|-]",
	Short: "Build a quiz from a file or stdin",
	Long: "Build a quiz from study text. With --preformatted the input must hold " +
		"numbered questions (\"1.\") with lettered options (\"a)\" to \"d)\"); " +
		"otherwise an AI provider writes the questions.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		preformattedInput, _ := cmd.Flags().GetBool("preformatted")
		title, _ := cmd.Flags().GetString("title")
		save, _ := cmd.Flags().GetBool("save")
		asJSON, _ := cmd.Flags().GetBool("json")
		answers, _ := cmd.Flags().GetBool("answers")

		src := "-"
		if len(args) == 1 {
			src = args[0]
		}
		text, err := readInput(cmd.InOrStdin(), src)
		if err != nil {
			return err
		}
		if title == "" {
			title = defaultTitle(src)
		}
		if save {
			if n := utf8.RuneCountInString(title); n < 5 || n > 100 {
				return fmt.Errorf("--title must be between 5 and 100 characters")
			}
		}

		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		log, err := newLogger(cfg, true)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		proc, err := newProcessor(cmd.Context(), cfg, st.EventRepo(), log, nil)
		if err != nil {
			return fmt.Errorf("init LLM provider: %w", err)
		}

		req := ingest.Request{Text: text, Preformatted: preformattedInput, RequestID: uuid.NewString()}
		z, err := proc.Process(cmd.Context(), req)
		if err != nil {
			return errors.New(ingestMessage(err))
		}

		out := cmd.OutOrStdout()
		var savedID string
		if save {
			rec, err := st.QuizRepo().Create(cmd.Context(), store.NewQuiz{Title: title, Mode: req.Mode(), Quiz: z})
			if err != nil {
				return fmt.Errorf("save quiz: %w", err)
			}
			savedID = rec.ID
		}

		if asJSON {
			if savedID != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "saved as", savedID)
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(z.ToWire())
		}

		subtitle := fmt.Sprintf("%d questions, %s", z.Len(), req.Mode())
		if savedID != "" {
			subtitle += ", saved as " + savedID
		}
		fmt.Fprintln(out, newRenderer(out).Quiz(z, render.Options{
			Title:       title,
			Subtitle:    subtitle,
			ShowAnswers: answers,
		}))
		return nil
	},
}

func init() {
	ingestCmd.Flags().Bool("preformatted", false, "Input is numbered questions with lettered options")
	ingestCmd.Flags().StringP("title", "t", "", "Quiz title (defaults to the file name)")
	ingestCmd.Flags().Bool("save", false, "Save the quiz to the database")
	ingestCmd.Flags().Bool("json", false, "Print the quiz as JSON")
	ingestCmd.Flags().Bool("answers", false, "Mark the correct option of each question")
}

// readInput reads src, where "-" means r.
func readInput(r io.Reader, src string) (string, error) {
	var (
		data []byte
		err  error
	)
	if src == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func defaultTitle(src string) string {
	if src == "-" {
		return "Untitled quiz"
	}
	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ingestMessage maps an ingestion failure to the message shown to the user.
func ingestMessage(err error) string {
	var pe *preformatted.ParseError
	if errors.As(err, &pe) {
		if pe.Kind == preformatted.KindNoValidQuestions {
			return "no valid questions found: number each question (1.) and letter each option (a) to d)), then try again"
		}
		return "something went wrong while parsing the quiz"
	}
	if kind, ok := quizgen.KindOf(err); ok {
		switch kind {
		case quizgen.KindServiceError:
			if errors.Is(err, quizgen.ErrNotConfigured) {
				return "AI quiz generation is not configured: set an API key such as GEMINI_API_KEY, or use --preformatted"
			}
			return "the AI service is unavailable right now; try again in a moment"
		default:
			return "the AI produced unusable output; try again"
		}
	}
	return "something went wrong while processing the quiz"
}

// newRenderer enables color only when w is a terminal.
func newRenderer(w io.Writer) *render.Renderer {
	f, ok := w.(*os.File)
	return render.New(ok && isatty.IsTerminal(f.Fd()))
}
