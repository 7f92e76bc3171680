package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizforge/internal/render"
	"github.com/abhisek/quizforge/internal/store"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Browse saved quizzes",
}

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved quizzes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		items, err := st.QuizRepo().List(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, newRenderer(out).QuizList(items))
		return nil
	},
}

var quizShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		answers, _ := cmd.Flags().GetBool("answers")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := st.QuizRepo().Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("quiz %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("get quiz: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec.Quiz.ToWire())
		}
		fmt.Fprintln(out, newRenderer(out).Quiz(rec.Quiz, render.Options{
			Title:       rec.Title,
			Subtitle:    fmt.Sprintf("%s, %s, %s", rec.ID, rec.Mode, rec.CreatedAt.Local().Format("2006-01-02 15:04")),
			ShowAnswers: answers,
		}))
		return nil
	},
}

func init() {
	quizListCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
	quizShowCmd.Flags().Bool("json", false, "Print the quiz as JSON")
	quizShowCmd.Flags().Bool("answers", false, "Mark the correct option of each question")

	quizCmd.AddCommand(quizListCmd)
	quizCmd.AddCommand(quizShowCmd)
}
