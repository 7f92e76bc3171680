package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/quizforge/internal/quiz"
)

// quizRepo implements QuizRepo with ent's SQL builder.
type quizRepo struct {
	db *sql.DB
}

func (r *quizRepo) Create(ctx context.Context, nq NewQuiz) (rec *QuizRecord, err error) {
	if nq.Quiz == nil {
		return nil, fmt.Errorf("save quiz: nil quiz")
	}
	if err := nq.Quiz.Validate(); err != nil {
		return nil, fmt.Errorf("save quiz: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b := entsql.Dialect(dialect.SQLite)
	publicID := uuid.NewString()
	createdAt := time.Now().UTC()

	query, args := b.Insert(QuizzesTable.Name).
		Columns("public_id", "title", "mode", "created_at").
		Values(publicID, nq.Title, nq.Mode, createdAt).
		Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert quiz: %w", err)
	}
	quizID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("quiz id: %w", err)
	}

	for qi, q := range nq.Quiz.Questions {
		query, args := b.Insert(QuestionsTable.Name).
			Columns("quiz_id", "position", "question_text").
			Values(quizID, qi, q.Text).
			Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("insert question %d: %w", qi+1, err)
		}
		questionID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("question id: %w", err)
		}

		ins := b.Insert(OptionsTable.Name).
			Columns("question_id", "position", "option_text", "is_correct")
		for oi, opt := range q.Options {
			ins = ins.Values(questionID, oi, opt, oi == q.CorrectIndex)
		}
		query, args = ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("insert options for question %d: %w", qi+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit quiz: %w", err)
	}

	return &QuizRecord{
		QuizSummary: QuizSummary{
			ID:            publicID,
			Title:         nq.Title,
			Mode:          nq.Mode,
			QuestionCount: nq.Quiz.Len(),
			CreatedAt:     createdAt,
		},
		Quiz: nq.Quiz,
	}, nil
}

func (r *quizRepo) Get(ctx context.Context, id string) (*QuizRecord, error) {
	b := entsql.Dialect(dialect.SQLite)

	query, args := b.Select("id", "public_id", "title", "mode", "created_at").
		From(entsql.Table(QuizzesTable.Name)).
		Where(entsql.EQ("public_id", id)).
		Query()

	var (
		rowID int
		rec   QuizRecord
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&rowID, &rec.ID, &rec.Title, &rec.Mode, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	qt := entsql.Table(QuestionsTable.Name).As("q")
	ot := entsql.Table(OptionsTable.Name).As("o")
	query, args = b.Select(qt.C("position"), qt.C("question_text"), ot.C("option_text"), ot.C("is_correct")).
		From(qt).
		Join(ot).On(qt.C("id"), ot.C("question_id")).
		Where(entsql.EQ(qt.C("quiz_id"), rowID)).
		OrderBy(qt.C("position"), ot.C("position")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	defer rows.Close()

	out := &quiz.Quiz{}
	last := -1
	for rows.Next() {
		var (
			pos       int
			text, opt string
			correct   bool
		)
		if err := rows.Scan(&pos, &text, &opt, &correct); err != nil {
			return nil, fmt.Errorf("scan question row: %w", err)
		}
		if pos != last {
			out.Questions = append(out.Questions, quiz.Question{Text: text})
			last = pos
		}
		q := &out.Questions[len(out.Questions)-1]
		if correct {
			q.CorrectIndex = len(q.Options)
		}
		q.Options = append(q.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}

	rec.Quiz = out
	rec.QuestionCount = out.Len()
	return &rec, nil
}

func (r *quizRepo) List(ctx context.Context, opts QueryOpts) ([]QuizSummary, error) {
	t := entsql.Table(QuizzesTable.Name).As("z")
	q := entsql.Table(QuestionsTable.Name).As("q")

	sel := entsql.Dialect(dialect.SQLite).
		Select(t.C("public_id"), t.C("title"), t.C("mode"), t.C("created_at"), entsql.Count(q.C("id"))).
		From(t).
		LeftJoin(q).On(t.C("id"), q.C("quiz_id")).
		GroupBy(t.C("id")).
		OrderBy(entsql.Desc(t.C("created_at")), entsql.Desc(t.C("id")))

	if !opts.From.IsZero() {
		sel = sel.Where(entsql.GTE(t.C("created_at"), opts.From.UTC()))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []QuizSummary
	for rows.Next() {
		var s QuizSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Mode, &s.CreatedAt, &s.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan quiz row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
