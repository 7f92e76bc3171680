package quiz

// Wire is the external JSON shape of a quiz, shared by the AI response
// contract, the HTTP API, and `quizforge ingest --json`.
type Wire struct {
	Questions []WireQuestion `json:"questions"`
}

// WireQuestion is the external JSON shape of a question.
type WireQuestion struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// ToWire converts a quiz to its wire shape.
func (z *Quiz) ToWire() Wire {
	w := Wire{Questions: make([]WireQuestion, 0, z.Len())}
	if z == nil {
		return w
	}
	for _, q := range z.Questions {
		w.Questions = append(w.Questions, WireQuestion{
			QuestionText:  q.Text,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectIndex,
		})
	}
	return w
}

// FromWire converts a wire quiz into the canonical shape and validates it.
func FromWire(w Wire) (*Quiz, error) {
	z := &Quiz{Questions: make([]Question, 0, len(w.Questions))}
	for _, wq := range w.Questions {
		z.Questions = append(z.Questions, Question{
			Text:         wq.QuestionText,
			Options:      append([]string(nil), wq.Options...),
			CorrectIndex: wq.CorrectAnswer,
		})
	}
	if err := z.Validate(); err != nil {
		return nil, err
	}
	return z, nil
}
