package quizgen

// Config controls the behavior of the Generator.
type Config struct {
	// QuestionCount is how many questions the prompt asks for.
	QuestionCount int

	// Validators run in order on every question; the first failure rejects
	// the whole batch.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response. Zero means
	// MaxTokensFor(QuestionCount).
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		QuestionCount: 5,
		Validators: []Validator{
			&StructuralValidator{},
			&AnswerRangeValidator{},
		},
		MaxTokens:   MaxTokensFor(5),
		Temperature: 0.4,
	}
}

// Token budget per requested question, on top of a fixed base for the JSON
// envelope. Never below minMaxTokens.
const (
	tokensPerQuestion = 300
	baseTokens        = 512
	minMaxTokens      = 2048
)

// MaxTokensFor returns the response token budget for n questions.
func MaxTokensFor(n int) int {
	return max(minMaxTokens, baseTokens+n*tokensPerQuestion)
}
