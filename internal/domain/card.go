package domain

// Lesson is a named group of cards sharing a topic and language.
// It is created when a section header is parsed.
type Lesson struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Note     string `json:"note"`
}

// Card represents a single question-answer pair plus its review metadata.
type Card struct {
	Section      string       `json:"section"`
	Language     string       `json:"language"`
	Question     string       `json:"question"`
	Answer       string       `json:"answer"`
	QuestionNote string       `json:"question_note"`
	AnswerNote   string       `json:"answer_note"`
	Metadata     CardMetadata `json:"metadata"`
}

// CardMetadata holds the review state of a card.
//
// ID is the card's position in the parse pass that produced it and is only
// meant for display. Key is the stable identity derived from the card's
// content and is what storage uses to find the card again.
type CardMetadata struct {
	ID         int     `json:"id"`
	Key        string  `json:"key"`
	LastRating *Rating `json:"last_rating"`
	Score      float64 `json:"score"`
	IsBuiltIn  bool    `json:"built_in"`
}

// DefaultScore is the score of a card that has never been reviewed.
const DefaultScore = 1.0

// Origin tells which partition of the repository a card belongs to.
type Origin int

const (
	OriginUser Origin = iota
	OriginBuiltIn
)

func (o Origin) String() string {
	if o == OriginBuiltIn {
		return "built-in"
	}
	return "user"
}

// Origin reports which partition the card belongs to.
func (c Card) Origin() Origin {
	if c.Metadata.IsBuiltIn {
		return OriginBuiltIn
	}
	return OriginUser
}

// SameContent reports whether two cards share the (section, question, answer)
// triple that identifies a card across re-imports.
func (c Card) SameContent(other Card) bool {
	return c.Section == other.Section &&
		c.Question == other.Question &&
		c.Answer == other.Answer
}
