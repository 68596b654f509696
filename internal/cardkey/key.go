package cardkey

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// Content joins the identifying fields of a card. Fields are kept exactly
// as parsed: an edited question or answer is a different card.
func Content(card domain.Card) string {
	// A NUL separator cannot appear in a parsed line, so ("a b", "c") and
	// ("a", "b c") never collide.
	return strings.Join([]string{card.Section, card.Question, card.Answer}, "\x00")
}

// Key returns the SHA-256 of the card's content as a hex string.
func Key(card domain.Card) string {
	sum := sha256.Sum256([]byte(Content(card)))
	return fmt.Sprintf("%x", sum)
}
