// Package trainer runs a training session in the terminal. Each card moves
// through hidden, question shown, answer shown and rated before the next
// card is drawn.
package trainer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/scheduler"
)

// State is the stage of the card being reviewed.
type State int

const (
	Hidden State = iota
	QuestionShown
	AnswerShown
	Rated
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case QuestionShown:
		return "question"
	case AnswerShown:
		return "answer"
	case Rated:
		return "rated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

const quitCommand = "q"

var errQuit = errors.New("quit")

// Options configures a Trainer.
type Options struct {
	// Width of the rating bar. Zero uses the terminal width of Out.
	Width   int
	NoColor bool
}

type Trainer struct {
	in      *bufio.Reader
	out     io.Writer
	width   int
	palette palette
	state   State
}

// Summary describes a finished session.
type Summary struct {
	SessionID    string
	Reviewed     int
	Distribution scheduler.Distribution
	// Quit is set when the user stopped before the deck ran out.
	Quit bool
}

func New(in io.Reader, out io.Writer, opts Options) *Trainer {
	width := opts.Width
	if width == 0 {
		width = terminalWidth(out)
	}
	return &Trainer{
		in:      bufio.NewReader(in),
		out:     out,
		width:   width,
		palette: newPalette(opts.NoColor),
	}
}

// State returns the stage of the current card.
func (t *Trainer) State() State { return t.state }

// Run reviews cards until the deck is empty, the user quits or input ends.
func (t *Trainer) Run(ctx context.Context, session *scheduler.Session) (Summary, error) {
	summary := Summary{SessionID: uuid.NewString()}
	logger := slog.With("session", summary.SessionID)
	logger.Info("Training session started", "cards", session.Len())

	var err error
	for err == nil {
		if err = ctx.Err(); err != nil {
			break
		}
		card, ok := session.Current()
		if !ok {
			fmt.Fprintln(t.out, "No cards to review.")
			break
		}
		err = t.review(ctx, session, card)
	}

	summary.Reviewed = session.Reviewed()
	summary.Distribution = session.Distribution()
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		summary.Quit = true
		err = nil
	}
	logger.Info("Training session ended", "reviewed", summary.Reviewed, "quit", summary.Quit)
	return summary, err
}

func (t *Trainer) review(ctx context.Context, session *scheduler.Session, card domain.Card) error {
	t.state = Hidden
	c := t.palette.forRating(card.Metadata.LastRating)

	header := fmt.Sprintf("#%d %s", card.Metadata.ID, card.Section)
	fmt.Fprintln(t.out, t.palette.italic.Sprint(header))
	fmt.Fprintln(t.out, c.Sprint(t.side(card.Question, card.QuestionNote)))
	t.state = QuestionShown

	if _, err := t.prompt("[Enter] show answer, [q] quit: "); err != nil {
		return err
	}

	fmt.Fprintln(t.out, c.Sprint(t.side(card.Answer, card.AnswerNote)))
	t.state = AnswerShown

	for {
		input, err := t.prompt("[1] fail, [2] partial, [3] good, [q] quit: ")
		if err != nil {
			return err
		}
		rating, err := domain.ParseRating(input)
		if err != nil {
			fmt.Fprintf(t.out, "Unknown rating %q.\n", input)
			continue
		}
		updated, err := session.Rate(ctx, rating)
		if err != nil {
			return err
		}
		t.state = Rated
		slog.Debug("Card rated", "key", updated.Metadata.Key, "rating", rating, "score", updated.Metadata.Score)
		break
	}

	d := session.Distribution()
	fmt.Fprintln(t.out, t.palette.bar(d, t.width))
	fmt.Fprintln(t.out, t.palette.legend(d))
	fmt.Fprintln(t.out)
	return nil
}

func (t *Trainer) side(text, note string) string {
	text = t.palette.emphasize(text)
	if note == "" {
		return text
	}
	return text + " " + note
}

// prompt reads one line. "q" yields errQuit; end of input yields io.EOF.
func (t *Trainer) prompt(label string) (string, error) {
	fmt.Fprint(t.out, label)
	line, err := t.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		fmt.Fprintln(t.out)
		return "", err
	}
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, quitCommand) {
		return "", errQuit
	}
	return strings.ToLower(line), nil
}
