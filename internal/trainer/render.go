package trainer

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/scheduler"
)

const (
	defaultWidth = 80
	barGlyph     = "█"
)

var emphasisPattern = regexp.MustCompile(`\*([^*]+)\*`)

type palette struct {
	bold    *color.Color
	italic  *color.Color
	never   *color.Color
	fail    *color.Color
	partial *color.Color
	good    *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		bold:    color.New(color.Bold),
		italic:  color.New(color.Italic),
		never:   color.New(color.FgHiBlack),
		fail:    color.New(color.FgRed),
		partial: color.New(color.FgYellow),
		good:    color.New(color.FgGreen),
	}
	if noColor {
		for _, c := range []*color.Color{p.bold, p.italic, p.never, p.fail, p.partial, p.good} {
			c.DisableColor()
		}
	}
	return p
}

// forRating picks the card colour from its last rating.
func (p palette) forRating(r *domain.Rating) *color.Color {
	switch {
	case r == nil:
		return p.never
	case *r <= 34:
		return p.fail
	case *r >= 65:
		return p.good
	default:
		return p.partial
	}
}

// emphasize renders *word* in bold and drops the asterisks.
func (p palette) emphasize(s string) string {
	return emphasisPattern.ReplaceAllStringFunc(s, func(m string) string {
		return p.bold.Sprint(m[1 : len(m)-1])
	})
}

// terminalWidth returns the width of out if it is a terminal.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// bar draws the share of each rating as one coloured line of width cells.
func (p palette) bar(d scheduler.Distribution, width int) string {
	total := d.Total()
	if total == 0 || width <= 0 {
		return ""
	}
	parts := []struct {
		count int
		c     *color.Color
	}{
		{d.Good, p.good},
		{d.Partial, p.partial},
		{d.Fail, p.fail},
		{d.Never, p.never},
	}

	var b strings.Builder
	used, seen := 0, 0
	for _, part := range parts {
		seen += part.count
		// cumulative rounding keeps the bar exactly width cells wide
		cells := seen*width/total - used
		used += cells
		if cells > 0 {
			b.WriteString(part.c.Sprint(strings.Repeat(barGlyph, cells)))
		}
	}
	return b.String()
}

func (p palette) legend(d scheduler.Distribution) string {
	return fmt.Sprintf("%s %s %s %s",
		p.good.Sprintf("good %d", d.Good),
		p.partial.Sprintf("partial %d", d.Partial),
		p.fail.Sprintf("fail %d", d.Fail),
		p.never.Sprintf("new %d", d.Never),
	)
}
