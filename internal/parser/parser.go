package parser

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/conorfennell/flashdeck/internal/cardkey"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/history"
)

// DefaultLanguage is used for sections whose header names no language.
const DefaultLanguage = "en-GB"

const (
	headerPrefix    = "==="
	separator       = "="
	legacySeparator = ";"
)

var (
	markupPattern = regexp.MustCompile(`(?i)</?[a-z][\s\S]*?>`)
	headerPattern = regexp.MustCompile(`^===\s+([^#\[\]]+?)\s*(?:#([^#\[\]]+)#)?\s*(?:\[([^\[\]]*)\])?$`)
	cardPattern   = regexp.MustCompile(`^[^=\[\]]+(?: \[[^\[\]=]+\])?\s*=\s*[^=\[\]]+(?: \[[^\[\]=]+\])?$`)
	notePattern   = regexp.MustCompile(`\[(.*?)\]`)
)

// Options controls a parse.
type Options struct {
	// DefaultLanguage is the language of sections without a #lang# group.
	// Empty means DefaultLanguage.
	DefaultLanguage string
	// Prior holds previously stored cards. Parsed cards take their last
	// rating and score from the first prior card with the same content.
	Prior []domain.Card
}

// Result is the output of a successful parse.
type Result struct {
	Lessons []domain.Lesson
	Cards   []domain.Card
}

// ParseFile reads a file from the given path and extracts all lessons and cards.
func ParseFile(path string, opts Options) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file, opts)
}

// ParseString parses lesson text held in memory.
func ParseString(text string, opts Options) (*Result, error) {
	return Parse(strings.NewReader(text), opts)
}

// Parse reads lesson text from r. Every rejected line is collected and the
// parse fails with ParseErrors if there is at least one; a malformed section
// header fails immediately with a *HeaderFormatError. No cards are returned
// from a failed parse.
func Parse(r io.Reader, opts Options) (*Result, error) {
	defaultLang := opts.DefaultLanguage
	if defaultLang == "" {
		defaultLang = DefaultLanguage
	}

	scanner := bufio.NewScanner(r)
	result := &Result{}
	var lineErrs ParseErrors
	current := domain.Lesson{Language: defaultLang}
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if markupPattern.MatchString(line) {
			lineErrs = append(lineErrs, &MarkupRejectedError{Line: lineNo, Text: line})
			continue
		}

		if strings.HasPrefix(line, headerPrefix) {
			lesson, ok := parseHeader(line, defaultLang)
			if !ok {
				return nil, &HeaderFormatError{Line: lineNo, Text: line}
			}
			current = lesson
			result.Lessons = append(result.Lessons, lesson)
			continue
		}

		if !cardPattern.MatchString(line) {
			lineErrs = append(lineErrs, &LineFormatError{Line: lineNo, Text: line})
			continue
		}
		if lineErrs != nil {
			// The parse has already failed; keep scanning only to report errors.
			continue
		}

		card := parseCard(line, current)
		card.Metadata.ID = len(result.Cards)
		card.Metadata.Key = cardkey.Key(card)
		history.Carry(&card, opts.Prior)
		result.Cards = append(result.Cards, card)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lineErrs) > 0 {
		return nil, lineErrs
	}
	return result, nil
}

func parseHeader(line, defaultLang string) (domain.Lesson, bool) {
	match := headerPattern.FindStringSubmatch(line)
	if match == nil {
		return domain.Lesson{}, false
	}
	name := strings.TrimSpace(match[1])
	if name == "" || strings.ContainsAny(name, "#[]") {
		return domain.Lesson{}, false
	}

	lang := strings.TrimSpace(match[2])
	if lang == "" {
		lang = defaultLang
	}
	return domain.Lesson{
		Name:     name,
		Language: lang,
		Note:     strings.TrimSpace(match[3]),
	}, true
}

func parseCard(line string, lesson domain.Lesson) domain.Card {
	lhs, rhs, _ := strings.Cut(line, separator)
	question, questionNote := splitNote(strings.TrimSpace(lhs))
	answer, answerNote := splitNote(strings.TrimSpace(rhs))

	return domain.Card{
		Section:      lesson.Name,
		Language:     lesson.Language,
		Question:     question,
		Answer:       answer,
		QuestionNote: questionNote,
		AnswerNote:   answerNote,
	}
}

// splitNote removes the first [note] from s and returns it as "(note)".
func splitNote(s string) (text, note string) {
	loc := notePattern.FindStringSubmatchIndex(s)
	if loc == nil {
		return s, ""
	}
	note = "(" + s[loc[2]:loc[3]] + ")"
	text = strings.TrimSpace(s[:loc[0]] + s[loc[1]:])
	return text, note
}

// NormalizeLegacy rewrites lines that still use ";" between question and
// answer: the first ";" of a non-blank, non-header line without "=" becomes
// " = ". Other lines are returned untouched, so the function is idempotent.
func NormalizeLegacy(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, headerPrefix):
		case strings.Contains(trimmed, separator):
		case strings.Contains(trimmed, legacySeparator):
			lines[i] = strings.Replace(line, legacySeparator, " "+separator+" ", 1)
		}
	}
	return strings.Join(lines, "\n")
}
