package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/conorfennell/flashdeck/internal/domain"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name            string
		input           string
		expectedLessons int
		expectedCards   int
		expectedQ       string
		expectedQNote   string
		expectedA       string
		expectedANote   string
	}{
		{
			name:            "Simple card",
			input:           "=== Pozdravy\nahoj = hello",
			expectedLessons: 1,
			expectedCards:   1,
			expectedQ:       "ahoj",
			expectedA:       "hello",
		},
		{
			name:            "Question note",
			input:           "=== Pozdravy\ndobrý deň [doobeda] = good morning",
			expectedLessons: 1,
			expectedCards:   1,
			expectedQ:       "dobrý deň",
			expectedQNote:   "(doobeda)",
			expectedA:       "good morning",
		},
		{
			name:            "Both notes",
			input:           "=== Pozdravy\ndobrý deň [poobede] = good evening [from noon]",
			expectedLessons: 1,
			expectedCards:   1,
			expectedQ:       "dobrý deň",
			expectedQNote:   "(poobede)",
			expectedA:       "good evening",
			expectedANote:   "(from noon)",
		},
		{
			name:            "Whitespace around separator",
			input:           "=== Rodina\n   mama    =    mother   ",
			expectedLessons: 1,
			expectedCards:   1,
			expectedQ:       "mama",
			expectedA:       "mother",
		},
		{
			name:            "Windows line endings",
			input:           "=== Rodina\r\nmama = mother\r\n",
			expectedLessons: 1,
			expectedCards:   1,
			expectedQ:       "mama",
			expectedA:       "mother",
		},
		{
			name: "Two lessons",
			input: `
=== Pozdravy
ahoj = hello
dobré ráno = good *morning*

=== Rodina
rodina = family
`,
			expectedLessons: 2,
			expectedCards:   3,
		},
		{
			name:            "Empty text",
			input:           "\n\n   \n",
			expectedLessons: 0,
			expectedCards:   0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseString(tc.input, Options{})
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}

			if len(result.Lessons) != tc.expectedLessons {
				t.Fatalf("Expected %d lessons, but got %d", tc.expectedLessons, len(result.Lessons))
			}
			if len(result.Cards) != tc.expectedCards {
				t.Fatalf("Expected %d cards, but got %d", tc.expectedCards, len(result.Cards))
			}

			if tc.expectedCards == 1 {
				card := result.Cards[0]
				if card.Question != tc.expectedQ {
					t.Errorf("Expected Question to be '%s', but got '%s'", tc.expectedQ, card.Question)
				}
				if card.QuestionNote != tc.expectedQNote {
					t.Errorf("Expected QuestionNote to be '%s', but got '%s'", tc.expectedQNote, card.QuestionNote)
				}
				if card.Answer != tc.expectedA {
					t.Errorf("Expected Answer to be '%s', but got '%s'", tc.expectedA, card.Answer)
				}
				if card.AnswerNote != tc.expectedANote {
					t.Errorf("Expected AnswerNote to be '%s', but got '%s'", tc.expectedANote, card.AnswerNote)
				}
			}
		})
	}
}

func TestParseHeaders(t *testing.T) {
	testCases := []struct {
		name         string
		header       string
		expectedName string
		expectedLang string
		expectedNote string
	}{
		{name: "Name only", header: "=== Pozdravy", expectedName: "Pozdravy", expectedLang: "sk-SK"},
		{name: "Language", header: "=== Farben #de-DE#", expectedName: "Farben", expectedLang: "de-DE"},
		{name: "Note", header: "=== Rodina [family words]", expectedName: "Rodina", expectedLang: "sk-SK", expectedNote: "family words"},
		{name: "Language and note", header: "=== Colours #en-US# [basics]", expectedName: "Colours", expectedLang: "en-US", expectedNote: "basics"},
		{name: "Multi word name", header: "===   Lekcia 1 - slovesá   ", expectedName: "Lekcia 1 - slovesá", expectedLang: "sk-SK"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseString(tc.header+"\nq = a", Options{DefaultLanguage: "sk-SK"})
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}
			lesson := result.Lessons[0]
			if lesson.Name != tc.expectedName {
				t.Errorf("Expected Name to be '%s', but got '%s'", tc.expectedName, lesson.Name)
			}
			if lesson.Language != tc.expectedLang {
				t.Errorf("Expected Language to be '%s', but got '%s'", tc.expectedLang, lesson.Language)
			}
			if lesson.Note != tc.expectedNote {
				t.Errorf("Expected Note to be '%s', but got '%s'", tc.expectedNote, lesson.Note)
			}
			card := result.Cards[0]
			if card.Section != tc.expectedName || card.Language != tc.expectedLang {
				t.Errorf("Expected card to inherit section %q/%q, got %q/%q",
					tc.expectedName, tc.expectedLang, card.Section, card.Language)
			}
		})
	}
}

func TestParseDefaultsToEnglish(t *testing.T) {
	result, err := ParseString("=== Rodina\nmama = mother", Options{})
	if err != nil {
		t.Fatalf("Parse() returned an unexpected error: %v", err)
	}
	if result.Cards[0].Language != DefaultLanguage {
		t.Errorf("Expected language %q, got %q", DefaultLanguage, result.Cards[0].Language)
	}
}

func TestParseMetadata(t *testing.T) {
	input := "=== A\nq1 = a1\nq2 = a2\n=== B\nq3 = a3"
	result, err := ParseString(input, Options{})
	if err != nil {
		t.Fatalf("Parse() returned an unexpected error: %v", err)
	}

	for i, card := range result.Cards {
		if card.Metadata.ID != i {
			t.Errorf("Expected card %d to have ID %d, got %d", i, i, card.Metadata.ID)
		}
		if card.Metadata.Score != domain.DefaultScore {
			t.Errorf("Expected default score, got %v", card.Metadata.Score)
		}
		if card.Metadata.LastRating != nil {
			t.Errorf("Expected no last rating, got %v", *card.Metadata.LastRating)
		}
		if card.Metadata.Key == "" {
			t.Error("Expected a content key")
		}
		if card.Metadata.IsBuiltIn {
			t.Error("Expected IsBuiltIn to be left unset")
		}
	}
	if result.Cards[2].Section != "B" {
		t.Errorf("Expected third card in section B, got %q", result.Cards[2].Section)
	}
}

func TestParsePreservesHistory(t *testing.T) {
	input := "=== Pozdravy\nahoj = hello\ndobrý večer = good *evening*"

	first, err := ParseString(input, Options{})
	if err != nil {
		t.Fatalf("Parse() returned an unexpected error: %v", err)
	}
	first.Cards[1].Metadata.LastRating = domain.RatingPtr(domain.Good)
	first.Cards[1].Metadata.Score = 67

	second, err := ParseString(input, Options{Prior: first.Cards})
	if err != nil {
		t.Fatalf("Parse() returned an unexpected error: %v", err)
	}
	got := second.Cards[1].Metadata
	if got.LastRating == nil || *got.LastRating != domain.Good || got.Score != 67 {
		t.Errorf("Expected history to be carried over, got rating %v score %v", got.LastRating, got.Score)
	}
	if second.Cards[0].Metadata.Score != domain.DefaultScore {
		t.Errorf("Expected unrated card to keep the default score, got %v", second.Cards[0].Metadata.Score)
	}
}

func TestParseLineErrors(t *testing.T) {
	input := "=== Test\n<b>hi</b> = ahoj\nok = fine\nno separator here\nq = a = b\n\nq [n] [m] = a\nq [x=y] = a\nq = a [x=y]"

	result, err := ParseString(input, Options{})
	if result != nil {
		t.Fatalf("Expected no result from a failed parse, got %d cards", len(result.Cards))
	}

	var parseErrs ParseErrors
	if !errors.As(err, &parseErrs) {
		t.Fatalf("Expected ParseErrors, got %T: %v", err, err)
	}

	expected := []struct {
		line int
		kind error
	}{
		{2, ErrMarkupRejected},
		{4, ErrLineFormat},
		{5, ErrLineFormat},
		{7, ErrLineFormat},
		{8, ErrLineFormat},
		{9, ErrLineFormat},
	}
	if len(parseErrs) != len(expected) {
		t.Fatalf("Expected %d line errors, got %d: %v", len(expected), len(parseErrs), err)
	}
	for i, want := range expected {
		line, _ := parseErrs[i].Position()
		if line != want.line {
			t.Errorf("Error %d: expected line %d, got %d", i, want.line, line)
		}
		if !errors.Is(parseErrs[i], want.kind) {
			t.Errorf("Error %d: expected %v, got %v", i, want.kind, parseErrs[i])
		}
	}

	var markupErr *MarkupRejectedError
	if !errors.As(err, &markupErr) || markupErr.Text != "<b>hi</b> = ahoj" {
		t.Errorf("Expected the markup error to carry the raw line, got %v", markupErr)
	}
}

func TestParseHeaderFormatErrorIsFatal(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		line  int
	}{
		{name: "Bare marker", input: "===\nq = a", line: 1},
		{name: "No space after marker", input: "=== A\nq = a\n===B", line: 3},
		{name: "Unclosed note", input: "bad line\n=== A [note", line: 2},
		{name: "Unclosed language", input: "=== Farben #de\nq = a", line: 1},
		{name: "Text after language", input: "=== A #en# extra\nq = a", line: 1},
		{name: "Empty language", input: "=== A ##\nq = a", line: 1},
		{name: "Hash in name", input: "=== A#B\nq = a", line: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseString(tc.input, Options{})
			var headerErr *HeaderFormatError
			if !errors.As(err, &headerErr) {
				t.Fatalf("Expected HeaderFormatError, got %T: %v", err, err)
			}
			if headerErr.Line != tc.line {
				t.Errorf("Expected line %d, got %d", tc.line, headerErr.Line)
			}
			var parseErrs ParseErrors
			if errors.As(err, &parseErrs) {
				t.Error("Expected the header error alone, not a collection")
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson.txt")
	if err := os.WriteFile(path, []byte("=== Farben #de-DE#\nrot = red\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	result, err := ParseFile(path, Options{})
	if err != nil {
		t.Fatalf("ParseFile() returned an unexpected error: %v", err)
	}
	if len(result.Cards) != 1 || result.Cards[0].Language != "de-DE" {
		t.Errorf("Unexpected cards: %+v", result.Cards)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt"), Options{}); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestNormalizeLegacy(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Semicolon separator", input: "ahoj;hello", expected: "ahoj = hello"},
		{name: "Only first semicolon", input: "a;b;c", expected: "a = b;c"},
		{name: "Already normalized", input: "a = b;c", expected: "a = b;c"},
		{name: "Header untouched", input: "=== A;B", expected: "=== A;B"},
		{name: "Indented header untouched", input: "  === A;B", expected: "  === A;B"},
		{name: "Blank untouched", input: "  ", expected: "  "},
		{name: "Plain line untouched", input: "no separator", expected: "no separator"},
		{
			name:     "Mixed text",
			input:    "=== Rodina\nmama;mother\notec = father\n\nbrat; brother",
			expected: "=== Rodina\nmama = mother\notec = father\n\nbrat =  brother",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeLegacy(tc.input)
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
			if again := NormalizeLegacy(got); again != got {
				t.Errorf("Expected normalization to be idempotent, got %q then %q", got, again)
			}
		})
	}
}
