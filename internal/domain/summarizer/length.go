package summarizer

import (
	"fmt"
	"strings"

	apperrors "github.com/djvaroli/brevity/pkg/errors"
)

// SummaryLength is the requested verbosity of a summary.
type SummaryLength string

const (
	LengthShort  SummaryLength = "SHORT"
	LengthMedium SummaryLength = "MEDIUM"
	LengthLong   SummaryLength = "LONG"
)

type lengthTarget struct {
	Sentences string
	Words     int
}

var summaryLengths = []SummaryLength{LengthShort, LengthMedium, LengthLong}

var lengthTargets = map[SummaryLength]lengthTarget{
	LengthShort:  {Sentences: "3 - 5 sentences", Words: 80},
	LengthMedium: {Sentences: "10 - 12 sentences", Words: 160},
	LengthLong:   {Sentences: "25 - 30 sentences", Words: 320},
}

// SummaryLengths lists every enumerated length.
func SummaryLengths() []SummaryLength {
	out := make([]SummaryLength, len(summaryLengths))
	copy(out, summaryLengths)
	return out
}

// ParseSummaryLength accepts the enumerated names case-insensitively.
func ParseSummaryLength(raw string) (SummaryLength, error) {
	candidate := SummaryLength(strings.ToUpper(strings.TrimSpace(raw)))
	for _, l := range summaryLengths {
		if l == candidate {
			return l, nil
		}
	}
	return "", apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown summary length %q", raw), nil)
}

// Sentences returns the sentence-count descriptor used in prompts.
func (l SummaryLength) Sentences() (string, error) {
	t, err := l.target()
	if err != nil {
		return "", err
	}
	return t.Sentences, nil
}

// Words returns the approximate target word count.
func (l SummaryLength) Words() (int, error) {
	t, err := l.target()
	if err != nil {
		return 0, err
	}
	return t.Words, nil
}

func (l SummaryLength) target() (lengthTarget, error) {
	t, ok := lengthTargets[l]
	if !ok {
		return lengthTarget{}, apperrors.Wrap(apperrors.CodeConfiguration, fmt.Sprintf("summary length %q has no word count mapping", string(l)), nil)
	}
	return t, nil
}

// ValidateLengths fails if any enumerated length lacks a mapping.
func ValidateLengths() error {
	return validateLengthTable(summaryLengths, lengthTargets)
}

func validateLengthTable(lengths []SummaryLength, targets map[SummaryLength]lengthTarget) error {
	for _, l := range lengths {
		t, ok := targets[l]
		if !ok || t.Words <= 0 || t.Sentences == "" {
			return apperrors.Wrap(apperrors.CodeConfiguration, fmt.Sprintf("summary length %q has no word count mapping", string(l)), nil)
		}
	}
	return nil
}
