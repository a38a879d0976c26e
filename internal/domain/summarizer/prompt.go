package summarizer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/djvaroli/brevity/pkg/errors"
)

// JSON keys of the chain-of-density protocol.
const (
	keyDenserSummary = "Denser_Summary"
	keyTitle         = "Title"
)

// Prompt renders a request for the model and parses its reply.
type Prompt interface {
	Render(text string) string
	Parse(output string) (Summary, error)
}

type densityTemplateFields struct {
	template  string
	sentences string
	words     string
}

func newTemplateFields(template string, length SummaryLength) (densityTemplateFields, error) {
	sentences, err := length.Sentences()
	if err != nil {
		return densityTemplateFields{}, err
	}
	words, err := length.Words()
	if err != nil {
		return densityTemplateFields{}, err
	}
	return densityTemplateFields{template: template, sentences: sentences, words: strconv.Itoa(words)}, nil
}

// The replacer does not rescan inserted text, so braces in the article are left alone.
func (f densityTemplateFields) render(text string) string {
	return strings.NewReplacer(
		"{text}", text,
		"{n_sentences}", f.sentences,
		"{n_words}", f.words,
	).Replace(f.template)
}

// DensityPrompt asks for five increasingly dense rewrites of an article.
type DensityPrompt struct {
	length SummaryLength
	fields densityTemplateFields
}

// NewDensityPrompt fails eagerly when length has no word count mapping.
func NewDensityPrompt(length SummaryLength) (*DensityPrompt, error) {
	fields, err := newTemplateFields(densityTemplate, length)
	if err != nil {
		return nil, err
	}
	return &DensityPrompt{length: length, fields: fields}, nil
}

// Length returns the targeted summary length.
func (p *DensityPrompt) Length() SummaryLength { return p.length }

func (p *DensityPrompt) Render(text string) string {
	return p.fields.render(text)
}

// Parse takes Denser_Summary of the last revision. The title is a placeholder.
func (p *DensityPrompt) Parse(output string) (Summary, error) {
	last, err := lastRevision(output)
	if err != nil {
		return Summary{}, err
	}
	content, err := stringField(last, keyDenserSummary)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Title: DefaultTitle, Content: content}, nil
}

// JoinPrompt merges chunk summaries into one summary and a title.
type JoinPrompt struct {
	length SummaryLength
	fields densityTemplateFields
}

// NewJoinPrompt fails eagerly when length has no word count mapping.
func NewJoinPrompt(length SummaryLength) (*JoinPrompt, error) {
	fields, err := newTemplateFields(joinTemplate, length)
	if err != nil {
		return nil, err
	}
	return &JoinPrompt{length: length, fields: fields}, nil
}

// Length returns the targeted summary length.
func (p *JoinPrompt) Length() SummaryLength { return p.length }

func (p *JoinPrompt) Render(text string) string {
	return p.fields.render(text)
}

// Parse takes Denser_Summary and Title of the last revision.
func (p *JoinPrompt) Parse(output string) (Summary, error) {
	last, err := lastRevision(output)
	if err != nil {
		return Summary{}, err
	}
	content, err := stringField(last, keyDenserSummary)
	if err != nil {
		return Summary{}, err
	}
	title, err := stringField(last, keyTitle)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Title: title, Content: content}, nil
}

type revision map[string]json.RawMessage

func lastRevision(output string) (revision, error) {
	var revisions []revision
	if err := json.Unmarshal([]byte(stripCodeFence(output)), &revisions); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeParse, "model output could not be decoded", err)
	}
	if len(revisions) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeMissingField, fmt.Sprintf("model output is missing %s key", keyDenserSummary), nil)
	}
	return revisions[len(revisions)-1], nil
}

func stringField(rev revision, key string) (string, error) {
	raw, ok := rev[key]
	if !ok || string(raw) == "null" {
		return "", apperrors.Wrap(apperrors.CodeMissingField, fmt.Sprintf("model output is missing %s key", key), nil)
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", apperrors.Wrap(apperrors.CodeParse, fmt.Sprintf("model output %s is not a string", key), err)
	}
	return value, nil
}

// Models often wrap JSON in a markdown fence despite being told not to.
func stripCodeFence(raw string) string {
	sanitized := strings.TrimSpace(raw)
	if !strings.HasPrefix(sanitized, "```") {
		return sanitized
	}
	sanitized = strings.TrimPrefix(sanitized, "```")
	sanitized = strings.TrimPrefix(sanitized, "json")
	sanitized = strings.TrimSuffix(strings.TrimSpace(sanitized), "```")
	return strings.TrimSpace(sanitized)
}

var (
	_ Prompt = (*DensityPrompt)(nil)
	_ Prompt = (*JoinPrompt)(nil)
)
