package prompt

import (
	"strings"

	"github.com/tbxark/sobaguide/dialogue"
	"github.com/tbxark/sobaguide/types"
)

// Request carries the values interpolated into the template.
type Request struct {
	Answers  types.AnswerSet
	Location string
	Category string
	FreeText string
}

// Fields maps answer indexes to the template values. Location answers are
// concatenated in order.
type Fields struct {
	Location []int
	Category int
	FreeText int
}

var DefaultFields = Fields{
	Location: []int{dialogue.StepPrefecture, dialogue.StepMunicipality},
	Category: dialogue.StepCategory,
	FreeText: dialogue.StepFreeText,
}

type builderOptions struct {
	template         string
	freeTextTemplate string
	fields           Fields
}

type BuilderOption func(*builderOptions)

// WithTemplate overrides the request template. See the Placeholder constants
// for the supported substitutions.
func WithTemplate(template string) BuilderOption {
	return func(o *builderOptions) {
		o.template = template
	}
}

func WithFreeTextTemplate(template string) BuilderOption {
	return func(o *builderOptions) {
		o.freeTextTemplate = template
	}
}

func WithFields(fields Fields) BuilderOption {
	return func(o *builderOptions) {
		o.fields = fields
	}
}

type Builder struct {
	template         string
	freeTextTemplate string
	fields           Fields
}

func NewBuilder(opts ...BuilderOption) *Builder {
	options := builderOptions{
		template:         DefaultTemplate,
		freeTextTemplate: DefaultFreeTextTemplate,
		fields:           DefaultFields,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.template == "" {
		options.template = DefaultTemplate
	}
	return &Builder{
		template:         options.template,
		freeTextTemplate: options.freeTextTemplate,
		fields:           options.fields,
	}
}

// Build renders the request string. The free-text section, including the
// line holding its placeholder, is left out entirely when FreeText is empty.
func (b *Builder) Build(req Request) string {
	out := b.template
	section := ""
	if req.FreeText != "" {
		section = strings.ReplaceAll(b.freeTextTemplate, PlaceholderFreeText, req.FreeText)
	} else {
		out = strings.ReplaceAll(out, PlaceholderFreeTextSection+"\n", "")
	}
	return strings.NewReplacer(
		PlaceholderFreeTextSection, section,
		PlaceholderLocation, req.Location,
		PlaceholderCategory, req.Category,
		PlaceholderAnswers, strings.Join(req.Answers, " / "),
		PlaceholderFreeText, req.FreeText,
	).Replace(out)
}

// RequestFromAnswers derives the template values from a finalized answer set.
// Indexes outside the answer set contribute nothing.
func (b *Builder) RequestFromAnswers(answers types.AnswerSet) Request {
	var location strings.Builder
	for _, idx := range b.fields.Location {
		location.WriteString(answerAt(answers, idx))
	}
	return Request{
		Answers:  answers.Clone(),
		Location: location.String(),
		Category: answerAt(answers, b.fields.Category),
		FreeText: strings.TrimSpace(answerAt(answers, b.fields.FreeText)),
	}
}

func (b *Builder) BuildFromAnswers(answers types.AnswerSet) string {
	return b.Build(b.RequestFromAnswers(answers))
}

func answerAt(answers types.AnswerSet, idx int) string {
	if idx < 0 || idx >= len(answers) {
		return ""
	}
	return answers[idx]
}
