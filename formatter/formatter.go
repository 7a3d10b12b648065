package formatter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tbxark/sobaguide/types"
)

const DefaultPaletteSize = 6

var (
	sectionBreak = regexp.MustCompile(`\n{2,}`)
	numberedLine = regexp.MustCompile(`^(\d+)\.(.*)$`)
)

type formatterOptions struct {
	markers     Markers
	paletteSize int
}

type Option func(*formatterOptions)

func WithMarkers(markers Markers) Option {
	return func(o *formatterOptions) {
		o.markers = markers
	}
}

// WithPaletteSize sets how many titled sections get their own category
// before falling back to types.DefaultCategory.
func WithPaletteSize(n int) Option {
	return func(o *formatterOptions) {
		o.paletteSize = n
	}
}

// Formatter turns free-form backend text into display blocks. It is
// stateless and safe for concurrent use.
type Formatter struct {
	markers     Markers
	paletteSize int
	separator   *regexp.Regexp
}

func New(opts ...Option) *Formatter {
	options := formatterOptions{
		markers:     DefaultMarkers(),
		paletteSize: DefaultPaletteSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	f := &Formatter{
		markers:     options.markers.withDefaults(),
		paletteSize: max(options.paletteSize, 0),
	}
	if sep := f.markers.ParagraphSeparator; sep != "" {
		f.separator = regexp.MustCompile(`(?:` + regexp.QuoteMeta(sep) + `)+`)
	}
	return f
}

func (f *Formatter) Markers() Markers {
	return f.markers
}

// Format splits raw on runs of consecutive line breaks and converts every section into a block.
// A line holding only spaces does not break a section.
// Sections without a title marker pair become ErrorBlocks carrying the
// section text; they never affect their neighbours. Blank input yields no
// blocks.
func (f *Formatter) Format(raw string) []types.DisplayBlock {
	text := normalizeNewlines(raw)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var blocks []types.DisplayBlock
	titled := 0
	for _, section := range sectionBreak.Split(text, -1) {
		section = strings.Trim(section, "\n")
		if strings.TrimSpace(section) == "" {
			continue
		}
		if !f.hasTitle(section) {
			blocks = append(blocks, &types.ErrorBlock{Message: section})
			continue
		}
		blocks = append(blocks, f.parseSection(section, f.category(titled)))
		titled++
	}
	return blocks
}

func (f *Formatter) hasTitle(section string) bool {
	open := strings.Index(section, f.markers.TitleOpen)
	if open < 0 {
		return false
	}
	return strings.Contains(section[open+len(f.markers.TitleOpen):], f.markers.TitleClose)
}

func (f *Formatter) category(ordinal int) int {
	if ordinal < f.paletteSize {
		return ordinal
	}
	return types.DefaultCategory
}

func (f *Formatter) parseSection(section string, category int) *types.SectionBlock {
	lines := strings.Split(section, "\n")
	title := strings.ReplaceAll(lines[0], f.markers.TitleOpen, "")
	title = strings.TrimSpace(strings.ReplaceAll(title, f.markers.TitleClose, ""))

	items := make([]types.ContentItem, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if item, ok := f.parseLine(line); ok {
			items = append(items, item)
		}
	}
	return &types.SectionBlock{
		Title:    title,
		Category: category,
		Items:    items,
	}
}

func (f *Formatter) parseLine(line string) (types.ContentItem, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return types.ContentItem{}, false
	}

	item := types.ContentItem{Kind: types.ItemPlain}
	body := trimmed
	if m := numberedLine.FindStringSubmatch(trimmed); m != nil {
		item.Kind = types.ItemNumbered
		item.Label = m[1]
		body = m[2]
	} else if f.isBullet(trimmed) {
		item.Kind = types.ItemBullet
	}

	item.Paragraphs = f.paragraphs(f.stripPrefixes(body))
	if len(item.Paragraphs) == 0 {
		return types.ContentItem{}, false
	}
	return item, true
}

func (f *Formatter) isBullet(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return r != utf8.RuneError && strings.ContainsRune(f.markers.BulletMarkers, r)
}

func (f *Formatter) stripPrefixes(s string) string {
	s = strings.TrimSpace(s)
	if f.markers.StripPrefixes != "" {
		s = strings.TrimLeft(s, f.markers.StripPrefixes)
	}
	return strings.TrimSpace(s)
}

func (f *Formatter) paragraphs(s string) []string {
	var parts []string
	if f.separator == nil {
		parts = []string{s}
	} else {
		parts = f.separator.Split(s, -1)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

var defaultFormatter = New()

// Format parses raw with the default markers and palette.
func Format(raw string) []types.DisplayBlock {
	return defaultFormatter.Format(raw)
}
