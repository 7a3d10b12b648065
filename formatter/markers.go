package formatter

// Markers is the text convention the backend is asked to follow. It is
// configuration rather than a constant so a drift in the backend's output
// shape can be followed without code changes.
type Markers struct {
	TitleOpen  string `json:"title_open" yaml:"title_open"`
	TitleClose string `json:"title_close" yaml:"title_close"`
	// BulletMarkers holds the characters that mark a line as a bullet item.
	BulletMarkers string `json:"bullet_markers" yaml:"bullet_markers"`
	// StripPrefixes holds the characters removed from the start of every body line.
	StripPrefixes string `json:"strip_prefixes" yaml:"strip_prefixes"`
	// ParagraphSeparator splits a line into paragraphs; runs of it count once.
	ParagraphSeparator string `json:"paragraph_separator" yaml:"paragraph_separator"`
}

func DefaultMarkers() Markers {
	return Markers{
		TitleOpen:          "【",
		TitleClose:         "】",
		BulletMarkers:      "・",
		StripPrefixes:      "・＊▼■",
		ParagraphSeparator: "*",
	}
}

// withDefaults fills in the title markers, which must never be empty.
func (m Markers) withDefaults() Markers {
	d := DefaultMarkers()
	if m.TitleOpen == "" || m.TitleClose == "" {
		m.TitleOpen, m.TitleClose = d.TitleOpen, d.TitleClose
	}
	return m
}
