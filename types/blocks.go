package types

type BlockKind string

const (
	BlockError   BlockKind = "error"
	BlockSection BlockKind = "section"
)

// DefaultCategory is assigned to titled sections that fall outside the palette.
const DefaultCategory = -1

// DisplayBlock is either an *ErrorBlock or a *SectionBlock.
type DisplayBlock interface {
	Kind() BlockKind
}

type ErrorBlock struct {
	Message string `json:"message"`
}

func (*ErrorBlock) Kind() BlockKind { return BlockError }

type SectionBlock struct {
	Title    string        `json:"title"`
	Category int           `json:"category"`
	Items    []ContentItem `json:"items"`
}

func (*SectionBlock) Kind() BlockKind { return BlockSection }

type ItemKind string

const (
	ItemNumbered ItemKind = "numbered"
	ItemBullet   ItemKind = "bullet"
	ItemPlain    ItemKind = "plain"
)

// ContentItem is one body line of a section. Label is only set for numbered
// items and keeps the digits exactly as they appeared.
type ContentItem struct {
	Kind       ItemKind `json:"kind"`
	Label      string   `json:"label,omitempty"`
	Paragraphs []string `json:"paragraphs"`
}

func NumberedItem(label string, paragraphs ...string) ContentItem {
	return ContentItem{Kind: ItemNumbered, Label: label, Paragraphs: paragraphs}
}

func BulletItem(paragraphs ...string) ContentItem {
	return ContentItem{Kind: ItemBullet, Paragraphs: paragraphs}
}

func PlainItem(paragraphs ...string) ContentItem {
	return ContentItem{Kind: ItemPlain, Paragraphs: paragraphs}
}
