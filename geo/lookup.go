package geo

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/japan.yaml
var defaultData []byte

var ErrEmptyDataset = errors.New("geo dataset has no regions")

// Lookup is read-only reference data used to resolve the options of the
// prefecture and municipality steps.
type Lookup interface {
	Regions() []string
	PrefecturesOf(region string) []string
	CitiesOf(prefecture string) []string
}

type dataset struct {
	Regions []struct {
		Name        string   `yaml:"name"`
		Prefectures []string `yaml:"prefectures"`
	} `yaml:"regions"`
	Cities map[string][]string `yaml:"cities"`
}

// StaticLookup is an immutable in-memory Lookup. Every accessor returns a
// fresh slice so callers cannot mutate the table.
type StaticLookup struct {
	regions     []string
	prefectures map[string][]string
	cities      map[string][]string
}

var _ Lookup = (*StaticLookup)(nil)

func NewStaticLookup(regions []string, prefectures, cities map[string][]string) *StaticLookup {
	l := &StaticLookup{
		regions:     append([]string(nil), regions...),
		prefectures: make(map[string][]string, len(prefectures)),
		cities:      make(map[string][]string, len(cities)),
	}
	for k, v := range prefectures {
		l.prefectures[k] = append([]string(nil), v...)
	}
	for k, v := range cities {
		l.cities[k] = append([]string(nil), v...)
	}
	return l
}

// Default returns the embedded Japanese dataset.
func Default() (*StaticLookup, error) {
	return Parse(defaultData)
}

func Load(path string) (*StaticLookup, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

func Read(r io.Reader) (*StaticLookup, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read geo dataset: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*StaticLookup, error) {
	var ds dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode geo dataset: %w", err)
	}
	if len(ds.Regions) == 0 {
		return nil, ErrEmptyDataset
	}
	regions := make([]string, 0, len(ds.Regions))
	prefectures := make(map[string][]string, len(ds.Regions))
	for _, r := range ds.Regions {
		if r.Name == "" {
			return nil, fmt.Errorf("decode geo dataset: region without name")
		}
		if _, dup := prefectures[r.Name]; dup {
			return nil, fmt.Errorf("decode geo dataset: duplicate region %q", r.Name)
		}
		regions = append(regions, r.Name)
		prefectures[r.Name] = r.Prefectures
	}
	return NewStaticLookup(regions, prefectures, ds.Cities), nil
}

func (l *StaticLookup) Regions() []string {
	return clone(l.regions)
}

func (l *StaticLookup) PrefecturesOf(region string) []string {
	return clone(l.prefectures[region])
}

func (l *StaticLookup) CitiesOf(prefecture string) []string {
	return clone(l.cities[prefecture])
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
