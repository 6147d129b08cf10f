// Package catalog holds the static per-asset-type tables that drive a batch
// extraction: which sections exist, which are skipped, and how the records of
// each section are decoded.
package catalog

import (
	"fmt"
	"slices"
	"sort"

	"github.com/joshuapare/ndxkit/pkg/types"
)

// DefaultSectionCount is the number of numbered sections in a drak24 index.
const DefaultSectionCount = 68

// NamedSection is a tag-addressed section. Named sections are never part of
// the default run; they are selected explicitly.
type NamedSection struct {
	Tag         string
	Config      types.SectionConfig
	Description string
}

// AssetType describes one variant of the format, e.g. one game's data files.
type AssetType struct {
	Name      string
	IndexFile string
	DataFile  string

	// Sections is the number of numbered sections, enumerated as [0, Sections).
	Sections uint32

	// Excluded lists numbered sections that are never decoded.
	Excluded []uint32

	// Overrides replaces the default decode configuration per section.
	Overrides map[uint32]types.SectionConfig

	Named []NamedSection
}

// IsExcluded reports whether the numbered section is in the exclusion list.
func (t AssetType) IsExcluded(section uint32) bool {
	return slices.Contains(t.Excluded, section)
}

// Config returns the decode configuration for id. Numbered sections use
// their override, tags their named entry; anything else gets
// types.DefaultSectionConfig.
func (t AssetType) Config(id types.SectionID) types.SectionConfig {
	if id.IsTag() {
		for _, n := range t.Named {
			if n.Tag == id.Name() {
				return n.Config
			}
		}
		return types.DefaultSectionConfig()
	}
	if c, ok := t.Overrides[id.Value()]; ok {
		return c
	}
	return types.DefaultSectionConfig()
}

// DefaultSections returns the numbered sections that a plain run processes,
// in ascending order.
func (t AssetType) DefaultSections() []types.SectionID {
	ids := make([]types.SectionID, 0, t.Sections)
	for i := uint32(0); i < t.Sections; i++ {
		if t.IsExcluded(i) {
			continue
		}
		ids = append(ids, types.Offset(i))
	}
	return ids
}

// Validate checks the tables for entries that can never decode.
func (t AssetType) Validate() error {
	if t.Name == "" {
		return &types.Error{Kind: types.ErrKindInvalid, Msg: "asset type without name"}
	}
	for section, c := range t.Overrides {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: section %d: %w", t.Name, section, err)
		}
	}
	for _, n := range t.Named {
		if _, err := types.ParseSectionID(n.Tag); err != nil {
			return fmt.Errorf("%s: named section: %w", t.Name, err)
		}
		if err := n.Config.Validate(); err != nil {
			return fmt.Errorf("%s: section %s: %w", t.Name, n.Tag, err)
		}
	}
	return nil
}

// Catalog is a set of asset types keyed by name.
type Catalog struct {
	types map[string]AssetType
}

// New builds a Catalog from the given asset types. Later entries replace
// earlier ones with the same name.
func New(ts ...AssetType) (*Catalog, error) {
	c := &Catalog{types: make(map[string]AssetType, len(ts))}
	for _, t := range ts {
		if err := c.Add(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add validates t and stores it, filling in default file names.
func (c *Catalog) Add(t AssetType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.IndexFile == "" {
		t.IndexFile = t.Name + ".ndx"
	}
	if t.DataFile == "" {
		t.DataFile = t.Name + ".dat"
	}
	if t.Sections == 0 {
		t.Sections = DefaultSectionCount
	}
	c.types[t.Name] = t
	return nil
}

// Lookup returns the asset type called name.
func (c *Catalog) Lookup(name string) (AssetType, error) {
	t, ok := c.types[name]
	if !ok {
		return AssetType{}, &types.Error{
			Kind: types.ErrKindNotFound,
			Msg:  fmt.Sprintf("unknown asset type %q (known: %v)", name, c.Names()),
		}
	}
	return t, nil
}

// Names lists the asset type names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.types))
	for n := range c.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default returns a Catalog holding the built-in asset types.
func Default() *Catalog {
	c, err := New(Drak24())
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in tables invalid: %v", err))
	}
	return c
}
