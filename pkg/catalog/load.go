package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joshuapare/ndxkit/pkg/types"
)

// fileFormat is the on-disk JSON shape of a catalog file:
//
//	{"asset_types": [{
//	    "name": "drak24",
//	    "sections": 68,
//	    "exclude": [0, 1, 66],
//	    "overrides": {"7": {"width": 64, "height": 64}},
//	    "named": [{"tag": "DK24", "header": false, "width": 24, "height": 24}]
//	}]}
type fileFormat struct {
	AssetTypes []assetTypeJSON `json:"asset_types"`
}

type assetTypeJSON struct {
	Name      string                 `json:"name"`
	Index     string                 `json:"index,omitempty"`
	Data      string                 `json:"data,omitempty"`
	Sections  uint32                 `json:"sections,omitempty"`
	Exclude   []uint32               `json:"exclude,omitempty"`
	Overrides map[string]sectionJSON `json:"overrides,omitempty"`
	Named     []namedJSON            `json:"named,omitempty"`
}

// sectionJSON leaves "header" optional so an override that only forces a
// size keeps the default of a present header.
type sectionJSON struct {
	Header *bool `json:"header,omitempty"`
	Width  int   `json:"width,omitempty"`
	Height int   `json:"height,omitempty"`
}

type namedJSON struct {
	sectionJSON
	Tag         string `json:"tag"`
	Description string `json:"description,omitempty"`
}

func (s sectionJSON) config() types.SectionConfig {
	c := types.DefaultSectionConfig()
	if s.Header != nil {
		c.HasHeader = *s.Header
	}
	c.Width, c.Height = s.Width, s.Height
	return c
}

// Load reads a JSON catalog file and adds its asset types to c, replacing
// built-in entries of the same name.
func (c *Catalog) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &types.Error{Kind: types.ErrKindIO, Msg: fmt.Sprintf("read catalog %s", path), Err: err}
	}
	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		return &types.Error{Kind: types.ErrKindInvalid, Msg: fmt.Sprintf("parse catalog %s", path), Err: err}
	}

	for _, at := range f.AssetTypes {
		t := AssetType{
			Name:      at.Name,
			IndexFile: at.Index,
			DataFile:  at.Data,
			Sections:  at.Sections,
			Excluded:  at.Exclude,
			Overrides: make(map[uint32]types.SectionConfig, len(at.Overrides)),
		}
		for k, v := range at.Overrides {
			section, err := strconv.ParseUint(k, 10, 32)
			if err != nil {
				return &types.Error{
					Kind: types.ErrKindInvalid,
					Msg:  fmt.Sprintf("catalog %s: %s: override key %q", path, at.Name, k),
					Err:  err,
				}
			}
			t.Overrides[uint32(section)] = v.config()
		}
		for _, n := range at.Named {
			t.Named = append(t.Named, NamedSection{Tag: n.Tag, Config: n.config(), Description: n.Description})
		}
		if err := c.Add(t); err != nil {
			return fmt.Errorf("catalog %s: %w", path, err)
		}
	}
	return nil
}
