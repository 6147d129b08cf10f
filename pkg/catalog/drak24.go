package catalog

import "github.com/joshuapare/ndxkit/pkg/types"

var icon64 = types.SectionConfig{HasHeader: true, Width: 64, Height: 64}

// Drak24 returns the tables for the drak24.ndx / drak24.dat pair.
func Drak24() AssetType {
	return AssetType{
		Name:      "drak24",
		IndexFile: "drak24.ndx",
		DataFile:  "drak24.dat",
		Sections:  DefaultSectionCount,
		Excluded: []uint32{
			0, // terrain
			1, 2, 3, 4, 5,
			8, 9,
			11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23,
			25,
			32, 33, 34, 35, 36, 37,
			38, // character portraits
			39, // character portraits
			40, 41, 42, 43, 44, 45, 46, 47, 48, 49,
			50, 51, 52, 53, 54, 55, 56, 57, 58, 59,
			60, 61, 62, 63, 64, 65,
			66, // discs
			67,
		},
		Overrides: map[uint32]types.SectionConfig{
			1: icon64, 2: icon64, 3: icon64, 4: icon64, 5: icon64,
			6: icon64, 7: icon64, 8: icon64, 9: icon64, 10: icon64,
			11: icon64, 12: icon64, 13: icon64, 14: icon64, 15: icon64,
			16: icon64, 17: icon64, 18: icon64, 19: icon64, 20: icon64,
			21: icon64, 22: icon64, 23: icon64, 24: icon64, 25: icon64,
			26: icon64, 27: icon64, 28: icon64, 29: icon64, 30: icon64,
			31: icon64, 32: icon64, 33: icon64, 35: icon64, 36: icon64,
		},
		Named: []NamedSection{
			{Tag: "O241", Config: types.DefaultSectionConfig(), Description: "character items held"},
			{Tag: "O242", Config: types.DefaultSectionConfig(), Description: "character items held"},
			{Tag: "O243", Config: types.DefaultSectionConfig(), Description: "character items held"},
			{Tag: "OAN1", Config: types.DefaultSectionConfig(), Description: "item icons"},
			{Tag: "OAN2", Config: types.DefaultSectionConfig()},
			{Tag: "OAN3", Config: types.DefaultSectionConfig()},
			{Tag: "TBUT", Config: types.DefaultSectionConfig(), Description: "macro bar images"},
			{Tag: "DOBS", Config: types.DefaultSectionConfig(), Description: "character portraits"},
			{Tag: "SKLS", Config: types.DefaultSectionConfig(), Description: "skill trainer icons"},
			{Tag: "ADVS", Config: types.DefaultSectionConfig(), Description: "modal dialog icons"},
			{Tag: "DISC", Config: types.DefaultSectionConfig(), Description: "discipline boxes"},
			{Tag: "DK64", Config: types.SectionConfig{HasHeader: false, Width: 64, Height: 64}},
			{Tag: "DK24", Config: types.SectionConfig{HasHeader: false, Width: 24, Height: 24}},
		},
	}
}
