package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/ndxkit/pkg/catalog"
	"github.com/joshuapare/ndxkit/pkg/ndx"
	"github.com/joshuapare/ndxkit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newSectionsCmd())
}

func newSectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List the sections of an asset pair",
		Long: `The sections command lists every numbered section of the asset type with
its decode configuration, table offset and number of records, followed by
the named sections.

Example:
  ndxctl sections --input-dir ./data
  ndxctl sections --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSections()
		},
	}
	return cmd
}

type sectionRow struct {
	Section     string `json:"section"`
	Resolved    uint32 `json:"resolved"`
	Excluded    bool   `json:"excluded"`
	Config      string `json:"config"`
	TableOffset int64  `json:"table_offset"`
	Records     int    `json:"records"`
	Description string `json:"description,omitempty"`
	Error       string `json:"error,omitempty"`
}

func runSections() error {
	typ, err := loadAssetType()
	if err != nil {
		return err
	}
	asset, err := openAsset(typ)
	if err != nil {
		return err
	}
	defer asset.Close()

	rows := listSections(asset, typ)

	if jsonOut {
		return printJSON(map[string]any{
			"asset_type": typ.Name,
			"sections":   rows,
		})
	}

	printInfo("\nSections of %s:\n", typ.Name)
	for _, r := range rows {
		state := ""
		if r.Excluded {
			state = " (excluded)"
		}
		if r.Error != "" {
			printInfo("  %-6s %-26s error: %s%s\n", r.Section, r.Config, r.Error, state)
			continue
		}
		printInfo("  %-6s %-26s table 0x%06X  %3d records%s", r.Section, r.Config, r.TableOffset, r.Records, state)
		if r.Description != "" {
			printInfo("  %s", r.Description)
		}
		printInfo("\n")
	}
	return nil
}

func listSections(asset *ndx.Asset, typ catalog.AssetType) []sectionRow {
	rows := make([]sectionRow, 0, int(typ.Sections)+len(typ.Named))
	for i := uint32(0); i < typ.Sections; i++ {
		id := types.Offset(i)
		rows = append(rows, sectionRowFor(asset, typ, id, ""))
	}
	for _, n := range typ.Named {
		rows = append(rows, sectionRowFor(asset, typ, types.Tag(n.Tag), n.Description))
	}
	return rows
}

func sectionRowFor(asset *ndx.Asset, typ catalog.AssetType, id types.SectionID, desc string) sectionRow {
	row := sectionRow{
		Section:     id.String(),
		Excluded:    !id.IsTag() && typ.IsExcluded(id.Value()),
		Config:      typ.Config(id).String(),
		Description: desc,
	}
	section, err := asset.ResolveSection(id)
	if err != nil {
		row.Error = err.Error()
		return row
	}
	row.Resolved = section
	row.TableOffset = asset.TableOffset(section)
	offsets, err := asset.OffsetList(section)
	if err != nil {
		row.Error = err.Error()
		return row
	}
	row.Records = len(offsets)
	return row
}
