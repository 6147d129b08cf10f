package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ndxkit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newResolveCmd())
}

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <section>...",
		Short: "Resolve section numbers and tags to table positions",
		Long: `The resolve command prints the value each identifier resolves to. Numbers
resolve to themselves; tags are searched in the index file and resolve to
the 32-bit value stored just before the first occurrence.

Example:
  ndxctl resolve OAN1 DK64
  ndxctl resolve 6 0x1F --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(args)
		},
	}
	return cmd
}

type resolved struct {
	Section     string `json:"section"`
	Value       uint32 `json:"value"`
	TableOffset int64  `json:"table_offset"`
}

func runResolve(args []string) error {
	ids := make([]types.SectionID, 0, len(args))
	for _, a := range args {
		id, err := types.ParseSectionID(a)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	typ, err := loadAssetType()
	if err != nil {
		return err
	}
	asset, err := openAsset(typ)
	if err != nil {
		return err
	}
	defer asset.Close()

	out := make([]resolved, 0, len(ids))
	for _, id := range ids {
		v, err := asset.ResolveSection(id)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", id, err)
		}
		out = append(out, resolved{Section: id.String(), Value: v, TableOffset: asset.TableOffset(v)})
	}

	if jsonOut {
		return printJSON(out)
	}
	for _, r := range out {
		printInfo("%s\t%d\t0x%X\n", r.Section, r.Value, r.TableOffset)
	}
	return nil
}
