package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ndxkit/internal/logger"
	"github.com/joshuapare/ndxkit/pkg/extract"
	"github.com/joshuapare/ndxkit/pkg/sink"
	"github.com/joshuapare/ndxkit/pkg/types"
)

var (
	extractOutputDir   string
	extractSections    string
	extractFormat      string
	extractScale       int
	extractWorkers     int
	extractManifest    bool
	extractFailOnError bool
)

func init() {
	cmd := newExtractCmd()
	cmd.Flags().StringVarP(&extractOutputDir, "output-dir", "o", "images", "Output directory (emptied first)")
	cmd.Flags().
		StringVar(&extractSections, "sections", "", "Comma-separated section numbers or tags (default: all non-excluded)")
	cmd.Flags().StringVar(&extractFormat, "format", "png", "Output format: png, bmp, jpg, tiff")
	cmd.Flags().IntVar(&extractScale, "scale", 1, "Integer nearest-neighbour upscale factor")
	cmd.Flags().IntVar(&extractWorkers, "workers", 0, "Concurrent encode/write jobs (0 = number of CPUs)")
	cmd.Flags().BoolVar(&extractManifest, "manifest", false, "Write manifest.json with per-image hashes")
	cmd.Flags().
		BoolVar(&extractFailOnError, "fail-on-error", false, "Exit non-zero if any section or write failed")
	rootCmd.AddCommand(cmd)
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Decode all image records and write them to a directory",
		Long: `The extract command walks every non-excluded section of the asset type
in ascending order and writes each decodable record as
<section>-<counter>.<ext> into the output directory. The output directory
is deleted and recreated first.

Example:
  ndxctl extract
  ndxctl extract --input-dir ./data --output-dir ./images
  ndxctl extract --sections 6,7,OAN1 --format bmp --scale 2
  ndxctl extract --manifest --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runExtract(ctx)
		},
	}
	return cmd
}

type sectionSummary struct {
	Section  string `json:"section"`
	Resolved uint32 `json:"resolved"`
	Excluded bool   `json:"excluded,omitempty"`
	Offsets  int    `json:"offsets"`
	Images   int    `json:"images"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

type extractSummary struct {
	AssetType      string           `json:"asset_type"`
	OutputDir      string           `json:"output_dir"`
	Format         string           `json:"format"`
	Images         int              `json:"images"`
	Written        int              `json:"written"`
	Skipped        int              `json:"skipped"`
	FailedSections int              `json:"failed_sections"`
	FailedWrites   []string         `json:"failed_writes,omitempty"`
	Sections       []sectionSummary `json:"sections"`
}

func runExtract(ctx context.Context) error {
	typ, err := loadAssetType()
	if err != nil {
		return err
	}
	f, err := sink.ParseFormat(extractFormat)
	if err != nil {
		return err
	}
	var ids []types.SectionID
	if extractSections != "" {
		if ids, err = types.ParseSectionList(extractSections); err != nil {
			return err
		}
	}

	asset, err := openAsset(typ)
	if err != nil {
		return err
	}
	defer asset.Close()

	if err := sink.ResetDir(extractOutputDir, inputDir); err != nil {
		return fmt.Errorf("prepare output directory: %w", err)
	}
	logger.Info("output directory ready", "dir", extractOutputDir, "format", string(f))
	out, err := sink.NewDirSink(extractOutputDir, sink.WithFormat(f), sink.WithScale(extractScale))
	if err != nil {
		return err
	}

	var manifest *sink.Manifest
	if extractManifest {
		manifest = &sink.Manifest{}
	}

	d := extract.New(asset, typ, out, extract.Options{
		Sections: ids,
		Workers:  extractWorkers,
		Ext:      f.Ext(),
		Manifest: manifest,
		Logger:   logger.L,
	})
	report, runErr := d.Run(ctx)

	if manifest != nil {
		if err := manifest.WriteFile(extractOutputDir); err != nil {
			logger.Error("manifest not written", "dir", extractOutputDir, "error", err)
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	summary := summarize(typ.Name, f, report)
	if jsonOut {
		if err := printJSON(summary); err != nil {
			return err
		}
	} else {
		printExtractSummary(summary)
	}

	if report.Failed() {
		logger.Warn("extraction incomplete",
			"failed_sections", report.FailedSections(),
			"failed_writes", len(report.FailedWrites))
	}
	if extractFailOnError && report.Failed() {
		return fmt.Errorf("%d section(s) and %d write(s) failed",
			report.FailedSections(), len(report.FailedWrites))
	}
	return nil
}

func summarize(name string, f sink.Format, r *extract.Report) extractSummary {
	s := extractSummary{
		AssetType:      name,
		OutputDir:      extractOutputDir,
		Format:         string(f),
		Images:         r.Images,
		Written:        r.Written,
		Skipped:        r.Skipped,
		FailedSections: r.FailedSections(),
		Sections:       make([]sectionSummary, 0, len(r.Sections)),
	}
	for _, w := range r.FailedWrites {
		s.FailedWrites = append(s.FailedWrites, w.Error())
	}
	for _, sr := range r.Sections {
		s.Sections = append(s.Sections, sectionSummary{
			Section:  sr.ID.String(),
			Resolved: sr.Section,
			Excluded: sr.Excluded,
			Offsets:  sr.Offsets,
			Images:   sr.Images,
			Skipped:  sr.Skipped,
			Error:    errString(sr.Err),
		})
	}
	return s
}

func printExtractSummary(s extractSummary) {
	printInfo("\nExtracted %s into %s (%s):\n", s.AssetType, s.OutputDir, s.Format)
	for _, sec := range s.Sections {
		switch {
		case sec.Excluded:
			printVerbose("  %-6s excluded\n", sec.Section)
		case sec.Error != "":
			printInfo("  %-6s FAILED: %s\n", sec.Section, sec.Error)
		default:
			printInfo("  %-6s %d images, %d skipped\n", sec.Section, sec.Images, sec.Skipped)
		}
	}
	for _, w := range s.FailedWrites {
		printInfo("  write failed: %s\n", w)
	}
	printInfo("\nTotal: %d images written, %d skipped\n", s.Written, s.Skipped)
}
