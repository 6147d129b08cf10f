package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshuapare/ndxkit/internal/logger"
	"github.com/joshuapare/ndxkit/pkg/catalog"
	"github.com/joshuapare/ndxkit/pkg/ndx"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool

	// Asset selection, shared by every command that reads an asset pair
	assetType   string
	inputDir    string
	catalogPath string
)

var rootCmd = &cobra.Command{
	Use:   "ndxctl",
	Short: "Extract images from ndx/dat asset files",
	Long: `ndxctl reads an index file (.ndx) and its data file (.dat), walks the
section tables and writes every decodable image record to disk. It can also
list sections, resolve named markers and decode single records.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output and log in JSON format")

	rootCmd.PersistentFlags().StringVar(&assetType, "asset-type", "drak24", "Asset type to read")
	rootCmd.PersistentFlags().StringVar(&inputDir, "input-dir", ".", "Directory holding the .ndx and .dat files")
	rootCmd.PersistentFlags().
		StringVar(&catalogPath, "catalog", "", "JSON file with additional asset type tables")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

func initLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger.Init(logger.Options{Quiet: quiet, JSON: jsonOut, Level: level})
}

// loadAssetType returns the selected asset type from the built-in catalog,
// extended by --catalog when given.
func loadAssetType() (catalog.AssetType, error) {
	c := catalog.Default()
	if catalogPath != "" {
		if err := c.Load(catalogPath); err != nil {
			return catalog.AssetType{}, err
		}
	}
	return c.Lookup(assetType)
}

// openAsset opens the index and data files of t under --input-dir.
func openAsset(t catalog.AssetType) (*ndx.Asset, error) {
	indexPath := filepath.Join(inputDir, t.IndexFile)
	dataPath := filepath.Join(inputDir, t.DataFile)
	printVerbose("Opening %s and %s\n", indexPath, dataPath)
	a, err := ndx.Open(indexPath, dataPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("asset opened", "index", a.IndexPath, "data", a.DataPath,
		"index_bytes", a.IndexLen(), "data_bytes", a.DataLen())
	return a, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// errString returns err's message, or "" for nil.
func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
