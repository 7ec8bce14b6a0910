package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"complexify/internal/analyzer"
	"complexify/internal/config"
	"complexify/internal/lexical"
	"complexify/internal/models"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var featuresJSONFlag bool

var featuresCmd = &cobra.Command{
	Use:   "features [files or directories]",
	Short: "Print the structural features of Python files",
	Long: `features runs only the structural analysis: no model artifacts are
needed. Files that fail to parse report all-zero counts.`,
	Args: cobra.ArbitraryArgs,
	Run:  runFeatures,
}

func init() {
	featuresCmd.Flags().BoolVar(&featuresJSONFlag, "json", false, "Output features as JSON")
	rootCmd.AddCommand(featuresCmd)
}

type fileFeatures struct {
	File       string                    `json:"file"`
	Features   models.StructuralFeatures `json:"features"`
	ParseError string                    `json:"parse_error,omitempty"`
}

func runFeatures(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if len(args) == 0 {
		args = []string{"."}
	}

	files := collectAll(cfg, args)
	if len(files) == 0 {
		color.Yellow("⚠️  No Python files found to analyze\n")
		return
	}

	rows, err := extractFeatures(cfg, files)
	if err != nil {
		color.Red("%v\n", err)
		os.Exit(1)
	}

	out := cmd.OutOrStdout()
	if featuresJSONFlag {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			color.Red("%v\n", err)
			os.Exit(1)
		}
		return
	}

	table := tablewriter.NewWriter(out)
	table.Header(append([]string{"File"}, models.FeatureNames[:]...))
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range rows {
		row := []string{r.File}
		for _, v := range r.Features.Values() {
			row = append(row, strconv.Itoa(v))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		color.Red("%v\n", err)
		os.Exit(1)
	}
	if err := table.Render(); err != nil {
		color.Red("%v\n", err)
		os.Exit(1)
	}
	for _, r := range rows {
		if r.ParseError != "" {
			color.Yellow("⚠️  %s: %s\n", r.File, r.ParseError)
		}
	}
}

func extractFeatures(cfg *config.Config, files []string) ([]fileFeatures, error) {
	extractor := analyzer.NewExtractor(cfg.Analysis.CountExceptionHandlers)
	rows := make([]fileFeatures, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		source := string(data)
		features, perr := extractor.Inspect(source)
		features.NormalizedLength = len(lexical.Normalize(source))
		row := fileFeatures{File: file, Features: features}
		if perr != nil {
			row.ParseError = perr.Error()
		}
		rows = append(rows, row)
	}
	return rows, nil
}
