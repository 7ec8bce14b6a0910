package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"complexify/internal/config"
	"complexify/internal/models"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ReportGenerator handles formatting and displaying analysis results
type ReportGenerator struct {
	format string
	config *config.Config
}

func NewReportGeneratorWithConfig(cfg *config.Config) *ReportGenerator {
	return &ReportGenerator{
		format: cfg.Output.Format,
		config: cfg,
	}
}

// Generate creates a formatted report from analysis results
func (r *ReportGenerator) Generate(result *models.AnalysisResult) string {
	switch r.format {
	case "json":
		return r.generateJSON(result)
	default:
		return r.generateConsole(result)
	}
}

// generateJSON creates a JSON report
func (r *ReportGenerator) generateJSON(result *models.AnalysisResult) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON report: %v", err)
	}
	return string(data) + "\n"
}

// generateConsole creates a colorized console report
func (r *ReportGenerator) generateConsole(result *models.AnalysisResult) string {
	var report strings.Builder

	useColors := r.config.Output.Colors
	verbose := r.config.Output.Verbose

	// Header
	if useColors {
		report.WriteString(color.CyanString("🔍 Complexify Analysis Report\n"))
		report.WriteString(color.WhiteString("═══════════════════════════════════════\n\n"))
	} else {
		report.WriteString("Complexify Analysis Report\n")
		report.WriteString("=======================================\n\n")
	}

	if verbose {
		r.writeModelInfo(&report, result, useColors)
	}

	r.writeSummary(&report, result, useColors)

	if len(result.Files) > 0 {
		r.writeLabelSummary(&report, result, useColors)
		r.writeEstimatesTable(&report, result)
		if verbose {
			r.writeFeaturesTable(&report, result)
		}
		r.writeSuggestions(&report, result, useColors)
	}

	if len(result.Failures) > 0 {
		r.writeFailures(&report, result, useColors)
	}

	// Footer
	if useColors {
		report.WriteString(color.WhiteString("Analysis completed in %s\n", result.AnalysisDuration))
	} else {
		report.WriteString(fmt.Sprintf("Analysis completed in %s\n", result.AnalysisDuration))
	}

	return report.String()
}

func (r *ReportGenerator) writeModelInfo(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	fingerprint := result.ModelFingerprint
	if fingerprint == "" {
		fingerprint = "none"
	}
	if useColors {
		report.WriteString(color.WhiteString("📋 Models:\n"))
		report.WriteString(fmt.Sprintf("   Directory: %s\n", color.CyanString(r.config.Models.Dir)))
		report.WriteString(fmt.Sprintf("   Fingerprint: %s\n\n", color.CyanString(fingerprint)))
	} else {
		report.WriteString("Models:\n")
		report.WriteString(fmt.Sprintf("   Directory: %s\n", r.config.Models.Dir))
		report.WriteString(fmt.Sprintf("   Fingerprint: %s\n\n", fingerprint))
	}
}

func (r *ReportGenerator) writeSummary(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📊 Summary:\n"))
	} else {
		report.WriteString("Summary:\n")
	}
	report.WriteString(fmt.Sprintf("   Files analyzed: %d\n", result.TotalFiles))
	if len(result.Failures) > 0 {
		report.WriteString(fmt.Sprintf("   Files skipped: %d\n", len(result.Failures)))
	}
	report.WriteString("\n")
}

// labelOrder lists the known classes from cheapest to most expensive.
var labelOrder = []string{
	models.TimeConstant,
	models.TimeLinear,
	models.TimeQuadratic,
	models.TimeCubic,
	models.TimeExponential,
	models.TimeNP,
}

func (r *ReportGenerator) writeLabelSummary(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📋 Time Complexity:\n"))
	} else {
		report.WriteString("Time Complexity:\n")
	}

	seen := make(map[string]bool)
	labels := append([]string(nil), labelOrder...)
	for _, l := range labelOrder {
		seen[l] = true
	}
	var extra []string
	for l := range result.LabelCounts {
		if !seen[l] {
			extra = append(extra, l)
		}
	}
	sort.Strings(extra)
	labels = append(labels, extra...)

	for _, label := range labels {
		count := result.LabelCounts[label]
		if count == 0 {
			continue
		}
		if useColors {
			emoji, colorFunc := r.getLabelDisplay(label)
			report.WriteString(fmt.Sprintf("   %s %s: %s\n", emoji, label, colorFunc(strconv.Itoa(count))))
		} else {
			report.WriteString(fmt.Sprintf("   %s: %d\n", label, count))
		}
	}
	report.WriteString("\n")
}

// getLabelDisplay returns emoji and color function for a complexity class
func (r *ReportGenerator) getLabelDisplay(label string) (string, func(a ...interface{}) string) {
	switch label {
	case models.TimeConstant, models.TimeLinear:
		return "🌟", color.New(color.FgGreen).SprintFunc()
	case models.TimeQuadratic:
		return "⚠️", color.New(color.FgYellow).SprintFunc()
	case models.TimeCubic:
		return "❌", color.New(color.FgRed).SprintFunc()
	case models.TimeExponential, models.TimeNP:
		return "🚨", color.New(color.FgRed, color.Bold).SprintFunc()
	default:
		return "❓", color.New(color.FgWhite).SprintFunc()
	}
}

func (r *ReportGenerator) writeEstimatesTable(report *strings.Builder, result *models.AnalysisResult) {
	table := tablewriter.NewWriter(report)
	table.Header([]string{"File", "Time", "Raw", "Space", "Cyclomatic", "Readability"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, fe := range result.Files {
		file := fe.File
		if fe.ParseError != "" {
			file += " (unparsed)"
		}
		data = append(data, []string{
			file,
			fe.Estimate.TimeComplexity,
			fe.RawTime,
			fe.Estimate.SpaceComplexity,
			strconv.FormatFloat(fe.Estimate.Cyclomatic, 'f', 2, 64),
			strconv.FormatFloat(fe.Estimate.Readability, 'f', 2, 64),
		})
	}
	if err := table.Bulk(data); err != nil {
		report.WriteString(fmt.Sprintf("Error rendering table: %v\n", err))
		return
	}
	if err := table.Render(); err != nil {
		report.WriteString(fmt.Sprintf("Error rendering table: %v\n", err))
		return
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeFeaturesTable(report *strings.Builder, result *models.AnalysisResult) {
	table := tablewriter.NewWriter(report)
	table.Header([]string{"File", "For", "While", "If", "Defs", "Assign", "BinOps", "Returns", "Depth", "Recursion", "Flow", "Length"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, fe := range result.Files {
		row := []string{fe.File}
		for _, v := range fe.Features.Values() {
			row = append(row, strconv.Itoa(v))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		report.WriteString(fmt.Sprintf("Error rendering table: %v\n", err))
		return
	}
	if err := table.Render(); err != nil {
		report.WriteString(fmt.Sprintf("Error rendering table: %v\n", err))
		return
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeSuggestions(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	suggestion := result.Files[0].Estimate.Suggestions
	if strings.TrimSpace(suggestion) == "" {
		return
	}
	if useColors {
		report.WriteString(color.GreenString("💡 Suggestion:\n"))
		report.WriteString(color.GreenString("   %s\n\n", suggestion))
	} else {
		report.WriteString("Suggestion:\n")
		report.WriteString(fmt.Sprintf("   %s\n\n", suggestion))
	}
}

func (r *ReportGenerator) writeFailures(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.YellowString("⚠️  Skipped files:\n"))
	} else {
		report.WriteString("Skipped files:\n")
	}
	for _, f := range result.Failures {
		report.WriteString(fmt.Sprintf("   %s: %s\n", f.File, f.Error))
	}
	report.WriteString("\n")
}
