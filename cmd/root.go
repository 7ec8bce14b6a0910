package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"complexify/internal/analyzer"
	"complexify/internal/config"
	"complexify/internal/ensemble"
	"complexify/internal/watcher"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	formatFlag         string
	watchFlag          bool
	configFlag         string
	generateConfigFlag bool
	verboseFlag        bool
	outputFlag         string
	modelsFlag         string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "complexify [files or directories]",
	Short: "Estimate the complexity of Python code with a trained model ensemble",
	Long: `complexify predicts the time-complexity class, cyclomatic score and
readability score of Python source, then corrects the time-complexity label
with a structural analysis of the syntax tree.

Examples:
  complexify .                             # Analyze current directory
  complexify solver.py utils.py            # Analyze specific files
  complexify --format=json .               # Output results in JSON format
  complexify --config=.complexify.yml .    # Use custom config
  complexify --generate-config             # Generate sample config file
  complexify features solver.py            # Structural features only
  complexify serve                         # Start the HTTP API`,
	Args: cobra.ArbitraryArgs,
	Run:  runAnalysis,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&modelsFlag, "models", "", "Directory holding the model artifacts")

	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format (console, json)")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch mode for development")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show structural features per file")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the report to a file")
}

// loadConfig applies the shared flags on top of the file and environment.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		color.Red("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if modelsFlag != "" {
		cfg.Models.Dir = modelsFlag
	}
	return cfg
}

// loadModels is fatal on failure: nothing can be estimated without the ensemble.
func loadModels(cfg *config.Config) *ensemble.Models {
	m, err := ensemble.Load(cfg.Models)
	if err != nil {
		color.Red("Error loading models: %v\n", err)
		os.Exit(1)
	}
	return m
}

func runAnalysis(cmd *cobra.Command, args []string) {

	if generateConfigFlag {
		generateConfig()
		return
	}

	cfg := loadConfig()

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}
	if verboseFlag {
		cfg.Output.Verbose = true
	}
	if outputFlag != "" {
		cfg.Output.OutputFile = outputFlag
	}
	if err := cfg.Validate(); err != nil {
		color.Red("Invalid options: %v\n", err)
		os.Exit(1)
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	sourceFiles := collectAll(cfg, args)

	if len(sourceFiles) == 0 && !watchFlag {
		color.Yellow("⚠️  No Python files found to analyze\n")
		return
	}

	m := loadModels(cfg)
	engine := analyzer.NewAnalyzer(m.Vectorizer, m, cfg).WithFingerprint(m.Fingerprint)
	reportGen := analyzer.NewReportGeneratorWithConfig(cfg)

	if cfg.Output.Format != "json" {
		if cfg.Output.Verbose {
			color.Cyan("🔍 Analyzing %d Python files with %d structural counters...\n", len(sourceFiles), len(engine.DetectorNames()))
			if configFlag != "" {
				color.Cyan("📋 Using configuration: %s\n", configFlag)
			}
			color.Cyan("🧠 Models: %s (%s)\n\n", cfg.Models.Dir, m.Fingerprint)
		} else {
			color.Cyan("🔍 Analyzing %d Python files...\n\n", len(sourceFiles))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(sourceFiles) > 0 {
		if err := analyzeAndReport(ctx, engine, reportGen, cfg, sourceFiles); err != nil {
			color.Red("Analysis failed: %v\n", err)
			os.Exit(1)
		}
	}

	if watchFlag {
		runWatch(ctx, cfg, args, engine, reportGen)
	}
}

func analyzeAndReport(ctx context.Context, engine *analyzer.Analyzer, reportGen *analyzer.ReportGenerator, cfg *config.Config, files []string) error {
	result, err := engine.AnalyzeFiles(ctx, files)
	if err != nil {
		return err
	}

	report := reportGen.Generate(result)

	if cfg.Output.OutputFile != "" {
		if err := writeReportToFile(report, cfg.Output.OutputFile); err != nil {
			color.Red("Failed to write report to file: %v\n", err)
		} else {
			color.Green("📄 Report saved to: %s\n", cfg.Output.OutputFile)
		}
	} else {
		fmt.Print(report)
	}
	return nil
}

func runWatch(ctx context.Context, cfg *config.Config, args []string, engine *analyzer.Analyzer, reportGen *analyzer.ReportGenerator) {
	fw, err := watcher.NewFileWatcher(cfg)
	if err != nil {
		color.Red("%v\n", err)
		os.Exit(1)
	}
	defer fw.Close()

	handler := func(changed []string) error {
		color.Cyan("\n🔄 %d file(s) changed, re-analyzing...\n\n", len(changed))
		return analyzeAndReport(ctx, engine, reportGen, cfg, changed)
	}

	if err := fw.Watch(watchRoots(args), handler); err != nil {
		color.Red("%v\n", err)
		os.Exit(1)
	}

	color.Cyan("👀 Watching %d directories for changes (Ctrl+C to stop)...\n", len(fw.GetWatchedPaths()))
	<-ctx.Done()
	color.Cyan("\n👋 Stopping watch mode\n")
}

// watchRoots maps file arguments to their directories; fsnotify watches directories.
func watchRoots(args []string) []string {
	seen := make(map[string]bool)
	var roots []string
	for _, arg := range args {
		root := arg
		if info, err := os.Stat(arg); err == nil && !info.IsDir() {
			root = filepath.Dir(arg)
		}
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	return roots
}

func collectAll(cfg *config.Config, args []string) []string {
	var sourceFiles []string
	for _, arg := range args {
		files, err := collectSourceFiles(cfg, arg)
		if err != nil {
			color.Red("Error collecting files from %s: %v\n", arg, err)
			continue
		}
		sourceFiles = append(sourceFiles, files...)
	}
	return sourceFiles
}

func writeReportToFile(report, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(report), 0644)
}

func generateConfig() {
	configPath := ".complexify.yml"
	if err := config.GenerateConfig(configPath); err != nil {
		color.Red("Failed to generate config file: %v\n", err)
		os.Exit(1)
	}
	color.Green("✅ Generated sample configuration file: %s\n", configPath)
	color.Cyan("📝 Edit this file to customize complexify behavior\n")
	color.Cyan("🚀 Run 'complexify --config=%s .' to use it\n", configPath)
}

// collectSourceFiles recursively finds the Python files under path. A file
// named explicitly is always kept when it has a source extension.
func collectSourceFiles(cfg *config.Config, path string) ([]string, error) {
	var sourceFiles []string

	err := filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if filePath == path {
				return nil
			}
			name := info.Name()
			if strings.HasPrefix(name, ".") || name == "venv" || name == "__pycache__" || name == "node_modules" {
				return filepath.SkipDir
			}
			if watcher.MatchesExclude(cfg.Files.Exclude, path, filePath) {
				return filepath.SkipDir
			}
			return nil
		}

		if !cfg.IsSourceFile(filePath) {
			return nil
		}
		if filePath != path {
			if watcher.MatchesExclude(cfg.Files.Exclude, path, filePath) {
				return nil
			}
			if config.IsTestFile(filePath) && !cfg.Files.IncludeTests {
				return nil
			}
		}
		sourceFiles = append(sourceFiles, filePath)
		return nil
	})

	return sourceFiles, err
}

