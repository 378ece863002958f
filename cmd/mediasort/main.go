package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Nomadcxx/mediasort/internal/config"
	"github.com/Nomadcxx/mediasort/internal/metadata"
	"github.com/Nomadcxx/mediasort/internal/reporter"
	"github.com/Nomadcxx/mediasort/internal/sorter"
	"github.com/Nomadcxx/mediasort/internal/transfer"
	"github.com/Nomadcxx/mediasort/internal/ui"
)

var (
	cfgFile string

	// sort flags
	destDir    string
	moviesDest string
	tvDest     string
	mediaType  string
	actionName string
	tagMeta    bool
	noTagMeta  bool
	replace    bool
	noReplace  bool
	dryRun     bool
	withTUI    bool

	infoFile bool
	shasum   bool
	chown    bool
	owner    string
	group    string
	fileMode string
	dirMode  string

	// Version information (set via -ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

const exampleConfig = `[parameters]
valid_extensions = [".avi", ".mkv", ".mp4"]
suffix_the = true
tag_metainfo = true

[api.tvdb]
url = "https://api.thetvdb.com"
key = "your-tvdb-key"

[api.tmdb]
url = "https://api.themoviedb.org/3"
key = "your-tmdb-key"
`

var rootCmd = &cobra.Command{
	Use:   "mediasort",
	Short: "Sort and rename media files into a clean library layout",
	Long:  getLongDescription(),
}

var sortCmd = &cobra.Command{
	Use:   "sort <path> [path...]",
	Short: "Sort media files into the destination library",
	Args:  cobra.MinimumNArgs(1),
	Run:   runSort,
}

var viewCmd = &cobra.Command{
	Use:   "view <report-file>",
	Short: "View a sort report in the TUI",
	Args:  cobra.ExactArgs(1),
	Run:   runView,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration file location and contents",
	Run:   runConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mediasort %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/mediasort/config.toml)")

	sortCmd.Flags().StringVarP(&destDir, "dest", "d", "", "destination for both media types")
	sortCmd.Flags().StringVar(&moviesDest, "movies-dest", "", "destination for movies (overrides --dest)")
	sortCmd.Flags().StringVar(&tvDest, "tv-dest", "", "destination for TV episodes (overrides --dest)")
	sortCmd.Flags().StringVarP(&mediaType, "type", "t", "auto", "media type: tv, movie or auto")
	sortCmd.Flags().StringVarP(&actionName, "action", "a", "copy", "placement action: symlink, hardlink, copy or move")
	sortCmd.Flags().BoolVar(&tagMeta, "tag-metainfo", false, "append metainfo tags to movie names")
	sortCmd.Flags().BoolVar(&noTagMeta, "no-tag-metainfo", false, "never append metainfo tags")
	sortCmd.Flags().BoolVar(&replace, "replace", false, "replace existing destination files")
	sortCmd.Flags().BoolVar(&noReplace, "no-replace", false, "never replace existing destination files")
	sortCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be placed without touching anything")
	sortCmd.Flags().BoolVar(&withTUI, "tui", false, "show live progress in the TUI")
	sortCmd.Flags().BoolVar(&infoFile, "infofile", false, "write a .txt info file beside the destination")
	sortCmd.Flags().BoolVar(&shasum, "shasum", false, "write a .sha256sum file beside the destination")
	sortCmd.Flags().BoolVar(&chown, "chown", false, "set ownership and permissions on the destination")
	sortCmd.Flags().StringVar(&owner, "user", "", "owner for --chown")
	sortCmd.Flags().StringVar(&group, "group", "", "group for --chown")
	sortCmd.Flags().StringVar(&fileMode, "file-mode", "0644", "file permissions for --chown")
	sortCmd.Flags().StringVar(&dirMode, "directory-mode", "0755", "directory permissions for --chown")

	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSort(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srt, err := sorter.New(cfg, metadata.NewResolver(cfg.API), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Create context with cancellation support (Ctrl+C)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nCancelling sort...")
		cancel()
	}()

	var runErr error
	var failed bool
	if withTUI {
		failed, runErr = sortWithTUI(ctx, srt, args)
	} else {
		failed, runErr = sortPlain(ctx, srt, args)
	}

	if runErr != nil {
		if runErr == context.Canceled {
			fmt.Fprintf(os.Stderr, "Sort cancelled by user\n")
			os.Exit(130) // Exit code 130 for SIGINT
		}
		fmt.Fprintf(os.Stderr, "Sort failed: %v\n", runErr)
		os.Exit(1)
	}

	if failed {
		os.Exit(1)
	}
}

// sortPlain runs the batch headless, printing one line per file
func sortPlain(ctx context.Context, srt *sorter.Sorter, paths []string) (bool, error) {
	anyFailed := false
	for _, path := range paths {
		results, err := srt.SortPath(ctx, path, nil)
		if err != nil {
			return anyFailed, err
		}

		for _, result := range results {
			printResult(result)
		}

		report := reporter.Build(path, actionName, dryRun, results)
		if report.HasFailures() {
			anyFailed = true
		}

		reportPath, err := reporter.Generate(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save report: %v\n", err)
			continue
		}
		fmt.Printf("\nReport saved to:\n  %s\n\n", reportPath)
		fmt.Printf("View report with: mediasort view %s\n", reportPath)
	}
	return anyFailed, nil
}

// sortWithTUI runs the batch behind a live progress view
func sortWithTUI(ctx context.Context, srt *sorter.Sorter, paths []string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(ui.NewSortingModel(), tea.WithAltScreen())

	progress := make(chan sorter.SortProgress, 16)
	go func() {
		for update := range progress {
			p.Send(ui.ProgressMessage(update))
		}
	}()

	failedCh := make(chan bool, 1)
	go func() {
		defer close(progress)

		anyFailed := false
		defer func() { failedCh <- anyFailed }()

		var all []sorter.FileResult
		for _, path := range paths {
			pr := sorter.NewProgressReporter(progress)
			results, err := srt.SortPath(ctx, path, pr)
			if err != nil {
				p.Send(ui.SortErrorMessage(err))
				return
			}
			all = append(all, results...)

			report := reporter.Build(path, actionName, dryRun, results)
			if report.HasFailures() {
				anyFailed = true
			}
			if _, err := reporter.Generate(report); err != nil {
				p.Send(ui.SortErrorMessage(err))
				return
			}
		}

		p.Send(ui.SortCompleteMessage(reporter.Build(paths[0], actionName, dryRun, all)))
	}()

	finalModel, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("failed to run TUI: %w", err)
	}

	cancelled := false
	if m, ok := finalModel.(ui.Model); ok && m.Cancelled() {
		cancelled = true
		cancel()
	}

	anyFailed := <-failedCh
	if cancelled {
		return anyFailed, context.Canceled
	}
	return anyFailed, nil
}

func printResult(result sorter.FileResult) {
	switch result.Outcome {
	case sorter.OutcomeCreated, sorter.OutcomeReplaced:
		fmt.Println(ui.FormatStatusOK(fmt.Sprintf("%s -> %s", result.Source, result.Destination)))
	case sorter.OutcomePlanned:
		fmt.Println(ui.FormatStatusInfo(fmt.Sprintf("%s -> %s", result.Source, result.Destination)))
	case sorter.OutcomeSkipped:
		fmt.Println(ui.FormatStatusWarn(fmt.Sprintf("%s (%s)", result.Source, result.Reason)))
	default:
		fmt.Println(ui.FormatStatusFail(fmt.Sprintf("%s (%s)", result.Source, result.Reason)))
	}
}

// buildOptions resolves CLI flags against the loaded config
func buildOptions(cfg *config.Config) (sorter.Options, error) {
	movies := moviesDest
	if movies == "" {
		movies = destDir
	}
	tv := tvDest
	if tv == "" {
		tv = destDir
	}
	if movies == "" && tv == "" {
		return sorter.Options{}, fmt.Errorf("no destination given: use --dest, --movies-dest or --tv-dest")
	}

	action, err := transfer.ParseAction(actionName)
	if err != nil {
		return sorter.Options{}, err
	}

	var force sorter.MediaType
	switch mediaType {
	case "tv":
		force = sorter.MediaTV
	case "movie":
		force = sorter.MediaMovie
	case "auto", "":
		force = sorter.MediaAuto
	default:
		return sorter.Options{}, fmt.Errorf("invalid media type: %s (want tv, movie or auto)", mediaType)
	}

	tag := cfg.Parameters.TagMetainfo
	if tagMeta {
		tag = true
	}
	if noTagMeta {
		tag = false
	}

	repl := cfg.Parameters.Replace
	if replace {
		repl = true
	}
	if noReplace {
		repl = false
	}

	return sorter.Options{
		MoviesDest: movies,
		TVDest:     tv,
		ForceType:  force,
		Action:     action,
		Replace:    repl,
		TagMeta:    tag,
		DryRun:     dryRun,
		InfoFile:   infoFile,
		Shasum:     shasum,
		Chown:      chown,
		Owner:      owner,
		Group:      group,
		FileMode:   fileMode,
		DirMode:    dirMode,
	}, nil
}

func runView(cmd *cobra.Command, args []string) {
	report, err := reporter.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading report: %v\n", err)
		os.Exit(1)
	}

	model := ui.NewModel(report)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func runConfig(cmd *cobra.Command, args []string) {
	configPath, err := config.ConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Configuration file: %s\n\n", configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Println("Config file does not exist. Create it with:")
		fmt.Println("\n  mkdir -p ~/.config/mediasort")
		fmt.Println("  cat > ~/.config/mediasort/config.toml <<EOF")
		fmt.Print(exampleConfig)
		fmt.Println("EOF")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Current configuration:")
	fmt.Printf("\nValid extensions (%d):\n", len(cfg.Parameters.ValidExtensions))
	for _, ext := range cfg.Parameters.ValidExtensions {
		fmt.Printf("  - %s\n", ext)
	}

	fmt.Printf("\nParameters:\n")
	fmt.Printf("  Suffix 'The':     %t\n", cfg.Parameters.SuffixThe)
	fmt.Printf("  Tag metainfo:     %t\n", cfg.Parameters.TagMetainfo)
	fmt.Printf("  Replace existing: %t\n", cfg.Parameters.Replace)

	fmt.Printf("\nMetadata providers:\n")
	fmt.Printf("  TVDB: %s\n", cfg.API.TVDB.URL)
	fmt.Printf("  TMDB: %s\n", cfg.API.TMDB.URL)

	fmt.Printf("\nSearch overrides: %d\n", len(cfg.Overrides.Search))
	fmt.Printf("TV name overrides: %d\n", len(cfg.Overrides.NameTV))
	fmt.Printf("Movie name overrides: %d\n", len(cfg.Overrides.NameMV))
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getLongDescription() string {
	return ui.FormatASCIIHeader() + "\n\n" +
		"mediasort interprets scene-style media filenames, resolves canonical titles\n" +
		"against TVDB and TMDB, and places files into a clean library layout."
}
