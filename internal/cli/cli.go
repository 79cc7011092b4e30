package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"literal-localizer/internal/config"
	"literal-localizer/internal/filewalker"
	"literal-localizer/internal/report"
	"literal-localizer/internal/rewriter"
	"literal-localizer/internal/rules"
	"literal-localizer/internal/scan"
	"literal-localizer/internal/substitute"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var errUntranslated = errors.New("untranslated literals found")

// options holds the resolved settings of one invocation: config values
// overridden by flags.
type options struct {
	root          string
	extensions    []string
	excludes      []string
	rulesFile     string
	legacyPrePass bool
	dryRun        bool
	diff          bool
	reportPath    string
	databaseURL   string
	workers       int
	logLevel      string
}

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		logFailure(err)
		os.Exit(1)
	}
}

// logFailure logs a command error once. check has already printed its
// findings, so its exit error is not logged again.
func logFailure(err error) {
	if errors.Is(err, errUntranslated) {
		return
	}
	log.Error().Err(err).Msg("Command failed")
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &options{
		root:        cfg.Root,
		databaseURL: cfg.DatabaseURL,
	}

	rootCmd := &cobra.Command{
		Use:   "literal-localizer [root]",
		Short: "Rewrite Portuguese UI literals in TypeScript sources to English",
		Long: `Walks a source tree, selects .ts and .tsx files, and replaces UI string
literals using an ordered substitution table. Files are rewritten in place,
and only when their content changes. Running it twice is a no-op.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("parse log level: %w", err)
			}
			zerolog.SetGlobalLevel(level)
			if len(args) == 1 {
				opts.root = args[0]
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocalize(cmd.OutOrStdout(), opts)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringSliceVar(&opts.extensions, "ext", cfg.Extensions, "File extensions to process")
	pf.StringSliceVar(&opts.excludes, "exclude", cfg.Excludes, "Doublestar patterns (relative to root) to skip")
	pf.StringVar(&opts.rulesFile, "rules", cfg.RulesFile, "YAML or JSON rule table replacing the built-in one")
	pf.BoolVar(&opts.legacyPrePass, "legacy-prepass", cfg.LegacyPrePass, "Replace the special-case token before the table runs (legacy behaviour)")
	pf.StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	f := rootCmd.Flags()
	f.BoolVar(&opts.dryRun, "dry-run", false, "Report changes without writing files")
	f.BoolVar(&opts.diff, "diff", false, "Print a diff of every changed file")
	f.StringVar(&opts.reportPath, "report", cfg.ReportPath, "Write a change report (.json or .tsv)")

	rootCmd.AddCommand(checkCmd(opts, cfg.WorkerCount))
	rootCmd.AddCommand(rulesCmd(opts))
	rootCmd.AddCommand(historyCmd(opts))

	return rootCmd
}

func checkCmd(opts *options, workers int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [root]",
		Short: "List lines that still contain a source-language pattern",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.root = args[0]
			}
			return runCheck(cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.workers, "workers", workers, "Number of files scanned concurrently")
	return cmd
}

func rulesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Validate and print the rule table in application order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd.OutOrStdout(), opts)
		},
	}
}

func historyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history <run-id>",
		Short: "Print the change report stored for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.OutOrStdout(), opts, args[0])
		},
	}
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func loadRules(opts *options) (rules.Set, error) {
	if opts.rulesFile == "" {
		return rules.DefaultSet(), nil
	}
	return rules.LoadFile(opts.rulesFile)
}

// newEngine builds the substitution engine and warns about every rule the
// legacy pre-pass makes unreachable.
func newEngine(set rules.Set, legacyPrePass bool) *substitute.Engine {
	if !legacyPrePass {
		return substitute.New(set.Table)
	}
	for _, r := range rules.Unreachable(set.SpecialCase, set.Table) {
		log.Warn().
			Str("token", set.SpecialCase.Pattern).
			Str("pattern", r.Pattern).
			Msg("Rule unreachable with legacy pre-pass")
	}
	return substitute.New(set.Table, substitute.WithPrePass(set.SpecialCase))
}

func newWalker(opts *options) (*filewalker.Walker, error) {
	w := filewalker.NewWalker(
		filewalker.WithExtensions(opts.extensions...),
		filewalker.WithExcludes(opts.excludes...),
	)
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// runLocalize handles the root command: one sequential pass over the tree.
func runLocalize(out io.Writer, opts *options) error {
	set, err := loadRules(opts)
	if err != nil {
		return err
	}
	walker, err := newWalker(opts)
	if err != nil {
		return err
	}

	collector := report.NewCollector()
	rwOpts := []rewriter.Option{
		rewriter.WithRecorder(collector),
		rewriter.WithDryRun(opts.dryRun),
	}
	if opts.diff {
		rwOpts = append(rwOpts, rewriter.WithDiff(out))
	}
	engine := newEngine(set, opts.legacyPrePass)
	rw := rewriter.New(engine, rwOpts...)

	event := log.Info().
		Str("root", opts.root).
		Int("rules", engine.Table().Len()).
		Bool("dry_run", opts.dryRun)
	if pre, ok := engine.PrePass(); ok {
		event = event.Str("prepass", pre.Pattern)
	}
	event.Msg("Starting localization pass")

	passErr := func() error {
		files := 0
		for path, err := range walker.Paths(opts.root) {
			if err != nil {
				return err
			}
			files++
			if err := rw.Process(path); err != nil {
				return err
			}
		}
		log.Info().
			Int("files", files).
			Int("changed", len(collector.Changes())).
			Int("replacements", collector.Replacements()).
			Msg("Localization pass complete")
		return nil
	}()

	// Files processed before a failure stay modified, so the report is
	// written either way.
	return errors.Join(passErr, persistReport(opts, collector.Changes()))
}

func persistReport(opts *options, changes []report.Change) error {
	if opts.reportPath != "" {
		if err := report.Export(opts.reportPath, changes); err != nil {
			return fmt.Errorf("export report: %w", err)
		}
	}
	if opts.databaseURL == "" {
		return nil
	}

	ctx, cancel := setupContext()
	defer cancel()

	pool, err := report.Connect(ctx, opts.databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := report.NewPGStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	return store.Save(ctx, report.NewRunID(), changes)
}

// runHistory handles the `history` command.
func runHistory(out io.Writer, opts *options, runID string) error {
	if opts.databaseURL == "" {
		return errors.New("history requires DATABASE_URL")
	}

	ctx, cancel := setupContext()
	defer cancel()

	pool, err := report.Connect(ctx, opts.databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	changes, err := report.NewPGStore(pool).Load(ctx, runID)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return fmt.Errorf("no changes recorded for run %s", runID)
	}

	for _, c := range changes {
		mode := "written"
		if c.DryRun {
			mode = "dry-run"
		}
		fmt.Fprintf(out, "%s\t%d\t%s\n", c.Path, c.Replacements, mode)
	}
	return nil
}

// runCheck handles the `check` command.
func runCheck(out io.Writer, opts *options) error {
	ctx, cancel := setupContext()
	defer cancel()

	set, err := loadRules(opts)
	if err != nil {
		return err
	}
	walker, err := newWalker(opts)
	if err != nil {
		return err
	}

	paths, err := walker.Walk(opts.root)
	if err != nil {
		return fmt.Errorf("walk input directory: %w", err)
	}

	findings, err := scan.NewScanner(set.Table, opts.workers).Scan(ctx, paths)
	if err != nil {
		return err
	}

	warn := color.New(color.FgYellow)
	for _, f := range findings {
		warn.Fprintln(out, f.String())
	}
	if len(findings) > 0 {
		return fmt.Errorf("%d lines: %w", len(findings), errUntranslated)
	}

	color.New(color.FgGreen).Fprintf(out, "OK: %d files, no untranslated literals\n", len(paths))
	return nil
}

// runRules handles the `rules` command.
func runRules(out io.Writer, opts *options) error {
	set, err := loadRules(opts)
	if err != nil {
		return err
	}

	unreachable := make(map[string]bool)
	if opts.legacyPrePass {
		fmt.Fprintf(out, "pre  %q -> %q\n", set.SpecialCase.Pattern, set.SpecialCase.Replacement)
		for _, r := range rules.Unreachable(set.SpecialCase, set.Table) {
			unreachable[r.Pattern] = true
		}
	}

	dead := color.New(color.FgRed)
	for i, r := range set.Table.All() {
		line := fmt.Sprintf("%3d  %q -> %q", i+1, r.Pattern, r.Replacement)
		if unreachable[r.Pattern] {
			dead.Fprintln(out, line+"  (unreachable)")
			continue
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
