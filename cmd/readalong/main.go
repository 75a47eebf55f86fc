// Package main provides the CLI entrypoint for readalong.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/readalong/internal/catalog"
	"github.com/verte-zerg/readalong/internal/config"
	"github.com/verte-zerg/readalong/internal/model"
	"github.com/verte-zerg/readalong/internal/report"
	"github.com/verte-zerg/readalong/internal/scoring"
	"github.com/verte-zerg/readalong/internal/speech"
	"github.com/verte-zerg/readalong/internal/store"
	"github.com/verte-zerg/readalong/internal/tui"
)

const (
	defaultLang     = "en"
	defaultLogLevel = "info"
)

var (
	practiceLang           string
	practiceMinChars       int
	practiceSpeechCmd      string
	practiceSpeechScript   string
	practiceScriptInterval time.Duration
	practiceCatalog        string
	practiceLogLevel       string

	pickLevel     int
	pickFile      string
	pickParagraph string
	pickLibrary   int64
	pickPaste     bool

	scoreTranscript string
	scoreElapsed    int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "readalong",
		Short:         "Read a paragraph aloud and get accuracy and fluency feedback",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&practiceLang, "lang", defaultLang, "language used for case folding")
	flags.IntVar(&practiceMinChars, "min-chars", scoring.DefaultMinChars, "minimum paragraph length in characters")
	flags.StringVar(&practiceCatalog, "catalog", "", "YAML file replacing the built-in levels")
	flags.StringVar(&practiceLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&practiceSpeechCmd, "speech-cmd", "", "speech recognizer command writing transcript lines to stdout")
	rootCmd.Flags().StringVar(&practiceSpeechScript, "speech-script", "", "replay transcript lines from a file instead of a recognizer")
	rootCmd.Flags().DurationVar(&practiceScriptInterval, "script-interval", speech.DefaultScriptInterval, "pause between replayed script lines")
	rootCmd.Flags().BoolVar(&pickPaste, "paste", false, "open the paste editor")
	addParagraphFlags(rootCmd)
	rootCmd.MarkFlagsMutuallyExclusive("level", "file", "paragraph", "library", "paste")

	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newLibraryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addParagraphFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&pickLevel, "level", 0, "built-in level number (1-based)")
	cmd.Flags().StringVar(&pickFile, "file", "", "read the paragraph from a text file")
	cmd.Flags().StringVar(&pickParagraph, "paragraph", "", "paragraph text")
	cmd.Flags().Int64Var(&pickLibrary, "library", 0, "saved paragraph id")
}

func loadConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyIntConfig(cmd, "min-chars", &practiceMinChars, fileCfg.Practice.MinChars)
	applyStringConfig(cmd, "speech-cmd", &practiceSpeechCmd, fileCfg.Practice.SpeechCmd)
	applyStringConfig(cmd, "speech-script", &practiceSpeechScript, fileCfg.Practice.SpeechScript)
	applyStringConfig(cmd, "catalog", &practiceCatalog, fileCfg.Practice.Catalog)
	applyStringConfig(cmd, "log-level", &practiceLogLevel, fileCfg.Practice.LogLevel)
	if err := applyDurationConfig(cmd, "script-interval", &practiceScriptInterval, fileCfg.Practice.ScriptInterval); err != nil {
		return model.Config{}, err
	}

	cfg := model.Config{
		Lang:           practiceLang,
		MinChars:       practiceMinChars,
		SpeechCmd:      practiceSpeechCmd,
		SpeechScript:   practiceSpeechScript,
		ScriptInterval: practiceScriptInterval,
		CatalogPath:    practiceCatalog,
		LogLevel:       practiceLogLevel,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logFile, err := openLogFile(config.DefaultLogPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}()
	logger, err := newLogger(logFile, cfg.LogLevel)
	if err != nil {
		return err
	}

	scorer, err := scoring.NewScorer(cfg.Lang)
	if err != nil {
		return fmt.Errorf("failed to configure language: %w", err)
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	source, err := speech.New(cfg.SpeechCmd, cfg.SpeechScript, cfg.ScriptInterval, logger)
	if err != nil && !errors.Is(err, speech.ErrUnsupported) {
		return fmt.Errorf("failed to configure speech source: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	opts := tui.Options{
		Catalog:  cat,
		Store:    st,
		Scorer:   scorer,
		Source:   source,
		Logger:   logger,
		MinChars: cfg.MinChars,
		Paste:    pickPaste,
	}
	if paragraphSelected(cmd) {
		p, err := resolveParagraph(ctx, cmd, cat, st)
		if err != nil {
			return err
		}
		opts.Paragraph = &p
	}

	logger.Info("starting", "lang", cfg.Lang, "levels", cat.Len(), "speech-cmd", cfg.SpeechCmd, "speech-script", cfg.SpeechScript)
	m := tui.NewModel(ctx, opts)
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := program.Run()
	if cerr := m.Close(); cerr != nil {
		logger.Warn("failed to close session", "err", cerr)
	}
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

func paragraphSelected(cmd *cobra.Command) bool {
	for _, name := range []string{"level", "file", "paragraph", "library"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// resolveParagraph returns the paragraph chosen by --level, --file,
// --paragraph or --library.
func resolveParagraph(ctx context.Context, cmd *cobra.Command, cat *catalog.Catalog, st *store.Store) (model.Paragraph, error) {
	switch {
	case cmd.Flags().Changed("level"):
		p, err := cat.Level(pickLevel)
		if err != nil {
			return model.Paragraph{}, err
		}
		return p, nil
	case cmd.Flags().Changed("file"):
		data, err := os.ReadFile(pickFile)
		if err != nil {
			return model.Paragraph{}, fmt.Errorf("failed to read paragraph file: %w", err)
		}
		p := catalog.Custom(string(data))
		p.Title = filepath.Base(pickFile)
		return p, nil
	case cmd.Flags().Changed("paragraph"):
		return catalog.Custom(pickParagraph), nil
	case cmd.Flags().Changed("library"):
		if st == nil {
			return model.Paragraph{}, fmt.Errorf("library is not available")
		}
		entry, err := st.GetParagraph(ctx, pickLibrary)
		if err != nil {
			return model.Paragraph{}, fmt.Errorf("failed to load saved paragraph: %w", err)
		}
		return catalog.FromLibrary(entry), nil
	}
	return model.Paragraph{}, fmt.Errorf("choose a paragraph with --level, --file, --paragraph or --library")
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a transcript against a paragraph without the TUI",
		Args:  cobra.NoArgs,
		RunE:  runScoreCmd,
	}
	addParagraphFlags(cmd)
	cmd.Flags().StringVar(&scoreTranscript, "transcript", "-", "transcript file ('-' reads stdin)")
	cmd.Flags().IntVar(&scoreElapsed, "elapsed", 0, "reading time in seconds")
	cmd.MarkFlagsMutuallyExclusive("level", "file", "paragraph", "library")
	return cmd
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	scorer, err := scoring.NewScorer(cfg.Lang)
	if err != nil {
		return fmt.Errorf("failed to configure language: %w", err)
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var st *store.Store
	if cmd.Flags().Changed("library") {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}
	p, err := resolveParagraph(ctx, cmd, cat, st)
	if err != nil {
		return err
	}
	if err := scoring.ValidateParagraph(p.Text, cfg.MinChars); err != nil {
		return fmt.Errorf("invalid paragraph: %w", err)
	}

	transcript, err := readTranscript(cmd.InOrStdin(), scoreTranscript)
	if err != nil {
		return err
	}
	if strings.TrimSpace(transcript) == "" {
		return fmt.Errorf("transcript is empty")
	}
	if scoreElapsed < 0 {
		return fmt.Errorf("--elapsed must be >= 0")
	}

	r, err := scorer.Evaluate(p.Text, transcript, scoreElapsed)
	if err != nil {
		return fmt.Errorf("failed to score transcript: %w", err)
	}
	logger.Debug("scored transcript", "title", p.Title, "accuracy", r.Accuracy, "fluency", r.Fluency)
	out := cmd.OutOrStdout()
	if err := report.Render(out, r, report.AutoOptions(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// readTranscript reads a transcript file. Lines in the recognizer protocol
// are accepted; interim lines are skipped and error lines are rejected.
func readTranscript(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" || path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	var parts []string
	for _, line := range strings.Split(string(data), "\n") {
		ev, ok := speech.ParseLine(line)
		if !ok {
			continue
		}
		switch ev.Kind {
		case speech.KindFinal:
			parts = append(parts, ev.Text)
		case speech.KindError:
			return "", fmt.Errorf("transcript contains recognizer error %q", ev.Code)
		}
	}
	return strings.Join(parts, " "), nil
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List practice levels",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, cat.Len())
	for i, p := range cat.Levels() {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			p.Title,
			p.Difficulty,
			fmt.Sprintf("%d", p.WordCount),
			fmt.Sprintf("%d", p.EstimatedMinutes),
		})
	}
	report.Table(cmd.OutOrStdout(), []string{"#", "Title", "Difficulty", "Words", "Minutes"}, rows)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	parsed, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = parsed
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# readalong configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q                 # Language used for case folding
# min-chars = %d             # Minimum paragraph length in characters
# speech-cmd = ""             # Recognizer command printing "final<TAB>text" lines
# speech-script = ""          # Replay transcript lines from a file instead
# script-interval = %q      # Pause between replayed script lines
# catalog = ""                # YAML file replacing the built-in levels
# log-level = %q            # debug, info, warn or error
`,
		defaultLang,
		scoring.DefaultMinChars,
		speech.DefaultScriptInterval.String(),
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.MinChars < 0 {
		return fmt.Errorf("--min-chars must be >= 0")
	}
	if cfg.ScriptInterval < 0 {
		return fmt.Errorf("--script-interval must be >= 0")
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", cfg.LogLevel, err)
	}
	if _, err := scoring.NewTokenizer(cfg.Lang); err != nil {
		return fmt.Errorf("invalid --lang %q: %w", cfg.Lang, err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
