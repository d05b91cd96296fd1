// Package main provides the CLI entrypoint for typestyle.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/typestyle/internal/config"
	"github.com/verte-zerg/typestyle/internal/keylog"
	"github.com/verte-zerg/typestyle/internal/logging"
	"github.com/verte-zerg/typestyle/internal/metrics"
	"github.com/verte-zerg/typestyle/internal/model"
	"github.com/verte-zerg/typestyle/internal/stats"
	"github.com/verte-zerg/typestyle/internal/statsui"
	"github.com/verte-zerg/typestyle/internal/store"
	"github.com/verte-zerg/typestyle/internal/tui"
	"github.com/verte-zerg/typestyle/internal/wpm"
)

const (
	defaultIdleSeconds    = 5
	defaultTopKeys        = 10
	defaultActivityWindow = 3
	defaultLogWidth       = 80
	maxImportLine         = 1024 * 1024
)

var (
	dbPath   string
	logLevel string

	captureIdle int

	logRaw bool

	metricsTop    int
	metricsFormat string

	sessionsFormat string

	logger = zap.NewNop()
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "typestyle",
		Short:             "Record keystrokes and explain your typing style",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setupLogger,
		RunE:              runCaptureCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "path to the keystroke database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "diagnostic log level (debug, info, warn, error)")
	rootCmd.Flags().IntVar(&captureIdle, "idle", defaultIdleSeconds, "seconds without typing before WPM resets")

	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newMetricsCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func setupLogger(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	l, err := logging.New(logLevel)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.Debug("opened store", zap.String("path", dbPath))
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logger.Warn("failed to close db", zap.Error(cerr))
	}
}

func runCaptureCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "idle", &captureIdle, fileCfg.Capture.IdleSeconds)

	cfg := model.Config{IdleSeconds: captureIdle}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	sessionID := store.NewSessionID()
	tracker := wpm.NewTracker(time.Duration(cfg.IdleSeconds) * time.Second)
	logger.Info("capture started", zap.String("session", sessionID))

	m := tui.NewModel(st, sessionID, tracker, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	// The burst ends with the program.
	if err := st.SetWPM(context.Background(), 0); err != nil {
		logger.Warn("failed to reset wpm", zap.Error(err))
	}
	return nil
}

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the typed text",
		Args:  cobra.NoArgs,
		RunE:  runLogCmd,
	}
	cmd.Flags().BoolVar(&logRaw, "raw", false, "print raw log lines")
	return cmd
}

func runLogCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	lines, err := st.Log(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read log: %w", err)
	}
	out := cmd.OutOrStdout()
	if logRaw {
		for _, line := range lines {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}
	text := keylog.Typed(keylog.Parse(lines))
	if _, err := fmt.Fprintln(out, wrapText(text, terminalWidth(out))); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show the typing habits report",
		Args:  cobra.NoArgs,
		RunE:  runMetricsCmd,
	}
	cmd.Flags().IntVar(&metricsTop, "top", defaultTopKeys, "number of keys in the frequency table")
	cmd.Flags().StringVar(&metricsFormat, "format", formatText, "output format (text, json, yaml)")
	return cmd
}

func runMetricsCmd(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(metricsFormat); err != nil {
		return err
	}
	if metricsTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	lines, err := st.Log(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read log: %w", err)
	}
	report := metrics.Compute(lines)
	out := cmd.OutOrStdout()
	if metricsFormat != formatText {
		payload := metricsOutput{MetricsReport: report, TopKeys: stats.TopKeysByFrequency(report.KeyCounts, metricsTop)}
		return encode(out, metricsFormat, payload)
	}
	if err := stats.RenderMetrics(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderKeyTable(out, report, metricsTop); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderActivity(out, keylog.Parse(lines), defaultActivityWindow); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the keystroke log",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.ClearLog(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear log: %w", err)
	}
	logger.Info("log cleared", zap.String("path", dbPath))
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Log cleared."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file|-]",
		Short: "Import raw \"Key pressed:\" log lines",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	source := "-"
	if len(args) == 1 && args[0] != "-" {
		source = args[0]
		f, err := os.Open(source)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", source, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				// Best-effort close of a read-only file.
				_ = cerr
			}
		}()
		in = f
	}
	lines, err := readLines(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	sessionID := store.NewSessionID()
	imported, skipped, err := st.AppendLines(cmd.Context(), sessionID, lines, time.Now())
	if err != nil {
		return fmt.Errorf("failed to import log: %w", err)
	}
	if skipped > 0 {
		logger.Warn("skipped malformed lines", zap.Int("count", skipped), zap.String("source", source))
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d keystrokes (%d skipped) into session %s\n", imported, skipped, sessionID); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List capture and import sessions",
		Args:  cobra.NoArgs,
		RunE:  runSessionsCmd,
	}
	cmd.Flags().StringVar(&sessionsFormat, "format", formatText, "output format (text, json, yaml)")
	return cmd
}

func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(sessionsFormat); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	sessions, err := st.ListSessions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if sessionsFormat != formatText {
		return encode(cmd.OutOrStdout(), sessionsFormat, sessions)
	}
	if err := stats.RenderSessions(cmd.OutOrStdout(), sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Open the interactive report viewer",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addClassifyConfigFlags(cmd)
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveClassifyConfig(cmd)
	if err != nil {
		return err
	}
	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	m := statsui.NewModel(st, cfg, classifier, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
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
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typestyle configuration
# Uncomment a value to enable it. CLI flags override config values.

[capture]
# idle-seconds = %d       # Seconds without typing before WPM resets

[classify]
# source = %q            # Text fed to the classifier: raw log lines or keys
# format = %q           # Output format: text, json or yaml
# lexicon = ""             # Extra word<TAB>weight sentiment lexicon
# limit = %d               # Maximum number of categories

[log]
# level = %q             # debug, info, warn or error
`,
		defaultIdleSeconds,
		stats.SourceRaw,
		formatText,
		defaultLimit,
		logging.DefaultLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.IdleSeconds <= 0 {
		return fmt.Errorf("--idle must be > 0")
	}
	return nil
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultLogWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultLogWidth
	}
	return width
}

func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}
