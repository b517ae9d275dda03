package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/wilbur182/grudge/internal/app"
	"github.com/wilbur182/grudge/internal/config"
	"github.com/wilbur182/grudge/internal/features"
	"github.com/wilbur182/grudge/internal/journal"
	"github.com/wilbur182/grudge/internal/keymap"
	"github.com/wilbur182/grudge/internal/plugin"
	"github.com/wilbur182/grudge/internal/plugins/todos"
	"github.com/wilbur182/grudge/internal/store"
	"github.com/wilbur182/grudge/internal/styles"
)

// Version is set at build time via ldflags.
var Version = ""

var (
	configPath   = flag.String("config", "", "path to config file")
	filePath     = flag.String("file", "", "path to the todo file")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	introFlag    = flag.Bool("intro", false, "replay the intro splash")
	kindFlag     = flag.Bool("kind", false, "complete todos with a single ordinary click")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: grudge [options] [command]\n\n")
		fmt.Fprintf(os.Stderr, "A todo list whose done control does not want to be clicked.\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  stats    print journal aggregates and exit\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if *versionFlag || *shortVersion {
		fmt.Printf("grudge version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	if flag.Arg(0) == "stats" {
		os.Exit(runStats())
	}

	logFile, logger := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		// A broken config file should not keep the app from starting.
		fmt.Fprintf(os.Stderr, "grudge: config unreadable, using defaults: %v\n", err)
		logger.Warn("config unreadable, using defaults", "error", err)
		cfg = config.Default()
	}

	for _, ct := range cfg.UI.Theme.Custom {
		if ct.Name == "" {
			continue
		}
		styles.RegisterTheme(styles.DeriveTheme(ct.Name, ct.DisplayName, ct.Base, ct.Colors))
	}
	if !styles.IsValidTheme(cfg.UI.Theme.Name) {
		logger.Warn("unknown theme in config, using default", "theme", cfg.UI.Theme.Name)
	}
	styles.ApplyThemeWithOverrides(cfg.UI.Theme.Name, cfg.UI.Theme.Overrides)

	features.Init(cfg)
	for name := range cfg.Features.Flags {
		if !features.IsKnown(name) {
			logger.Warn("ignoring unknown feature flag", "flag", name)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "intro":
			features.SetOverride(features.IntroSplash.Name, *introFlag)
		case "kind":
			features.SetOverride(features.KindControls.Name, *kindFlag)
		}
	})

	storePath := *filePath
	if storePath == "" {
		storePath = store.DefaultPath()
	}
	st := store.New(storePath)

	var jnl *journal.Journal
	if cfg.Journal.Enabled {
		jnl, err = journal.Open(journal.DefaultPath())
		if err != nil {
			logger.Warn("journal unavailable", "error", err)
			jnl = nil
		}
	}
	if jnl != nil {
		defer jnl.Close()
	}

	km := keymap.NewRegistry()
	km.ApplyOverrides(cfg.Keymap.Overrides)

	registry := plugin.NewRegistry(&plugin.Context{
		ConfigDir: config.ConfigDir(),
		Config:    cfg,
		Store:     st,
		Journal:   jnl,
		Logger:    logger,
		Keymap:    km,
	})
	registry.Register(todos.New())
	defer registry.Stop()

	saver := config.NewAsyncSaver(logger)
	defer saver.Close()

	model := app.New(app.Options{
		Config:   cfg,
		Registry: registry,
		Keymap:   km,
		Saver:    saver,
		Version:  effectiveVersion(Version),
		DocName:  filepath.Base(storePath),
		Debug:    *debugFlag,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "grudge: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging opens the debug log and builds the process logger. The
// TUI owns stdout and stderr, so when the log file cannot be opened the
// logger writes nowhere rather than over the interface.
func setupLogging(debugMode bool) (*os.File, *slog.Logger) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, slog.New(slog.NewTextHandler(io.Discard, opts))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, slog.New(slog.NewTextHandler(io.Discard, opts))
	}
	return f, slog.New(slog.NewTextHandler(f, opts))
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// runStats prints the journal's lifetime aggregates to stdout.
func runStats() int {
	jnl, err := journal.Open(journal.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "grudge: open journal: %v\n", err)
		return 1
	}
	defer jnl.Close()

	s, err := jnl.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "grudge: read journal: %v\n", err)
		return 1
	}

	width := 60
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		width = w
	}
	if width > 72 {
		width = 72
	}

	rows := []struct {
		label string
		count int64
	}{
		{"clicks", s.Clicks},
		{"escapes", s.Escapes},
		{"confirms", s.Confirms},
		{"cancels", s.Cancels},
		{"completions", s.Completions},
	}

	var maxCount int64
	for _, r := range rows {
		if r.count > maxCount {
			maxCount = r.count
		}
	}

	fmt.Println("What the done control has cost you")
	fmt.Println()
	barWidth := width - 26
	if barWidth < 8 {
		barWidth = 8
	}
	for _, r := range rows {
		fmt.Printf("  %-12s %7d %s\n", r.label, r.count, bar(r.count, maxCount, barWidth))
	}
	fmt.Println()
	if s.Completions > 0 {
		fmt.Printf("  %.1f clicks per completion on average\n", s.AvgClicksPerCompletion)
	} else {
		fmt.Println("  Nothing completed yet. The control is winning.")
	}

	if st := openTodoStore(); st != nil {
		open, done := st.Counts()
		fmt.Printf("  %d todos open, %d done\n", open, done)
		printContested(jnl, st, width)
	}
	return 0
}

// openTodoStore loads the todo list the stats join against. Stats still
// print without it; the inventory and contested sections just disappear.
func openTodoStore() *store.Store {
	path := *filePath
	if path == "" {
		path = store.DefaultPath()
	}
	st := store.New(path)
	if err := st.Load(); err != nil {
		return nil
	}
	return st
}

// printContested lists the open todos that have soaked up the most
// clicks, joining the journal's per-todo counts with the current list.
func printContested(jnl *journal.Journal, st *store.Store, width int) {
	type fought struct {
		text    string
		clicks  int64
		escapes int64
	}
	var list []fought
	for _, t := range st.List() {
		if t.Completed {
			continue
		}
		counts, err := jnl.EventsForTodo(t.ID)
		if err != nil || counts[journal.EventClick] == 0 {
			continue
		}
		list = append(list, fought{
			text:    t.Text,
			clicks:  counts[journal.EventClick],
			escapes: counts[journal.EventEscape],
		})
	}
	if len(list) == 0 {
		return
	}
	sort.Slice(list, func(i, j int) bool { return list[i].clicks > list[j].clicks })
	if len(list) > 3 {
		list = list[:3]
	}

	fmt.Println()
	fmt.Println("Still open, still fighting")
	for _, f := range list {
		text := f.text
		if maxText := width - 26; maxText > 8 {
			text = runewidth.Truncate(text, maxText, "…")
		}
		fmt.Printf("  %3d clicks, %2d dodges  %s\n", f.clicks, f.escapes, text)
	}
}

func bar(count, maxCount int64, width int) string {
	if maxCount == 0 || count == 0 {
		return ""
	}
	n := int(count * int64(width) / maxCount)
	if n < 1 {
		n = 1
	}
	out := make([]rune, n)
	for i := range out {
		out[i] = '█'
	}
	return string(out)
}

// effectiveVersion returns the build version, falling back to module
// build info for go-install builds.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}
	return "devel"
}
