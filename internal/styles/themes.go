package styles

import (
	"regexp"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ColorPalette is the full color assignment of one theme. Fields hold hex
// strings, not lipgloss colors, so config overrides can be layered on
// before the palette is applied.
type ColorPalette struct {
	Primary, Secondary, Accent string

	Success, Warning, Error, Info string

	TextPrimary, TextSecondary, TextMuted, TextSubtle string
	TextSelection, TextHighlight, TextInverse         string

	BgPrimary, BgSecondary, BgTertiary, BgOverlay string

	BorderNormal, BorderActive, BorderMuted string

	ButtonHover, Link                string
	ToastSuccessText, ToastErrorText string

	DangerLight, DangerDark, DangerBright, DangerHover string

	SyntaxTheme   string // chroma style name
	MarkdownTheme string // glamour style name
}

// Theme pairs a palette with its registry name and the label pickers show.
type Theme struct {
	Name        string
	DisplayName string
	Colors      ColorPalette
}

// DefaultTheme is the stock dark theme and the fallback for unknown names.
var DefaultTheme = Theme{
	Name:        "default",
	DisplayName: "Default Dark",
	Colors: ColorPalette{
		Primary: "#7C3AED", Secondary: "#3B82F6", Accent: "#F59E0B",
		Success: "#10B981", Warning: "#F59E0B", Error: "#EF4444", Info: "#3B82F6",
		TextPrimary: "#F9FAFB", TextSecondary: "#9CA3AF", TextMuted: "#6B7280", TextSubtle: "#4B5563",
		TextSelection: "#F9FAFB", TextHighlight: "#E5E7EB", TextInverse: "#FFFFFF",
		BgPrimary: "#111827", BgSecondary: "#1F2937", BgTertiary: "#374151", BgOverlay: "#00000080",
		BorderNormal: "#374151", BorderActive: "#7C3AED", BorderMuted: "#1F2937",
		ButtonHover: "#9D174D", Link: "#60A5FA",
		ToastSuccessText: "#000000", ToastErrorText: "#FFFFFF",
		DangerLight: "#FCA5A5", DangerDark: "#7F1D1D", DangerBright: "#DC2626", DangerHover: "#B91C1C",
		SyntaxTheme: "monokai", MarkdownTheme: "dark",
	},
}

// builtins holds every shipped theme. Palette values follow each scheme's
// published colors.
var builtins = []Theme{
	DefaultTheme,
	{
		Name:        "dracula",
		DisplayName: "Dracula",
		Colors: ColorPalette{
			Primary: "#BD93F9", Secondary: "#8BE9FD", Accent: "#FFB86C",
			Success: "#50FA7B", Warning: "#FFB86C", Error: "#FF5555", Info: "#8BE9FD",
			TextPrimary: "#F8F8F2", TextSecondary: "#BFBFBF", TextMuted: "#6272A4", TextSubtle: "#44475A",
			TextSelection: "#F8F8F2", TextHighlight: "#F8F8F2", TextInverse: "#F8F8F2",
			BgPrimary: "#282A36", BgSecondary: "#343746", BgTertiary: "#44475A", BgOverlay: "#00000080",
			BorderNormal: "#44475A", BorderActive: "#BD93F9", BorderMuted: "#343746",
			ButtonHover: "#FF79C6", Link: "#8BE9FD",
			ToastSuccessText: "#282A36", ToastErrorText: "#F8F8F2",
			DangerLight: "#FFADAD", DangerDark: "#3D1F1F", DangerBright: "#FF5555", DangerHover: "#E63E3E",
			SyntaxTheme: "dracula", MarkdownTheme: "dark",
		},
	},
	{
		Name:        "molokai",
		DisplayName: "Molokai",
		Colors: ColorPalette{
			Primary: "#F92672", Secondary: "#66D9EF", Accent: "#A6E22E",
			Success: "#A6E22E", Warning: "#FD971F", Error: "#F92672", Info: "#66D9EF",
			TextPrimary: "#F8F8F2", TextSecondary: "#CFD0C2", TextMuted: "#75715E", TextSubtle: "#465457",
			TextSelection: "#F8F8F2", TextHighlight: "#E6DB74", TextInverse: "#F8F8F2",
			BgPrimary: "#1B1D1E", BgSecondary: "#272822", BgTertiary: "#3E3D32", BgOverlay: "#00000080",
			BorderNormal: "#465457", BorderActive: "#F92672", BorderMuted: "#3E3D32",
			ButtonHover: "#F92672", Link: "#66D9EF",
			ToastSuccessText: "#1B1D1E", ToastErrorText: "#F8F8F2",
			DangerLight: "#F8A0B8", DangerDark: "#3D0F1E", DangerBright: "#F92672", DangerHover: "#D91E63",
			SyntaxTheme: "monokai", MarkdownTheme: "dark",
		},
	},
	{
		Name:        "nord",
		DisplayName: "Nord",
		Colors: ColorPalette{
			Primary: "#88C0D0", Secondary: "#81A1C1", Accent: "#EBCB8B",
			Success: "#A3BE8C", Warning: "#EBCB8B", Error: "#BF616A", Info: "#88C0D0",
			TextPrimary: "#D8DEE9", TextSecondary: "#E5E9F0", TextMuted: "#4C566A", TextSubtle: "#434C5E",
			TextSelection: "#D8DEE9", TextHighlight: "#ECEFF4", TextInverse: "#ECEFF4",
			BgPrimary: "#2E3440", BgSecondary: "#3B4252", BgTertiary: "#434C5E", BgOverlay: "#2E3440CC",
			BorderNormal: "#4C566A", BorderActive: "#88C0D0", BorderMuted: "#3B4252",
			ButtonHover: "#5E81AC", Link: "#88C0D0",
			ToastSuccessText: "#2E3440", ToastErrorText: "#E5E9F0",
			DangerLight: "#D08770", DangerDark: "#3B2A25", DangerBright: "#BF616A", DangerHover: "#A5545C",
			SyntaxTheme: "nord", MarkdownTheme: "dark",
		},
	},
	{
		Name:        "solarized-dark",
		DisplayName: "Solarized Dark",
		Colors: ColorPalette{
			Primary: "#268BD2", Secondary: "#2AA198", Accent: "#B58900",
			Success: "#859900", Warning: "#B58900", Error: "#DC322F", Info: "#268BD2",
			TextPrimary: "#93A1A1", TextSecondary: "#839496", TextMuted: "#586E75", TextSubtle: "#073642",
			TextSelection: "#93A1A1", TextHighlight: "#FDF6E3", TextInverse: "#FDF6E3",
			BgPrimary: "#002B36", BgSecondary: "#073642", BgTertiary: "#002B36", BgOverlay: "#00181ECC",
			BorderNormal: "#586E75", BorderActive: "#268BD2", BorderMuted: "#073642",
			ButtonHover: "#CB4B16", Link: "#268BD2",
			ToastSuccessText: "#FDF6E3", ToastErrorText: "#FDF6E3",
			DangerLight: "#E8A0A0", DangerDark: "#2A1515", DangerBright: "#DC322F", DangerHover: "#C12926",
			SyntaxTheme: "solarized-dark", MarkdownTheme: "dark",
		},
	},
	{
		Name:        "tokyo-night",
		DisplayName: "Tokyo Night",
		Colors: ColorPalette{
			Primary: "#7AA2F7", Secondary: "#BB9AF7", Accent: "#FF9E64",
			Success: "#9ECE6A", Warning: "#E0AF68", Error: "#F7768E", Info: "#7DCFFF",
			TextPrimary: "#C0CAF5", TextSecondary: "#A9B1D6", TextMuted: "#565F89", TextSubtle: "#414868",
			TextSelection: "#C0CAF5", TextHighlight: "#C0CAF5", TextInverse: "#C0CAF5",
			BgPrimary: "#1A1B26", BgSecondary: "#24283B", BgTertiary: "#414868", BgOverlay: "#15161ECC",
			BorderNormal: "#565F89", BorderActive: "#7AA2F7", BorderMuted: "#24283B",
			ButtonHover: "#BB9AF7", Link: "#73DACA",
			ToastSuccessText: "#15161E", ToastErrorText: "#C0CAF5",
			DangerLight: "#F7A8B8", DangerDark: "#2D1520", DangerBright: "#F7768E", DangerHover: "#E05F77",
			SyntaxTheme: "tokyo-night", MarkdownTheme: "dark",
		},
	},
}

// registry is populated from builtins before any init function runs, so
// the package init in styles.go can already apply the default theme.
var registry = func() map[string]Theme {
	m := make(map[string]Theme, len(builtins))
	for _, t := range builtins {
		m[t.Name] = t
	}
	return m
}()

var (
	themeMu sync.RWMutex
	current Theme
)

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// IsValidHexColor reports whether hex is a #RRGGBB or #RRGGBBAA color.
func IsValidHexColor(hex string) bool {
	return hexPattern.MatchString(hex)
}

// IsValidTheme reports whether name is registered.
func IsValidTheme(name string) bool {
	themeMu.RLock()
	defer themeMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// GetTheme returns the named theme, or the default theme for unknown
// names.
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if t, ok := registry[name]; ok {
		return t
	}
	return DefaultTheme
}

// GetCurrentTheme returns the active theme, config overrides included.
func GetCurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return current
}

// GetCurrentThemeName returns the active theme's registry name.
func GetCurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return current.Name
}

// ListThemes returns all registered theme names, sorted.
func ListThemes() []string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterTheme adds or replaces a theme. It does not change the active
// theme; call ApplyTheme to switch.
func RegisterTheme(t Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	registry[t.Name] = t
}

// DeriveTheme builds a theme from a base theme's palette with color
// overrides applied, ready for RegisterTheme. Unknown base names derive
// from the default theme.
func DeriveTheme(name, displayName, base string, colors map[string]string) Theme {
	t := GetTheme(base)
	t.Name = name
	t.DisplayName = displayName
	if t.DisplayName == "" {
		t.DisplayName = name
	}
	t.Colors.applyOverrides(colors)
	return t
}

// ApplyTheme activates the named theme, rebuilding every color and style
// variable. Unknown names activate the default theme.
func ApplyTheme(name string) {
	ApplyThemeWithOverrides(name, nil)
}

// ApplyThemeWithOverrides activates the named theme with config color
// overrides layered on top of its palette.
func ApplyThemeWithOverrides(name string, overrides map[string]string) {
	theme := GetTheme(name)
	theme.Colors.applyOverrides(overrides)

	themeMu.Lock()
	current = theme
	themeMu.Unlock()

	setPalette(theme.Colors)
	rebuildStyles()
}

// overrideTargets maps config override keys to their palette fields. The
// keys are what a config file's ui.theme.overrides object may name.
func (p *ColorPalette) overrideTargets() map[string]*string {
	return map[string]*string{
		"primary":          &p.Primary,
		"secondary":        &p.Secondary,
		"accent":           &p.Accent,
		"success":          &p.Success,
		"warning":          &p.Warning,
		"error":            &p.Error,
		"info":             &p.Info,
		"textPrimary":      &p.TextPrimary,
		"textSecondary":    &p.TextSecondary,
		"textMuted":        &p.TextMuted,
		"textSubtle":       &p.TextSubtle,
		"textSelection":    &p.TextSelection,
		"textHighlight":    &p.TextHighlight,
		"textInverse":      &p.TextInverse,
		"bgPrimary":        &p.BgPrimary,
		"bgSecondary":      &p.BgSecondary,
		"bgTertiary":       &p.BgTertiary,
		"bgOverlay":        &p.BgOverlay,
		"borderNormal":     &p.BorderNormal,
		"borderActive":     &p.BorderActive,
		"borderMuted":      &p.BorderMuted,
		"buttonHover":      &p.ButtonHover,
		"link":             &p.Link,
		"toastSuccessText": &p.ToastSuccessText,
		"toastErrorText":   &p.ToastErrorText,
		"dangerLight":      &p.DangerLight,
		"dangerDark":       &p.DangerDark,
		"dangerBright":     &p.DangerBright,
		"dangerHover":      &p.DangerHover,
		"syntaxTheme":      &p.SyntaxTheme,
		"markdownTheme":    &p.MarkdownTheme,
	}
}

// applyOverrides writes valid overrides into the palette. Unknown keys
// and malformed colors are ignored; the two theme-name keys take any
// string.
func (p *ColorPalette) applyOverrides(overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}
	targets := p.overrideTargets()
	for key, value := range overrides {
		dst, ok := targets[key]
		if !ok {
			continue
		}
		if key != "syntaxTheme" && key != "markdownTheme" && !IsValidHexColor(value) {
			continue
		}
		*dst = value
	}
}

// setPalette assigns the package color variables from the palette. Fields
// a custom theme leaves empty fall back to a sensible sibling instead of
// keeping the previous theme's value.
func setPalette(c ColorPalette) {
	pick := func(v, fallback string) lipgloss.Color {
		if v == "" {
			v = fallback
		}
		return lipgloss.Color(v)
	}

	Primary = lipgloss.Color(c.Primary)
	Secondary = lipgloss.Color(c.Secondary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Warning = lipgloss.Color(c.Warning)
	Error = lipgloss.Color(c.Error)
	Info = lipgloss.Color(c.Info)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)
	TextSubtle = lipgloss.Color(c.TextSubtle)
	TextSelectionColor = pick(c.TextSelection, c.TextPrimary)
	TextHighlight = pick(c.TextHighlight, c.TextPrimary)
	TextInverse = pick(c.TextInverse, c.TextPrimary)

	BgPrimary = lipgloss.Color(c.BgPrimary)
	BgSecondary = lipgloss.Color(c.BgSecondary)
	BgTertiary = lipgloss.Color(c.BgTertiary)
	BgOverlay = lipgloss.Color(c.BgOverlay)

	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)
	BorderMuted = lipgloss.Color(c.BorderMuted)

	ButtonHoverColor = pick(c.ButtonHover, c.Primary)
	LinkColor = pick(c.Link, c.Secondary)
	ToastSuccessTextColor = pick(c.ToastSuccessText, c.BgPrimary)
	ToastErrorTextColor = pick(c.ToastErrorText, c.TextPrimary)

	DangerLight = pick(c.DangerLight, c.Error)
	DangerDark = pick(c.DangerDark, c.BgSecondary)
	DangerBright = pick(c.DangerBright, c.Error)
	DangerHover = pick(c.DangerHover, c.Error)

	ScrollbarTrackColor = lipgloss.Color(c.BorderMuted)
	ScrollbarThumbColor = lipgloss.Color(c.BorderActive)

	CurrentSyntaxTheme = c.SyntaxTheme
	CurrentMarkdownTheme = c.MarkdownTheme
}

// rebuildStyles recreates every style variable from the current colors.
func rebuildStyles() {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	panel := func(border lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	}
	chip := func(text, bg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(text).Background(bg).Padding(0, 1)
	}
	button := func(text, bg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(text).Background(bg).Padding(0, 2)
	}

	PanelActive = panel(BorderActive)
	PanelInactive = panel(BorderNormal)
	PanelHeader = fg(TextPrimary).Bold(true).MarginBottom(1)
	PanelNoBorder = lipgloss.NewStyle().Padding(0, 1)

	Title = fg(TextPrimary).Bold(true)
	Subtitle = fg(TextHighlight)
	Body = fg(TextPrimary)
	Muted = fg(TextMuted)
	Subtle = fg(TextSubtle)
	Code = fg(Accent)
	Link = fg(LinkColor).Underline(true)
	KeyHint = chip(TextMuted, BgTertiary)
	Logo = fg(Primary).Bold(true)

	ToastSuccess = chip(ToastSuccessTextColor, Success).Bold(true)
	ToastError = chip(ToastErrorTextColor, Error).Bold(true)

	StatusCompleted = fg(Success)
	StatusPending = fg(TextMuted)

	ListItemNormal = fg(TextPrimary)
	ListItemSelected = fg(TextSelectionColor).Background(BgTertiary)
	ListItemFocused = fg(TextPrimary).Background(Primary)
	ListCursor = fg(Primary).Bold(true)

	BarTitle = fg(TextPrimary).Bold(true)
	BarText = fg(TextMuted)
	BarChip = chip(TextMuted, BgTertiary)
	BarChipActive = chip(TextPrimary, Primary).Bold(true)

	FuzzyMatchChar = fg(Primary).Bold(true)
	PaletteEntry = fg(TextPrimary)
	PaletteEntrySelected = fg(TextSelectionColor).Background(BgTertiary)
	PaletteKey = chip(TextMuted, BgTertiary)

	Footer = fg(TextMuted).Background(BgSecondary)
	Header = lipgloss.NewStyle().Background(BgSecondary)

	ModalOverlay = lipgloss.NewStyle().Background(BgOverlay)
	ModalBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Background(BgSecondary).
		Padding(1, 2)
	ModalTitle = fg(TextPrimary).Bold(true).MarginBottom(1)

	Button = button(TextSecondary, BgTertiary)
	ButtonFocused = button(TextPrimary, Primary).Bold(true)
	ButtonHover = button(TextPrimary, ButtonHoverColor)

	ButtonDanger = button(DangerLight, DangerDark)
	ButtonDangerFocused = button(TextInverse, DangerBright).Bold(true)
	ButtonDangerHover = button(TextInverse, DangerHover)
}

// GetSyntaxTheme returns the active theme's chroma style name.
func GetSyntaxTheme() string {
	return CurrentSyntaxTheme
}

// GetMarkdownTheme returns the active theme's glamour style name.
func GetMarkdownTheme() string {
	return CurrentMarkdownTheme
}
