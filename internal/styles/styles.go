// Package styles holds the shared color and style variables every view
// renders with. The variables are package globals rebuilt by ApplyTheme;
// mutation happens only during startup and theme switches, both on the
// update loop.
package styles

import "github.com/charmbracelet/lipgloss"

// Color variables, assigned from the active theme's palette.
var (
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	TextPrimary        lipgloss.Color
	TextSecondary      lipgloss.Color
	TextMuted          lipgloss.Color
	TextSubtle         lipgloss.Color
	TextSelectionColor lipgloss.Color
	TextHighlight      lipgloss.Color
	TextInverse        lipgloss.Color

	BgPrimary   lipgloss.Color
	BgSecondary lipgloss.Color
	BgTertiary  lipgloss.Color
	BgOverlay   lipgloss.Color

	BorderNormal lipgloss.Color
	BorderActive lipgloss.Color
	BorderMuted  lipgloss.Color

	ButtonHoverColor      lipgloss.Color
	LinkColor             lipgloss.Color
	ToastSuccessTextColor lipgloss.Color
	ToastErrorTextColor   lipgloss.Color

	DangerLight  lipgloss.Color
	DangerDark   lipgloss.Color
	DangerBright lipgloss.Color
	DangerHover  lipgloss.Color

	ScrollbarTrackColor lipgloss.Color
	ScrollbarThumbColor lipgloss.Color
)

// Third-party theme names from the active theme.
var (
	CurrentSyntaxTheme   string
	CurrentMarkdownTheme string
)

// Style variables, rebuilt whenever the theme changes.
var (
	PanelActive   lipgloss.Style
	PanelInactive lipgloss.Style
	PanelHeader   lipgloss.Style
	PanelNoBorder lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Code     lipgloss.Style
	Link     lipgloss.Style
	KeyHint  lipgloss.Style
	Logo     lipgloss.Style

	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style

	StatusCompleted lipgloss.Style
	StatusPending   lipgloss.Style

	ListItemNormal   lipgloss.Style
	ListItemSelected lipgloss.Style
	ListItemFocused  lipgloss.Style
	ListCursor       lipgloss.Style

	BarTitle      lipgloss.Style
	BarText       lipgloss.Style
	BarChip       lipgloss.Style
	BarChipActive lipgloss.Style

	FuzzyMatchChar       lipgloss.Style
	PaletteEntry         lipgloss.Style
	PaletteEntrySelected lipgloss.Style
	PaletteKey           lipgloss.Style

	Footer lipgloss.Style
	Header lipgloss.Style

	ModalOverlay lipgloss.Style
	ModalBox     lipgloss.Style
	ModalTitle   lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonHover   lipgloss.Style

	ButtonDanger        lipgloss.Style
	ButtonDangerFocused lipgloss.Style
	ButtonDangerHover   lipgloss.Style
)

// RenderPanel wraps content in a bordered pane with the given outer
// dimensions. Active panes get the accent border.
func RenderPanel(content string, width, height int, active bool) string {
	style := PanelInactive
	if active {
		style = PanelActive
	}
	return style.Width(width - 2).Height(height - 2).Render(content)
}

// The default theme is live before any config is read, so package users
// (and their tests) always see fully built styles.
func init() {
	ApplyTheme("default")
}
