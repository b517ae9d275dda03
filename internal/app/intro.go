package app

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/grudge/internal/styles"
)

// introFrame is the animation frame interval. Update is driven with this
// fixed dt so the motion is deterministic regardless of tick jitter.
const introFrame = 16 * time.Millisecond

// IntroModel animates the wordmark on first paint: each letter flies in
// from off-screen left, overshoots its slot, springs back, and settles
// into a gradient. Once the letters settle the document name fades in
// next to them. The whole thing runs in the header line.
type IntroModel struct {
	Active  bool
	Done    bool // letters settled; fade may still be running
	Letters []*IntroLetter

	// DocName is the todo file shown after the wordmark, fading in once
	// the letters have settled.
	DocName      string
	DocOpacity   float64 // 0.0 to 1.0
	docFadeStart time.Duration

	elapsed time.Duration
}

// IntroLetter is one animated rune of the wordmark.
type IntroLetter struct {
	Char     rune
	TargetX  float64
	CurrentX float64

	// Two-phase motion: fly out to OvershootMax first, then spring back.
	ReachedTarget bool
	OvershootMax  float64

	StartColor   RGB
	EndColor     RGB
	CurrentColor RGB

	Delay time.Duration
}

// RGB is a float color channel triple, kept in float space so per-frame
// interpolation doesn't quantize.
type RGB struct {
	R, G, B float64
}

func hexToRGB(hex string) RGB {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return RGB{float64(r), float64(g), float64(b)}
}

// lerp interpolates toward to. t=0 returns c, t=1 returns to; values
// between ease a fraction of the way there.
func (c RGB) lerp(to RGB, t float64) RGB {
	return RGB{
		R: c.R + (to.R-c.R)*t,
		G: c.G + (to.G-c.G)*t,
		B: c.B + (to.B-c.B)*t,
	}
}

func (c RGB) toLipgloss() lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", int(c.R), int(c.G), int(c.B)))
}

// NewIntroModel builds the animation for the wordmark plus the given
// document name. Colors come from the active theme so the splash matches
// whatever the user configured.
func NewIntroModel(docName string) IntroModel {
	const text = "Grudge"
	letters := make([]*IntroLetter, 0, len(text))

	theme := styles.GetCurrentTheme()

	// Final state is an accent-to-warning gradient across the word.
	gradStart := hexToRGB(theme.Colors.Accent)
	gradEnd := hexToRGB(theme.Colors.Warning)

	// Each letter starts in a different theme color and converges on its
	// gradient slot.
	startColors := []string{
		theme.Colors.Error,
		theme.Colors.Secondary,
		theme.Colors.Success,
		theme.Colors.Primary,
		theme.Colors.Info,
		theme.Colors.Accent,
	}

	for i, char := range text {
		t := float64(i) / float64(len(text)-1)
		start := hexToRGB(startColors[i%len(startColors)])

		letters = append(letters, &IntroLetter{
			Char:         char,
			CurrentX:     -15.0 - float64(i)*8.0,
			TargetX:      float64(i),
			OvershootMax: float64(i) * 2.5,
			StartColor:   start,
			EndColor:     gradStart.lerp(gradEnd, t),
			CurrentColor: start,
			Delay:        time.Duration(i) * 80 * time.Millisecond,
		})
	}

	return IntroModel{
		Active:  true,
		Letters: letters,
		DocName: docName,
	}
}

// Update advances the animation by dt. Time is accumulated from dt
// rather than read from the wall clock, so a test can drive the whole
// animation synchronously.
func (m *IntroModel) Update(dt time.Duration) {
	if !m.Active {
		return
	}
	m.elapsed += dt

	allSettled := true
	for _, l := range m.Letters {
		if m.elapsed < l.Delay {
			allSettled = false
			continue
		}

		var target, minSpeed float64
		if !l.ReachedTarget {
			target = l.OvershootMax
			minSpeed = 30.0
			if l.CurrentX >= l.OvershootMax-0.1 {
				l.ReachedTarget = true
			}
		} else {
			target = l.TargetX
			minSpeed = 5.0
		}

		// Proportional approach with a floor so distant letters keep
		// moving, clamped so they never cross the target in one frame.
		dist := target - l.CurrentX
		move := dist * 6.0 * dt.Seconds()
		if floor := minSpeed * dt.Seconds(); math.Abs(dist) > 0.1 && math.Abs(move) < floor {
			move = math.Copysign(floor, dist)
		}
		if math.Abs(move) > math.Abs(dist) {
			move = dist
		}
		l.CurrentX += move

		l.CurrentColor = l.CurrentColor.lerp(l.EndColor, 3.0*dt.Seconds())

		settled := l.ReachedTarget &&
			math.Abs(l.TargetX-l.CurrentX) < 0.1 &&
			math.Abs(l.EndColor.R-l.CurrentColor.R) < 1.0
		if !settled {
			allSettled = false
		}
	}
	if allSettled {
		m.Done = true
	}

	// Document name fade starts only after the letters settle.
	if m.Done && m.DocName != "" && m.DocOpacity < 1.0 {
		if m.docFadeStart == 0 {
			m.docFadeStart = m.elapsed
		}
		const fadeDuration = 300 * time.Millisecond
		m.DocOpacity = math.Min(1.0, (m.elapsed - m.docFadeStart).Seconds()/fadeDuration.Seconds())
	}
}

// Finished reports whether there is nothing left to animate.
func (m IntroModel) Finished() bool {
	if !m.Done {
		return false
	}
	return m.DocName == "" || m.DocOpacity >= 1.0
}

// Skip jumps straight to the settled end state. Bound to any keypress
// during the splash.
func (m *IntroModel) Skip() {
	for _, l := range m.Letters {
		l.CurrentX = l.TargetX
		l.CurrentColor = l.EndColor
		l.ReachedTarget = true
	}
	m.Done = true
	if m.DocName != "" {
		m.DocOpacity = 1.0
	}
}

// View renders the letters at their current positions. The buffer is
// sized to the furthest letter so overshoot never clips.
func (m IntroModel) View() string {
	if !m.Active {
		return ""
	}

	width := len(m.Letters)
	for _, l := range m.Letters {
		if x := int(math.Round(l.CurrentX)); x > width {
			width = x
		}
	}
	width++

	buf := make([]string, width)
	for i := range buf {
		buf[i] = " "
	}
	for _, l := range m.Letters {
		x := int(math.Round(l.CurrentX))
		if x >= 0 && x < width {
			style := lipgloss.NewStyle().Foreground(l.CurrentColor.toLipgloss()).Bold(true)
			buf[x] = style.Render(string(l.Char))
		}
	}
	return strings.Join(buf, "")
}

// DocNameView renders " / <name>" with the current fade opacity applied,
// as a gradient from the theme's highlight color down to its primary.
// Empty until the fade starts.
func (m IntroModel) DocNameView() string {
	if m.DocName == "" || m.DocOpacity <= 0 {
		return ""
	}

	theme := styles.GetCurrentTheme()

	// Fading is compositing against the header background.
	bg := hexToRGB(theme.Colors.BgSecondary)
	light := hexToRGB(theme.Colors.TextHighlight)
	dark := hexToRGB(theme.Colors.Primary)

	prefix := bg.lerp(hexToRGB(theme.Colors.TextSecondary), m.DocOpacity)
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(prefix.toLipgloss()).Render(" / "))

	runes := []rune(m.DocName)
	for i, r := range runes {
		var t float64
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		color := bg.lerp(light.lerp(dark, t), m.DocOpacity)
		b.WriteString(lipgloss.NewStyle().Foreground(color.toLipgloss()).Render(string(r)))
	}
	return b.String()
}

// IntroTickMsg drives one animation frame.
type IntroTickMsg time.Time

func IntroTick() tea.Cmd {
	return tea.Tick(introFrame, func(t time.Time) tea.Msg {
		return IntroTickMsg(t)
	})
}
