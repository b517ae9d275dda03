package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/grudge/internal/styles"
)

// SkeletonTickMsg advances the shimmer one frame.
type SkeletonTickMsg time.Time

// SkeletonTickInterval is the shimmer frame rate.
const SkeletonTickInterval = 80 * time.Millisecond

// shimmerBand is the width of the bright sweep in cells.
const shimmerBand = 6

// Skeleton is the placeholder shown while a list loads: dimmed bars of
// staggered widths with a bright band sweeping across them. It animates
// only between Start and Stop; a tick arriving after Stop is dropped,
// which also ends the tick loop.
type Skeleton struct {
	rows   int
	widths []int // percent of the render width, cycled over rows

	frame   int
	running bool
}

// NewSkeleton returns a skeleton with the given number of bars. widths
// gives each bar's width as a percent of the render width, cycled when
// shorter than rows; nil picks a staggered stock pattern.
func NewSkeleton(rows int, widths []int) Skeleton {
	if len(widths) == 0 {
		widths = []int{85, 60, 75, 55, 80, 65, 70, 50}
	}
	return Skeleton{rows: rows, widths: widths, running: true}
}

// Start arms the animation and schedules the first frame.
func (s *Skeleton) Start() tea.Cmd {
	s.running = true
	return skeletonTick()
}

// Stop ends the animation. The already-scheduled tick still arrives, but
// Update drops it without rescheduling.
func (s *Skeleton) Stop() {
	s.running = false
}

// Update advances the shimmer on tick and keeps the loop going.
func (s *Skeleton) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(SkeletonTickMsg); !ok || !s.running {
		return nil
	}
	s.frame++
	return skeletonTick()
}

func skeletonTick() tea.Cmd {
	return tea.Tick(SkeletonTickInterval, func(t time.Time) tea.Msg {
		return SkeletonTickMsg(t)
	})
}

// View renders the bars at the given content width.
func (s Skeleton) View(width int) string {
	if width < 10 {
		width = 10
	}
	dim := lipgloss.NewStyle().Foreground(styles.TextSubtle)
	bright := lipgloss.NewStyle().Foreground(styles.TextMuted)

	// The band starts fully off the left edge and runs off the right
	// before wrapping, one cell per frame, trailing down the rows.
	span := width + 2*shimmerBand
	bars := make([]string, s.rows)
	for i := range bars {
		w := width * s.widths[i%len(s.widths)] / 100
		if w < 5 {
			w = 5
		}
		if w > width {
			w = width
		}
		start := (s.frame+i*2)%span - shimmerBand
		bars[i] = shimmerBar(w, start, dim, bright)
	}
	return strings.Join(bars, "\n")
}

// shimmerBar renders one bar of width w with the bright band clipped to
// the bar.
func shimmerBar(w, start int, dim, bright lipgloss.Style) string {
	lo, hi := start, start+shimmerBand
	if lo < 0 {
		lo = 0
	}
	if hi > w {
		hi = w
	}
	if lo >= hi {
		return dim.Render(strings.Repeat("░", w))
	}
	var sb strings.Builder
	if lo > 0 {
		sb.WriteString(dim.Render(strings.Repeat("░", lo)))
	}
	sb.WriteString(bright.Render(strings.Repeat("▒", hi-lo)))
	if hi < w {
		sb.WriteString(dim.Render(strings.Repeat("░", w-hi)))
	}
	return sb.String()
}
