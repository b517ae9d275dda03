package todos

import (
	"math/rand/v2"
	"testing"

	"github.com/wilbur182/grudge/internal/interaction"
	"github.com/wilbur182/grudge/internal/ui"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(3, 9))
}

// walkToComplete drives a default-variant control through the whole
// sequence: clicks up to the threshold, then every confirm stage.
func walkToComplete(t *testing.T, c *Control) {
	t.Helper()
	for i := 0; i < interaction.DefaultClickThreshold; i++ {
		c.Click()
	}
	if !c.DialogOpen() {
		t.Fatalf("dialog closed after %d clicks", interaction.DefaultClickThreshold)
	}
	for i := 0; i < interaction.Stages(); i++ {
		c.Confirm()
	}
	if !c.Complete() {
		t.Fatalf("not complete after %d confirms", interaction.Stages())
	}
}

func TestNewControlPanicsWithoutCoordinator(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewControl accepted a nil coordinator")
		}
	}()
	NewControl("x", nil, ControlConfig{})
}

func TestControlDefaultsTuningWhenUnset(t *testing.T) {
	c := NewControl("a", interaction.NewCoordinator(), ControlConfig{})
	for i := 0; i < interaction.DefaultClickThreshold-1; i++ {
		c.Click()
		if c.DialogOpen() {
			t.Fatalf("dialog open after %d clicks with stock tuning", i+1)
		}
	}
	c.Click()
	if !c.DialogOpen() || c.Stage() != 1 {
		t.Errorf("after threshold clicks: open=%v stage=%d, want open at stage 1", c.DialogOpen(), c.Stage())
	}
}

func TestControlHonorsCustomThreshold(t *testing.T) {
	tun := interaction.DefaultTuning()
	tun.ClickThreshold = 1
	c := NewControl("a", interaction.NewCoordinator(), ControlConfig{Tuning: tun})
	c.Click()
	if !c.DialogOpen() {
		t.Error("single click did not open the dialog with threshold 1")
	}
}

func TestCompletionCallbackFiresExactlyOnce(t *testing.T) {
	var fired []string
	c := NewControl("todo-7", interaction.NewCoordinator(), ControlConfig{
		Rand:       testRand(),
		OnComplete: func(id string) { fired = append(fired, id) },
	})

	walkToComplete(t, c)
	if len(fired) != 1 {
		t.Fatalf("callback fired %d times, want 1", len(fired))
	}
	if fired[0] != "todo-7" {
		t.Errorf("callback id = %q, want %q", fired[0], "todo-7")
	}

	// Nothing after completion may fire it again.
	c.Click()
	c.Hover()
	c.Confirm()
	c.CancelDialog()
	if len(fired) != 1 {
		t.Errorf("callback re-fired after completion: %d calls", len(fired))
	}
}

func TestCallbackFiresOnTheCompletionEdgeOnly(t *testing.T) {
	count := 0
	c := NewControl("a", interaction.NewCoordinator(), ControlConfig{
		OnComplete: func(string) { count++ },
	})
	for i := 0; i < interaction.DefaultClickThreshold; i++ {
		c.Click()
		if count != 0 {
			t.Fatalf("callback fired during clicks")
		}
	}
	for i := 0; i < interaction.Stages()-1; i++ {
		c.Confirm()
		if count != 0 {
			t.Fatalf("callback fired at stage %d", i+1)
		}
	}
	c.Confirm()
	if count != 1 {
		t.Errorf("callback count after final confirm = %d, want 1", count)
	}
}

func TestCancelPreservesClicksAndNextClickReopens(t *testing.T) {
	c := NewControl("a", interaction.NewCoordinator(), ControlConfig{})
	for i := 0; i < interaction.DefaultClickThreshold; i++ {
		c.Click()
	}
	c.Confirm() // stage 2
	c.CancelDialog()

	if c.DialogOpen() {
		t.Fatal("dialog still open after cancel")
	}
	if got := c.State().ClickCount; got != interaction.DefaultClickThreshold {
		t.Errorf("ClickCount = %d after cancel, want %d", got, interaction.DefaultClickThreshold)
	}
	c.Click()
	if !c.DialogOpen() || c.Stage() != 1 {
		t.Errorf("post-cancel click: open=%v stage=%d, want reopened at stage 1", c.DialogOpen(), c.Stage())
	}
}

func TestKindControlCompletesOnFirstActivation(t *testing.T) {
	count := 0
	coord := interaction.NewCoordinator()
	c := NewControl("a", coord, ControlConfig{
		Kind:       true,
		OnComplete: func(string) { count++ },
	})
	if !c.Kind() {
		t.Fatal("Kind() = false for kind control")
	}

	c.Hover()
	if c.OffsetX() != 0 || c.State().EscapeCount != 0 {
		t.Error("kind control moved on hover")
	}
	if coord.ActiveID() != "" {
		t.Error("kind control claimed the displacement slot")
	}

	c.Click()
	if !c.Complete() {
		t.Fatal("kind control not complete after one click")
	}
	if c.DialogOpen() {
		t.Error("kind control opened a dialog")
	}
	if count != 1 {
		t.Fatalf("callback count = %d after first click, want 1", count)
	}

	c.Click()
	c.Confirm()
	c.CancelDialog()
	if count != 1 {
		t.Errorf("callback re-fired on a complete kind control: %d calls", count)
	}
}

func TestHoverClaimsActiveSlot(t *testing.T) {
	coord := interaction.NewCoordinator()
	a := NewControl("a", coord, ControlConfig{Rand: testRand()})
	b := NewControl("b", coord, ControlConfig{Rand: testRand()})

	a.Hover()
	if !coord.IsActive("a") {
		t.Fatal("hover did not claim the slot")
	}
	if a.OffsetX() == 0 {
		t.Error("active control renders zero offset after hover")
	}
	if b.OffsetX() != 0 {
		t.Error("inactive control renders a nonzero offset")
	}

	// The slot follows the most recent hover, and the loser renders at
	// zero even though its stored offset survives.
	b.Hover()
	if !coord.IsActive("b") {
		t.Fatal("second hover did not move the slot")
	}
	if a.OffsetX() != 0 {
		t.Errorf("displaced control still renders offset %d", a.OffsetX())
	}
	if a.State().OffsetX == 0 {
		t.Error("losing the slot zeroed the stored offset")
	}
}

func TestResetDisplacementReleasesSlotOnlyForHolder(t *testing.T) {
	coord := interaction.NewCoordinator()
	a := NewControl("a", coord, ControlConfig{Rand: testRand()})
	b := NewControl("b", coord, ControlConfig{Rand: testRand()})

	a.Hover()
	b.Hover()
	a.ResetDisplacement() // stale release, b holds the slot
	if !coord.IsActive("b") {
		t.Error("stale ResetDisplacement evicted the current holder")
	}
	if a.State().OffsetX != 0 || a.State().EscapeCount != 0 {
		t.Errorf("displacement fields survived reset: %+v", a.State())
	}

	b.ResetDisplacement()
	if coord.ActiveID() != "" {
		t.Errorf("slot still held by %q after holder reset", coord.ActiveID())
	}
}

func TestResetDisplacementKeepsProgress(t *testing.T) {
	c := NewControl("a", interaction.NewCoordinator(), ControlConfig{Rand: testRand()})
	c.Click()
	c.Click()
	c.Hover()
	c.ResetDisplacement()
	if got := c.State().ClickCount; got != 2 {
		t.Errorf("ClickCount = %d after displacement reset, want 2", got)
	}
}

func TestResetRearmsCompletionCallback(t *testing.T) {
	count := 0
	c := NewControl("a", interaction.NewCoordinator(), ControlConfig{
		Rand:       testRand(),
		OnComplete: func(string) { count++ },
	})
	walkToComplete(t, c)
	c.Reset()
	if c.Complete() || c.State() != interaction.NewState() {
		t.Fatalf("Reset left residue: %+v", c.State())
	}
	walkToComplete(t, c)
	if count != 2 {
		t.Errorf("callback count after reset and second completion = %d, want 2", count)
	}
}

func TestControlMessageTracksStage(t *testing.T) {
	c := NewControl("a", interaction.NewCoordinator(), ControlConfig{})
	if _, ok := c.Message(); ok {
		t.Error("closed dialog reported a message")
	}
	for i := 0; i < interaction.DefaultClickThreshold; i++ {
		c.Click()
	}
	msgs := interaction.Messages()
	for i := 0; i < interaction.Stages(); i++ {
		msg, ok := c.Message()
		if !ok {
			t.Fatalf("no message at stage %d", c.Stage())
		}
		if msg != msgs[i] {
			t.Errorf("stage %d message = %q, want %q", i+1, msg, msgs[i])
		}
		c.Confirm()
	}
}

func TestGlyphAdvancesOneFramePerClick(t *testing.T) {
	c := NewControl("a", interaction.NewCoordinator(), ControlConfig{})
	if got := c.Glyph(); got != ui.BrailleGlyph(0) {
		t.Errorf("initial glyph = %q, want frame 0", got)
	}
	for i := 1; i <= 10; i++ {
		c.Click()
		if got := c.Glyph(); got != ui.BrailleGlyph(i) {
			t.Errorf("glyph after %d clicks = %q, want frame %d", i, got, i)
		}
	}
}

func TestLabelPaddingShrinksWithClicks(t *testing.T) {
	c := NewControl("a", interaction.NewCoordinator(), ControlConfig{})
	want := []int{3, 3, 2, 2, 1, 1, 1, 1}
	for i, w := range want {
		if got := c.LabelPadding(); got != w {
			t.Errorf("padding after %d clicks = %d, want %d", i, got, w)
		}
		c.Click()
	}
}
