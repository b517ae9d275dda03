package app

import (
	"math"
	"testing"
	"time"
)

// driveIntro runs the animation at the fixed frame interval until it
// finishes. The frame cap is far above the real runtime so a regression
// that stalls the animation fails instead of spinning.
func driveIntro(t *testing.T, m *IntroModel) {
	t.Helper()
	const maxFrames = 2000
	for i := 0; i < maxFrames; i++ {
		if m.Finished() {
			return
		}
		m.Update(introFrame)
	}
	t.Fatalf("intro did not finish within %d frames", maxFrames)
}

func TestIntroModel_Update(t *testing.T) {
	m := NewIntroModel("todos.json")

	if !m.Active {
		t.Fatal("NewIntroModel should start active")
	}
	if m.Done {
		t.Fatal("NewIntroModel should not start done")
	}

	driveIntro(t, &m)

	if !m.Done {
		t.Error("intro should be done after the animation settles")
	}
	for i, l := range m.Letters {
		if math.Abs(l.CurrentX-l.TargetX) > 0.1 {
			t.Errorf("letter %d x = %.2f, want %.2f", i, l.CurrentX, l.TargetX)
		}
		if !l.ReachedTarget {
			t.Errorf("letter %d never reached its overshoot point", i)
		}
	}
	if m.DocOpacity != 1.0 {
		t.Errorf("doc opacity = %.2f, want 1.0", m.DocOpacity)
	}
}

func TestIntroModel_NoDocName(t *testing.T) {
	m := NewIntroModel("")

	driveIntro(t, &m)

	if !m.Finished() {
		t.Error("intro without a doc name should finish once letters settle")
	}
	if got := m.DocNameView(); got != "" {
		t.Errorf("DocNameView() = %q, want empty", got)
	}
}

func TestIntroModel_LetterStagger(t *testing.T) {
	m := NewIntroModel("todos.json")

	if got, want := len(m.Letters), len("Grudge"); got != want {
		t.Fatalf("letter count = %d, want %d", got, want)
	}
	for i, l := range m.Letters {
		if want := time.Duration(i) * 80 * time.Millisecond; l.Delay != want {
			t.Errorf("letter %d delay = %v, want %v", i, l.Delay, want)
		}
		if l.TargetX != float64(i) {
			t.Errorf("letter %d target x = %.1f, want %.1f", i, l.TargetX, float64(i))
		}
		if l.CurrentX >= 0 {
			t.Errorf("letter %d should start off-screen, got x = %.1f", i, l.CurrentX)
		}
	}
}

func TestIntroModel_Skip(t *testing.T) {
	m := NewIntroModel("todos.json")

	m.Skip()

	if !m.Finished() {
		t.Fatal("Skip should leave the intro finished")
	}
	for i, l := range m.Letters {
		if l.CurrentX != l.TargetX {
			t.Errorf("letter %d x = %.2f after skip, want %.2f", i, l.CurrentX, l.TargetX)
		}
		if l.CurrentColor != l.EndColor {
			t.Errorf("letter %d color not snapped to end color after skip", i)
		}
	}
	if m.DocOpacity != 1.0 {
		t.Errorf("doc opacity = %.2f after skip, want 1.0", m.DocOpacity)
	}
	if m.DocNameView() == "" {
		t.Error("DocNameView() should render after skip")
	}
}

func TestIntroModel_InactiveRendersNothing(t *testing.T) {
	m := IntroModel{Active: false}
	if got := m.View(); got != "" {
		t.Errorf("View() = %q for inactive intro, want empty", got)
	}
}

func TestIntroModel_DocFadeRampsUp(t *testing.T) {
	m := NewIntroModel("todos.json")

	// Run until the letters settle, then sample the fade mid-ramp.
	const maxFrames = 2000
	for i := 0; i < maxFrames && !m.Done; i++ {
		m.Update(introFrame)
	}
	if !m.Done {
		t.Fatal("letters never settled")
	}

	m.Update(introFrame)
	mid := m.DocOpacity
	if mid <= 0 || mid >= 1.0 {
		t.Fatalf("opacity one frame into the fade = %.3f, want between 0 and 1", mid)
	}

	driveIntro(t, &m)
	if m.DocOpacity != 1.0 {
		t.Errorf("final opacity = %.2f, want 1.0", m.DocOpacity)
	}
}
