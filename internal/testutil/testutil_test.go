package testutil

import (
	"testing"

	"github.com/banshee-data/irpointer/internal/monitoring"
	"github.com/banshee-data/irpointer/internal/pointing"
)

func TestCenteredSquareProjectsToMiddle(t *testing.T) {
	res, err := pointing.NewEngine(pointing.EngineConfig{}).Compute(CenteredSquare())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	want := pointing.PointingResult{Hit: true, X: 0.5, Y: 0.5}
	if res != want {
		t.Errorf("Compute() = %+v, want %+v", res, want)
	}
}

func TestRectSlots(t *testing.T) {
	ps := Rect(1, 2, 3, 4)
	for i, p := range ps {
		if p.Slot != pointing.SlotIndex(i) || !p.Valid {
			t.Errorf("point %d = %+v", i, p)
		}
	}
	if ps[2].X != 3 || ps[2].Y != 4 {
		t.Errorf("bottom-right = %+v, want (3,4)", ps[2])
	}
	if got := NoPoints().ValidCount(); got != 0 {
		t.Errorf("NoPoints().ValidCount() = %d, want 0", got)
	}
}

func TestMuteLogs(t *testing.T) {
	called := false
	monitoring.SetLogger(func(string, ...interface{}) { called = true })
	defer monitoring.SetLogger(nil)

	t.Run("muted", func(t *testing.T) {
		MuteLogs(t)
		monitoring.Logf("hidden")
	})
	if called {
		t.Error("logger was called while muted")
	}

	monitoring.Logf("visible")
	if !called {
		t.Error("logger was not restored after the test")
	}
}
