package progress

import (
	"errors"
	"sync"
	"testing"
)

func TestNewTracker(t *testing.T) {
	tests := []struct {
		name  string
		label string
		total int
	}{
		{
			name:  "standard tracker",
			label: "Scanning files",
			total: 100,
		},
		{
			name:  "zero total",
			label: "Empty tree",
			total: 0,
		},
		{
			name:  "single file",
			label: "One file",
			total: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(tt.label, tt.total)

			if tracker == nil {
				t.Fatal("NewTracker() returned nil")
			}
			if tracker.bar == nil {
				t.Error("tracker.bar should not be nil")
			}
			if tracker.label != tt.label {
				t.Errorf("tracker.label = %q, want %q", tracker.label, tt.label)
			}

			tracker.Tick()
			tracker.FinishSuccess()
		})
	}
}

func TestNewSpinner(t *testing.T) {
	tracker := NewSpinner("Auditing dependencies...")
	if tracker == nil {
		t.Fatal("NewSpinner() returned nil")
	}
	if tracker.bar == nil {
		t.Error("tracker.bar should not be nil")
	}

	tracker.Tick()
	tracker.FinishError(errors.New("npm missing"))
}

func TestNoopTracker(t *testing.T) {
	tracker := NewNoop()
	if tracker == nil {
		t.Fatal("NewNoop() returned nil")
	}

	// Every method is safe on a bar-less tracker.
	tracker.Tick()
	tracker.FinishSuccess()
	tracker.FinishError(errors.New("ignored"))
}

func TestTrackerConcurrentTicks(t *testing.T) {
	tracker := NewTracker("Concurrent", 50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Tick()
		}()
	}
	wg.Wait()
	tracker.FinishSuccess()
}
