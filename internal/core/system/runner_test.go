package system

import "testing"

type recordingSystem struct {
	phase Phase
	name  string
	log   *[]string
}

func (s *recordingSystem) Phase() Phase { return s.phase }
func (s *recordingSystem) Update(tick int64) {
	*s.log = append(*s.log, s.name)
}

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	// Registered out of phase order on purpose.
	r.Register(&recordingSystem{phase: PhaseCleanup, name: "cleanup", log: &log})
	r.Register(&recordingSystem{phase: PhaseInput, name: "input", log: &log})
	r.Register(&recordingSystem{phase: PhaseCommit, name: "commit", log: &log})
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "update", log: &log})

	r.Tick()

	want := []string{"input", "update", "commit", "cleanup"}
	if len(log) != len(want) {
		t.Fatalf("ran %d systems, expected %d", len(log), len(want))
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("position %d = %q, expected %q", i, log[i], want[i])
		}
	}
}

func TestRunnerStableWithinPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "first", log: &log})
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "second", log: &log})
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "third", log: &log})

	r.Tick()
	r.Tick()

	want := []string{"first", "second", "third", "first", "second", "third"}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("position %d = %q, expected %q", i, log[i], want[i])
		}
	}
}

func TestRunnerTickCount(t *testing.T) {
	r := NewRunner()
	if r.CurrentTick() != 0 {
		t.Fatalf("fresh runner tick = %d", r.CurrentTick())
	}
	r.Tick()
	r.Tick()
	if r.CurrentTick() != 2 {
		t.Errorf("tick = %d, expected 2", r.CurrentTick())
	}
}
