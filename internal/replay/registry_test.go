package replay

import "testing"

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	a := newTestSession(threeFrameTrace(), newCountingLoader())
	b := newTestSession(threeFrameTrace(), newCountingLoader())

	reg.Add(a)
	reg.Add(b)
	if reg.Len() != 2 {
		t.Fatalf("Len = %d, want 2", reg.Len())
	}
	if a.ID() == b.ID() {
		t.Error("sessions share an identifier")
	}

	got, err := reg.Get(a.ID())
	if err != nil || got != a {
		t.Errorf("Get(%s) = %v, %v", a.ID(), got, err)
	}

	reg.Remove(a.ID())
	if _, err := reg.Get(a.ID()); err == nil {
		t.Error("removed session still resolvable")
	}
	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1", reg.Len())
	}
}
