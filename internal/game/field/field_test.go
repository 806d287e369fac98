package field

import "testing"

func newTestField() *Field {
	return New([]string{"alice", "bob"}, 3)
}

func TestField_PlaceActiveAndBench(t *testing.T) {
	f := newTestField()

	active := NewCard("sparkit", 1)
	if err := f.PlaceActive("alice", active); err != nil {
		t.Fatalf("PlaceActive failed: %v", err)
	}
	if err := f.PlaceActive("alice", NewCard("flamikin", 1)); err == nil {
		t.Error("Expected error placing into an occupied active slot")
	}

	b1 := NewCard("flamikin", 1)
	idx, err := f.PlaceBench("alice", b1)
	if err != nil {
		t.Fatalf("PlaceBench failed: %v", err)
	}
	if idx != 1 {
		t.Errorf("Expected first bench slot 1, got %d", idx)
	}

	f.PlaceBench("alice", NewCard("aquaphin", 1))
	f.PlaceBench("alice", NewCard("terrock", 1))
	if _, err := f.PlaceBench("alice", NewCard("sparkit", 1)); err == nil {
		t.Error("Expected error placing onto a full bench")
	}

	ref, ok := f.Locate(b1.InstanceID)
	if !ok || ref.Index != 1 || ref.PlayerID != "alice" {
		t.Errorf("Expected to locate bench card at alice/1, got %+v ok=%v", ref, ok)
	}
}

func TestField_RetreatSwapsPreservingState(t *testing.T) {
	f := newTestField()
	active := NewCard("sparkit", 1)
	active.ApplyDamage(20, 60)
	bench := NewCard("flamikin", 1)
	f.PlaceActive("alice", active)
	f.PlaceBench("alice", bench)

	if err := f.Retreat("alice", 1); err != nil {
		t.Fatalf("Retreat failed: %v", err)
	}
	if f.Active("alice").InstanceID != bench.InstanceID {
		t.Error("Expected benched creature to become active")
	}
	moved := f.Card(Ref{PlayerID: "alice", Index: 1})
	if moved.InstanceID != active.InstanceID {
		t.Error("Expected old active on the bench")
	}
	if moved.DamageTaken != 20 {
		t.Errorf("Expected damage preserved across retreat, got %d", moved.DamageTaken)
	}

	// Round trip restores the original arrangement.
	if err := f.Retreat("alice", 1); err != nil {
		t.Fatalf("Second retreat failed: %v", err)
	}
	if f.Active("alice").InstanceID != active.InstanceID {
		t.Error("Expected original active restored after round trip")
	}
}

func TestField_RemoveCompactsBench(t *testing.T) {
	f := newTestField()
	f.PlaceActive("alice", NewCard("sparkit", 1))
	b1 := NewCard("flamikin", 1)
	b2 := NewCard("aquaphin", 1)
	b3 := NewCard("terrock", 1)
	f.PlaceBench("alice", b1)
	f.PlaceBench("alice", b2)
	f.PlaceBench("alice", b3)

	removed := f.Remove(Ref{PlayerID: "alice", Index: 2})
	if removed.InstanceID != b2.InstanceID {
		t.Error("Expected middle bench card removed")
	}

	bench := f.Bench("alice")
	if len(bench) != 2 {
		t.Fatalf("Expected 2 bench cards after removal, got %d", len(bench))
	}
	if bench[0].InstanceID != b1.InstanceID || bench[1].InstanceID != b3.InstanceID {
		t.Error("Expected bench order preserved after compaction")
	}
	if f.Card(Ref{PlayerID: "alice", Index: 2}).InstanceID != b3.InstanceID {
		t.Error("Expected compaction to shift trailing cards down")
	}
}

func TestField_PromoteToBattle(t *testing.T) {
	f := newTestField()
	f.PlaceActive("alice", NewCard("sparkit", 1))
	bench := NewCard("flamikin", 1)
	f.PlaceBench("alice", bench)

	if err := f.PromoteToBattle("alice", 1); err == nil {
		t.Error("Expected error promoting while active slot occupied")
	}

	f.Remove(Ref{PlayerID: "alice", Index: 0})
	if err := f.PromoteToBattle("alice", 1); err != nil {
		t.Fatalf("PromoteToBattle failed: %v", err)
	}
	if f.Active("alice").InstanceID != bench.InstanceID {
		t.Error("Expected benched creature promoted to active")
	}
	if len(f.Bench("alice")) != 0 {
		t.Error("Expected empty bench after promotion")
	}
}

func TestField_UnknownPlayerPanics(t *testing.T) {
	f := newTestField()
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for unknown player")
		}
	}()
	f.Active("nobody")
}
