package voxel

import "testing"

func TestBlockLightNibbles(t *testing.T) {
	var b Block
	b.SetIndoor(9)
	b.SetOutdoor(3)
	if b.Indoor() != 9 {
		t.Fatalf("indoor = %d, want 9", b.Indoor())
	}
	if b.Outdoor() != 3 {
		t.Fatalf("outdoor = %d, want 3", b.Outdoor())
	}

	b.SetIndoor(200) // clamps to 15
	if b.Indoor() != 15 {
		t.Fatalf("indoor clamp = %d, want 15", b.Indoor())
	}
	// outdoor nibble must be untouched by an indoor write
	if b.Outdoor() != 3 {
		t.Fatalf("outdoor disturbed by SetIndoor: got %d", b.Outdoor())
	}
}

func TestBlockFlags(t *testing.T) {
	var b Block
	if b.IsSky() || b.IsLightDirty() {
		t.Fatal("zero-value block must have no flags set")
	}
	b.SetSky(true)
	b.SetLightDirty(true)
	if !b.IsSky() || !b.IsLightDirty() {
		t.Fatal("flags did not set")
	}
	b.SetSky(false)
	if b.IsSky() {
		t.Fatal("SetSky(false) did not clear")
	}
	if !b.IsLightDirty() {
		t.Fatal("unrelated flag clobbered by SetSky")
	}
}

func TestBlockDigState(t *testing.T) {
	var b Block
	for i := 0; i < 10; i++ {
		b.IncrementDigState()
	}
	if b.DigState() != 7 {
		t.Fatalf("dig state = %d, want saturation at 7", b.DigState())
	}
	b.ResetDigState()
	if b.DigState() != 0 {
		t.Fatalf("dig state after reset = %d, want 0", b.DigState())
	}
}

func TestBlockIsAir(t *testing.T) {
	if !AirBlock.IsAir() {
		t.Fatal("AirBlock.IsAir() must be true")
	}
	b := Block{TypeIndex: 3}
	if b.IsAir() {
		t.Fatal("non-zero type index must not be air")
	}
}
