package worldgen

import "testing"

func TestLatticeValueDeterministic(t *testing.T) {
	a := latticeValue(5, 9, 42)
	b := latticeValue(5, 9, 42)
	if a != b {
		t.Fatal("latticeValue must be a pure function of its inputs")
	}
}

func TestLatticeValueRange(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, -7} {
		for x := int64(0); x < 20; x++ {
			v := latticeValue(x, x*3, seed)
			if v < -1 || v > 1 {
				t.Fatalf("latticeValue(%d,_,%d) = %f out of [-1,1]", x, seed, v)
			}
		}
	}
}

func TestValueNoiseContinuity(t *testing.T) {
	// Exact lattice points should reproduce the lattice value itself.
	v := valueNoise2D(3, 4, 7)
	lat := latticeValue(3, 4, 7)
	if diff := v - lat; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("valueNoise2D at an integer lattice point = %f, want %f", v, lat)
	}
}

func TestOctaveNoiseDeterministic(t *testing.T) {
	a := octaveNoise2D(12.5, -4.25, 99, 4, 0.5, 2.0)
	b := octaveNoise2D(12.5, -4.25, 99, 4, 0.5, 2.0)
	if a != b {
		t.Fatal("octaveNoise2D must be deterministic given identical inputs")
	}
}

func TestSmoothStep3Bounds(t *testing.T) {
	if smoothStep3(-1) != 0 {
		t.Fatal("smoothStep3 must clamp below 0 to 0")
	}
	if smoothStep3(2) != 1 {
		t.Fatal("smoothStep3 must clamp above 1 to 1")
	}
	if got := smoothStep3(0.5); got <= 0 || got >= 1 {
		t.Fatalf("smoothStep3(0.5) = %f, want in (0,1)", got)
	}
}

func TestRangeMapClamped(t *testing.T) {
	if got := rangeMapClamped(0.5, 0, 1, 10, 20); got != 15 {
		t.Fatalf("rangeMapClamped midpoint = %f, want 15", got)
	}
	if got := rangeMapClamped(-5, 0, 1, 10, 20); got != 10 {
		t.Fatalf("rangeMapClamped below range = %f, want clamp to 10", got)
	}
	if got := rangeMapClamped(5, 0, 1, 10, 20); got != 20 {
		t.Fatalf("rangeMapClamped above range = %f, want clamp to 20", got)
	}
}
