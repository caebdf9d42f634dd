package physics

import (
	"testing"

	"voxelcore/internal/voxel"
)

func buildWallChunk(reg *voxel.Registry) *voxel.Store {
	store := voxel.NewStore()
	c := voxel.NewChunk(voxel.Coord{X: 0, Y: 0})
	stone := reg.LookupByName("stone")
	// a wall of stone at x=4, spanning the row the test rays travel through
	for y := 0; y < voxel.SizeY; y++ {
		for z := 0; z < voxel.SizeZ; z++ {
			c.SetBlock(4, y, z, voxel.Block{TypeIndex: stone})
		}
	}
	store.Add(c.Coord, c)
	return store
}

// TestRaycastHitsWall exercises scenario S6: a straight-line ray along +X
// hitting a stone wall at x=4.
func TestRaycastHitsWall(t *testing.T) {
	reg := voxel.NewRegistry()
	store := buildWallChunk(reg)

	start := [3]float32{0.5, 0.5, 80.5}
	dir := [3]float32{1, 0, 0}
	hit := Raycast(store, reg, start, dir, 8)

	if !hit.DidImpact {
		t.Fatal("expected impact, got miss")
	}
	if hit.Distance < 3.49 || hit.Distance > 3.51 {
		t.Errorf("distance = %v, want ~3.5", hit.Distance)
	}
	if hit.Normal != [3]int{-1, 0, 0} {
		t.Errorf("normal = %v, want {-1,0,0}", hit.Normal)
	}
	wx, wy, wz := hit.Block.WorldBlockCoord()
	if wx != 4 || wy != 0 || wz != 80 {
		t.Errorf("hit block = (%d,%d,%d), want (4,0,80)", wx, wy, wz)
	}
}

func TestRaycastMissesBeyondMaxDistance(t *testing.T) {
	reg := voxel.NewRegistry()
	store := buildWallChunk(reg)

	hit := Raycast(store, reg, [3]float32{0.5, 0.5, 80.5}, [3]float32{1, 0, 0}, 2.0)
	if hit.DidImpact {
		t.Fatal("expected miss, wall is past maxDist")
	}
}

func TestRaycastStartingInsideOpaqueBlockHitsImmediately(t *testing.T) {
	reg := voxel.NewRegistry()
	store := buildWallChunk(reg)

	hit := Raycast(store, reg, [3]float32{4.5, 0.5, 80.5}, [3]float32{1, 0, 0}, 8)
	if !hit.DidImpact || hit.Distance != 0 {
		t.Fatalf("expected immediate impact at distance 0, got %+v", hit)
	}
}

func TestRaycastOutsideZRangeMisses(t *testing.T) {
	reg := voxel.NewRegistry()
	store := buildWallChunk(reg)

	hit := Raycast(store, reg, [3]float32{0.5, 0.5, -5}, [3]float32{1, 0, 0}, 8)
	if hit.DidImpact {
		t.Fatal("expected miss, start is below world floor")
	}
}
