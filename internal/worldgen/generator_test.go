package worldgen

import (
	"testing"

	"voxelcore/internal/voxel"
)

func TestGenerateIsDeterministic(t *testing.T) {
	reg := voxel.NewRegistry()

	gen1 := New(42, reg)
	c1 := voxel.NewChunk(voxel.Coord{X: 0, Y: 0})
	gen1.Generate(c1)

	gen2 := New(42, reg)
	c2 := voxel.NewChunk(voxel.Coord{X: 0, Y: 0})
	gen2.Generate(c2)

	for i := 0; i < voxel.BlockCount; i++ {
		if c1.BlockAtIndex(i).TypeIndex != c2.BlockAtIndex(i).TypeIndex {
			t.Fatalf("generation mismatch at block index %d: %d vs %d (S1 determinism violated)",
				i, c1.BlockAtIndex(i).TypeIndex, c2.BlockAtIndex(i).TypeIndex)
		}
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	reg := voxel.NewRegistry()
	c1 := voxel.NewChunk(voxel.Coord{X: 0, Y: 0})
	New(1, reg).Generate(c1)
	c2 := voxel.NewChunk(voxel.Coord{X: 0, Y: 0})
	New(2, reg).Generate(c2)

	same := true
	for i := 0; i < voxel.BlockCount; i++ {
		if c1.BlockAtIndex(i).TypeIndex != c2.BlockAtIndex(i).TypeIndex {
			same = false
			break
		}
	}
	if same {
		t.Fatal("two different seeds produced byte-identical chunks, which is implausible")
	}
}

func TestHeightAtIsWithinBounds(t *testing.T) {
	reg := voxel.NewRegistry()
	gen := New(7, reg)
	for wx := -50; wx < 50; wx += 13 {
		for wy := -50; wy < 50; wy += 17 {
			h := gen.HeightAt(wx, wy)
			if h < 0 || h > voxel.MaxZ {
				t.Fatalf("HeightAt(%d,%d) = %d out of [0,%d]", wx, wy, h, voxel.MaxZ)
			}
		}
	}
}

func TestGeneratedChunkHasNoOutOfRangeBlockType(t *testing.T) {
	reg := voxel.NewRegistry()
	gen := New(42, reg)
	c := voxel.NewChunk(voxel.Coord{X: 0, Y: 0})
	gen.Generate(c)
	for i := 0; i < voxel.BlockCount; i++ {
		t0 := c.BlockAtIndex(i).TypeIndex
		// Lookup falls back to the air definition for an index outside the
		// table, so a mismatched Index marks an unregistered type.
		if def := reg.Lookup(t0); def.Index != t0 {
			t.Fatalf("block index %d resolves to an unregistered definition", i)
		}
	}
}
