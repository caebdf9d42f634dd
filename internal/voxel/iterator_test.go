package voxel

import "testing"

func TestIteratorVerticalSelfReturnsAtBounds(t *testing.T) {
	c := NewChunk(Coord{0, 0})
	top := Iterator{Chunk: c, Index: IndexOf(0, 0, MaxZ)}
	if up := top.Up(); up != top {
		t.Fatal("Up() at z=MaxZ must self-return, never cross chunks vertically")
	}
	bottom := Iterator{Chunk: c, Index: IndexOf(0, 0, 0)}
	if down := bottom.Down(); down != bottom {
		t.Fatal("Down() at z=0 must self-return")
	}
}

func TestIteratorHorizontalCrossesLinkedNeighbour(t *testing.T) {
	c := NewChunk(Coord{0, 0})
	e := NewChunk(Coord{1, 0})
	c.LinkNeighbour(FaceEast, e)

	it := Iterator{Chunk: c, Index: IndexOf(MaxX, 5, 10)}
	next := it.East()
	if next.IsNull() {
		t.Fatal("East() across a linked boundary must not be null")
	}
	if next.Chunk != e {
		t.Fatal("East() must land in the linked neighbour chunk")
	}
	lx, ly, lz := next.Local()
	if lx != 0 || ly != 5 || lz != 10 {
		t.Fatalf("East() wrap coords = (%d,%d,%d), want (0,5,10)", lx, ly, lz)
	}
}

func TestIteratorHorizontalNullWithoutNeighbour(t *testing.T) {
	c := NewChunk(Coord{0, 0})
	it := Iterator{Chunk: c, Index: IndexOf(MaxX, 5, 10)}
	if !it.East().IsNull() {
		t.Fatal("East() off an unlinked chunk edge must return a null iterator")
	}
}

func TestNullIteratorNavigationStaysNull(t *testing.T) {
	n := NullIterator()
	for _, face := range AllFaces {
		if !n.Neighbour(face).IsNull() {
			t.Fatalf("navigation from null iterator via %v must stay null", face)
		}
	}
}

func TestIteratorSetGet(t *testing.T) {
	c := NewChunk(Coord{0, 0})
	it := Iterator{Chunk: c, Index: IndexOf(1, 1, 1)}
	it.Set(Block{TypeIndex: 7})
	if it.Get().TypeIndex != 7 {
		t.Fatal("Set/Get round-trip failed")
	}
}

func TestWorldBlockCoord(t *testing.T) {
	c := NewChunk(Coord{2, -1})
	it := Iterator{Chunk: c, Index: IndexOf(3, 4, 5)}
	wx, wy, wz := it.WorldBlockCoord()
	if wx != 2*SizeX+3 || wy != -1*SizeY+4 || wz != 5 {
		t.Fatalf("WorldBlockCoord = (%d,%d,%d), want (%d,%d,5)", wx, wy, wz, 2*SizeX+3, -1*SizeY+4)
	}
}
