package persist

import (
	"os"
	"path/filepath"
	"testing"

	"voxelcore/internal/voxel"
)

func withTempSaveDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestSaveLoadRoundTrip(t *testing.T) {
	withTempSaveDir(t)

	c := voxel.NewChunk(voxel.Coord{X: 3, Y: -2})
	// fill a pattern: stone x10000, air x20000, water x2768
	const stone, air, water = voxel.BlockType(3), voxel.BlockType(0), voxel.BlockType(6)
	idx := 0
	for ; idx < 10000; idx++ {
		c.SetBlockAtIndex(idx, voxel.Block{TypeIndex: stone})
	}
	for ; idx < 10000+20000; idx++ {
		c.SetBlockAtIndex(idx, voxel.Block{TypeIndex: air})
	}
	for ; idx < voxel.BlockCount; idx++ {
		c.SetBlockAtIndex(idx, voxel.Block{TypeIndex: water})
	}

	if err := Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := voxel.NewChunk(voxel.Coord{X: 3, Y: -2})
	if err := Load(reloaded); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for i := 0; i < voxel.BlockCount; i++ {
		if c.BlockAtIndex(i).TypeIndex != reloaded.BlockAtIndex(i).TypeIndex {
			t.Fatalf("round-trip mismatch at %d: %d vs %d", i, c.BlockAtIndex(i).TypeIndex, reloaded.BlockAtIndex(i).TypeIndex)
		}
	}
}

func TestExists(t *testing.T) {
	withTempSaveDir(t)
	coord := voxel.Coord{X: 1, Y: 1}
	if Exists(coord) {
		t.Fatal("Exists must be false before any save")
	}
	Save(voxel.NewChunk(coord))
	if !Exists(coord) {
		t.Fatal("Exists must be true after Save")
	}
}

func TestRunsNeverExceed255(t *testing.T) {
	withTempSaveDir(t)
	c := voxel.NewChunk(voxel.Coord{X: 0, Y: 0})
	for i := 0; i < voxel.BlockCount; i++ {
		c.SetBlockAtIndex(i, voxel.Block{TypeIndex: 3})
	}
	if err := Save(c); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(SaveDir, "Chunk(0,0).chunk"))
	if err != nil {
		t.Fatal(err)
	}
	body := data[8:]
	sum := 0
	for p := 0; p+1 < len(body); p += 2 {
		run := int(body[p+1])
		if run == 0 || run > 255 {
			t.Fatalf("invalid run length %d at byte %d", run, p)
		}
		sum += run
	}
	if sum != voxel.BlockCount {
		t.Fatalf("sum of runs = %d, want %d", sum, voxel.BlockCount)
	}
}

func TestDecodeBadMagicPanics(t *testing.T) {
	withTempSaveDir(t)
	if err := os.MkdirAll(SaveDir, 0o755); err != nil {
		t.Fatal(err)
	}
	bad := []byte{'X', 'X', 'X', 'X', 1, voxel.BitsX, voxel.BitsY, voxel.BitsZ, 0, 1}
	path := filepath.Join(SaveDir, "Chunk(9,9).chunk")
	if err := os.WriteFile(path, bad, 0o644); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("decoding a file with a bad magic must panic (fatal per error-handling design)")
		}
	}()
	_ = Load(voxel.NewChunk(voxel.Coord{X: 9, Y: 9}))
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	withTempSaveDir(t)
	err := Load(voxel.NewChunk(voxel.Coord{X: 100, Y: 100}))
	if err == nil {
		t.Fatal("Load of a nonexistent save must return an error, not panic")
	}
}
