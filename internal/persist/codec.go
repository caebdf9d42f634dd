// Package persist implements the run-length-encoded chunk save format
// (C4): magic/version header followed by (type, run-length) pairs in
// linear block-index order. Only type_index survives a round trip —
// light, flags and dig-state are recomputed after load.
package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"voxelcore/internal/voxel"
)

const (
	magic0, magic1, magic2, magic3 = 'G', 'C', 'H', 'K'
	version                        = 1
)

// SaveDir is the root directory for chunk save files, relative to the
// working directory, matching the original engine's "Saves/" layout.
const SaveDir = "Saves"

func fileName(coord voxel.Coord) string {
	return filepath.Join(SaveDir, fmt.Sprintf("Chunk(%d,%d).chunk", coord.X, coord.Y))
}

// Save writes c's type-index array as a run-length-encoded file. It
// creates SaveDir if necessary.
func Save(c *voxel.Chunk) error {
	if err := os.MkdirAll(SaveDir, 0o755); err != nil {
		return fmt.Errorf("persist: mkdir %s: %w", SaveDir, err)
	}

	buf := make([]byte, 0, 8+voxel.BlockCount/4)
	buf = append(buf, magic0, magic1, magic2, magic3, version, voxel.BitsX, voxel.BitsY, voxel.BitsZ)

	i := 0
	for i < voxel.BlockCount {
		t := byte(c.BlockAtIndex(i).TypeIndex)
		run := 1
		for i+run < voxel.BlockCount && run < 255 && byte(c.BlockAtIndex(i+run).TypeIndex) == t {
			run++
		}
		buf = append(buf, t, byte(run))
		i += run
	}

	return os.WriteFile(fileName(c.Coord), buf, 0o644)
}

// Load reads a chunk file and populates c's block type indices in place.
// A missing file is reported via the returned error so callers can
// distinguish "no save yet" (proceed to procedural generation) from a
// corrupt file (which is always fatal per the header check below).
func Load(c *voxel.Chunk) error {
	data, err := os.ReadFile(fileName(c.Coord))
	if err != nil {
		return err
	}
	return decodeInto(c, data)
}

// Exists reports whether a save file is present for coord.
func Exists(coord voxel.Coord) bool {
	_, err := os.Stat(fileName(coord))
	return err == nil
}

func decodeInto(c *voxel.Chunk, data []byte) error {
	if len(data) < 8 {
		panic(fmt.Sprintf("persist: truncated header for chunk %v", c.Coord))
	}
	if data[0] != magic0 || data[1] != magic1 || data[2] != magic2 || data[3] != magic3 {
		panic(fmt.Sprintf("persist: bad magic for chunk %v: %q", c.Coord, data[0:4]))
	}
	if data[4] != version || data[5] != voxel.BitsX || data[6] != voxel.BitsY || data[7] != voxel.BitsZ {
		panic(fmt.Sprintf("persist: signature mismatch for chunk %v: version=%d bits=(%d,%d,%d)",
			c.Coord, data[4], data[5], data[6], data[7]))
	}

	body := data[8:]
	index := 0
	for p := 0; p+1 < len(body); p += 2 {
		t := body[p]
		run := int(body[p+1])
		if run == 0 {
			panic(fmt.Sprintf("persist: zero-length run in chunk %v", c.Coord))
		}
		for k := 0; k < run; k++ {
			if index >= voxel.BlockCount {
				panic(fmt.Sprintf("persist: run overflow decoding chunk %v", c.Coord))
			}
			b := c.BlockAtIndex(index)
			b.TypeIndex = voxel.BlockType(t)
			c.SetBlockAtIndex(index, b)
			index++
		}
	}
	if index != voxel.BlockCount {
		panic(fmt.Sprintf("persist: chunk %v decoded %d/%d blocks", c.Coord, index, voxel.BlockCount))
	}
	return nil
}
