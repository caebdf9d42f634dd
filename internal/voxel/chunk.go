package voxel

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	BitsX = 4
	BitsY = 4
	BitsZ = 7

	SizeX = 1 << BitsX // 16
	SizeY = 1 << BitsY // 16
	SizeZ = 1 << BitsZ // 128

	MaxX = SizeX - 1
	MaxY = SizeY - 1
	MaxZ = SizeZ - 1

	BlockCount = SizeX * SizeY * SizeZ // 32768
)

// Status is the chunk lifecycle state. Transitions crossing the
// worker/main-thread boundary (Generating -> GenerateComplete) go through
// an atomic store/load so block writes performed by the worker are
// visible to the main thread once it observes GenerateComplete.
type Status int32

const (
	StatusMissing Status = iota
	StatusQueuedGenerate
	StatusGenerating
	StatusGenerateComplete
	StatusActive
)

// Coord is the 2-D integer chunk-space column coordinate.
type Coord struct {
	X, Y int
}

// Chunk is a single fixed-size 16x16x128 vertical column.
type Chunk struct {
	Coord Coord

	status atomic.Int32

	blocks [BlockCount]Block

	// Cardinal neighbours; nil means "no chunk linked there yet". Vertical
	// neighbours never exist at the chunk level (Up/Down stay within the
	// column and are handled by BlockIterator directly).
	North, South, East, West *Chunk

	meshDirty bool
	needsSave bool
}

func NewChunk(coord Coord) *Chunk {
	c := &Chunk{Coord: coord}
	c.status.Store(int32(StatusMissing))
	return c
}

func (c *Chunk) Status() Status            { return Status(c.status.Load()) }
func (c *Chunk) SetStatus(s Status)        { c.status.Store(int32(s)) }
func (c *Chunk) MeshDirty() bool           { return c.meshDirty }
func (c *Chunk) SetMeshDirty(dirty bool)   { c.meshDirty = dirty }
func (c *Chunk) NeedsSave() bool           { return c.needsSave }
func (c *Chunk) SetNeedsSave(dirty bool)   { c.needsSave = dirty }

// WorldOrigin returns the world-space block coordinate of local (0,0,0).
func (c Coord) WorldOrigin() (int, int) { return c.X * SizeX, c.Y * SizeY }

// WorldBounds returns the chunk's world-space AABB. It is computed from
// Coord on every call; the chunk does not store it.
func (c *Chunk) WorldBounds() (min, max mgl32.Vec3) {
	ox, oy := c.Coord.WorldOrigin()
	min = mgl32.Vec3{float32(ox), float32(oy), 0}
	max = mgl32.Vec3{float32(ox + SizeX), float32(oy + SizeY), float32(SizeZ)}
	return
}

// IndexOf computes the linear block index from local coordinates:
// x | y<<bits_x | z<<(bits_x+bits_y). Compiles to shifts/masks since the
// dimensions are compile-time constants.
func IndexOf(x, y, z int) int {
	return x | (y << BitsX) | (z << (BitsX + BitsY))
}

// LocalOf is the inverse of IndexOf.
func LocalOf(index int) (x, y, z int) {
	x = index & MaxX
	y = (index >> BitsX) & MaxY
	z = (index >> (BitsX + BitsY)) & MaxZ
	return
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < SizeX && y >= 0 && y < SizeY && z >= 0 && z < SizeZ
}

func (c *Chunk) BlockAt(x, y, z int) Block {
	if !inBounds(x, y, z) {
		return AirBlock
	}
	return c.blocks[IndexOf(x, y, z)]
}

func (c *Chunk) BlockAtIndex(index int) Block { return c.blocks[index] }

func (c *Chunk) SetBlockAtIndex(index int, b Block) { c.blocks[index] = b }

func (c *Chunk) SetBlock(x, y, z int, b Block) {
	if !inBounds(x, y, z) {
		return
	}
	c.blocks[IndexOf(x, y, z)] = b
}

func (c *Chunk) IsAirAt(x, y, z int) bool { return c.BlockAt(x, y, z).IsAir() }

// HighestNonAir returns the z of the topmost non-air block in column
// (x,y), or -1 if the whole column is air. Used by the generator for
// decoration passes (tree placement, biome overwrites).
func (c *Chunk) HighestNonAir(x, y int) int {
	for z := MaxZ; z >= 0; z-- {
		if !c.BlockAt(x, y, z).IsAir() {
			return z
		}
	}
	return -1
}

// Neighbour returns the linked chunk in one of the four cardinal
// directions, or nil.
func (c *Chunk) Neighbour(face BlockFace) *Chunk {
	switch face {
	case FaceNorth:
		return c.North
	case FaceSouth:
		return c.South
	case FaceEast:
		return c.East
	case FaceWest:
		return c.West
	}
	return nil
}

func (c *Chunk) SetNeighbour(face BlockFace, n *Chunk) {
	switch face {
	case FaceNorth:
		c.North = n
	case FaceSouth:
		c.South = n
	case FaceEast:
		c.East = n
	case FaceWest:
		c.West = n
	}
}

// HasAllCardinalNeighbours reports whether all four N/E/S/W links are
// present; the mesher only rebuilds a chunk when this holds.
func (c *Chunk) HasAllCardinalNeighbours() bool {
	return c.North != nil && c.South != nil && c.East != nil && c.West != nil
}

// LinkNeighbour bidirectionally wires c and n across the given
// direction, e.g. LinkNeighbour(FaceNorth, n) sets c.North = n and
// n.South = c.
func (c *Chunk) LinkNeighbour(face BlockFace, n *Chunk) {
	c.SetNeighbour(face, n)
	n.SetNeighbour(opposite(face), c)
}

// UnlinkNeighbours removes the bidirectional cardinal links to c.
func (c *Chunk) UnlinkNeighbours() {
	for _, face := range [...]BlockFace{FaceNorth, FaceSouth, FaceEast, FaceWest} {
		if n := c.Neighbour(face); n != nil {
			n.SetNeighbour(opposite(face), nil)
			c.SetNeighbour(face, nil)
		}
	}
}

func opposite(face BlockFace) BlockFace {
	switch face {
	case FaceNorth:
		return FaceSouth
	case FaceSouth:
		return FaceNorth
	case FaceEast:
		return FaceWest
	case FaceWest:
		return FaceEast
	case FaceTop:
		return FaceBottom
	case FaceBottom:
		return FaceTop
	}
	return face
}
