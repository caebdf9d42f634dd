// Package meshing rebuilds a chunk's render geometry (C8): one quad per
// visible block face, per-vertex lighting baked from the block's packed
// indoor/outdoor nibbles, water routed to a separate translucent stream,
// and a dig-crack overlay quad for partially-broken blocks.
package meshing

import (
	"voxelcore/internal/profiling"
	"voxelcore/internal/voxel"
)

// VertexStride is the number of packed uint32 words per vertex, following
// the teacher's two-word vertex convention.
const VertexStride = 2

// Mesh holds one vertex stream plus a parallel index stream, mirroring
// AddVertsForQuad3D's shared-vertex convention: each quad contributes 4
// vertices and 6 indices (two triangles, 0-1-2 / 2-3-0) referencing them.
type Mesh struct {
	Vertices []uint32
	Indices  []uint32
}

// Result holds the three meshes a rebuilt chunk produces.
type Result struct {
	Opaque  Mesh
	Water   Mesh
	Overlay Mesh
}

// overlayFlag marks a vertex belonging to a dig-crack overlay quad; the
// renderer nudges these 0.01 units outward along the decoded face normal
// instead of the mesher carrying fractional positions in an
// integer-packed vertex.
const overlayFlag = uint32(1) << 16

// waterFlag marks a vertex belonging to the translucent water stream.
const waterFlag = uint32(1) << 17

// packVertex matches the teacher's packed-vertex convention, widened for
// this engine's 16x16x128 chunk: V1 carries local position, face index and
// brightness; V2 carries the texture cell and the overlay/water flags.
//
// V1: x(5) | y(5)<<5 | z(8)<<10 | face(3)<<18 | brightness(8)<<21
// V2: texID(16) | overlayFlag | waterFlag
func packVertex(x, y, z int, face voxel.BlockFace, texID int, brightness byte, overlay, water bool) (uint32, uint32) {
	v1 := uint32(x) | uint32(y)<<5 | uint32(z)<<10 | uint32(face)<<18 | uint32(brightness)<<21
	v2 := uint32(texID)
	if overlay {
		v2 |= overlayFlag
	}
	if water {
		v2 |= waterFlag
	}
	return v1, v2
}

// brightness packs a block's indoor/outdoor nibbles into one byte
// (outdoor high nibble, indoor low nibble), matching §4.8's
// r=outdoor*17, g=indoor*17 vertex-colour formula: expanding each nibble
// by 17 is exactly expanding a 4-bit value to its 8-bit equivalent, so the
// shader can read this single byte as two colour channels directly.
func brightness(b voxel.Block) byte {
	return b.Outdoor()<<4 | b.Indoor()
}

func texID(reg *voxel.Registry, t voxel.BlockType, face voxel.BlockFace) int {
	uv := reg.UVFor(t, face)
	return uv.SheetY*16 + uv.SheetX
}

// quadCorners returns the four local-space corners of the unit face at
// (x,y,z) for the given direction, in a consistent winding.
func quadCorners(x, y, z int, face voxel.BlockFace) [4][3]int {
	switch face {
	case voxel.FaceEast: // +X
		return [4][3]int{{x + 1, y, z}, {x + 1, y + 1, z}, {x + 1, y + 1, z + 1}, {x + 1, y, z + 1}}
	case voxel.FaceWest: // -X
		return [4][3]int{{x, y, z}, {x, y, z + 1}, {x, y + 1, z + 1}, {x, y + 1, z}}
	case voxel.FaceNorth: // +Y
		return [4][3]int{{x, y + 1, z}, {x, y + 1, z + 1}, {x + 1, y + 1, z + 1}, {x + 1, y + 1, z}}
	case voxel.FaceSouth: // -Y
		return [4][3]int{{x, y, z}, {x + 1, y, z}, {x + 1, y, z + 1}, {x, y, z + 1}}
	case voxel.FaceTop: // +Z
		return [4][3]int{{x, y, z + 1}, {x + 1, y, z + 1}, {x + 1, y + 1, z + 1}, {x, y + 1, z + 1}}
	default: // FaceBottom, -Z
		return [4][3]int{{x, y, z}, {x, y + 1, z}, {x + 1, y + 1, z}, {x + 1, y, z}}
	}
}

// emitQuad appends 4 shared vertices to m.Vertices and 6 indices
// referencing them (0,1,2 / 2,3,0) to m.Indices, matching
// Chunk.cpp::AddVertsForQuad3D's vertex+index convention.
func emitQuad(m Mesh, corners [4][3]int, face voxel.BlockFace, texID int, bright byte, overlay, water bool) Mesh {
	base := uint32(len(m.Vertices) / VertexStride)
	for _, c := range corners {
		v1, v2 := packVertex(c[0], c[1], c[2], face, texID, bright, overlay, water)
		m.Vertices = append(m.Vertices, v1, v2)
	}
	for _, off := range [...]uint32{0, 1, 2, 2, 3, 0} {
		m.Indices = append(m.Indices, base+off)
	}
	return m
}

// Build rebuilds a chunk's three meshes. The caller must only invoke this
// when c.MeshDirty() && c.HasAllCardinalNeighbours().
func Build(reg *voxel.Registry, c *voxel.Chunk) Result {
	defer profiling.Track("meshing.Build")()

	var res Result

	for z := 0; z < voxel.SizeZ; z++ {
		for y := 0; y < voxel.SizeY; y++ {
			for x := 0; x < voxel.SizeX; x++ {
				b := c.BlockAt(x, y, z)
				if b.IsAir() {
					continue
				}
				isWater := reg.Lookup(b.TypeIndex).Name == "water"

				if isWater {
					// Only the top face of a water column is ever drawn,
					// and only into the translucent stream.
					if z == voxel.MaxZ || !isWaterTop(reg, c, x, y, z) {
						continue
					}
					corners := quadCorners(x, y, z, voxel.FaceTop)
					res.Water = emitQuad(res.Water, corners, voxel.FaceTop, texID(reg, b.TypeIndex, voxel.FaceTop), brightness(b), false, true)
					continue
				}

				for _, face := range voxel.AllFaces {
					if !faceVisible(reg, c, x, y, z, face) {
						continue
					}
					corners := quadCorners(x, y, z, face)
					res.Opaque = emitQuad(res.Opaque, corners, face, texID(reg, b.TypeIndex, face), brightness(b), false, false)

					if b.DigState() > 0 {
						uv := reg.DigCrackUV(b.DigState())
						overlayTex := uv.SheetY*16 + uv.SheetX
						res.Overlay = emitQuad(res.Overlay, corners, face, overlayTex, brightness(b), true, false)
					}
				}
			}
		}
	}

	return res
}

// faceVisible reports whether the block face at local (x,y,z) facing
// direction face should be emitted: the neighbour (which may be in an
// adjacent linked chunk) must be non-opaque. World Z boundaries are
// handled explicitly since BlockIterator.Up/Down self-return there.
func faceVisible(reg *voxel.Registry, c *voxel.Chunk, x, y, z int, face voxel.BlockFace) bool {
	if face == voxel.FaceTop && z == voxel.MaxZ {
		return true // world ceiling, always open to sky
	}
	if face == voxel.FaceBottom && z == 0 {
		return false // world floor, never seen
	}
	it := voxel.Iterator{Chunk: c, Index: voxel.IndexOf(x, y, z)}
	n := it.Neighbour(face)
	if n.IsNull() {
		return false
	}
	return !reg.IsOpaque(n.Get().TypeIndex)
}

// isWaterTop reports whether the block directly above (x,y,z) is non-water
// (air, ice forming above, or out of chunk), meaning this water block's
// top surface is exposed.
func isWaterTop(reg *voxel.Registry, c *voxel.Chunk, x, y, z int) bool {
	above := c.BlockAt(x, y, z+1)
	return reg.Lookup(above.TypeIndex).Name != "water"
}
