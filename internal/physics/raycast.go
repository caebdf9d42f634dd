// Package physics implements the voxel DDA raycast (C9): Amanatides-Woo
// traversal of the unit grid using BlockIterator navigation, so chunk
// boundaries never need special-casing.
package physics

import (
	"math"

	"voxelcore/internal/profiling"
	"voxelcore/internal/voxel"
)

// MaxReachDistance is the default crosshair reach used by the orchestrator.
const MaxReachDistance = 5.0

// Hit is the result of a Raycast call.
type Hit struct {
	DidImpact bool
	Distance  float32
	Position  [3]float32
	Normal    [3]int
	Block     voxel.Iterator
}

func sign(v float32) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Raycast walks the grid from start along unitDir (assumed normalised) up
// to maxDist world units, stopping at the first opaque block. It never
// special-cases chunk edges: every step is a BlockIterator.Neighbour call.
func Raycast(store *voxel.Store, reg *voxel.Registry, start mgl32Vec3, unitDir mgl32Vec3, maxDist float32) Hit {
	defer profiling.Track("physics.Raycast")()

	startZ := int(math.Floor(float64(start[2])))
	if startZ < 0 || startZ > voxel.MaxZ {
		return Hit{}
	}

	it := store.BlockIteratorAt(int(math.Floor(float64(start[0]))), int(math.Floor(float64(start[1]))), startZ)
	if it.IsNull() {
		return Hit{}
	}

	if reg.IsOpaque(it.Get().TypeIndex) {
		return Hit{
			DidImpact: true,
			Distance:  0,
			Position:  start,
			Normal:    [3]int{-sign(unitDir[0]), -sign(unitDir[1]), -sign(unitDir[2])},
			Block:     it,
		}
	}

	bx := int(math.Floor(float64(start[0])))
	by := int(math.Floor(float64(start[1])))
	bz := startZ

	stepX, stepY, stepZ := sign(unitDir[0]), sign(unitDir[1]), sign(unitDir[2])

	tMaxX := axisTMax(start[0], unitDir[0], bx)
	tMaxY := axisTMax(start[1], unitDir[1], by)
	tMaxZ := axisTMax(start[2], unitDir[2], bz)

	tDeltaX := axisTDelta(unitDir[0])
	tDeltaY := axisTDelta(unitDir[1])
	tDeltaZ := axisTDelta(unitDir[2])

	for {
		var axis int // 0=x,1=y,2=z
		var t float32
		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			axis, t = 0, tMaxX
		case tMaxY <= tMaxX && tMaxY <= tMaxZ:
			axis, t = 1, tMaxY
		default:
			axis, t = 2, tMaxZ
		}

		if t > maxDist {
			return Hit{}
		}

		var normal [3]int
		switch axis {
		case 0:
			it = it.Neighbour(dirFace(stepX, voxel.FaceEast, voxel.FaceWest))
			bx += stepX
			normal = [3]int{-stepX, 0, 0}
			tMaxX += tDeltaX
		case 1:
			it = it.Neighbour(dirFace(stepY, voxel.FaceNorth, voxel.FaceSouth))
			by += stepY
			normal = [3]int{0, -stepY, 0}
			tMaxY += tDeltaY
		default:
			if stepZ > 0 {
				it = it.Up()
			} else if stepZ < 0 {
				it = it.Down()
			}
			bz += stepZ
			normal = [3]int{0, 0, -stepZ}
			tMaxZ += tDeltaZ
		}

		if it.IsNull() || bz < 0 || bz > voxel.MaxZ {
			return Hit{}
		}

		if reg.IsOpaque(it.Get().TypeIndex) {
			pos := [3]float32{
				start[0] + unitDir[0]*t,
				start[1] + unitDir[1]*t,
				start[2] + unitDir[2]*t,
			}
			return Hit{
				DidImpact: true,
				Distance:  t,
				Position:  pos,
				Normal:    normal,
				Block:     it,
			}
		}
	}
}

// dirFace maps a +1/-1 step sign to the matching cardinal face.
func dirFace(step int, pos, neg voxel.BlockFace) voxel.BlockFace {
	if step > 0 {
		return pos
	}
	return neg
}

func axisTMax(originComp, dirComp float32, cell int) float32 {
	if dirComp == 0 {
		return float32(math.Inf(1))
	}
	if dirComp > 0 {
		return (float32(cell+1) - originComp) / dirComp
	}
	return (originComp - float32(cell)) / -dirComp
}

func axisTDelta(dirComp float32) float32 {
	if dirComp == 0 {
		return float32(math.Inf(1))
	}
	if dirComp < 0 {
		dirComp = -dirComp
	}
	return 1 / dirComp
}

// mgl32Vec3 avoids importing mathgl here: the raycast only needs plain
// components, and callers (including the orchestrator) pass plain
// [3]float32 values.
type mgl32Vec3 = [3]float32
