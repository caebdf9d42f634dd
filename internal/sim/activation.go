// Package sim implements the activation manager (C6) and world
// orchestrator (C10): the per-tick pipeline that instantiates, activates,
// deactivates, lights and meshes chunks around an observer.
package sim

import (
	"math"

	"voxelcore/internal/persist"
	"voxelcore/internal/voxel"
	"voxelcore/internal/worker"
	"voxelcore/internal/worldgen"
)

// ActivationParams mirrors §4.6's configuration-derived parameters.
type ActivationParams struct {
	ActivationRange   float64 // metres, XY
	DeactivationRange float64 // ActivationRange + SizeX + SizeY
	MaxChunks         int
}

func NewActivationParams(activationRange float64) ActivationParams {
	deactivation := activationRange + float64(voxel.SizeX) + float64(voxel.SizeY)
	radiusChunks := int(math.Ceil(activationRange / float64(voxel.SizeX)))
	maxChunks := (2 * radiusChunks) * (2 * radiusChunks)
	return ActivationParams{
		ActivationRange:   activationRange,
		DeactivationRange: deactivation,
		MaxChunks:         maxChunks,
	}
}

// Activation owns the queued/active chunk maps and drives the per-tick
// instantiate/activate/deactivate budget of "at most one per transition".
type Activation struct {
	params ActivationParams

	active *voxel.Store
	queued *voxel.Store

	pool    *worker.Pool
	gen     *worldgen.Generator
	lights  *voxel.Engine
	lightQ  *voxel.LightQueue
}

func NewActivation(params ActivationParams, pool *worker.Pool, gen *worldgen.Generator, lights *voxel.Engine, lightQ *voxel.LightQueue) *Activation {
	return &Activation{
		params: params,
		active: voxel.NewStore(),
		queued: voxel.NewStore(),
		pool:   pool,
		gen:    gen,
		lights: lights,
		lightQ: lightQ,
	}
}

func (a *Activation) Active() *voxel.Store { return a.active }
func (a *Activation) Queued() *voxel.Store { return a.queued }

// chunkCenter returns the world-space XY centre of a chunk column.
func chunkCenter(coord voxel.Coord) (float64, float64) {
	ox, oy := coord.WorldOrigin()
	return float64(ox) + float64(voxel.SizeX)/2, float64(oy) + float64(voxel.SizeY)/2
}

func sqDist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}

// InstantiateOne scans the square window around the observer and, if
// under the chunk budget, creates and submits a generation job for the
// single nearest missing in-range column. Returns true if a chunk was
// instantiated this tick.
func (a *Activation) InstantiateOne(observerX, observerY float64) bool {
	if a.active.Len()+a.queued.Len() >= a.params.MaxChunks {
		return false
	}

	radiusChunks := int(math.Ceil(a.params.ActivationRange/float64(voxel.SizeX))) + 1
	ocx := int(math.Floor(observerX / float64(voxel.SizeX)))
	ocy := int(math.Floor(observerY / float64(voxel.SizeY)))

	var best voxel.Coord
	bestDist := math.MaxFloat64
	found := false

	for dx := -radiusChunks; dx <= radiusChunks; dx++ {
		for dy := -radiusChunks; dy <= radiusChunks; dy++ {
			coord := voxel.Coord{X: ocx + dx, Y: ocy + dy}
			if a.active.Has(coord) || a.queued.Has(coord) {
				continue
			}
			cx, cy := chunkCenter(coord)
			d := sqDist(observerX, observerY, cx, cy)
			if d > a.params.ActivationRange*a.params.ActivationRange {
				continue
			}
			if d < bestDist {
				bestDist = d
				best = coord
				found = true
			}
		}
	}
	if !found {
		return false
	}

	c := voxel.NewChunk(best)
	c.SetStatus(voxel.StatusQueuedGenerate)
	if !a.pool.Submit(&generationJob{chunk: c, gen: a.gen}) {
		// Job queue full: the column stays missing and is picked again on
		// a later tick.
		return false
	}
	a.queued.Add(best, c)
	return true
}

// ActivateOne retrieves at most one finished generation job, links its
// four cardinal neighbours, seeds lighting, and promotes it from queued
// to active. Returns true if a chunk was activated this tick.
func (a *Activation) ActivateOne() bool {
	job := a.pool.RetrieveFinished()
	if job == nil {
		return false
	}
	gj, ok := job.(*generationJob)
	if !ok {
		job.OnFinished()
		return false
	}
	c := gj.chunk
	job.OnFinished()

	// Acquire: this read observes the worker's release-store of
	// StatusGenerateComplete, so every block write in Execute is now
	// visible on the main thread before we link or light the chunk.
	if c.Status() != voxel.StatusGenerateComplete {
		return false
	}

	a.queued.Remove(c.Coord)

	if n := a.active.Get(voxel.Coord{X: c.Coord.X, Y: c.Coord.Y + 1}); n != nil {
		c.LinkNeighbour(voxel.FaceNorth, n)
	}
	if n := a.active.Get(voxel.Coord{X: c.Coord.X, Y: c.Coord.Y - 1}); n != nil {
		c.LinkNeighbour(voxel.FaceSouth, n)
	}
	if n := a.active.Get(voxel.Coord{X: c.Coord.X + 1, Y: c.Coord.Y}); n != nil {
		c.LinkNeighbour(voxel.FaceEast, n)
	}
	if n := a.active.Get(voxel.Coord{X: c.Coord.X - 1, Y: c.Coord.Y}); n != nil {
		c.LinkNeighbour(voxel.FaceWest, n)
	}

	a.lights.InitChunkLighting(c, a.lightQ)
	c.SetMeshDirty(true)
	c.SetStatus(voxel.StatusActive)
	a.active.Add(c.Coord, c)
	return true
}

// DeactivateOne removes the single farthest out-of-range active chunk,
// unlinking its neighbours and persisting it if dirty. Only called when
// no activation happened this tick (§4.6).
func (a *Activation) DeactivateOne(observerX, observerY float64) bool {
	var farthest *voxel.Chunk
	farthestDist := a.params.DeactivationRange * a.params.DeactivationRange

	a.active.Each(func(coord voxel.Coord, c *voxel.Chunk) {
		cx, cy := chunkCenter(coord)
		d := sqDist(observerX, observerY, cx, cy)
		if d > farthestDist {
			farthestDist = d
			farthest = c
		}
	})

	if farthest == nil {
		return false
	}

	farthest.UnlinkNeighbours()
	a.active.Remove(farthest.Coord)
	a.lightQ.PurgeChunk(farthest)
	if farthest.NeedsSave() {
		if err := persist.Save(farthest); err != nil {
			panic(err)
		}
	}
	return true
}
