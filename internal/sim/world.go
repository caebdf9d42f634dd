package sim

import (
	"voxelcore/internal/config"
	"voxelcore/internal/meshing"
	"voxelcore/internal/persist"
	"voxelcore/internal/physics"
	"voxelcore/internal/profiling"
	"voxelcore/internal/voxel"
	"voxelcore/internal/worker"
	"voxelcore/internal/worldgen"
)

// meshDirtyBudget is how many nearest mesh-dirty chunks Tick rebuilds per
// call, per §4.10's "mesh-rebuild of up to two nearest dirty-mesh chunks".
const meshDirtyBudget = 2

// PendingEdit is a block placement/removal waiting to be applied on the
// next tick, queued so §4.6/§4.7 run before user edits land.
type PendingEdit struct {
	Pos  [3]int
	Type voxel.BlockType
	Dig  bool // true: increment dig-state / dig; false: place
}

// World is the C10 orchestrator: it owns every core subsystem and drives
// the per-tick pipeline. It holds no renderer/window/input collaborator
// handle directly — callers drive it with plain scalars and read its
// public state back out.
type World struct {
	Registry *voxel.Registry
	Engine   *voxel.Engine
	LightQ   *voxel.LightQueue
	Gen      *worldgen.Generator
	Pool     *worker.Pool
	Activate *Activation

	meshes map[voxel.Coord]meshing.Result

	worldTime    float64
	timeScale    float64
	selectedType voxel.BlockType

	lastHit   physics.Hit
	pendingEdits []PendingEdit
}

// New constructs a World with a fresh registry, generator, worker pool and
// activation manager, using the currently loaded configuration.
func New(workers, queueSize int) *World {
	cfg := config.Current()

	reg := voxel.NewRegistry()
	gen := worldgen.New(cfg.WorldSeed, reg)
	lights := voxel.NewEngine(reg)
	lightQ := voxel.NewLightQueue()
	pool := worker.NewPool(workers, queueSize)
	params := NewActivationParams(cfg.ChunkActivationRange)
	activate := NewActivation(params, pool, gen, lights, lightQ)

	return &World{
		Registry:     reg,
		Engine:       lights,
		LightQ:       lightQ,
		Gen:          gen,
		Pool:         pool,
		Activate:     activate,
		meshes:       make(map[voxel.Coord]meshing.Result),
		timeScale:    cfg.WorldTimeScale,
		selectedType: reg.LookupByName("stone"),
	}
}

// Tick drives §4.6 (activation) -> §4.7 (light drain) -> mesh rebuild of
// up to meshDirtyBudget nearest dirty chunks -> raycast -> queued edits.
func (w *World) Tick(dt float64, observerX, observerY, observerZ float64, aimDir [3]float32) {
	profiling.ResetFrame()
	w.worldTime += dt * w.timeScale

	func() {
		defer profiling.Track("sim.tick.activation")()
		w.Activate.InstantiateOne(observerX, observerY)
		if !w.Activate.ActivateOne() {
			w.Activate.DeactivateOne(observerX, observerY)
		}
	}()

	func() {
		defer profiling.Track("sim.tick.lightDrain")()
		if config.Current().DebugStepLighting {
			w.Engine.DrainOne(w.LightQ)
		} else {
			dirty := w.Engine.Drain(w.LightQ)
			for c := range dirty {
				c.SetMeshDirty(true)
			}
		}
	}()

	func() {
		defer profiling.Track("sim.tick.meshRebuild")()
		w.rebuildNearestDirtyMeshes(observerX, observerY)
	}()

	func() {
		defer profiling.Track("sim.tick.raycast")()
		start := [3]float32{float32(observerX), float32(observerY), float32(observerZ)}
		w.lastHit = physics.Raycast(w.Activate.Active(), w.Registry, start, aimDir, physics.MaxReachDistance)
	}()

	func() {
		defer profiling.Track("sim.tick.applyEdits")()
		w.applyPendingEdits()
	}()
}

func (w *World) rebuildNearestDirtyMeshes(observerX, observerY float64) {
	type candidate struct {
		coord *voxel.Chunk
		dist  float64
	}
	var dirty []candidate
	w.Activate.Active().Each(func(coord voxel.Coord, c *voxel.Chunk) {
		if !c.MeshDirty() || !c.HasAllCardinalNeighbours() {
			return
		}
		cx, cy := chunkCenter(coord)
		dirty = append(dirty, candidate{coord: c, dist: sqDist(observerX, observerY, cx, cy)})
	})

	for i := 0; i < meshDirtyBudget && len(dirty) > 0; i++ {
		best := 0
		for j := 1; j < len(dirty); j++ {
			if dirty[j].dist < dirty[best].dist {
				best = j
			}
		}
		c := dirty[best].coord
		w.meshes[c.Coord] = meshing.Build(w.Registry, c)
		c.SetMeshDirty(false)
		dirty = append(dirty[:best], dirty[best+1:]...)
	}
}

// MeshFor returns the last-built mesh for a chunk coordinate, if any.
func (w *World) MeshFor(coord voxel.Coord) (meshing.Result, bool) {
	m, ok := w.meshes[coord]
	return m, ok
}

// LastHit returns the most recent crosshair raycast result.
func (w *World) LastHit() physics.Hit { return w.lastHit }

// WorldTime returns the accumulated world-time scalar in seconds.
func (w *World) WorldTime() float64 { return w.worldTime }

// ProfilingSummary formats the n longest-running spans of the most recent
// tick, for an on-screen HUD readout.
func (w *World) ProfilingSummary(n int) string {
	return profiling.TopN(n)
}

// SelectedBlockType returns the block type place_at_crosshair will use.
func (w *World) SelectedBlockType() voxel.BlockType { return w.selectedType }

// SelectBlockType sets the block type used by PlaceAtCrosshair.
func (w *World) SelectBlockType(t voxel.BlockType) { w.selectedType = t }

// Raycast exposes §4.9 directly to external callers (collision, camera).
func (w *World) Raycast(start [3]float32, dir [3]float32, maxDist float32) physics.Hit {
	return physics.Raycast(w.Activate.Active(), w.Registry, start, dir, maxDist)
}

// DigAtCrosshair increments the dig-state of the last raycast impact, or
// queues its conversion to air once the overlay stages are exhausted.
func (w *World) DigAtCrosshair() {
	if !w.lastHit.DidImpact {
		return
	}
	b := w.lastHit.Block.Get()
	const maxOverlayStage = 6
	if int(b.DigState())+1 > maxOverlayStage {
		wx, wy, wz := w.lastHit.Block.WorldBlockCoord()
		w.pendingEdits = append(w.pendingEdits, PendingEdit{Pos: [3]int{wx, wy, wz}, Dig: true})
		return
	}
	b.IncrementDigState()
	w.lastHit.Block.Set(b)
}

// PlaceAtCrosshair replaces the block adjacent to the last raycast impact
// face with the currently selected block type.
func (w *World) PlaceAtCrosshair() {
	if !w.lastHit.DidImpact {
		return
	}
	wx, wy, wz := w.lastHit.Block.WorldBlockCoord()
	wx += w.lastHit.Normal[0]
	wy += w.lastHit.Normal[1]
	wz += w.lastHit.Normal[2]
	w.pendingEdits = append(w.pendingEdits, PendingEdit{Pos: [3]int{wx, wy, wz}, Type: w.selectedType, Dig: false})
}

func (w *World) applyPendingEdits() {
	if len(w.pendingEdits) == 0 {
		return
	}
	edits := w.pendingEdits
	w.pendingEdits = nil

	for _, e := range edits {
		it := w.Activate.Active().BlockIteratorAt(e.Pos[0], e.Pos[1], e.Pos[2])
		if it.IsNull() {
			continue
		}
		if e.Dig {
			b := it.Get()
			b.TypeIndex = voxel.AirBlock.TypeIndex
			b.ResetDigState()
			it.Set(b)
			if it.Chunk != nil {
				it.Chunk.SetNeedsSave(true)
				it.Chunk.SetMeshDirty(true)
			}
			w.Engine.DigBookkeeping(it, w.LightQ)
		} else {
			b := it.Get()
			b.TypeIndex = e.Type
			b.ResetDigState()
			it.Set(b)
			if it.Chunk != nil {
				it.Chunk.SetNeedsSave(true)
				it.Chunk.SetMeshDirty(true)
			}
			w.Engine.AddBookkeeping(it, w.LightQ)
		}
	}
}

// Close drains the worker pool and persists every dirty active chunk,
// matching §5's cancellation contract: cancel_all blocks until in-flight
// Generating jobs finish, queued-but-not-started jobs are dropped, then
// finished-but-unretrieved jobs are discarded without linking (their
// chunks are about to be freed anyway), and finally every active chunk
// that needs saving is flushed to disk.
func (w *World) Close() {
	w.Pool.CancelAll()
	for w.Pool.RetrieveFinished() != nil {
		// drain without linking: these chunks are discarded with the store
	}
	w.Activate.Active().Each(func(_ voxel.Coord, c *voxel.Chunk) {
		if c.NeedsSave() {
			if err := persist.Save(c); err != nil {
				panic(err)
			}
		}
	})
}
