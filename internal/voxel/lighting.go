package voxel

// LightQueue is a FIFO of dirty-light BlockIterators. The invariant
// b.IsLightDirty() == "b is present in some LightQueue" is maintained by
// guarding Enqueue with the flag, making enqueue idempotent.
type LightQueue struct {
	fifo []Iterator
}

func NewLightQueue() *LightQueue { return &LightQueue{} }

func (q *LightQueue) Len() int { return len(q.fifo) }

// Enqueue adds it to the queue unless it is already dirty or null.
func (q *LightQueue) Enqueue(it Iterator) {
	if it.IsNull() {
		return
	}
	b := it.Get()
	if b.IsLightDirty() {
		return
	}
	b.SetLightDirty(true)
	it.Set(b)
	q.fifo = append(q.fifo, it)
}

func (q *LightQueue) dequeue() (Iterator, bool) {
	if len(q.fifo) == 0 {
		return Iterator{}, false
	}
	it := q.fifo[0]
	q.fifo = q.fifo[1:]
	return it, true
}

// PurgeChunk drops every queued iterator belonging to c. A chunk that has
// just been deactivated is about to have its Store entry and neighbour
// links torn down, so any iterator still pointing into it must not be
// retained across the deactivation.
func (q *LightQueue) PurgeChunk(c *Chunk) {
	kept := q.fifo[:0]
	for _, it := range q.fifo {
		if it.Chunk == c {
			continue
		}
		kept = append(kept, it)
	}
	q.fifo = kept
}

// Engine drives lighting over a registry; it holds no per-world state of
// its own beyond the registry reference, so one Engine can serve every
// chunk in the world.
type Engine struct {
	reg *Registry
}

func NewEngine(reg *Registry) *Engine { return &Engine{reg: reg} }

// InitChunkLighting seeds the dirty queue and sky flags for a chunk that
// just transitioned to Active, following the four-step sequence of the
// original engine's Chunk::InitializeLighting.
func (e *Engine) InitChunkLighting(c *Chunk, q *LightQueue) {
	// Step 1: walk each column down from the top marking sky blocks.
	for x := 0; x < SizeX; x++ {
		for y := 0; y < SizeY; y++ {
			e.seedSkyColumn(c, x, y, q)
		}
	}

	// Step 2: every non-opaque block on the chunk's 6-face boundary is
	// enqueued dirty (captures light bleeding in across N/E/S/W once
	// neighbours link, and re-evaluation at the world floor/ceiling).
	for x := 0; x < SizeX; x++ {
		for y := 0; y < SizeY; y++ {
			for _, z := range [...]int{0, MaxZ} {
				e.enqueueIfNonOpaque(Iterator{Chunk: c, Index: IndexOf(x, y, z)}, q)
			}
		}
	}
	for y := 0; y < SizeY; y++ {
		for z := 0; z < SizeZ; z++ {
			e.enqueueIfNonOpaque(Iterator{Chunk: c, Index: IndexOf(0, y, z)}, q)
			e.enqueueIfNonOpaque(Iterator{Chunk: c, Index: IndexOf(MaxX, y, z)}, q)
		}
	}
	for x := 0; x < SizeX; x++ {
		for z := 0; z < SizeZ; z++ {
			e.enqueueIfNonOpaque(Iterator{Chunk: c, Index: IndexOf(x, 0, z)}, q)
			e.enqueueIfNonOpaque(Iterator{Chunk: c, Index: IndexOf(x, MaxY, z)}, q)
		}
	}

	// Step 4: every emitter block, queued unconditionally. (Step 3 runs
	// inside seedSkyColumn.)
	for i := 0; i < BlockCount; i++ {
		b := c.blocks[i]
		if e.reg.Emission(b.TypeIndex) > 0 {
			q.Enqueue(Iterator{Chunk: c, Index: i})
		}
	}
}

func (e *Engine) seedSkyColumn(c *Chunk, x, y int, q *LightQueue) {
	skyAbove := true
	for z := MaxZ; z >= 0; z-- {
		it := Iterator{Chunk: c, Index: IndexOf(x, y, z)}
		b := it.Get()
		if skyAbove && !e.reg.IsOpaque(b.TypeIndex) {
			b.SetSky(true)
			b.SetOutdoor(15)
			it.Set(b)
			// Step 3: enqueue horizontal neighbours that are non-opaque,
			// non-sky, so they don't sit at influence 0 beside a 15.
			for _, face := range [...]BlockFace{FaceNorth, FaceSouth, FaceEast, FaceWest} {
				n := it.Neighbour(face)
				if n.IsNull() {
					continue
				}
				nb := n.Get()
				if !e.reg.IsOpaque(nb.TypeIndex) && !nb.IsSky() {
					q.Enqueue(n)
				}
			}
		} else {
			if e.reg.IsOpaque(b.TypeIndex) {
				skyAbove = false
			}
			if b.IsSky() {
				b.SetSky(false)
				it.Set(b)
			}
		}
	}
}

func (e *Engine) enqueueIfNonOpaque(it Iterator, q *LightQueue) {
	b := it.Get()
	if !e.reg.IsOpaque(b.TypeIndex) {
		q.Enqueue(it)
	}
}

// DirtyChunks receives the set of chunks whose mesh must be rebuilt as a
// side effect of a drain pass.
type DirtyChunks = map[*Chunk]struct{}

// Drain exhausts the queue fully (the non-debug-step path). It returns
// the set of chunks marked mesh-dirty during the pass.
func (e *Engine) Drain(q *LightQueue) DirtyChunks {
	dirty := make(DirtyChunks)
	for {
		it, ok := q.dequeue()
		if !ok {
			break
		}
		e.relax(it, q, dirty)
	}
	return dirty
}

// DrainOne processes a single queue entry, for the debugStepLighting mode.
func (e *Engine) DrainOne(q *LightQueue) (DirtyChunks, bool) {
	it, ok := q.dequeue()
	if !ok {
		return nil, false
	}
	dirty := make(DirtyChunks)
	e.relax(it, q, dirty)
	return dirty, true
}

func (e *Engine) relax(it Iterator, q *LightQueue, dirty DirtyChunks) {
	b := it.Get()
	b.SetLightDirty(false)

	opaque := e.reg.IsOpaque(b.TypeIndex)
	emission := e.reg.Emission(b.TypeIndex)

	newIndoor := emission
	if !opaque {
		if v := maxNeighbourMinusOne(it, func(nb Block) uint8 { return nb.Indoor() }); v > newIndoor {
			newIndoor = v
		}
	}

	var newOutdoor uint8
	if b.IsSky() {
		newOutdoor = 15
	} else if !opaque {
		newOutdoor = maxNeighbourMinusOne(it, func(nb Block) uint8 { return nb.Outdoor() })
	}

	changed := newIndoor != b.Indoor() || newOutdoor != b.Outdoor()
	b.SetIndoor(newIndoor)
	b.SetOutdoor(newOutdoor)
	it.Set(b)

	if !changed {
		return
	}
	if it.Chunk != nil {
		it.Chunk.SetMeshDirty(true)
		dirty[it.Chunk] = struct{}{}
	}

	for _, face := range AllFaces {
		n := it.Neighbour(face)
		if n.IsNull() {
			continue
		}
		if n.Chunk != nil {
			n.Chunk.SetMeshDirty(true)
			dirty[n.Chunk] = struct{}{}
		}
		nb := n.Get()
		if !e.reg.IsOpaque(nb.TypeIndex) {
			q.Enqueue(n)
		}
	}
}

// maxNeighbourMinusOne samples all six BlockIterator neighbours as
// distinct directions (the reimplementation deliberately does not
// replicate the original engine's north-sampled-twice defect) and
// returns max(0, highest neighbour value - 1).
func maxNeighbourMinusOne(it Iterator, get func(Block) uint8) uint8 {
	var best uint8
	for _, face := range AllFaces {
		n := it.Neighbour(face)
		if n.IsNull() {
			continue
		}
		if v := get(n.Get()); v > best {
			best = v
		}
	}
	if best == 0 {
		return 0
	}
	return best - 1
}

// DigBookkeeping updates lighting after a block has been dug to air.
// Mirrors Chunk::ProcessLightingForDugBlock: marks the dug block dirty,
// marks the four cardinal neighbour chunks mesh-dirty, and if the block
// above was sky, walks down marking newly-exposed non-opaque blocks
// sky+dirty until an opaque block stops the column.
func (e *Engine) DigBookkeeping(it Iterator, q *LightQueue) {
	q.Enqueue(it)
	if it.Chunk != nil {
		for _, face := range [...]BlockFace{FaceNorth, FaceSouth, FaceEast, FaceWest} {
			if n := it.Chunk.Neighbour(face); n != nil {
				n.SetMeshDirty(true)
			}
		}
	}

	above := it.Up()
	if above.IsNull() || above == it {
		return
	}
	if !above.Get().IsSky() {
		return
	}
	cur := it
	for {
		b := cur.Get()
		if e.reg.IsOpaque(b.TypeIndex) {
			break
		}
		b.SetSky(true)
		cur.Set(b)
		q.Enqueue(cur)
		down := cur.Down()
		if down == cur {
			break
		}
		cur = down
	}
}

// AddBookkeeping updates lighting after air has been replaced with an
// opaque block. Mirrors Chunk::ProcessLightingForAddedBlock.
func (e *Engine) AddBookkeeping(it Iterator, q *LightQueue) {
	b := it.Get()
	wasSky := b.IsSky()
	q.Enqueue(it)

	if !wasSky {
		return
	}
	b.SetSky(false)
	it.Set(b)

	cur := it.Down()
	if cur == it {
		return
	}
	for {
		cb := cur.Get()
		if e.reg.IsOpaque(cb.TypeIndex) {
			break
		}
		cb.SetSky(false)
		cur.Set(cb)
		q.Enqueue(cur)
		down := cur.Down()
		if down == cur {
			break
		}
		cur = down
	}
}
