// Package worldgen implements the deterministic chunk generator (C3):
// six 2-D noise fields combine into a terrain height, then a column fill
// pass, biome overwrite passes, and tree stamping populate a chunk's
// blocks. The whole pipeline is a pure function of (seed, chunk coord).
package worldgen

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"voxelcore/internal/voxel"
)

const (
	seaLevel     = 64
	oceanFloor   = 55
	freezingLvl  = 87
	cloudLevel   = 110
	maxSandTop   = 4
	maxIceTop    = 4
)

// Generator produces deterministic chunk contents from a world seed.
// It is stateless beyond the seed and registry reference, so a single
// instance may be shared by every worker goroutine.
type Generator struct {
	seed int64
	reg  *voxel.Registry

	air, grass, dirt, stone, water, sand, ice, snowgrass, cloud   voxel.BlockType
	coal, iron, gold, diamond, oakLog, leaves                      voxel.BlockType
}

func New(seed int64, reg *voxel.Registry) *Generator {
	g := &Generator{seed: seed, reg: reg}
	g.air = reg.LookupByName("air")
	g.grass = reg.LookupByName("grass")
	g.dirt = reg.LookupByName("dirt")
	g.stone = reg.LookupByName("stone")
	g.water = reg.LookupByName("water")
	g.sand = reg.LookupByName("sand")
	g.ice = reg.LookupByName("ice")
	g.snowgrass = reg.LookupByName("snowgrass")
	g.cloud = reg.LookupByName("cloud")
	g.coal = reg.LookupByName("coal")
	g.iron = reg.LookupByName("iron")
	g.gold = reg.LookupByName("gold")
	g.diamond = reg.LookupByName("diamond")
	g.oakLog = reg.LookupByName("oak_log")
	g.leaves = reg.LookupByName("leaves")
	return g
}

// columnFields holds the six biome-driving noise samples for one global
// (x,y) column, each with its own seed offset so the fields are
// statistically independent.
type columnFields struct {
	terrain     float64 // [-1,1]
	temperature float64 // [0,1]
	humidity    float64 // [0,1]
	hilliness   float64 // [0,1]
	oceaness    float64 // [0,1]
	cloudness   float64 // [0,1]
}

func (g *Generator) sampleColumn(wx, wy int) columnFields {
	fx, fy := float64(wx), float64(wy)
	terrain := octaveNoise2D(fx/96, fy/96, g.seed+0, 4, 0.5, 2.0)
	temperature := (octaveNoise2D(fx/200, fy/200, g.seed+1, 2, 0.5, 2.0) + 1) / 2
	humidity := (octaveNoise2D(fx/180, fy/180, g.seed+2, 2, 0.5, 2.0) + 1) / 2
	hilliness := (octaveNoise2D(fx/256, fy/256, g.seed+3, 3, 0.5, 2.0) + 1) / 2
	oceaness := (octaveNoise2D(fx/400, fy/400, g.seed+6, 2, 0.5, 2.0) + 1) / 2
	cloudness := (octaveNoise2D(fx/150, fy/150, g.seed+7, 2, 0.5, 2.0) + 1) / 2
	return columnFields{terrain, temperature, humidity, hilliness, oceaness, cloudness}
}

// HeightAt returns the deterministic terrain surface height at a global
// (x,y) block coordinate, independent of which chunk owns the column.
func (g *Generator) HeightAt(wx, wy int) int {
	f := g.sampleColumn(wx, wy)
	return g.heightFromFields(f)
}

func (g *Generator) heightFromFields(f columnFields) int {
	abs := f.terrain
	if abs < 0 {
		abs = -abs
	}
	raw := f.hilliness * abs
	hs := smoothStep3(raw)
	height := rangeMapClamped(hs, 0, 1, 63, voxel.SizeZ)

	if f.oceaness > 0.5 {
		height = oceanFloor
	} else if f.oceaness > 0 {
		t := f.oceaness / 0.5
		height = lerp(height, oceanFloor, t)
	}
	h := int(height)
	if h > voxel.MaxZ {
		h = voxel.MaxZ
	}
	if h < 0 {
		h = 0
	}
	return h
}

// blockHash returns a deterministic pseudo-random value in [0,100) for a
// world block coordinate, used for ore banding and dirt-depth jitter. It
// is a pure hash (not a stream RNG) so results never depend on call
// order, which is what makes generation reproducible under concurrent
// workers.
func (g *Generator) blockHash(wx, wy, wz int) float64 {
	var buf [28]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(int64(wx)))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(int64(wy)))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(int64(wz)))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(g.seed))
	h := xxhash.Sum64(buf[:])
	return float64(h%1000000) / 10000.0 // [0,100)
}

// Generate fills c (freshly created, world coordinate taken from
// c.Coord) with deterministic terrain. Called on a worker goroutine
// while the chunk's status is Generating.
func (g *Generator) Generate(c *voxel.Chunk) {
	ox, oy := c.Coord.WorldOrigin()

	for lx := 0; lx < voxel.SizeX; lx++ {
		for ly := 0; ly < voxel.SizeY; ly++ {
			wx, wy := ox+lx, oy+ly
			f := g.sampleColumn(wx, wy)
			height := g.heightFromFields(f)
			g.fillColumn(c, lx, ly, wx, wy, height)
			g.applyBiomePasses(c, lx, ly, wx, wy, f, height)
		}
	}

	for lx := 0; lx < voxel.SizeX; lx++ {
		for ly := 0; ly < voxel.SizeY; ly++ {
			g.maybePlaceTree(c, lx, ly)
		}
	}
}

func (g *Generator) fillColumn(c *voxel.Chunk, lx, ly, wx, wy, height int) {
	dirtCount := 3
	if g.blockHash(wx, wy, 0) >= 50 {
		dirtCount = 4
	}

	for z := 0; z <= voxel.MaxZ; z++ {
		var t voxel.BlockType
		switch {
		case z > height:
			if z <= seaLevel {
				t = g.water
			} else {
				t = g.air
			}
		case z == height:
			t = g.grass
		case z >= height-dirtCount:
			t = g.dirt
		default:
			r := g.blockHash(wx, wy, z)
			switch {
			case r < 0.1:
				t = g.diamond
			case r < 0.5:
				t = g.gold
			case r < 2.0:
				t = g.iron
			case r < 5.0:
				t = g.coal
			default:
				t = g.stone
			}
		}
		c.SetBlock(lx, ly, z, voxel.Block{TypeIndex: t})
	}
}

func (g *Generator) applyBiomePasses(c *voxel.Chunk, lx, ly, wx, wy int, f columnFields, height int) {
	// (i) sand when humidity < 0.4
	if f.humidity < 0.4 {
		count := int(rangeMapClamped(f.humidity, 0, 0.4, maxSandTop, 0) + 0.5)
		for i := 0; i < count; i++ {
			z := height - i
			if z < 0 {
				break
			}
			c.SetBlock(lx, ly, z, voxel.Block{TypeIndex: g.sand})
		}
	}

	// (ii) ice on top water blocks when temperature < 0.4
	if f.temperature < 0.4 {
		count := int(rangeMapClamped(f.temperature, 0, 0.4, maxIceTop, 0) + 0.5)
		for i := 0; i < count; i++ {
			z := seaLevel - i
			if z <= height {
				break
			}
			if c.BlockAt(lx, ly, z).TypeIndex == g.water {
				c.SetBlock(lx, ly, z, voxel.Block{TypeIndex: g.ice})
			}
		}
	}

	// (iii) above freezing level: snowgrass surface
	if height > freezingLvl && c.BlockAt(lx, ly, height).TypeIndex == g.grass {
		c.SetBlock(lx, ly, height, voxel.Block{TypeIndex: g.snowgrass})
	}

	// (iv) beach: grass at sea level becomes sand when humidity < 0.65
	if height == seaLevel && f.humidity < 0.65 && c.BlockAt(lx, ly, height).TypeIndex == g.grass {
		c.SetBlock(lx, ly, height, voxel.Block{TypeIndex: g.sand})
	}

	// (v) cloud layer
	if f.cloudness > 0.7 && c.BlockAt(lx, ly, cloudLevel).IsAir() {
		c.SetBlock(lx, ly, cloudLevel, voxel.Block{TypeIndex: g.cloud})
	}
	_ = wx
	_ = wy
}

// treeOffset is one block of a tree template relative to the surface
// block the tree is rooted at.
type treeOffset struct {
	dx, dy, dz int
	isLeaves   bool
}

var oakTemplate = func() []treeOffset {
	var offs []treeOffset
	for dz := 1; dz <= 4; dz++ {
		offs = append(offs, treeOffset{0, 0, dz, false})
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := 3; dz <= 5; dz++ {
				if dx == 0 && dy == 0 && dz <= 4 {
					continue
				}
				offs = append(offs, treeOffset{dx, dy, dz, true})
			}
		}
	}
	return offs
}()

// maybePlaceTree stamps the oak template at (lx,ly) iff the tree-density
// field has a strict local maximum in the 5x5 neighbourhood and the
// surface is non-water. Offsets landing outside this chunk's 16x16x128
// volume are dropped silently (at generation time a chunk has no linked
// neighbours yet, so BlockIterator navigation off-chunk always yields a
// null iterator).
func (g *Generator) maybePlaceTree(c *voxel.Chunk, lx, ly int) {
	ox, oy := c.Coord.WorldOrigin()
	wx, wy := ox+lx, oy+ly

	height := c.HighestNonAir(lx, ly)
	if height < 0 || c.BlockAt(lx, ly, height).TypeIndex == g.water {
		return
	}

	center := g.treeDensity(wx, wy)
	isMax := true
	for dx := -2; dx <= 2 && isMax; dx++ {
		for dy := -2; dy <= 2; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if g.treeDensity(wx+dx, wy+dy) >= center {
				isMax = false
				break
			}
		}
	}
	if !isMax {
		return
	}

	root := voxel.Iterator{Chunk: c, Index: voxel.IndexOf(lx, ly, height)}
	for _, off := range oakTemplate {
		it := root
		for i := 0; i < off.dx; i++ {
			it = it.East()
		}
		for i := 0; i < -off.dx; i++ {
			it = it.West()
		}
		for i := 0; i < off.dy; i++ {
			it = it.North()
		}
		for i := 0; i < -off.dy; i++ {
			it = it.South()
		}
		for i := 0; i < off.dz; i++ {
			it = it.Up()
		}
		if it.IsNull() || height+off.dz > voxel.MaxZ {
			continue // dropped: offset fell outside the chunk
		}
		if off.isLeaves && !it.Get().IsAir() {
			continue
		}
		t := g.oakLog
		if off.isLeaves {
			t = g.leaves
		}
		it.Set(voxel.Block{TypeIndex: t})
	}
}

func (g *Generator) treeDensity(wx, wy int) float64 {
	persistence := 0.5 + 0.3*((octaveNoise2D(float64(wx)/64, float64(wy)/64, g.seed+4, 1, 0.5, 2.0)+1)/2)
	return octaveNoise2D(float64(wx)/8, float64(wy)/8, g.seed+5, 2, persistence, 2.0)
}
