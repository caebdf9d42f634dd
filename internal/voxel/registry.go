package voxel

import "fmt"

// UVRect is a pre-resolved sprite-sheet cell (integer grid coordinates);
// the renderer collaborator turns these into texture-atlas UVs.
type UVRect struct {
	SheetX, SheetY int
}

// BlockDefinition is the immutable, registry-indexed description of one
// block type. The table is append-only after NewRegistry builds it.
type BlockDefinition struct {
	Index              BlockType
	Name               string
	Visible            bool
	Solid              bool
	Opaque             bool
	IndoorLightEmission uint8 // 0-15
	TopUV, BottomUV, SideUV UVRect
}

// Registry is the block-definition table plus the sibling dig-crack
// overlay table. It is populated once by NewRegistry and is read-only
// (and therefore safely shareable across goroutines) afterward.
type Registry struct {
	defs      []BlockDefinition
	byName    map[string]BlockType
	digCracks []UVRect
}

// NewRegistry builds the canonical 18-entry block table, grounded on the
// original engine's BlockDefintion::CreateAllDefintions list and UV
// layout (dig-crack overlay occupies 6 consecutive sheet cells starting
// at (32,46)).
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]BlockType)}

	r.register("air", false, false, false, 0, UVRect{}, UVRect{}, UVRect{})
	r.register("grass", true, true, true, 0, UVRect{0, 0}, UVRect{2, 0}, UVRect{1, 0})
	r.register("dirt", true, true, true, 0, UVRect{2, 0}, UVRect{2, 0}, UVRect{2, 0})
	r.register("stone", true, true, true, 0, UVRect{3, 0}, UVRect{3, 0}, UVRect{3, 0})
	r.register("brick", true, true, true, 0, UVRect{4, 0}, UVRect{4, 0}, UVRect{4, 0})
	r.register("glowstone", true, true, true, 15, UVRect{5, 0}, UVRect{5, 0}, UVRect{5, 0})
	r.register("water", true, false, false, 0, UVRect{6, 0}, UVRect{6, 0}, UVRect{6, 0})
	r.register("coal", true, true, true, 0, UVRect{7, 0}, UVRect{7, 0}, UVRect{7, 0})
	r.register("cobblestone", true, true, true, 0, UVRect{8, 0}, UVRect{8, 0}, UVRect{8, 0})
	r.register("iron", true, true, true, 0, UVRect{9, 0}, UVRect{9, 0}, UVRect{9, 0})
	r.register("gold", true, true, true, 0, UVRect{10, 0}, UVRect{10, 0}, UVRect{10, 0})
	r.register("diamond", true, true, true, 0, UVRect{11, 0}, UVRect{11, 0}, UVRect{11, 0})
	r.register("sand", true, true, true, 0, UVRect{12, 0}, UVRect{12, 0}, UVRect{12, 0})
	r.register("ice", true, true, false, 0, UVRect{13, 0}, UVRect{13, 0}, UVRect{13, 0})
	r.register("oak_log", true, true, true, 0, UVRect{14, 1}, UVRect{14, 1}, UVRect{14, 0})
	r.register("leaves", true, true, false, 0, UVRect{15, 0}, UVRect{15, 0}, UVRect{15, 0})
	r.register("snowgrass", true, true, true, 0, UVRect{0, 1}, UVRect{2, 0}, UVRect{1, 1})
	r.register("cloud", true, false, false, 0, UVRect{2, 1}, UVRect{2, 1}, UVRect{2, 1})

	for i := 0; i < 6; i++ {
		r.digCracks = append(r.digCracks, UVRect{32 + i, 46})
	}

	return r
}

func (r *Registry) register(name string, visible, solid, opaque bool, emission uint8, top, bottom, side UVRect) BlockType {
	idx := BlockType(len(r.defs))
	r.defs = append(r.defs, BlockDefinition{
		Index:               idx,
		Name:                name,
		Visible:             visible,
		Solid:               solid,
		Opaque:              opaque,
		IndoorLightEmission: emission,
		TopUV:               top,
		BottomUV:            bottom,
		SideUV:              side,
	})
	r.byName[name] = idx
	return idx
}

// Lookup returns the definition for a type index. Out-of-range indices
// return the zero-value air definition — index validity is guaranteed by
// construction (chunk storage never holds an index outside the table).
func (r *Registry) Lookup(t BlockType) *BlockDefinition {
	if int(t) >= len(r.defs) {
		return &r.defs[0]
	}
	return &r.defs[t]
}

// LookupByName resolves a block name to its type index. An unknown name
// is a fatal configuration error: it indicates the caller (generator,
// save loader) references a block the registry was never told about.
func (r *Registry) LookupByName(name string) BlockType {
	t, ok := r.byName[name]
	if !ok {
		panic(fmt.Sprintf("voxel: unknown block name %q", name))
	}
	return t
}

func (r *Registry) IsOpaque(t BlockType) bool { return r.Lookup(t).Opaque }
func (r *Registry) IsSolid(t BlockType) bool  { return r.Lookup(t).Solid }
func (r *Registry) Emission(t BlockType) uint8 { return r.Lookup(t).IndoorLightEmission }

// DigCrackUV returns the overlay UV for a 1-6 dig-progress stage.
func (r *Registry) DigCrackUV(stage uint8) UVRect {
	if stage == 0 || int(stage) > len(r.digCracks) {
		return UVRect{}
	}
	return r.digCracks[stage-1]
}

func (r *Registry) DigCrackUVCount() int { return len(r.digCracks) }

// UVFor resolves the pre-resolved sprite cell for a block's face.
func (r *Registry) UVFor(t BlockType, face BlockFace) UVRect {
	def := r.Lookup(t)
	switch face {
	case FaceTop:
		return def.TopUV
	case FaceBottom:
		return def.BottomUV
	default:
		return def.SideUV
	}
}
