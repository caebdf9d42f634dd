package worldgen

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Deterministic 2-D value noise. Lattice values are hashed with xxhash
// rather than a hand-rolled integer mixer, so two runs of the generator
// for the same (seed, coord) are guaranteed byte-identical regardless of
// platform (S1).

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// latticeValue returns a value in [-1, 1] for one integer lattice point.
func latticeValue(x, z, seed int64) float64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(x))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(z))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(seed))
	h := xxhash.Sum64(buf[:])
	return float64(h&0xFFFFFFFF)/float64(0xFFFFFFFF)*2 - 1.0
}

func valueNoise2D(x, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	x1 := x0 + 1
	z1 := z0 + 1

	fx := fade(x - x0)
	fz := fade(z - z0)

	v00 := latticeValue(int64(x0), int64(z0), seed)
	v10 := latticeValue(int64(x1), int64(z0), seed)
	v01 := latticeValue(int64(x0), int64(z1), seed)
	v11 := latticeValue(int64(x1), int64(z1), seed)

	i0 := lerp(v00, v10, fx)
	i1 := lerp(v01, v11, fx)
	return lerp(i0, i1, fz) // [-1, 1]
}

// octaveNoise2D sums octaves of value noise, normalized to [-1, 1].
func octaveNoise2D(x, z float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		v := valueNoise2D(x*frequency, z*frequency, seed+int64(i*131))
		sum += v * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// smoothStep3 is Minecraft/HLSL-style cubic smoothstep, used to shape the
// hilliness field into a terrain-height contribution.
func smoothStep3(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// rangeMapClamped maps v from [inMin,inMax] to [outMin,outMax], clamping
// the input first.
func rangeMapClamped(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	t := clamp01((v - inMin) / (inMax - inMin))
	return outMin + t*(outMax-outMin)
}
