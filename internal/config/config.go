// Package config implements the ambient settings layer (C11): a single
// immutable-after-load struct served through a mutex-guarded package-level
// accessor, loaded once from an optional TOML file with documented
// per-field defaults, following the teacher's singleton idiom.
package config

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/pelletier/go-toml"
)

// RGB is a plain passthrough colour triple; the core never reads these
// values, it only stores and serves them for the shading collaborator.
type RGB struct {
	R, G, B float64
}

// document is the TOML-decoded shape of config.toml. Every field is
// optional; a missing key keeps the zero value, which Load then overrides
// with Settings' documented defaults.
type document struct {
	WorldSeed            *int64  `toml:"worldSeed"`
	ChunkActivationRange  *float64 `toml:"chunkActivationRange"`
	WorldTimeScale        *float64 `toml:"worldTimeScale"`
	FogStart              *float64 `toml:"fogStart"`
	FogEnd                *float64 `toml:"fogEnd"`
	FogMaxAlpha           *float64 `toml:"fogMaxAlpha"`
	IndoorLightColor      *[3]float64 `toml:"indoorLightColor"`
	DayOutdoorLightColor  *[3]float64 `toml:"dayOutdoorLightColor"`
	NightOutdoorLightColor *[3]float64 `toml:"nightOutdoorLightColor"`
	DaySkyColor           *[3]float64 `toml:"daySkyColor"`
	NightSkyColor         *[3]float64 `toml:"nightSkyColor"`
	DebugUseWhiteBlocks   *bool   `toml:"debugUseWhiteBlocks"`
	WhiteBlockSpriteCoords *[2]int `toml:"whiteBlockSpriteCoords"`
	DebugStepLighting     *bool   `toml:"debugStepLighting"`
}

// Settings is the resolved, immutable-after-load configuration.
type Settings struct {
	WorldSeed            int64
	ChunkActivationRange float64
	WorldTimeScale       float64

	FogStart    float64
	FogEnd      float64
	FogMaxAlpha float64

	IndoorLightColor       RGB
	DayOutdoorLightColor   RGB
	NightOutdoorLightColor RGB
	DaySkyColor            RGB
	NightSkyColor          RGB

	DebugUseWhiteBlocks bool
	WhiteBlockSpriteX   int
	WhiteBlockSpriteY   int

	DebugStepLighting bool
}

func defaults() Settings {
	return Settings{
		WorldSeed:              0,
		ChunkActivationRange:   128,
		WorldTimeScale:         1.0,
		FogStart:               64,
		FogEnd:                 192,
		FogMaxAlpha:            1.0,
		IndoorLightColor:       RGB{1.0, 0.8, 0.55}, // warm amber
		DayOutdoorLightColor:   RGB{1.0, 1.0, 1.0},
		NightOutdoorLightColor: RGB{0.2, 0.25, 0.4},
		DaySkyColor:            RGB{0.5, 0.75, 1.0}, // sky blue
		NightSkyColor:          RGB{0.02, 0.02, 0.08},
		DebugUseWhiteBlocks:    false,
		WhiteBlockSpriteX:      0,
		WhiteBlockSpriteY:      0,
		DebugStepLighting:      false,
	}
}

var (
	mu      sync.RWMutex
	current = defaults()
)

// Load reads path (typically "config.toml") and replaces the current
// settings. A missing file is not an error: defaults remain in effect. A
// malformed file is reported but still non-fatal — defaults remain in
// effect per §7, callers may log the error themselves.
func Load(path string) error {
	s := defaults()

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			mu.Lock()
			current = s
			mu.Unlock()
			return nil
		}
		return err
	}

	var doc document
	if err := toml.Unmarshal(contents, &doc); err != nil {
		mu.Lock()
		current = s
		mu.Unlock()
		return err
	}

	applyDoc(&s, &doc)
	mu.Lock()
	current = s
	mu.Unlock()
	return nil
}

func applyDoc(s *Settings, doc *document) {
	if doc.WorldSeed != nil {
		s.WorldSeed = *doc.WorldSeed
	}
	if doc.ChunkActivationRange != nil {
		s.ChunkActivationRange = *doc.ChunkActivationRange
	}
	if doc.WorldTimeScale != nil {
		s.WorldTimeScale = *doc.WorldTimeScale
	}
	if doc.FogStart != nil {
		s.FogStart = *doc.FogStart
	}
	if doc.FogEnd != nil {
		s.FogEnd = *doc.FogEnd
	}
	if doc.FogMaxAlpha != nil {
		s.FogMaxAlpha = *doc.FogMaxAlpha
	}
	if doc.IndoorLightColor != nil {
		s.IndoorLightColor = rgbFromArray(*doc.IndoorLightColor)
	}
	if doc.DayOutdoorLightColor != nil {
		s.DayOutdoorLightColor = rgbFromArray(*doc.DayOutdoorLightColor)
	}
	if doc.NightOutdoorLightColor != nil {
		s.NightOutdoorLightColor = rgbFromArray(*doc.NightOutdoorLightColor)
	}
	if doc.DaySkyColor != nil {
		s.DaySkyColor = rgbFromArray(*doc.DaySkyColor)
	}
	if doc.NightSkyColor != nil {
		s.NightSkyColor = rgbFromArray(*doc.NightSkyColor)
	}
	if doc.DebugUseWhiteBlocks != nil {
		s.DebugUseWhiteBlocks = *doc.DebugUseWhiteBlocks
	}
	if doc.WhiteBlockSpriteCoords != nil {
		s.WhiteBlockSpriteX = doc.WhiteBlockSpriteCoords[0]
		s.WhiteBlockSpriteY = doc.WhiteBlockSpriteCoords[1]
	}
	if doc.DebugStepLighting != nil {
		s.DebugStepLighting = *doc.DebugStepLighting
	}
}

func rgbFromArray(a [3]float64) RGB { return RGB{a[0], a[1], a[2]} }

// Current returns a copy of the active settings.
func Current() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}
