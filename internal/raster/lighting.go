package raster

import (
	"math"

	"garment-texture-studio/internal/mathutil"
)

// DirLight is a directional light shining from Dir towards the origin.
type DirLight struct {
	Dir       mathutil.Vec3
	Intensity float64
}

// LightConfig holds precomputed lighting parameters.
type LightConfig struct {
	Ambient   float64
	Lights    []DirLight
	SRGBGamma float64
	InvGamma  float64
}

// DefaultLightConfig is the preview rig: a strong ambient term, a key light
// from the upper front right and a dim back light.
func DefaultLightConfig() LightConfig {
	return LightConfig{
		Ambient: 0.7,
		Lights: []DirLight{
			{Dir: mathutil.Vec3{3, 4, 5}.Normalize(), Intensity: 0.6},
			{Dir: mathutil.Vec3{-2, 2, -3}.Normalize(), Intensity: 0.3},
		},
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a face normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	shade := lc.Ambient
	for _, l := range lc.Lights {
		if ndl := normal.Dot(l.Dir); ndl > 0 {
			shade += ndl * l.Intensity
		}
	}
	return shade
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// shadeChannel lights one sRGB channel in linear space.
func (lc *LightConfig) shadeChannel(c uint8, shade float64) uint8 {
	return clamp255(math.Pow(srgbToLinear[c]*shade, lc.InvGamma) * 255)
}
