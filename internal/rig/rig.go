package rig

import (
	"image/color"

	"garment-texture-studio/internal/mathutil"
	"garment-texture-studio/internal/texture"
	"garment-texture-studio/internal/zone"
)

// SkinColor is the flat material of untextured faces.
var SkinColor = color.NRGBA{R: 0xd4, G: 0xa5, B: 0x74, A: 0xff}

// MaterialKind tells the renderer where a face's color comes from.
type MaterialKind int

const (
	Skin MaterialKind = iota
	Textured
)

// Material is what one box face renders with.
type Material struct {
	Kind      MaterialKind
	Color     color.NRGBA
	Texture   *texture.FaceTexture
	Roughness float64
}

// Quad is one box face in world space. Corners run TL, TR, BR, BL as seen
// from outside, so texture (0,0) maps to TL and (1,1) to BR.
type Quad struct {
	Corners [4]mathutil.Vec3
	Normal  mathutil.Vec3
}

// Part is a posed box with its six materials.
type Part struct {
	Spec      zone.BodyPart
	Faces     [6]Quad
	Materials [6]Material
	// Textures holds the face buffers; nil where the face uses skin.
	Textures [6]*texture.FaceTexture
}

// Rig is the whole body. Materials and textures are allocated once.
type Rig struct {
	parts []*Part
	skin  Material
}

// New builds the rig from the static skeleton.
func New() *Rig {
	return NewFromParts(zone.BodyParts())
}

// NewFromParts builds a rig from any part list.
func NewFromParts(specs []zone.BodyPart) *Rig {
	r := &Rig{skin: Material{Kind: Skin, Color: SkinColor, Roughness: 0.8}}
	for _, spec := range specs {
		r.parts = append(r.parts, r.build(spec))
	}
	return r
}

func (r *Rig) build(spec zone.BodyPart) *Part {
	p := &Part{Spec: spec, Faces: boxFaces(spec.Size, spec.Position)}
	// Parts without a sheet render all-skin, whatever regions they declare.
	if spec.Source == zone.SourceNone {
		for _, f := range zone.FaceOrder {
			p.Materials[f] = r.skin
		}
		return p
	}

	fill := texture.White
	if spec.Source == zone.SourcePants {
		fill = texture.Denim
	}
	for _, f := range zone.FaceOrder {
		if _, ok := spec.Region(f); !ok {
			p.Materials[f] = r.skin
			continue
		}
		tex := texture.NewFaceTexture(fill)
		p.Textures[f] = tex
		p.Materials[f] = Material{Kind: Textured, Texture: tex, Roughness: 0.7}
	}
	return p
}

// Parts returns the parts in skeleton order.
func (r *Rig) Parts() []*Part { return r.parts }

// Part looks a part up by name.
func (r *Rig) Part(name string) (*Part, bool) {
	for _, p := range r.parts {
		if p.Spec.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Skin returns the shared skin material.
func (r *Rig) Skin() Material { return r.skin }

// Upload consumes every dirty flag and returns how many textures needed a
// re-upload.
func (r *Rig) Upload() int {
	n := 0
	for _, p := range r.parts {
		for _, t := range p.Textures {
			if t != nil && t.Upload() {
				n++
			}
		}
	}
	return n
}

// boxFaces builds the six faces of a box of size s centered at pos.
func boxFaces(s, pos [3]float64) [6]Quad {
	hx, hy, hz := s[0]/2, s[1]/2, s[2]/2
	c := mathutil.Vec3{pos[0], pos[1], pos[2]}
	v := func(x, y, z float64) mathutil.Vec3 { return c.Add(mathutil.Vec3{x, y, z}) }

	var q [6]Quad
	q[zone.Right] = Quad{
		Corners: [4]mathutil.Vec3{v(hx, hy, hz), v(hx, hy, -hz), v(hx, -hy, -hz), v(hx, -hy, hz)},
		Normal:  mathutil.Vec3{1, 0, 0},
	}
	q[zone.Left] = Quad{
		Corners: [4]mathutil.Vec3{v(-hx, hy, -hz), v(-hx, hy, hz), v(-hx, -hy, hz), v(-hx, -hy, -hz)},
		Normal:  mathutil.Vec3{-1, 0, 0},
	}
	q[zone.Top] = Quad{
		Corners: [4]mathutil.Vec3{v(-hx, hy, -hz), v(hx, hy, -hz), v(hx, hy, hz), v(-hx, hy, hz)},
		Normal:  mathutil.Vec3{0, 1, 0},
	}
	q[zone.Bottom] = Quad{
		Corners: [4]mathutil.Vec3{v(-hx, -hy, hz), v(hx, -hy, hz), v(hx, -hy, -hz), v(-hx, -hy, -hz)},
		Normal:  mathutil.Vec3{0, -1, 0},
	}
	q[zone.Front] = Quad{
		Corners: [4]mathutil.Vec3{v(-hx, hy, hz), v(hx, hy, hz), v(hx, -hy, hz), v(-hx, -hy, hz)},
		Normal:  mathutil.Vec3{0, 0, 1},
	}
	q[zone.Back] = Quad{
		Corners: [4]mathutil.Vec3{v(hx, hy, -hz), v(-hx, hy, -hz), v(-hx, -hy, -hz), v(hx, -hy, -hz)},
		Normal:  mathutil.Vec3{0, 0, -1},
	}
	return q
}
