package zone

// Face is one of the six canonical box faces.
type Face int

// Faces in material order.
const (
	Right Face = iota
	Left
	Top
	Bottom
	Front
	Back
)

// FaceOrder is the fixed enumeration used for box materials.
var FaceOrder = [6]Face{Right, Left, Top, Bottom, Front, Back}

var faceNames = [6]string{"right", "left", "top", "bottom", "front", "back"}

func (f Face) String() string {
	if f < 0 || int(f) >= len(faceNames) {
		return "unknown"
	}
	return faceNames[f]
}

// Source selects which sheet textures a body part.
type Source int

const (
	// SourceNone parts always render with the skin material.
	SourceNone Source = iota
	SourceShirt
	SourcePants
)

func (s Source) String() string {
	switch s {
	case SourceShirt:
		return "shirt"
	case SourcePants:
		return "pants"
	default:
		return "none"
	}
}

// Part names.
const (
	Torso    = "torso"
	RightArm = "rightArm"
	LeftArm  = "leftArm"
	RightLeg = "rightLeg"
	LeftLeg  = "leftLeg"
	Head     = "head"
)

// BodyPart is a box in the static skeleton.
type BodyPart struct {
	Name     string
	Size     [3]float64
	Position [3]float64
	Source   Source
	// Faces is indexed by Face; a nil entry has no mapping.
	Faces [6]*Region
}

// Region returns the mapped region for a face, if any.
func (p BodyPart) Region(f Face) (Region, bool) {
	r := p.Faces[f]
	if r == nil || p.Source == SourceNone || r.Empty() {
		return Region{}, false
	}
	return *r, true
}

func reg(x, y, w, h int) *Region { return &Region{X: x, Y: y, W: w, H: h} }

// limbFaces returns the right- or left-limb region set shared by arms and legs.
func limbFaces(right bool) [6]*Region {
	if right {
		return [6]*Region{
			Right:  reg(0, 388, 64, 128),
			Left:   reg(128, 388, 64, 128),
			Top:    reg(64, 323, 64, 64),
			Bottom: reg(64, 516, 64, 43),
			Front:  reg(64, 388, 64, 128),
			Back:   reg(129, 388, 64, 128),
		}
	}
	return [6]*Region{
		Right:  reg(391, 388, 64, 128),
		Left:   reg(519, 388, 64, 128),
		Top:    reg(455, 323, 64, 64),
		Bottom: reg(455, 516, 64, 43),
		Front:  reg(455, 388, 64, 128),
		Back:   reg(520, 388, 64, 128),
	}
}

// BodyParts returns the skeleton in a stable order.
func BodyParts() []BodyPart {
	return []BodyPart{
		{
			Name:     Torso,
			Size:     [3]float64{2, 2, 1},
			Position: [3]float64{0, 0, 0},
			Source:   SourceShirt,
			Faces: [6]*Region{
				Right:  reg(64, 128, 64, 128),
				Left:   reg(256, 128, 64, 128),
				Top:    reg(128, 0, 128, 64),
				Bottom: reg(128, 256, 128, 64),
				Front:  reg(128, 128, 128, 128),
				Back:   reg(327, 128, 128, 128),
			},
		},
		{Name: RightArm, Size: [3]float64{1, 2, 1}, Position: [3]float64{-1.5, 0, 0}, Source: SourceShirt, Faces: limbFaces(true)},
		{Name: LeftArm, Size: [3]float64{1, 2, 1}, Position: [3]float64{1.5, 0, 0}, Source: SourceShirt, Faces: limbFaces(false)},
		{Name: RightLeg, Size: [3]float64{1, 2, 1}, Position: [3]float64{-0.5, -2, 0}, Source: SourcePants, Faces: limbFaces(true)},
		{Name: LeftLeg, Size: [3]float64{1, 2, 1}, Position: [3]float64{0.5, -2, 0}, Source: SourcePants, Faces: limbFaces(false)},
		{Name: Head, Size: [3]float64{1.2, 1.2, 1.2}, Position: [3]float64{0, 1.6, 0}, Source: SourceNone},
	}
}
