package arrange

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/glyphorbit/pkg/mesh"
)

// epsilon is the length below which a direction is treated as zero.
const epsilon = 1e-9

// Up is the world up vector used for look-at orientation.
var Up = mgl64.Vec3{0, 1, 0}

// Object is one glyph in the scene. The arrangers only write Position,
// Orientation, Target and the tint fields.
type Object struct {
	Index int
	Rune  rune
	Mesh  *mesh.Mesh

	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Target      mgl64.Vec3

	Tint   colorful.Color
	Tinted bool
}

// Collection is the ordered set of objects of one loaded font. Object i
// must have Index i.
type Collection []*Object

// Placement is the result of evaluating a shape for one index.
type Placement struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
}

// Transform returns the object's model matrix.
func (o *Object) Transform() mgl64.Mat4 {
	return mgl64.Translate3D(o.Position[0], o.Position[1], o.Position[2]).Mul4(o.Orientation.Mat4())
}

// ResetRotation sets the orientation to identity.
func (o *Object) ResetRotation() {
	o.Orientation = mgl64.QuatIdent()
}

func (o *Object) place(p Placement) {
	o.Position = p.Position
	o.Target = p.Target
	o.Orientation = LookRotation(p.Position, p.Target, Up)
}

// ClearTint removes any per-object colour.
func (o *Object) ClearTint() {
	o.Tint = colorful.Color{}
	o.Tinted = false
}

// Len returns the number of objects.
func (c Collection) Len() int { return len(c) }

// Release frees every mesh in the collection.
func (c Collection) Release() {
	for _, o := range c {
		if o != nil {
			o.Mesh.Release()
		}
	}
}

func (c Collection) clearTints() {
	for _, o := range c {
		o.ClearTint()
	}
}

// LookRotation returns the rotation that points the local +Z axis from eye
// towards target, keeping the local +Y axis as close to up as possible.
// When eye and target coincide the identity basis is used.
func LookRotation(eye, target, up mgl64.Vec3) mgl64.Quat {
	z := target.Sub(eye)
	if z.Len() < epsilon {
		z = mgl64.Vec3{0, 0, 1}
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.Len() < epsilon {
		// z is parallel to up
		if up[2] == 1 || up[2] == -1 {
			z[0] += 0.0001
		} else {
			z[2] += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(x, y, z).Mat4()).Normalize()
}
