// trk/surface.go
// Copyright(c) 2024-2026 trked contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package trk

// Ground surfaces carried by the absolute layout as small type codes. The
// compact layout groups each surface into a band of four even values; the
// canonical representative of each band is the value SurfaceToGround
// returns.
type Surface int32

const (
	Grass Surface = iota
	DryGrass
	Dirt
	Sand
	Concrete
	Asphalt
	Paint

	numSurfaces
)

var surfaceNames = [numSurfaces]string{
	"grass", "dry grass", "dirt", "sand", "concrete", "asphalt", "paint",
}

func (s Surface) String() string {
	if s < 0 || s >= numSurfaces {
		return "unknown"
	}
	return surfaceNames[s]
}

// SurfaceToGround returns the compact-layout ground code for a surface, or
// false for a code outside the known taxonomy.
func SurfaceToGround(s Surface) (int32, bool) {
	if s < 0 || s >= numSurfaces {
		return 0, false
	}
	return int32(s)*8 + 6, true
}

// GroundToSurface maps a compact-layout ground code back to its surface.
// Codes outside the known bands bucket to the nearest band.
func GroundToSurface(g int32) Surface {
	if g < 0 {
		return Grass
	}
	s := Surface(g / 8)
	if s >= numSurfaces {
		return Paint
	}
	return s
}

// Boundary wall codes. The compact layout packs the wall material and fence
// presence into one word as wall*4 + fence*2; the absolute layout splits
// them across the two strip type words (type1 7=wall, 8=armco; even type2
// values alternate fence off/on).
const (
	WallBit  = 4
	FenceBit = 2
)

func WallToStripTypes(w int32) (t1, t2 int32) {
	t1 = 8
	if w&WallBit != 0 {
		t1 = 7
	}
	if w&FenceBit != 0 {
		t2 = 2
	}
	return t1, t2
}

func StripTypesToWall(t1, t2 int32) int32 {
	var w int32
	if t1 == 7 {
		w |= WallBit
	}
	if t2&2 != 0 {
		w |= FenceBit
	}
	return w
}

// IsBoundaryStripType reports whether an absolute-layout strip type word
// describes a boundary rather than a ground surface.
func IsBoundaryStripType(t1 int32) bool { return t1 >= 7 }
