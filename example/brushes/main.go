package main

import (
	"fmt"
	"os"

	"github.com/akmonengine/chisel"
	"github.com/akmonengine/chisel/brushmap"
	"github.com/akmonengine/chisel/plane"
	"github.com/akmonengine/chisel/polytope"
	"github.com/go-gl/mathgl/mgl64"
)

// cubePlanes bounds the cube of half size s centered on center.
func cubePlanes(center mgl64.Vec3, s float64) []plane.Plane {
	return []plane.Plane{
		plane.FromPoint(mgl64.Vec3{0, 1, 0}, center.Add(mgl64.Vec3{0, s, 0})),
		plane.FromPoint(mgl64.Vec3{0, -1, 0}, center.Add(mgl64.Vec3{0, -s, 0})),
		plane.FromPoint(mgl64.Vec3{1, 0, 0}, center.Add(mgl64.Vec3{s, 0, 0})),
		plane.FromPoint(mgl64.Vec3{-1, 0, 0}, center.Add(mgl64.Vec3{-s, 0, 0})),
		plane.FromPoint(mgl64.Vec3{0, 0, -1}, center.Add(mgl64.Vec3{0, 0, -s})),
		plane.FromPoint(mgl64.Vec3{0, 0, 1}, center.Add(mgl64.Vec3{0, 0, s})),
	}
}

// pyramidPlanes bounds a square pyramid standing on y = 0 with its apex at y = s.
func pyramidPlanes(center mgl64.Vec3, s float64) []plane.Plane {
	apex := center.Add(mgl64.Vec3{0, s, 0})
	return []plane.Plane{
		plane.FromPoint(mgl64.Vec3{1, 1, 0}, apex),
		plane.FromPoint(mgl64.Vec3{-1, 1, 0}, apex),
		plane.FromPoint(mgl64.Vec3{0, 1, 1}, apex),
		plane.FromPoint(mgl64.Vec3{0, 1, -1}, apex),
		plane.FromPoint(mgl64.Vec3{0, -1, 0}, center),
	}
}

// cutCubePlanes is a cube with one corner sliced off.
func cutCubePlanes(center mgl64.Vec3, s float64) []plane.Plane {
	return append(cubePlanes(center, s),
		plane.FromPoint(mgl64.Vec3{-1, 1, -1}, center.Add(mgl64.Vec3{-0.7 * s, s, -s})))
}

func mustConvert(name string, planes []plane.Plane) *polytope.Polytope {
	brush, err := chisel.Converter{Workers: 4}.Convert(planes)
	if err != nil {
		fmt.Printf("❌ %s: %v\n", name, err)
		os.Exit(1)
	}
	return brush
}

func main() {
	scenes := []struct {
		name   string
		planes []plane.Plane
	}{
		{"cube", cubePlanes(mgl64.Vec3{0, 0, 0}, 5)},
		{"pyramid", pyramidPlanes(mgl64.Vec3{4, 0, 0}, 5)},
		{"cut cube", cutCubePlanes(mgl64.Vec3{20, 0, 0}, 5)},
	}

	container := brushmap.NewContainer(4, 256)
	for _, scene := range scenes {
		brush := mustConvert(scene.name, scene.planes)
		fmt.Printf("🧱 %s from %d planes\n%v", scene.name, len(scene.planes), brush)

		roundTrip, err := chisel.ToConvex(brush.Planes())
		if err != nil {
			fmt.Printf("   round trip failed: %v\n", err)
		} else {
			fmt.Printf("   round trip equal: %v\n", polytope.Equal(brush, roundTrip))
		}
		fmt.Printf("   bounds: %v -> %v\n\n", brush.Bounds().Min, brush.Bounds().Max)

		container.Add(brush)
	}

	fmt.Printf("🔍 Overlapping brushes:\n")
	for _, contact := range container.Contacts(2) {
		fmt.Printf("   %s <-> %s: depth %.3f along %v\n",
			scenes[contact.A].name, scenes[contact.B].name, contact.Depth, contact.Normal)
	}

	// Redundant planes are rejected instead of producing a face-less plane.
	redundant := append(cubePlanes(mgl64.Vec3{0, 0, 0}, 5), plane.New(mgl64.Vec3{1, 0, 0}, -50))
	if _, err := chisel.ToConvex(redundant); err != nil {
		fmt.Printf("\n⚠️  redundant plane: %v\n", err)
	}
}
