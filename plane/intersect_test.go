package plane

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestIntersectThree(t *testing.T) {
	tests := []struct {
		name     string
		a, b, c  Plane
		expected mgl64.Vec3
	}{
		{
			name:     "axis aligned corner",
			a:        New(mgl64.Vec3{1, 0, 0}, -5),
			b:        New(mgl64.Vec3{0, 1, 0}, -5),
			c:        New(mgl64.Vec3{0, 0, 1}, -5),
			expected: mgl64.Vec3{5, 5, 5},
		},
		{
			name:     "negative determinant",
			a:        New(mgl64.Vec3{0, 1, 0}, -5),
			b:        New(mgl64.Vec3{1, 0, 0}, -5),
			c:        New(mgl64.Vec3{0, 0, 1}, 5),
			expected: mgl64.Vec3{5, 5, -5},
		},
		{
			name:     "pyramid apex",
			a:        FromPoint(mgl64.Vec3{0, 1, 2}, mgl64.Vec3{0, 5, 0}),
			b:        FromPoint(mgl64.Vec3{0, 1, -2}, mgl64.Vec3{0, 5, 0}),
			c:        FromPoint(mgl64.Vec3{2, 1, 0}, mgl64.Vec3{0, 5, 0}),
			expected: mgl64.Vec3{0, 5, 0},
		},
		{
			// A plane parallel to the z axis: sampling a point with a ray along z
			// would never hit it.
			name:     "plane parallel to z axis",
			a:        New(mgl64.Vec3{1, 1, 0}, -2),
			b:        New(mgl64.Vec3{1, -1, 0}, 0),
			c:        New(mgl64.Vec3{0, 0, 1}, -3),
			expected: mgl64.Vec3{1, 1, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntersectThree(tt.a, tt.b, tt.c)
			if !ok {
				t.Fatalf("expected a unique intersection")
			}
			if !vec3ApproxEqual(got, tt.expected, 1e-9) {
				t.Errorf("IntersectThree = %v, want %v", got, tt.expected)
			}
			for _, p := range []Plane{tt.a, tt.b, tt.c} {
				if p.Classify(got) != On {
					t.Errorf("intersection %v is not on %v", got, p)
				}
			}
		})
	}
}

func TestIntersectThreeSingular(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Plane
	}{
		{
			name: "two parallel planes",
			a:    New(mgl64.Vec3{0, 1, 0}, -5),
			b:    New(mgl64.Vec3{0, -1, 0}, -5),
			c:    New(mgl64.Vec3{1, 0, 0}, -5),
		},
		{
			name: "three planes sharing a line",
			a:    New(mgl64.Vec3{1, 0, 0}, 0),
			b:    New(mgl64.Vec3{0, 1, 0}, 0),
			c:    New(mgl64.Vec3{1, 1, 0}, 0),
		},
		{
			name: "identical planes",
			a:    New(mgl64.Vec3{0, 0, 1}, 1),
			b:    New(mgl64.Vec3{0, 0, 1}, 1),
			c:    New(mgl64.Vec3{0, 0, 1}, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := IntersectThree(tt.a, tt.b, tt.c); ok {
				t.Errorf("expected no unique intersection, det = %v", Determinant(tt.a, tt.b, tt.c))
			}
		})
	}
}

func TestDeterminantSign(t *testing.T) {
	x := New(mgl64.Vec3{1, 0, 0}, 0)
	y := New(mgl64.Vec3{0, 1, 0}, 0)
	z := New(mgl64.Vec3{0, 0, 1}, 0)

	if d := Determinant(x, y, z); math.Abs(d-1) > 1e-12 {
		t.Errorf("det(x, y, z) = %v, want 1", d)
	}
	if d := Determinant(y, x, z); math.Abs(d+1) > 1e-12 {
		t.Errorf("det(y, x, z) = %v, want -1", d)
	}
}

func TestIntersectTwo(t *testing.T) {
	a := New(mgl64.Vec3{1, 0, 0}, -5) // x = 5
	b := New(mgl64.Vec3{0, 1, 0}, -3) // y = 3

	line, ok := IntersectTwo(a, b)
	if !ok {
		t.Fatalf("expected the planes to intersect")
	}
	if !vec3ApproxEqual(line.Point, mgl64.Vec3{5, 3, 0}, 1e-12) {
		t.Errorf("line point = %v, want (5, 3, 0)", line.Point)
	}
	if !vec3ApproxEqual(line.Direction, mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("line direction = %v, want (0, 0, 1)", line.Direction)
	}

	// Every point along the line lies on both planes.
	for _, s := range []float64{-10, 0, 2.5, 40} {
		p := line.Point.Add(line.Direction.Mul(s))
		if a.Classify(p) != On || b.Classify(p) != On {
			t.Errorf("point %v along the line is not on both planes", p)
		}
	}
}

func TestIntersectTwoOblique(t *testing.T) {
	a := FromPoint(mgl64.Vec3{-1, 1, -1}, mgl64.Vec3{-3.5, 5, -5})
	b := New(mgl64.Vec3{0, 0, -1}, -5)

	line, ok := IntersectTwo(a, b)
	if !ok {
		t.Fatalf("expected the planes to intersect")
	}
	if a.Classify(line.Point) != On || b.Classify(line.Point) != On {
		t.Errorf("line point %v is not on both planes", line.Point)
	}
	if math.Abs(line.Point.Dot(line.Direction)) > 1e-9 {
		t.Errorf("line point should be the closest point to the origin")
	}
}

func TestIntersectTwoParallel(t *testing.T) {
	a := New(mgl64.Vec3{0, 1, 0}, -5)
	b := New(mgl64.Vec3{0, -2, 0}, -5)

	if _, ok := IntersectTwo(a, b); ok {
		t.Errorf("parallel planes should not intersect")
	}
}
