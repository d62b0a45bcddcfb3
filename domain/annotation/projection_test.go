package annotation

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestProject_ScenarioB(t *testing.T) {
	tr, _ := ComputeTransform(NewSize(500, 500), NewSize(1000, 500))
	display := ToDisplay(Point{X: 50, Y: 150}, tr.Offset)

	got := Project([]Point{display}, tr.Rendered, NewSize(1000, 500))
	if len(got) != 1 {
		t.Fatalf("len(Project()) = %d, want 1", len(got))
	}
	if got[0] != (Point{X: 100, Y: 50}) {
		t.Errorf("Project() = %v, want {100 50}", got[0])
	}
}

func TestProject_NotLoaded(t *testing.T) {
	got := Project([]Point{{X: 1, Y: 2}}, Size{}, Size{})
	if got == nil {
		t.Fatal("Project() = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("len(Project()) = %d, want 0", len(got))
	}

	if got := Project([]Point{{X: 1, Y: 2}}, NewSize(0, 250), NewSize(1000, 500)); len(got) != 0 {
		t.Errorf("len(Project()) with zero width = %d, want 0", len(got))
	}
}

func TestProject_Clamp(t *testing.T) {
	rendered := NewSize(500, 250)
	natural := NewSize(1000, 500)

	tests := []struct {
		name string
		in   Point
		want Point
	}{
		{"left of image", Point{X: -3, Y: 100}, Point{X: 0, Y: 200}},
		{"right of image", Point{X: 500.4, Y: 100}, Point{X: 1000, Y: 200}},
		{"above image", Point{X: 100, Y: -0.1}, Point{X: 200, Y: 0}},
		{"below image", Point{X: 100, Y: 9000}, Point{X: 200, Y: 500}},
		{"far corner", Point{X: 1e9, Y: -1e9}, Point{X: 1000, Y: 0}},
		{"exact edge", Point{X: 500, Y: 250}, Point{X: 1000, Y: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project([]Point{tt.in}, rendered, natural)[0]
			if got != tt.want {
				t.Errorf("Project(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestProject_RoundTrip(t *testing.T) {
	rendered := NewSize(333.3, 187.5)
	natural := NewSize(1777, 1000)

	for x := 0.0; x <= rendered.Width; x += 37.1 {
		for y := 0.0; y <= rendered.Height; y += 23.3 {
			in := Point{X: x, Y: y}
			img := Project([]Point{in}, rendered, natural)[0]
			back, ok := Unproject(img, rendered, natural)
			if !ok {
				t.Fatal("Unproject() ok = false")
			}
			if !scalar.EqualWithinAbs(back.X, x, 1e-9) || !scalar.EqualWithinAbs(back.Y, y, 1e-9) {
				t.Errorf("round trip %v -> %v -> %v", in, img, back)
			}
		}
	}
}

func TestProject_Idempotent(t *testing.T) {
	points := []Point{{X: 10, Y: 20}, {X: 600, Y: -5}, {X: 10, Y: 20}, {X: 250, Y: 125}}
	rendered := NewSize(500, 250)
	natural := NewSize(1000, 500)

	first := Project(points, rendered, natural)
	second := Project(points, rendered, natural)

	if len(first) != len(points) || len(second) != len(points) {
		t.Fatalf("lengths = %d, %d, want %d", len(first), len(second), len(points))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("index %d: %v != %v", i, first[i], second[i])
		}
	}
	// Input order is kept, duplicates included.
	if first[0] != first[2] {
		t.Errorf("duplicate points projected differently: %v vs %v", first[0], first[2])
	}
}
