package types

import "testing"

func TestBoundContains2D(t *testing.T) {
	outer := NewBound(XYZ(0, 0, 0), XYZ(4, 4, 1))

	type spec struct {
		inner Bound
		exp   bool
	}
	specs := []spec{
		{NewBound(XYZ(1, 1, 5), XYZ(2, 2, 6)), true},
		{NewBound(XYZ(0, 0, 0), XYZ(4, 4, 0)), true},
		{NewBound(XYZ(-1, 1, 0), XYZ(2, 2, 0)), false},
		{NewBound(XYZ(1, 1, 0), XYZ(2, 4.5, 0)), false},
	}

	for index, s := range specs {
		if got := outer.Contains2D(s.inner); got != s.exp {
			t.Fatalf("[spec %d] expected Contains2D(%s) to be %t; got %t", index, s.inner, s.exp, got)
		}
	}
}

func TestBoundIntersects2D(t *testing.T) {
	b := NewBound(XYZ(1, 1, 0), XYZ(2, 2, 0))

	type spec struct {
		min, max Vec2
		exp      bool
	}
	specs := []spec{
		{XY(0, 0), XY(1, 1), true},
		{XY(1.5, 1.5), XY(1.5, 1.5), true},
		{XY(2.1, 0), XY(3, 3), false},
		{XY(0, 2.5), XY(3, 3), false},
	}

	for index, s := range specs {
		if got := b.Intersects2D(s.min, s.max); got != s.exp {
			t.Fatalf("[spec %d] expected Intersects2D(%v, %v) to be %t; got %t", index, s.min, s.max, s.exp, got)
		}
	}
}

func TestBoundExtend(t *testing.T) {
	b := EmptyBound()
	b = b.Extend(XYZ(1, 2, 3))
	b = b.Extend(XYZ(-1, 5, 0))

	if b.Min != XYZ(-1, 2, 0) {
		t.Fatalf("expected min to be %v; got %v", XYZ(-1, 2, 0), b.Min)
	}
	if b.Max != XYZ(1, 5, 3) {
		t.Fatalf("expected max to be %v; got %v", XYZ(1, 5, 3), b.Max)
	}
}
