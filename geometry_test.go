package main

import "testing"

func TestEnsureOdd(t *testing.T) {
	for n := -10; n <= 300; n++ {
		got := EnsureOdd(n)
		if got%2 == 0 {
			t.Fatalf("EnsureOdd(%d) = %d, want odd", n, got)
		}
		if got < n {
			t.Fatalf("EnsureOdd(%d) = %d, want >= %d", n, got, n)
		}
		if again := EnsureOdd(got); again != got {
			t.Fatalf("EnsureOdd not idempotent: %d -> %d -> %d", n, got, again)
		}
	}
}

func TestEnsureOdd_Unsigned(t *testing.T) {
	if got := EnsureOdd(uint16(30)); got != 31 {
		t.Errorf("expected 31, got %d", got)
	}
	if got := EnsureOdd(uint32(31)); got != 31 {
		t.Errorf("expected 31, got %d", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{12, 0, 10, 10},
		{7, 7, 7, 7},
	}
	for _, tt := range tests {
		if got := clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestRectAround(t *testing.T) {
	r := RectAround(Point{X: 100, Y: 50}, 31)
	want := Rect{X: 85, Y: 35, Width: 31, Height: 31}
	if r != want {
		t.Fatalf("got %+v, want %+v", r, want)
	}
	// The requested point is the center pixel.
	if r.X+r.Width/2 != 100 || r.Y+r.Height/2 != 50 {
		t.Errorf("center of %v is not (100, 50)", r)
	}
}

func TestRectIntersect(t *testing.T) {
	bounds := Rect{Width: 100, Height: 80}

	tests := []struct {
		name string
		r    Rect
		want Rect
	}{
		{"inside", Rect{X: 10, Y: 10, Width: 5, Height: 5}, Rect{X: 10, Y: 10, Width: 5, Height: 5}},
		{"top left", Rect{X: -2, Y: -3, Width: 5, Height: 5}, Rect{X: 0, Y: 0, Width: 3, Height: 2}},
		{"bottom right", Rect{X: 98, Y: 78, Width: 5, Height: 5}, Rect{X: 98, Y: 78, Width: 2, Height: 2}},
		{"outside", Rect{X: 200, Y: 10, Width: 5, Height: 5}, Rect{X: 100, Y: 10, Width: 0, Height: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Intersect(bounds)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	if !(Rect{X: 200, Y: 10, Width: 5, Height: 5}).Intersect(bounds).Empty() {
		t.Error("expected intersection outside the bounds to be empty")
	}
}

func TestRectString(t *testing.T) {
	if got := (Rect{X: -1, Y: 2, Width: 3, Height: 4}).String(); got != "3x4+-1+2" {
		t.Errorf("unexpected string %q", got)
	}
}
