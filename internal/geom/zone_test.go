package geom

import (
	"errors"
	"math"
	"testing"
)

func TestNewSphere_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
	}{
		{"zero", 0},
		{"negative", -1},
		{"NaN", math.NaN()},
		{"+Inf", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSphere(Vec3{}, tt.radius)
			if !errors.Is(err, ErrInvalidZone) {
				t.Errorf("expected ErrInvalidZone, got %v", err)
			}
		})
	}
}

func TestSphere_Contains(t *testing.T) {
	s, err := NewSphere(Vec3{}, 5)
	if err != nil {
		t.Fatalf("new sphere: %v", err)
	}

	tests := []struct {
		name   string
		p      Vec3
		inside bool
	}{
		{"center", Vec3{}, true},
		{"just inside", Vec3{4.999, 0, 0}, true},
		{"on surface", Vec3{3, 0, 4}, false},
		{"outside", Vec3{10, 0, 10}, false},
		{"above", Vec3{0, 6, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Contains(tt.p); got != tt.inside {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.inside)
			}
		})
	}
}

func TestNewBox_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		min, max Vec3
	}{
		{"inverted", Vec3{1, 1, 1}, Vec3{0, 0, 0}},
		{"flat", Vec3{0, 0, 0}, Vec3{1, 0, 1}},
		{"NaN", Vec3{math.NaN(), 0, 0}, Vec3{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBox(tt.min, tt.max)
			if !errors.Is(err, ErrInvalidZone) {
				t.Errorf("expected ErrInvalidZone, got %v", err)
			}
		})
	}
}

func TestBox_ContainsAndClearance(t *testing.T) {
	b, err := NewBox(Vec3{-1, -1, -1}, Vec3{1, 1, 1})
	if err != nil {
		t.Fatalf("new box: %v", err)
	}

	if !b.Contains(Vec3{1, 1, 1}) {
		t.Error("expected corner to be contained")
	}
	if b.Contains(Vec3{1.01, 0, 0}) {
		t.Error("expected point past face to be outside")
	}
	if got := b.Clearance(Vec3{4, 0, 0}); math.Abs(got-3) > 1e-12 {
		t.Errorf("expected clearance 3, got %f", got)
	}
	if got := b.Clearance(Vec3{0, 0, 0}); got != 0 {
		t.Errorf("expected clearance 0 inside, got %f", got)
	}
}

func TestOutside(t *testing.T) {
	s, _ := NewSphere(Vec3{}, 5)
	b, _ := NewBox(Vec3{10, -1, 10}, Vec3{12, 1, 12})

	if !Outside(Vec3{100, 0, 100}) {
		t.Error("empty zone set should accept every point")
	}
	if Outside(Vec3{1, 0, 1}, s, b) {
		t.Error("point in sphere reported outside")
	}
	if Outside(Vec3{11, 0, 11}, s, b) {
		t.Error("point in box reported outside")
	}
	if !Outside(Vec3{-10, 0, -10}, s, b) {
		t.Error("free point reported inside")
	}
}

func TestMinClearance(t *testing.T) {
	if !math.IsInf(MinClearance(Vec3{}), 1) {
		t.Error("expected +Inf clearance with no zones")
	}

	s, _ := NewSphere(Vec3{}, 5)
	if got := MinClearance(Vec3{8, 0, 0}, s); math.Abs(got-3) > 1e-12 {
		t.Errorf("expected clearance 3, got %f", got)
	}
}

func TestDomain_Validate(t *testing.T) {
	if err := Square(20, 0).Validate(); err != nil {
		t.Errorf("expected valid domain, got %v", err)
	}

	bad := Domain{Min: Vec3{1, 0, 0}, Max: Vec3{0, 0, 1}}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDomain) {
		t.Errorf("expected ErrInvalidDomain, got %v", err)
	}
}

func TestDomain_Lerp(t *testing.T) {
	d := Domain{Min: Vec3{-20, 1, -20}, Max: Vec3{20, 6, 20}}

	got := d.Lerp(Vec3{0.5, 0.5, 0.5})
	want := Vec3{0, 3.5, 0}
	if got != want {
		t.Errorf("Lerp = %v, want %v", got, want)
	}

	flat := Square(20, 0.25)
	if !flat.Flat() {
		t.Error("expected flat domain")
	}
	if p := flat.Lerp(Vec3{0.1, 0.9, 0.7}); p.Y != 0.25 {
		t.Errorf("flat domain should pin Y, got %f", p.Y)
	}
}
