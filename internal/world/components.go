package world

import (
	"fmt"

	"github.com/san-kum/wintersim/internal/geom"
)

// Kind identifies what a scattered entity represents.
type Kind uint8

const (
	KindTree Kind = iota
	KindMushroom
	KindFirefly
)

func (k Kind) String() string {
	switch k {
	case KindTree:
		return "tree"
	case KindMushroom:
		return "mushroom"
	case KindFirefly:
		return "firefly"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Part is one primitive of a decoration, centered at Center.
type Part struct {
	Name   string
	Shape  string
	Center geom.Vec3
	Radius float64
	Height float64
	Color  string
}

// Anchor is the ground position a decoration was placed at.
type Anchor struct {
	Position geom.Vec3
}

// Decoration is a static scattered object made of up to two parts.
type Decoration struct {
	Kind  Kind
	Parts [2]Part
}

// Light is a point light attached to a firefly.
type Light struct {
	Color     string
	Intensity float64
	Range     float64
}

// Focal is the model in the middle of the clearing.
type Focal struct {
	Name       string
	Position   geom.Vec3
	Scale      float64
	SafeRadius float64
	URL        string
}
