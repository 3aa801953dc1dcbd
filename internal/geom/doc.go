// Package geom provides the spatial primitives shared by scene building
// and animation.
//
// The package defines:
//
//   - [Vec3]: a 3D point or direction in world units (Y is up)
//   - [Domain]: an axis-aligned sampling region; a flat domain (Min.Y == Max.Y)
//     describes ground-level 2D placement
//   - [Zone]: a keep-out region, implemented by [Sphere] and [Box]
//
// # Example
//
//	keepOut, _ := geom.NewSphere(geom.Vec3{}, 5)
//	ground := geom.Flat(-20, 20, -20, 20, 0)
//	ok := geom.Outside(p, keepOut)
//
// Zones are immutable values and safe to share between goroutines.
package geom
