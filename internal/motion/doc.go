// Package motion advances the animated parts of a scene once per frame.
//
// Two kinds of state are updated:
//
//   - [AnimatedPoint]: position + velocity with optional per-axis bounce
//     ranges (fireflies and other wandering lights)
//   - [ParticleField]: a flat x,y,z buffer of falling particles that teleport
//     back to a ceiling once they drop below a floor (snowfall)
//
// An [Updater] owns references to both and applies them in [Updater.Tick].
// Velocities and fall speeds are expressed in world units per reference
// frame (1/[ReferenceFPS] s); the tick delta counts reference frames, so a
// fixed-step loop passes 1 and a wall-clock loop passes [FrameDelta].
//
// # Thread Safety
//
// Tick takes exclusive mutation rights over everything registered with the
// Updater for its duration. Callers must not read or write points or the
// particle buffer from other goroutines while a Tick is running. Large
// particle fields are advanced in disjoint chunks by [ParallelFor], which
// joins its workers before Fall returns.
package motion
