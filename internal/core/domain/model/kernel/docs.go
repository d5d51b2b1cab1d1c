// Package kernel holds the primitives shared by every aggregate of the booking core:
// identifiers, geographic points, agent roles with their capabilities, and the actor
// on whose behalf an operation runs.
//
// All types are immutable values guarded against zero-value construction.
package kernel
