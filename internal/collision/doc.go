// Package collision projects particles out of obstacles after an
// integration step.
//
// Two obstacles are supported, applied in a fixed order by [Resolve]:
// a sphere, whose correction is added to the particle velocity, and a
// horizontal ground plane, whose correction replaces it. Pinned particles
// are never moved.
package collision
