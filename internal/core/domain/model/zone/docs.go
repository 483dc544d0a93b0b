// Package zone holds the read-only delivery zone model. A zone is a circle
// around a center point with a flat delivery fee; zones may overlap.
package zone
