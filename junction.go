// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package boxnet

// junction.go ports the Junction primitives from the original C
// implementation. The Go code keeps the original function names
// (translated to camelCase) to ease cross-referencing against
// the source this was ported from:
//
//	boxnet.go     : boxnet.h, Boxnet_new/free/addbox/delbox/collide
//	box.go        : Box, Box_new, Box_free
//	junction.go   : Junction, detach, needsflip
//	insert.go     : Junction_insert
//	repair.go     : Junction_flip, Junction_flipone, Junction_slide,
//	                Junction_slide_T, RepairQueue, Boxnet_repair
//	collide.go    : boxcollisions, Boxnet_collide

// Direction is one of the four cardinal ray directions leaving a box's
// center junction.
//
//	0 = up (+y), 1 = left (-x), 2 = down (-y), 3 = right (+x)
type Direction uint8

const (
	Up Direction = iota
	Left
	Down
	Right
)

// Reverse returns the opposite direction (d ^ 2).
func (d Direction) Reverse() Direction { return d ^ 2 }

// rotateCCW rotates 90 degrees counter-clockwise: (d+1) mod 4.
func (d Direction) rotateCCW() Direction { return (d + 1) % 4 }

// vertical reports whether d is Up or Down, i.e. the ray runs along y.
func (d Direction) vertical() bool { return d%2 == 0 }

// junction dir codes beyond the four cardinal directions.
const (
	dirCenter   uint8 = 4 // the box's own center junction
	dirDetached uint8 = 5 // ray-end not currently part of any ray
)

// junction is a node in the planar ray graph: either a box's center
// (dir == dirCenter), a T-junction where one ray terminates against
// another (dir in 0..3), or a detached ray-end (dir == dirDetached).
// Junctions are never allocated on their own; every junction lives
// inline inside the Box that owns it (see box.go).
type junction struct {
	nb       [4]*junction // neighbors, nil at the edge of the net
	pos      [2]*Box      // pos[0] owns the x anchor, pos[1] the y anchor
	dir      uint8        // 0..3 (T-junction), dirCenter, or dirDetached
	beamDir  Direction    // at a T-junction, the direction of the crossing ray
	enqueued uint8        // bitmask, one bit per direction, repair-queue dedup
}

// detach removes jnc from the net as if its terminating ray had been
// pulled out: the ray that continues past jnc (along beamDir) is
// spliced so it runs directly between jnc's two beamDir neighbors, and
// jnc itself becomes detached. The caller is responsible for deciding
// what to do with the loose ray-end jnc represents.
func detach(jnc *junction) {
	if jnc.dir >= dirCenter {
		panic("boxnet: detach of a non-T-junction")
	}
	next := jnc.nb[jnc.beamDir]
	prev := jnc.nb[jnc.beamDir.Reverse()]
	prev.nb[jnc.beamDir] = next
	if next != nil {
		next.nb[jnc.beamDir.Reverse()] = prev
	}
	jnc.dir = dirDetached
}

// needsFlip reports whether the link from jnc to its neighbor in
// direction d violates the spatial consistency invariant: the
// neighbor's anchor coordinate along d's axis must be on the correct
// side of jnc's anchor coordinate. Equal coordinates never need a
// flip — this tie rule is required to prevent repair from livelocking
// on degenerate (coincident-coordinate) inputs.
func needsFlip(jnc *junction, d Direction) bool {
	nb := jnc.nb[d]
	var nbPos, jncPos float64
	if d.vertical() {
		nbPos, jncPos = nb.pos[1].PosY, jnc.pos[1].PosY
	} else {
		nbPos, jncPos = nb.pos[0].PosX, jnc.pos[0].PosX
	}
	if nbPos == jncPos {
		return false
	}
	// Up (0) and Right (3) want nb >= jnc; Left (1) and Down (2) want nb <= jnc.
	wantsGreaterOrEqual := (int(d)+1)%4/2 == 0
	return (nbPos < jncPos) == wantsGreaterOrEqual
}

// reconnectLinear swaps the positions of two adjacent junctions along
// direction d: start and next trade places in the chain, with start
// moving one step further in direction d.
func reconnectLinear(start, next *junction, d Direction) {
	start.nb[d] = next.nb[d]
	if next.nb[d] != nil {
		next.nb[d].nb[d.Reverse()] = start
	}
	next.nb[d.Reverse()] = start.nb[d.Reverse()]
	if start.nb[d.Reverse()] != nil {
		start.nb[d.Reverse()].nb[d] = next
	}
	start.nb[d.Reverse()] = next
	next.nb[d] = start
}
