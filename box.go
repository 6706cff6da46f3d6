// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package boxnet

// Box is a tracked axis-aligned bounding box. PosX/PosY are the
// left/bottom corner, Right/Top the opposite corner. All four fields
// are safe to mutate directly between Collide calls — see Boxnet.Collide.
//
// UserData is an opaque handle the caller attaches at AddBox time and
// gets back, unmodified, in the collision callback and from
// DelBoxByUserData. boxnet never interprets it. If DelBoxByUserData
// will be used, UserData must hold a comparable dynamic type (an int
// ID, string, or pointer, not a slice, map, or func) — comparing two
// incomparable values with == panics.
type Box struct {
	PosX, PosY, Right, Top float64
	UserData               any

	center junction    // this box's dir==dirCenter junction
	rayEnd [4]junction // one ray-end junction per direction

	// marked is collision-enumeration scratch: during one box's pass
	// over the net it records which boxes have already been queued,
	// so a pair isn't walked twice from the same origin. Cleared at
	// the start of every Collide call.
	marked *Box
}

// newBox allocates a box with its five junctions wired to point back
// at it, all neighbors nil (the caller links the center junction into
// the net separately, via insertJunction or by leaving it a singleton).
func newBox(x, y, right, top float64, userData any) *Box {
	b := &Box{PosX: x, PosY: y, Right: right, Top: top, UserData: userData}
	b.center.dir = dirCenter
	b.center.pos[0] = b
	b.center.pos[1] = b
	for d := 0; d < 4; d++ {
		b.rayEnd[d].pos[d%2] = b
		b.rayEnd[d].dir = dirDetached
	}
	return b
}

// freeBox disconnects every junction owned by box from the net. Any
// center-junction neighbor still terminating at box is flipped so the
// link is severed cleanly; live ray-ends are simply detached. This
// tolerates a partially-connected box (e.g. one never linked by
// insertJunction because it was the net's first box).
func freeBox(box *Box) {
	for d := Direction(0); d < 4; d++ {
		jnc := box.center.nb[d]
		if jnc != nil && jnc.dir != uint8(d.Reverse()) {
			flip(jnc, nil)
		}
	}
	for d := 0; d < 4; d++ {
		jnc := &box.rayEnd[d]
		if jnc.dir != dirDetached {
			detach(jnc)
		}
	}
}

// Overlaps reports whether b and o's AABBs intersect, including the
// case where they merely touch along an edge.
func (b *Box) Overlaps(o *Box) bool {
	return b.PosX <= o.Right && b.Right >= o.PosX && b.PosY <= o.Top && b.Top >= o.PosY
}
