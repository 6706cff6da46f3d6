// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package boxnet

// insert.go ports Junction_insert: placing a fresh center junction
// adjacent to an existing junction in the net via a two-pass
// clockwise/counter-clockwise ray-shooting sweep. See spec §4.3.
//
// The insertion does not establish any spatial invariant on its own —
// the new box's coordinates may be wildly inconsistent with the rays
// it was spliced next to. repair() is what restores consistency.

// insertJunction links jnc (a fresh center junction, dir==dirCenter,
// all four neighbors nil) into the net adjacent to start, an existing
// junction already part of the net.
func insertJunction(jnc, start *junction) {
	if start == nil {
		panic("boxnet: insert with nil start junction")
	}
	if jnc.dir != dirCenter || jnc.pos[0] != jnc.pos[1] {
		panic("boxnet: insertJunction requires a fresh center junction")
	}
	if start.dir > dirCenter {
		panic("boxnet: insert adjacent to a detached junction")
	}

	inserted := 0
	var initDir Direction
	if start.dir == dirCenter {
		initDir = Up
	} else {
		initDir = Direction(start.dir)
	}

	// cwccw is +1 for the clockwise sweep, 3 (i.e. -1 mod 4) for the
	// counter-clockwise sweep. Together the two sweeps link all four
	// sides of jnc.
	for _, cwccw := range [2]Direction{1, 3} {
		cur := start
		var curdir Direction
		if cwccw == 1 {
			curdir = initDir
		} else {
			curdir = (initDir + 1) % 4
		}

		insertHere := func() {
			side := (curdir + cwccw) % 4
			newjnc := &jnc.pos[0].rayEnd[side]
			newjnc.dir = uint8(side)
			switch {
			case cur.dir == dirCenter:
				newjnc.beamDir = curdir
			case curdir == Direction(cur.dir):
				newjnc.beamDir = curdir.Reverse()
			default:
				newjnc.beamDir = cur.beamDir
			}
			if curdir.vertical() {
				newjnc.pos[0] = cur.pos[0]
			} else {
				newjnc.pos[1] = cur.pos[1]
			}
			next := cur.nb[curdir]
			newjnc.nb[curdir.Reverse()] = cur
			cur.nb[curdir] = newjnc
			newjnc.nb[curdir] = next
			if next != nil {
				next.nb[curdir.Reverse()] = newjnc
			}
			newjnc.nb[side] = jnc
			jnc.nb[(side+2)%4] = newjnc
			inserted++
		}

		for inserted != 4 {
			next := cur.nb[curdir]
			if next == nil {
				insertHere()
				break
			}
			if (curdir+cwccw+2)%4 != Direction(next.dir) {
				insertHere()
				curdir = (curdir + cwccw) % 4
			}
			cur = next
		}
	}
}
