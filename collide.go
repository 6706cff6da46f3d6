// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package boxnet

// collide.go ports boxcollisions and the Boxnet_collide pre-flip pass.
// See spec §4.5.

// preflip establishes invariant 5 (the collision-walk precondition):
// for every box, its bottom edge must be crossed only by vertical
// rays. Walking right from a box's center junction, any left-facing
// T-junction encountered before the box's right edge is flipped so it
// no longer blocks the walk used by collectCollisions. Also clears the
// per-box "marked" scratch field ahead of a fresh enumeration pass.
func (net *Boxnet) preflip() {
	for _, box := range net.boxes {
		box.marked = nil
		next := box.center.nb[Right]
		for next != nil && next.pos[0].PosX <= box.Right {
			if next.dir == uint8(Left) {
				next = flip(next, nil)
			}
			next = next.nb[Right]
		}
	}
}

// collectCollisions reports boxes overlapping box, found by walking
// outward across the net from box's center junction and upward from
// box's bottom edge, so only boxes whose bottom edge lies within box's
// vertical extent are reached. Each is reported at most once per call;
// pairs not reached from box are reported from the other box's call,
// so one Collide pass reports each overlapping pair once.
// Requires invariants 1-5 to already hold (see preflip and repair).
//
// The net must not already be mid-enumeration-walk for a different
// box when this runs; net.worklist is reused scratch state, valid only
// for the duration of one call.
func (net *Boxnet) collectCollisions(box *Box, callback func(a, b any)) {
	queueAppend := func(candidate *Box) {
		if candidate.marked == box {
			return
		}
		candidate.marked = box
		if candidate.PosX <= box.Right && candidate.Right >= box.PosX {
			callback(box.UserData, candidate.UserData)
		}
		net.worklist = append(net.worklist, candidate)
	}

	net.worklist = net.worklist[:0]
	net.worklist = append(net.worklist, box)
	for len(net.worklist) > 0 {
		n := len(net.worklist) - 1
		cur := net.worklist[n]
		net.worklist = net.worklist[:n]

		jnc := &cur.center

		// go left
		root := jnc
		for root != nil && root.dir != uint8(Right) && root.pos[0].PosX > box.PosX {
			if root.dir != uint8(Down) {
				next := root.nb[Up]
				for next != nil && next.pos[1].PosY <= box.Top {
					if next.dir != uint8(Right) {
						queueAppend(next.pos[1])
						break
					}
					next = next.nb[Up]
				}
			}
			root = root.nb[Left]
		}

		// go right
		root = jnc
		for root != nil && root.dir != uint8(Left) && root.pos[0].PosX <= box.Right {
			if root.dir != uint8(Down) {
				next := root.nb[Up]
				for next != nil && next.pos[1].PosY <= box.Top {
					if next.dir != uint8(Left) {
						queueAppend(next.pos[1])
						break
					}
					next = next.nb[Up]
				}
			}
			root = root.nb[Right]
		}
	}
}
