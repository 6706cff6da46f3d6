// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package boxnet

// repair.go is the heart of the system: the local rewrites (flip,
// slide, slideT) and the double-buffered work queue that restores
// spatial consistency (invariant 3) after arbitrary coordinate edits.
// See spec §4.4.

// connection is one pending (junction, direction) re-check.
type connection struct {
	jnc  *junction
	tdir Direction
}

// repairQueue is one half of the double-buffered work queue described
// in spec §4.4. Junctions carry their own "enqueued" bitmask so append
// is a cheap no-op on a duplicate.
type repairQueue struct {
	items []connection
}

func newRepairQueue(capacity int) *repairQueue {
	return &repairQueue{items: make([]connection, 0, capacity)}
}

// append enqueues (jnc, tdir) unless it is already pending.
func (q *repairQueue) append(jnc *junction, tdir Direction) {
	bit := uint8(1) << tdir
	if jnc.enqueued&bit == 0 {
		q.items = append(q.items, connection{jnc, tdir})
		jnc.enqueued |= bit
	}
}

func (q *repairQueue) reset() { q.items = q.items[:0] }

// appendIfQueued is the nil-queue-tolerant append used by flip, which
// is also called from box teardown (freeBox) where there is no
// surrounding repair pass and enqueuing would be pointless.
func appendIfQueued(q *repairQueue, jnc *junction, tdir Direction) {
	if q != nil {
		q.append(jnc, tdir)
	}
}

// flip transforms the T-junction jnc by swapping which of its two rays
// terminates: the ray that continues past jnc (beamDir) becomes the
// terminating one on the far side, and the ray that used to terminate
// at jnc now extends across. Implemented as a cascade: walk along
// beamDir until the true end of that ray is found, then unwind back
// toward jnc, flipping one T-junction at a time via flipOne.
func flip(jnc *junction, q *repairQueue) *junction {
	if jnc.dir >= dirCenter {
		panic("boxnet: flip of a non-T-junction")
	}
	beamDir := jnc.beamDir
	cur := jnc
	next := cur.nb[beamDir]
	for next != nil && next.dir != uint8(beamDir.Reverse()) {
		cur = next
		next = cur.nb[beamDir]
	}
	for {
		if cur == jnc {
			return flipOne(cur, q)
		}
		cur = flipOne(cur, q)
		cur = cur.nb[beamDir.Reverse()]
	}
}

// flipOne performs a single flip step at jnc, returning the junction
// that now holds the terminating ray (a different object than jnc: the
// corresponding ray-end slot on the box that used to be crossed).
func flipOne(jnc *junction, q *repairQueue) *junction {
	next := jnc.nb[jnc.beamDir]
	if next != nil {
		appendIfQueued(q, next.nb[next.beamDir.Reverse()], next.beamDir)
		detach(next)
	}

	var flipped *junction
	if jnc.dir%2 == 0 {
		flipped = &jnc.pos[1].rayEnd[jnc.beamDir.Reverse()]
		if flipped.pos[1] != jnc.pos[1] {
			panic("boxnet: flip anchor mismatch")
		}
		flipped.pos[0] = jnc.pos[0]
	} else {
		flipped = &jnc.pos[0].rayEnd[jnc.beamDir.Reverse()]
		if flipped.pos[0] != jnc.pos[0] {
			panic("boxnet: flip anchor mismatch")
		}
		flipped.pos[1] = jnc.pos[1]
	}
	flipped.dir = uint8(jnc.beamDir.Reverse())
	flipped.beamDir = Direction(jnc.dir).Reverse()

	fDir := Direction(flipped.dir)
	flipped.nb[fDir] = jnc.nb[fDir]
	jnc.nb[fDir].nb[fDir.Reverse()] = flipped
	jDir := Direction(jnc.dir)
	flipped.nb[jDir] = jnc.nb[jDir]
	jnc.nb[jDir].nb[flipped.beamDir] = flipped
	jnc.dir = dirDetached

	// reconnect the loose ray-end that used to terminate at jnc,
	// walking along the newly-extended ray to find where it belongs.
	cur := flipped.nb[fDir]
	for cur.dir == uint8(flipped.beamDir.Reverse()) {
		cur = cur.nb[fDir]
	}
	for {
		cur = cur.nb[flipped.beamDir]
		if cur == nil {
			flipped.nb[flipped.beamDir] = nil
			return flipped
		}
		if cur.dir != uint8(fDir) {
			break
		}
	}

	next = cur.nb[fDir.Reverse()]
	for next != nil && next.dir == uint8(flipped.beamDir) {
		stop := false
		switch flipped.dir {
		case uint8(Up):
			stop = flipped.pos[1].PosY > next.pos[1].PosY
		case uint8(Left):
			stop = flipped.pos[0].PosX < next.pos[0].PosX
		case uint8(Down):
			stop = flipped.pos[1].PosY < next.pos[1].PosY
		case uint8(Right):
			stop = flipped.pos[0].PosX > next.pos[0].PosX
		}
		if stop {
			break
		}
		cur = next
		next = cur.nb[fDir.Reverse()]
	}

	var newjnc *junction
	if flipped.beamDir.vertical() {
		newjnc = &flipped.pos[0].rayEnd[flipped.beamDir.Reverse()]
		if newjnc.pos[0] != flipped.pos[0] {
			panic("boxnet: flip reconnection anchor mismatch")
		}
		newjnc.pos[1] = cur.pos[1]
	} else {
		newjnc = &flipped.pos[1].rayEnd[flipped.beamDir.Reverse()]
		if newjnc.pos[1] != flipped.pos[1] {
			panic("boxnet: flip reconnection anchor mismatch")
		}
		newjnc.pos[0] = cur.pos[0]
	}
	newjnc.dir = uint8(flipped.beamDir.Reverse())
	switch {
	case cur.dir == dirCenter:
		newjnc.beamDir = fDir.Reverse()
	case cur.dir == uint8(fDir.Reverse()):
		newjnc.beamDir = fDir
	default:
		newjnc.beamDir = cur.beamDir
	}

	newjnc.nb[flipped.beamDir.Reverse()] = flipped
	flipped.nb[flipped.beamDir] = newjnc
	newjnc.nb[fDir.Reverse()] = next
	if next != nil {
		next.nb[fDir] = newjnc
	}
	newjnc.nb[fDir] = cur
	cur.nb[fDir.Reverse()] = newjnc

	appendIfQueued(q, newjnc, newjnc.beamDir)
	appendIfQueued(q, flipped, flipped.beamDir)
	appendIfQueued(q, newjnc.nb[newjnc.beamDir.Reverse()], newjnc.beamDir)
	return flipped
}

// slide moves a box's center junction jnc past the T-junction barrier
// immediately in direction tdir. Precondition: jnc is a center junction
// and needsFlip(jnc, tdir) holds.
func slide(jnc *junction, tdir Direction, q *repairQueue) {
	if jnc.dir != dirCenter {
		panic("boxnet: slide of a non-center junction")
	}
	bar := jnc.nb[tdir]
	if bar.dir == uint8(tdir.Reverse()) {
		bar = flip(bar, q)
	}
	ndir := Direction(bar.dir)
	next := jnc.nb[ndir]
	if next.dir != uint8(ndir.Reverse()) {
		next = flip(next, q)
	}

	appendIfQueued(q, next.nb[next.beamDir.Reverse()], next.beamDir)
	detach(next)

	reconnectLinear(jnc, bar, tdir)
	bar.beamDir = tdir.Reverse()

	appendIfQueued(q, jnc, tdir)
	appendIfQueued(q, bar, tdir.Reverse())

	next = bar.nb[ndir]
	for next.dir == uint8(tdir.Reverse()) {
		next = next.nb[ndir]
	}
	newjnc := &jnc.pos[0].rayEnd[ndir.Reverse()]
	switch {
	case next.dir == dirCenter:
		newjnc.beamDir = tdir
	case next.dir == uint8(tdir):
		newjnc.beamDir = tdir.Reverse()
	default:
		newjnc.beamDir = next.beamDir
	}
	if tdir.vertical() {
		if newjnc.pos[1] != jnc.pos[1] {
			panic("boxnet: slide anchor mismatch")
		}
		newjnc.pos[0] = next.pos[0]
	} else {
		if newjnc.pos[0] != jnc.pos[0] {
			panic("boxnet: slide anchor mismatch")
		}
		newjnc.pos[1] = next.pos[1]
	}
	newjnc.dir = uint8(ndir.Reverse())

	newjnc.nb[ndir.Reverse()] = jnc
	jnc.nb[ndir] = newjnc
	newjnc.nb[tdir] = next.nb[tdir]
	if newjnc.nb[tdir] != nil {
		newjnc.nb[tdir].nb[tdir.Reverse()] = newjnc
	}
	newjnc.nb[tdir.Reverse()] = next
	next.nb[tdir] = newjnc

	appendIfQueued(q, newjnc, newjnc.beamDir)
	appendIfQueued(q, newjnc.nb[newjnc.beamDir.Reverse()], newjnc.beamDir)
	appendIfQueued(q, jnc, ndir)
}

// slideT slides two T-junctions past each other along their shared
// ray, when possible; otherwise it flips one of them first so they
// become compatibly oriented and then slides. It changes nothing when
// the neighbor along beamDir has the same dir as jnc or a beamDir
// opposite to jnc's dir. Precondition: jnc is a T-junction and
// needsFlip(jnc, jnc.beamDir) holds.
func slideT(jnc *junction, q *repairQueue) {
	if jnc.dir >= dirCenter {
		panic("boxnet: slideT of a non-T-junction")
	}
	next := jnc.nb[jnc.beamDir]
	if next.dir == jnc.dir || next.beamDir == Direction(jnc.dir).Reverse() {
		return
	}
	if jnc.beamDir != next.beamDir {
		next = flip(next, q)
	}
	if jnc.beamDir != next.beamDir || jnc.dir != uint8(Direction(next.dir).Reverse()) {
		panic("boxnet: slideT orientation invariant violated")
	}
	reconnectLinear(jnc, next, jnc.beamDir)

	appendIfQueued(q, jnc, jnc.beamDir)
	next = next.nb[jnc.beamDir.Reverse()]
	if next != nil {
		appendIfQueued(q, next, jnc.beamDir)
	}
}

// solve dispatches one queued (junction, direction) pair: if the link
// still needs a flip, slide the center junction or slide the T-junction
// pair, as appropriate. Newly-queued work goes to out.
func solve(jnc *junction, tdir Direction, out *repairQueue) {
	jnc.enqueued &^= uint8(1) << tdir
	if jnc.dir == dirDetached {
		return
	}
	if jnc.nb[tdir] == nil {
		return
	}
	if !needsFlip(jnc, tdir) {
		return
	}
	if jnc.dir == dirCenter {
		slide(jnc, tdir, out)
	} else if jnc.beamDir == tdir {
		slideT(jnc, out)
	}
}

// repair restores spatial consistency (invariant 3) across the whole
// net. Work proportional to how many links are wrong: each box seeds
// its four center-junction directions and live ray-ends, then the two
// queues drain alternately until both are empty.
func (net *Boxnet) repair() {
	a, b := net.repairQueueA, net.repairQueueB
	a.reset()
	b.reset()
	for _, box := range net.boxes {
		for tdir := Direction(0); tdir < 4; tdir++ {
			a.append(&box.center, tdir)
			jnc := &box.rayEnd[tdir]
			if jnc.dir != dirDetached {
				a.append(jnc, jnc.beamDir)
			}
		}
		for len(a.items) > 0 || len(b.items) > 0 {
			for len(a.items) > 0 {
				n := len(a.items) - 1
				c := a.items[n]
				a.items = a.items[:n]
				solve(c.jnc, c.tdir, b)
			}
			for len(b.items) > 0 {
				n := len(b.items) - 1
				c := b.items[n]
				b.items = b.items[:n]
				solve(c.jnc, c.tdir, a)
			}
		}
	}
}
