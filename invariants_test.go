// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package boxnet

// invariants_test.go ports the structural validators from the original
// C implementation (repair_check, validate, find_inconsistencies) as
// white-box test helpers. They read unexported junction/box state
// directly, so they live in package boxnet's test build rather than
// behind an importable API production code never calls.

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

// boxAddr gives a stable total order over *Box values, used only to
// canonicalize pair ordering in set comparisons below.
func boxAddr(b *Box) uintptr { return reflect.ValueOf(b).Pointer() }

// checkLinkSymmetry verifies testable property 1: every non-nil
// neighbor link is reciprocated from the other side, in the reverse
// direction.
func checkLinkSymmetry(t *testing.T, net *Boxnet) {
	t.Helper()
	visit := func(jnc *junction, label string) {
		for d := Direction(0); d < 4; d++ {
			nb := jnc.nb[d]
			if nb == nil {
				continue
			}
			require.Equalf(t, jnc, nb.nb[d.Reverse()], "%s: link asymmetry in direction %d", label, d)
		}
	}
	for _, box := range net.boxes {
		visit(&box.center, "center")
		for d := 0; d < 4; d++ {
			if box.rayEnd[d].dir != dirDetached {
				visit(&box.rayEnd[d], "rayEnd")
			}
		}
	}
}

// checkRayCoherence verifies testable property 2: every ray is
// collinear — a horizontal ray's junctions share the same y anchor,
// a vertical ray's junctions share the same x anchor — and every
// T-junction's beamDir neighbor chain eventually reaches either nil or
// a junction whose dir equals the reverse of that beamDir.
func checkRayCoherence(t *testing.T, net *Boxnet) {
	t.Helper()
	checkOne := func(jnc *junction) {
		if jnc.dir >= dirCenter {
			return
		}
		beam := jnc.beamDir
		cur := jnc
		for {
			next := cur.nb[beam]
			if next == nil {
				break
			}
			if beam.vertical() {
				require.Equalf(t, cur.pos[0].PosX, next.pos[0].PosX, "ray not collinear along beamDir %d", beam)
			} else {
				require.Equalf(t, cur.pos[1].PosY, next.pos[1].PosY, "ray not collinear along beamDir %d", beam)
			}
			if next.dir == uint8(beam.Reverse()) {
				break
			}
			cur = next
		}
	}
	for _, box := range net.boxes {
		for d := 0; d < 4; d++ {
			if box.rayEnd[d].dir != dirDetached {
				checkOne(&box.rayEnd[d])
			}
		}
	}
}

// checkAnchorCorrectness verifies part of testable property 3 (pos[0]
// owns the x anchor, pos[1] the y anchor): a center junction anchors
// to its own box on both, and each ray-end anchors to its own box on
// the axis its ray runs along (pos[0] for vertical slots, pos[1] for
// horizontal ones). A ray-end's other anchor is not checked.
func checkAnchorCorrectness(t *testing.T, net *Boxnet) {
	t.Helper()
	for _, box := range net.boxes {
		require.Same(t, box, box.center.pos[0])
		require.Same(t, box, box.center.pos[1])
		for d := 0; d < 4; d++ {
			jnc := &box.rayEnd[d]
			if Direction(d).vertical() {
				require.Same(t, box, jnc.pos[0])
			} else {
				require.Same(t, box, jnc.pos[1])
			}
		}
	}
}

// checkEnqueuedCleanliness verifies testable property 4: after repair
// completes, no junction's enqueued bitmask has a stale bit set — every
// junction still part of the net must read enqueued == 0 once both
// repair queues have drained.
func checkEnqueuedCleanliness(t *testing.T, net *Boxnet) {
	t.Helper()
	for _, box := range net.boxes {
		require.Zerof(t, box.center.enqueued, "center junction left with stale enqueued bits")
		for d := 0; d < 4; d++ {
			require.Zerof(t, box.rayEnd[d].enqueued, "rayEnd[%d] left with stale enqueued bits", d)
		}
	}
}

// checkSpatialConsistency verifies testable property 5 (ports the
// original's repair_check): after repair, no neighbor link still
// needs a flip.
func checkSpatialConsistency(t *testing.T, net *Boxnet) {
	t.Helper()
	visit := func(jnc *junction) {
		for d := Direction(0); d < 4; d++ {
			if jnc.nb[d] != nil {
				require.Falsef(t, needsFlip(jnc, d), "link in direction %d still needs a flip after repair", d)
			}
		}
	}
	for _, box := range net.boxes {
		visit(&box.center)
		for d := 0; d < 4; d++ {
			if box.rayEnd[d].dir != dirDetached {
				visit(&box.rayEnd[d])
			}
		}
	}
}

// checkAllInvariants runs every structural check above except
// checkEnqueuedCleanliness, which callers run separately.
func checkAllInvariants(t *testing.T, net *Boxnet) {
	t.Helper()
	checkLinkSymmetry(t, net)
	checkRayCoherence(t, net)
	checkAnchorCorrectness(t, net)
	checkSpatialConsistency(t, net)
}

// bruteForceOverlaps reports every overlapping pair among boxes, by
// direct O(N^2) comparison, as an independent reference for
// Collide's reported pairs.
func bruteForceOverlaps(boxes []*Box) map[[2]*Box]bool {
	pairs := make(map[[2]*Box]bool)
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			a, b := boxes[i], boxes[j]
			if a.Overlaps(b) {
				if boxAddr(a) > boxAddr(b) {
					a, b = b, a
				}
				pairs[[2]*Box{a, b}] = true
			}
		}
	}
	return pairs
}

// collectCollidePairs runs Collide and returns every reported pair,
// normalized the same way as bruteForceOverlaps so the two sets can be
// compared directly. userData on each box must be the *Box itself so
// the callback can recover box identity.
func collectCollidePairs(net *Boxnet) map[[2]*Box]bool {
	pairs := make(map[[2]*Box]bool)
	net.Collide(func(a, b any) {
		x, y := a.(*Box), b.(*Box)
		if boxAddr(x) > boxAddr(y) {
			x, y = y, x
		}
		pairs[[2]*Box{x, y}] = true
	})
	return pairs
}
