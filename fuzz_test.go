// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package boxnet

// fuzz_test.go is the native Go fuzzing replacement for the original
// C stresstest() harness in original_source/src/main.c: instead of a
// hand-rolled loop applying a fixed count of random box churn cycles,
// the Go fuzz engine supplies the churn itself and this target
// validates structural invariants and cross-checks Collide's output
// against the brute-force reference after every round.

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func seedStresstest(f *testing.F, nbox, cycles uint32, seed int64) {
	f.Helper()
	f.Add(nbox, cycles, seed)
}

func FuzzBoxnet(f *testing.F) {
	seedStresstest(f, 10, 20, 1)
	seedStresstest(f, 1, 5, 2)
	seedStresstest(f, 100, 50, 3)
	seedStresstest(f, 2, 100, 4)

	f.Fuzz(func(t *testing.T, nbox uint32, cycles uint32, seed int64) {
		if nbox == 0 || nbox > 300 {
			t.Skip("box count out of the range this target explores")
		}
		if cycles > 2000 {
			t.Skip("cycle count out of the range this target explores")
		}

		net := New()
		r := deterministicRand(seed)
		boxes := make([]*Box, 0, nbox)

		spawn := func() {
			if uint32(len(boxes)) >= nbox {
				return
			}
			x := r.next() * 20
			y := r.next() * 20
			w := 0.1 + r.next()*5
			h := 0.1 + r.next()*5
			var near *Box
			if len(boxes) > 0 {
				near = boxes[r.intn(len(boxes))]
			}
			box := add(net, x, y, x+w, y+h, near)
			boxes = append(boxes, box)
		}
		for len(boxes) < int(nbox) {
			spawn()
		}

		for c := uint32(0); c < cycles; c++ {
			switch r.intn(4) {
			case 0:
				spawn()
			case 1:
				if len(boxes) > 1 {
					i := r.intn(len(boxes))
					net.DelBox(boxes[i])
					boxes[i] = boxes[len(boxes)-1]
					boxes = boxes[:len(boxes)-1]
				}
			default:
				if len(boxes) > 0 {
					box := boxes[r.intn(len(boxes))]
					dx, dy := (r.next()-0.5)*2, (r.next()-0.5)*2
					box.PosX += dx
					box.PosY += dy
					box.Right += dx
					box.Top += dy
				}
			}

			pairs := collectCollidePairs(net)
			checkAllInvariants(t, net)
			checkEnqueuedCleanliness(t, net)
			require.Equal(t, bruteForceOverlaps(boxes), pairs)
		}
	})
}

// deterministicRand is a tiny splitmix64-derived generator, used
// instead of math/rand so fuzz seed corpus entries reproduce
// identically regardless of Go's math/rand algorithm version.
type detRand struct{ state uint64 }

func deterministicRand(seed int64) *detRand {
	return &detRand{state: uint64(seed) + 0x9E3779B97F4A7C15}
}

func (r *detRand) next() float64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return math.Float64frombits((z>>12)|0x3FF0000000000000) - 1
}

func (r *detRand) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() * float64(n))
}
