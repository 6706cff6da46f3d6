// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package boxnet performs incremental broadphase 2D collision
// detection over a dynamic population of axis-aligned bounding boxes.
//
// Its distinguishing idea is the "boxnet" spatial data structure: a
// planar graph of orthogonal rays emanating from each box, maintained
// incrementally so that per-frame repair cost is proportional to how
// far boxes moved rather than to the population size.
//
// boxnet was ported from Samuel Moll's 2012 C implementation
// (github.com/ebmoll/boxnet, LGPLv3/AGPLv3). The Go code keeps the
// original function names, translated to camelCase, to ease
// cross-referencing against that source:
//
//	boxnet.go   : Boxnet_new, Boxnet_free, Boxnet_addbox, Boxnet_delbox,
//	              Boxnet_delbox_byusrdata, Boxnet_collide
//	box.go      : Box, Box_new, Box_free
//	junction.go : Junction, detach, needsflip, reconnect_linear
//	insert.go   : Junction_insert
//	repair.go   : Junction_flip, Junction_flipone, Junction_slide,
//	              Junction_slide_T, RepairQueue, Boxnet_repair
//	collide.go  : boxcollisions, Boxnet_collide
package boxnet

import (
	"fmt"
	"log/slog"
)

// Boxnet is the container owning a population of boxes and the scratch
// state (repair queues, collision worklist) used to maintain them. A
// zero Boxnet is not usable; create one with New.
type Boxnet struct {
	boxes []*Box

	repairQueueA, repairQueueB *repairQueue
	worklist                   []*Box

	cfg netConfig
}

// netConfig holds the tunable initial capacities the original C
// implementation exposed as compile-time constants
// (BOXES_SIZE_INIT, REPAIR_QUEUE_INIT, BC_QUEUE_SIZE_INIT in
// boxnet.h). Go has no preprocessor, so they become functional
// options instead — see Option.
type netConfig struct {
	boxCapacity      int
	queueCapacity    int
	worklistCapacity int
}

// defaultNetConfig mirrors the original's BOXES_SIZE_INIT=100,
// REPAIR_QUEUE_INIT=100, BC_QUEUE_SIZE_INIT=40.
var defaultNetConfig = netConfig{
	boxCapacity:      100,
	queueCapacity:    100,
	worklistCapacity: 40,
}

// Option configures a Boxnet at construction time. For use with New,
// following the same functional-options pattern used for engine
// configuration elsewhere in this codebase (vu.Title, vu.Size,
// vu.Background).
type Option func(*netConfig)

// WithBoxCapacity sets the initial capacity of the box slice.
// Growth beyond this is handled transparently; this only avoids
// reallocation churn for a known population size.
func WithBoxCapacity(n int) Option {
	return func(c *netConfig) { c.boxCapacity = n }
}

// WithQueueCapacity sets the initial capacity of each half of the
// double-buffered repair queue.
func WithQueueCapacity(n int) Option {
	return func(c *netConfig) { c.queueCapacity = n }
}

// WithWorklistCapacity sets the initial capacity of the collision
// enumeration worklist.
func WithWorklistCapacity(n int) Option {
	return func(c *netConfig) { c.worklistCapacity = n }
}

// New creates an empty container.
func New(opts ...Option) *Boxnet {
	cfg := defaultNetConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Boxnet{
		boxes:        make([]*Box, 0, cfg.boxCapacity),
		repairQueueA: newRepairQueue(cfg.queueCapacity),
		repairQueueB: newRepairQueue(cfg.queueCapacity),
		worklist:     make([]*Box, 0, cfg.worklistCapacity),
		cfg:          cfg,
	}
}

// Free destroys every contained box, in arbitrary order. Box teardown
// tolerates a partially-connected graph, so order never matters.
func (net *Boxnet) Free() {
	for _, box := range net.boxes {
		freeBox(box)
	}
	net.boxes = net.boxes[:0]
}

// AddBox allocates a box with the given AABB and inserts it into the
// net. right must be >= x and top must be >= y; violating this is a
// programmer error and panics.
//
// If near is non-nil its center junction is used as the insertion
// anchor (see spec §4.3); otherwise an arbitrary existing box is used,
// or the new box becomes a singleton if the net is empty. Either way
// the graph is not guaranteed spatially consistent immediately after
// insertion — Collide repairs it before use.
func (net *Boxnet) AddBox(x, y, right, top float64, near *Box, userData any) *Box {
	if right < x || top < y {
		panic(fmt.Errorf("boxnet: AddBox requires right>=x and top>=y, got (%g,%g,%g,%g)", x, y, right, top))
	}
	box := newBox(x, y, right, top, userData)
	if near == nil && len(net.boxes) != 0 {
		near = net.boxes[0]
	}
	if near != nil {
		insertJunction(&box.center, &near.center)
	}
	net.boxes = append(net.boxes, box)
	return box
}

// DelBox removes box from the net. Passing a box not tracked by net is
// a programmer error and panics.
func (net *Boxnet) DelBox(box *Box) {
	for i, b := range net.boxes {
		if b == box {
			freeBox(box)
			last := len(net.boxes) - 1
			net.boxes[i] = net.boxes[last]
			net.boxes = net.boxes[:last]
			return
		}
	}
	panic(fmt.Errorf("boxnet: DelBox called with a box not tracked by this net"))
}

// DelBoxByUserData removes the first box whose UserData equals
// userData (via ==; userData must be a comparable type). It reports
// whether a match was found. Unlike DelBox, a miss is not a panic:
// UserData equality is caller-supplied and may legitimately be absent
// after a previous delete, unlike a *Box handle the caller is assumed
// to still hold validly.
func (net *Boxnet) DelBoxByUserData(userData any) bool {
	for i, b := range net.boxes {
		if b.UserData == userData {
			freeBox(b)
			last := len(net.boxes) - 1
			net.boxes[i] = net.boxes[last]
			net.boxes = net.boxes[:last]
			return true
		}
	}
	slog.Debug("boxnet: DelBoxByUserData found no match", "userData", userData)
	return false
}

// Len returns the number of boxes currently tracked by net.
func (net *Boxnet) Len() int { return len(net.boxes) }

// Collide repairs the net (restoring spatial consistency after any
// direct mutation of box coordinates since the last call) and then
// reports every overlapping pair of boxes to callback, each pair
// exactly once.
//
// callback must not call AddBox, DelBox, DelBoxByUserData, or Collide
// on net — the net is in an enumeration-ready shape during the walk
// and reentrant mutation is undefined. Reading Box fields, including
// UserData, is safe.
func (net *Boxnet) Collide(callback func(a, b any)) {
	net.repair()
	net.preflip()
	for _, box := range net.boxes {
		net.collectCollisions(box, callback)
	}
}
