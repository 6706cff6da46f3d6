// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Command boxfuzz runs a configurable churn-and-verify stress test
// against a boxnet, the Go analogue of the original C implementation's
// stresstest(nbox, ncycl, ndelete, discrete, stepcoeff) harness. It is
// ambient tooling for manual exploration, not a substitute for
// FuzzBoxnet (see fuzz_test.go), which is what CI actually runs.
//
// Usage:
//
//	boxfuzz -scenario scenario.yaml
//
// See scenario.yaml in this directory for the config shape.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gazed/boxnet"
)

// scenario mirrors the original stresstest's parameters as a loadable
// config instead of hardcoded call-site arguments.
type scenario struct {
	Boxes     int     `yaml:"boxes"`     // nbox
	Cycles    int     `yaml:"cycles"`    // ncycl
	Deletes   int     `yaml:"deletes"`   // ndelete, boxes removed then re-added per cycle batch
	Discrete  bool    `yaml:"discrete"`  // quantize positions onto a grid, like the original's discrete flag
	StepCoeff float64 `yaml:"stepCoeff"` // movement step scale, like the original's stepcoeff
	Seed      int64   `yaml:"seed"`
}

func defaultScenario() scenario {
	return scenario{Boxes: 1000, Cycles: 200, Deletes: 100, Discrete: false, StepCoeff: 1.0, Seed: 1}
}

func loadScenario(path string) (scenario, error) {
	s := defaultScenario()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("boxfuzz: reading scenario file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("boxfuzz: parsing scenario file: %w", err)
	}
	if s.Deletes > s.Boxes {
		return s, fmt.Errorf("boxfuzz: deletes (%d) exceeds boxes (%d)", s.Deletes, s.Boxes)
	}
	return s, nil
}

func main() {
	path := flag.String("scenario", "", "path to a YAML scenario file; defaults to a 1000-box run if omitted")
	flag.Parse()

	s, err := loadScenario(*path)
	if err != nil {
		slog.Error("boxfuzz: invalid scenario", "error", err)
		os.Exit(1)
	}
	run(s)
}

// run drives net through repeated create/move/delete cycles, exactly
// as the original stresstest did, logging progress and collision
// counts via slog instead of the original's printf-based output.
func run(s scenario) {
	net := boxnet.New(boxnet.WithBoxCapacity(s.Boxes))
	r := rand.New(rand.NewSource(s.Seed))
	ndis := int(0.1*math.Sqrt(float64(s.Boxes)) + 1)

	type tracked struct{ box *boxnet.Box }
	boxes := make([]*tracked, 0, s.Boxes)

	resize := func(box *boxnet.Box) {
		if s.Discrete {
			unit := 1 / float64(ndis)
			if r.Float64() < 0.8 {
				box.Right = box.PosX + unit
			} else {
				box.Right = box.PosX
			}
			for i := 0; i < ndis && r.Float64() < 0.2; i++ {
				box.Right += unit
			}
			if r.Float64() < 0.8 {
				box.Top = box.PosY + unit
			} else {
				box.Top = box.PosY
			}
			for i := 0; i < ndis && r.Float64() < 0.2; i++ {
				box.Top += unit
			}
		} else {
			box.Right = box.PosX + r.Float64()*math.Sqrt(1/float64(s.Boxes))
			box.Top = box.PosY + r.Float64()*math.Sqrt(1/float64(s.Boxes))
		}
	}
	quantize := func(box *boxnet.Box) {
		box.PosX = float64(int(box.PosX*float64(ndis))) / float64(ndis)
		box.PosY = float64(int(box.PosY*float64(ndis))) / float64(ndis)
	}
	create := func() {
		x, y := r.Float64(), r.Float64()
		var near *boxnet.Box
		if len(boxes) > 0 {
			near = boxes[r.Intn(len(boxes))].box
		}
		box := net.AddBox(x, y, x, y, near, nil)
		box.UserData = box
		if s.Discrete {
			quantize(box)
		}
		resize(box)
		boxes = append(boxes, &tracked{box})
	}
	for i := 0; i < s.Boxes; i++ {
		create()
	}

	collisions := 0
	for cycle := 0; cycle < s.Cycles; cycle++ {
		for i := 0; i < s.Deletes && len(boxes) > 0; i++ {
			idx := r.Intn(len(boxes))
			net.DelBox(boxes[idx].box)
			boxes[idx] = boxes[len(boxes)-1]
			boxes = boxes[:len(boxes)-1]
		}
		for i := 0; i < s.Deletes; i++ {
			create()
		}
		for _, t := range boxes {
			dx := (r.Float64() - 0.5) * 2 * s.StepCoeff
			dy := (r.Float64() - 0.5) * 2 * s.StepCoeff
			t.box.PosX += dx
			t.box.PosY += dy
			t.box.Right += dx
			t.box.Top += dy
		}

		collisions = 0
		net.Collide(func(a, b any) { collisions++ })
		slog.Info("boxfuzz: cycle complete", "cycle", cycle, "boxes", net.Len(), "collisions", collisions)
	}
}
