// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/ava-labs/wasmsoak/harness"
	"github.com/ava-labs/wasmsoak/hostabi"
)

var DefaultLoopLimits = []uint32{1, 10, 100, 1_000, 10_000, 100_000}

// Plan describes a benchmark: the guest, the export every contract is called
// on and the loop limits each mode is run with.
type Plan struct {
	LoopLimits []uint32 `yaml:"loop_limits"`
	// Guest is a .wasm or .wat path. Empty selects the reference kernel.
	Guest  string `yaml:"guest"`
	Method string `yaml:"method"`
	// Engine is the embedded interpreter engine, see [harness.ParseEngine].
	Engine string `yaml:"engine"`
	// Features defaults to [harness.DefaultFeatures] when omitted.
	Features *harness.Features `yaml:"features"`
}

func DefaultPlan() *Plan {
	return &Plan{
		LoopLimits: DefaultLoopLimits,
		Method:     hostabi.EntryPoint,
	}
}

// LoadPlan reads a YAML plan from [path]. Omitted fields keep their
// [DefaultPlan] values.
func LoadPlan(path string) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePlan(b)
}

func ParsePlan(b []byte) (*Plan, error) {
	plan := DefaultPlan()
	if err := yaml.UnmarshalStrict(b, plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *Plan) Validate() error {
	if len(p.LoopLimits) == 0 {
		return ErrNoLoopLimits
	}
	if p.Method == "" {
		return ErrEmptyMethod
	}
	_, err := harness.ParseEngine(p.Engine)
	return err
}

func (p *Plan) features() harness.Features {
	if p.Features == nil {
		return harness.DefaultFeatures()
	}
	return *p.Features
}
