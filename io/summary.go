package io

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Summary records the settings and diagnostics of a single realization.
type Summary struct {
	Index           int            `yaml:"index"`
	Seed            uint64         `yaml:"seed"`
	BoxWidth        float64        `yaml:"box_width"`
	GridWidth       int            `yaml:"grid_width"`
	PadWidth        float64        `yaml:"pad_width"`
	Neighbors       int            `yaml:"neighbors"`
	NeighborIndex   string         `yaml:"neighbor_index"`
	CountMode       string         `yaml:"count_mode"`
	PositionScatter float64        `yaml:"position_scatter"`
	CuboidBasis     [3][3]int      `yaml:"cuboid_basis"`
	CuboidLengths   [3]float64     `yaml:"cuboid_lengths"`
	Particles       int            `yaml:"particles"`
	PaddedParticles int            `yaml:"padded_particles"`
	PadRatio        float64        `yaml:"pad_ratio"`
	Halos           int            `yaml:"halos"`
	Bins            []BinSummary   `yaml:"bins"`
	Stages          []StageSummary `yaml:"stages"`
}

type BinSummary struct {
	Bin        int     `yaml:"bin"`
	MassLow    float64 `yaml:"mass_low"`
	MassHigh   float64 `yaml:"mass_high"`
	Expected   float64 `yaml:"expected"`
	Target     int     `yaml:"target"`
	Degenerate int     `yaml:"degenerate_cells"`
}

type StageSummary struct {
	Name    string  `yaml:"name"`
	Seconds float64 `yaml:"seconds"`
}

// WriteSummary stages the YAML summary of a run.
func (st *Staged) WriteSummary(s *Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode run summary: %w", err)
	}
	f, err := st.Create(SummaryFile)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}

// ReadSummary reads a run summary written by WriteSummary.
func ReadSummary(data []byte) (*Summary, error) {
	s := &Summary{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}
