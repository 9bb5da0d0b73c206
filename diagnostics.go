package qsearch

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/vmihailenco/msgpack/v5"
)

/*
Diagnostics is what a query leaves behind for inspection: the register, the
amplification schedule, the measured distribution and the circuits that
produced it. It is nil when the query short-circuits because nothing is
below the threshold.
*/
type Diagnostics struct {
	QueryID          string
	Threshold        int
	Width            int
	Iterations       int
	Powers           []int
	TopMeasurement   string
	OracleAccepted   bool
	Distribution     *Distribution
	Warnings         []NumericalPrecisionWarning
	StatePreparation *Circuit
	Oracle           *Circuit
	GroverOperator   *Circuit
}

// Resources summarises the quantum cost of a query.
type Resources struct {
	Qubits           int
	StatePreparation map[string]int
	GroverOperator   map[string]int
	Total            map[string]int
	GateCount        int
}

/*
Resources counts gates per kind for the state preparation and for one Grover
operator, plus their sum. GateCount leaves out global phases, which cost
nothing on hardware.
*/
func (d *Diagnostics) Resources() Resources {
	res := Resources{
		Qubits:           d.Width,
		StatePreparation: map[string]int{},
		GroverOperator:   map[string]int{},
		Total:            map[string]int{},
	}

	if d.StatePreparation != nil {
		res.StatePreparation = d.StatePreparation.CountOps()
		res.GateCount += d.StatePreparation.Size()
	}

	if d.GroverOperator != nil {
		res.GroverOperator = d.GroverOperator.CountOps()
		res.GateCount += d.GroverOperator.Size()
	}

	for _, counts := range []map[string]int{res.StatePreparation, res.GroverOperator} {
		for name, n := range counts {
			res.Total[name] += n
		}
	}

	return res
}

// Histogram is the distribution keyed by decoded value, ready for a bar chart.
func (d *Diagnostics) Histogram() map[int]float64 {
	if d.Distribution == nil {
		return map[int]float64{}
	}

	return d.Distribution.Decimal()
}

// Operators returns the state preparation and Grover operator circuits.
func (d *Diagnostics) Operators() (prep, grover *Circuit) {
	return d.StatePreparation, d.GroverOperator
}

func (d *Diagnostics) Dump() string {
	return spew.Sdump(d)
}

/*
Snapshot is the wire form of Diagnostics for out-of-process renderers. It
holds plain data only; circuits travel as their gate counts.
*/
type Snapshot struct {
	QueryID        string             `msgpack:"query_id"`
	Threshold      int                `msgpack:"threshold"`
	Width          int                `msgpack:"width"`
	Iterations     int                `msgpack:"iterations"`
	Powers         []int              `msgpack:"powers"`
	TopMeasurement string             `msgpack:"top_measurement"`
	OracleAccepted bool               `msgpack:"oracle_accepted"`
	Shots          int                `msgpack:"shots"`
	Probabilities  map[string]float64 `msgpack:"probabilities"`
	Warnings       []string           `msgpack:"warnings"`
	Gates          map[string]int     `msgpack:"gates"`
	GateCount      int                `msgpack:"gate_count"`
}

func (d *Diagnostics) Snapshot() Snapshot {
	res := d.Resources()
	snap := Snapshot{
		QueryID:        d.QueryID,
		Threshold:      d.Threshold,
		Width:          d.Width,
		Iterations:     d.Iterations,
		Powers:         d.Powers,
		TopMeasurement: d.TopMeasurement,
		OracleAccepted: d.OracleAccepted,
		Probabilities:  map[string]float64{},
		Warnings:       make([]string, 0, len(d.Warnings)),
		Gates:          res.Total,
		GateCount:      res.GateCount,
	}

	if d.Distribution != nil {
		snap.Shots = d.Distribution.Shots
		for state, p := range d.Distribution.Probabilities {
			snap.Probabilities[state] = p
		}
	}

	for _, w := range d.Warnings {
		snap.Warnings = append(snap.Warnings, w.Error())
	}

	return snap
}

func (d *Diagnostics) MarshalSnapshot() ([]byte, error) {
	data, err := msgpack.Marshal(d.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot %s: %w", d.QueryID, err)
	}

	return data, nil
}

func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return snap, nil
}
