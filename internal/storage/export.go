package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ropesim/internal/sim"
)

type ExportData struct {
	Scene    string             `json:"scene"`
	Seed     int64              `json:"seed"`
	FrameMs  float64            `json:"frame_ms"`
	Segments int                `json:"segments"`
	Ropes    int                `json:"ropes"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	States   [][]float64        `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a stored run as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, states []sim.State, times []float64) error {
	data := ExportData{
		Scene:    meta.Scene,
		Seed:     meta.Seed,
		FrameMs:  meta.FrameMs,
		Segments: meta.Segments,
		Ropes:    meta.Ropes,
		Steps:    len(times),
		Times:    times,
		States:   make([][]float64, len(states)),
		Metrics:  meta.Metrics,
	}

	for i, s := range states {
		data.States[i] = s
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Column extracts one flattened coordinate across every frame, for plotting.
func Column(states []sim.State, idx int) []float64 {
	out := make([]float64, 0, len(states))
	for _, s := range states {
		if idx < len(s) {
			out = append(out, s[idx])
		}
	}
	return out
}
