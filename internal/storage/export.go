package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/odekit/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

// ExportJSON writes meta together with every sample of tr.
func ExportJSON(w io.Writer, meta RunMetadata, tr *dynamo.Trajectory) error {
	data := ExportData{
		RunMetadata: meta,
		Times:       tr.Times(),
		States:      make([][]float64, tr.Len()),
	}
	data.Samples = tr.Len()
	data.Stats = tr.Stats()
	for i, s := range tr.States() {
		data.States[i] = s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
