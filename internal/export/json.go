package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/coupledmode/internal/coupling"
	"github.com/san-kum/coupledmode/internal/storage"
)

// Pair is a complex number as [re, im].
type Pair [2]float64

func pair(c complex128) Pair { return Pair{real(c), imag(c)} }

type EigenData struct {
	Values  [2]Pair    `json:"values"`
	Vectors [2][2]Pair `json:"vectors"`
}

type RecordData struct {
	Step     int       `json:"step"`
	Coupling float64   `json:"coupling"`
	Lossy    EigenData `json:"lossy"`
	Lossless EigenData `json:"lossless"`
	HopfC    Pair      `json:"hopf_c"`
	HopfE    Pair      `json:"hopf_e"`
}

type ExportData struct {
	Run         *storage.RunMetadata `json:"run,omitempty"`
	BaseEnergy  Pair                 `json:"base_energy"`
	OtherEnergy Pair                 `json:"other_energy"`
	EnergyGap   Pair                 `json:"energy_gap"`
	Steps       int                  `json:"steps"`
	Records     []RecordData         `json:"records"`
}

func eigenData(e coupling.Eigen) EigenData {
	var d EigenData
	for i := 0; i < 2; i++ {
		d.Values[i] = pair(e.Values[i])
		for j := 0; j < 2; j++ {
			d.Vectors[i][j] = pair(e.Vectors[i][j])
		}
	}
	return d
}

// Build converts records into the export document. meta may be nil.
func Build(meta *storage.RunMetadata, records []coupling.Record) ExportData {
	data := ExportData{
		Run:     meta,
		Steps:   len(records),
		Records: make([]RecordData, len(records)),
	}
	if len(records) > 0 {
		data.BaseEnergy = pair(records[0].BaseEnergy)
		data.OtherEnergy = pair(records[0].OtherEnergy)
		data.EnergyGap = pair(records[0].EnergyGap)
	}

	for i, r := range records {
		c, e := coupling.Hopf(r.Lossy.Vectors[0])
		data.Records[i] = RecordData{
			Step:     r.Step,
			Coupling: r.Coupling,
			Lossy:    eigenData(r.Lossy),
			Lossless: eigenData(r.Lossless),
			HopfC:    pair(c),
			HopfE:    pair(e),
		}
	}
	return data
}

// WriteJSON writes the indented export document to w.
func WriteJSON(w io.Writer, meta *storage.RunMetadata, records []coupling.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Build(meta, records))
}
