package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/coupledmode/internal/coupling"
	"github.com/san-kum/coupledmode/internal/storage"
)

func runSmall(t *testing.T, steps int) []coupling.Record {
	t.Helper()
	p := coupling.DefaultParams()
	p.StepCount = steps
	records, err := coupling.Run(p)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return records
}

func TestWriteJSON(t *testing.T) {
	records := runSmall(t, 3)
	meta := &storage.RunMetadata{ID: "reference_abcd1234", Steps: 3}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, records); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if got.Run == nil || got.Run.ID != meta.ID {
		t.Errorf("run metadata not embedded: %+v", got.Run)
	}
	if got.Steps != 3 || len(got.Records) != 3 {
		t.Fatalf("expected 3 records, got %d/%d", got.Steps, len(got.Records))
	}
	if got.BaseEnergy != (Pair{1.371, -0.00009}) {
		t.Errorf("base energy = %v", got.BaseEnergy)
	}

	r := records[2]
	d := got.Records[2]
	if d.Coupling != r.Coupling || d.Step != 3 {
		t.Errorf("record 2 = step %d coupling %v", d.Step, d.Coupling)
	}
	if d.Lossy.Values[1] != pair(r.Lossy.Values[1]) {
		t.Errorf("lossy value mismatch: %v vs %v", d.Lossy.Values[1], r.Lossy.Values[1])
	}
	if d.Lossless.Vectors[1][0] != pair(r.Lossless.Vectors[1][0]) {
		t.Error("lossless vector mismatch")
	}
	c, _ := coupling.Hopf(r.Lossy.Vectors[0])
	if d.HopfC != pair(c) {
		t.Errorf("hopf_c = %v, want %v", d.HopfC, pair(c))
	}
}

func TestBuild_NoMeta(t *testing.T) {
	data := Build(nil, nil)
	if data.Run != nil || data.Steps != 0 || len(data.Records) != 0 {
		t.Errorf("unexpected data for empty input: %+v", data)
	}
}

func TestSeriesToSVG(t *testing.T) {
	s := coupling.Extract(runSmall(t, 20))

	for name, svg := range map[string]string{
		"branches":   BranchSVG(s, 400, 200),
		"linewidths": LinewidthSVG(s, 400, 200),
		"fractions":  ModeFractionSVG(s, 400, 200),
	} {
		if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
			t.Errorf("%s: malformed svg document", name)
		}
	}

	svg := BranchSVG(s, 400, 200)
	if n := strings.Count(svg, "<path"); n != 4 {
		t.Errorf("expected 4 paths, got %d", n)
	}
	if !strings.Contains(svg, `stroke-opacity="0.3"`) {
		t.Error("lossless lines should be faint")
	}

	fractions := ModeFractionSVG(s, 400, 200)
	if !strings.Contains(fractions, "mode fractions") || strings.Contains(fractions, "Hopf") {
		t.Error("mode-fraction chart should be labelled as mode fractions, not Hopf coefficients")
	}
}

func TestSeriesToSVG_Degenerate(t *testing.T) {
	tests := []struct {
		name  string
		x     []float64
		lines []Line
	}{
		{"single point", []float64{1}, []Line{{Y: []float64{1}}}},
		{"no matching lines", []float64{1, 2}, []Line{{Y: []float64{1}}}},
		{"no lines", []float64{1, 2}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SeriesToSVG(tt.x, tt.lines, 100, 100, ""); got != "" {
				t.Errorf("expected empty output, got %d bytes", len(got))
			}
		})
	}
}

func TestSeriesToSVG_EscapesTitle(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1}, []Line{{Name: "a<b", Y: []float64{0, 1}}}, 100, 100, "x & y")
	if !strings.Contains(svg, "x &amp; y") || !strings.Contains(svg, "a&lt;b") {
		t.Error("title and legend should be escaped")
	}
}
