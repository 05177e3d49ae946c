package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/coupledmode/internal/coupling"
)

// TableHeader is the column layout of result.csv. eigvec_i_j is component j
// of eigenvector i.
var TableHeader = []string{
	"step", "coupling",
	"lossy_eigval_0", "lossy_eigval_1",
	"lossy_eigvec_0_0", "lossy_eigvec_0_1", "lossy_eigvec_1_0", "lossy_eigvec_1_1",
	"lossless_eigval_0", "lossless_eigval_1",
	"lossless_eigvec_0_0", "lossless_eigvec_0_1", "lossless_eigvec_1_0", "lossless_eigvec_1_1",
	"base_energy", "other_energy", "energy_gap",
}

func formatComplex(v complex128) string {
	return strconv.FormatComplex(v, 'g', -1, 128)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func appendEigen(row []string, e coupling.Eigen) []string {
	row = append(row, formatComplex(e.Values[0]), formatComplex(e.Values[1]))
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			row = append(row, formatComplex(e.Vectors[i][j]))
		}
	}
	return row
}

// WriteTable writes records as CSV. Values are formatted with the shortest
// representation that parses back to the same bits.
func WriteTable(w io.Writer, records []coupling.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TableHeader); err != nil {
		return err
	}

	row := make([]string, 0, len(TableHeader))
	for _, r := range records {
		row = row[:0]
		row = append(row, strconv.Itoa(r.Step), formatFloat(r.Coupling))
		row = appendEigen(row, r.Lossy)
		row = appendEigen(row, r.Lossless)
		row = append(row, formatComplex(r.BaseEnergy), formatComplex(r.OtherEnergy), formatComplex(r.EnergyGap))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// rowParser accumulates the first parse error of a row.
type rowParser struct {
	row  []string
	line int
	col  int
	err  error
}

func (p *rowParser) next() string {
	v := p.row[p.col]
	p.col++
	return v
}

func (p *rowParser) fail(err error) {
	if p.err == nil {
		p.err = fmt.Errorf("result table line %d, column %s: %w", p.line, TableHeader[p.col-1], err)
	}
}

func (p *rowParser) complexValue() complex128 {
	v, err := strconv.ParseComplex(p.next(), 128)
	if err != nil {
		p.fail(err)
	}
	return v
}

func (p *rowParser) eigen() coupling.Eigen {
	var e coupling.Eigen
	e.Values[0], e.Values[1] = p.complexValue(), p.complexValue()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			e.Vectors[i][j] = p.complexValue()
		}
	}
	return e
}

// ReadTable parses a table written by WriteTable.
func ReadTable(r io.Reader) ([]coupling.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(TableHeader)

	header, err := cr.Read()
	if err == io.EOF {
		return []coupling.Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i, name := range TableHeader {
		if header[i] != name {
			return nil, fmt.Errorf("result table: column %d is %q, want %q", i, header[i], name)
		}
	}

	records := make([]coupling.Record, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		p := &rowParser{row: row, line: line}
		var rec coupling.Record
		step, err := strconv.Atoi(p.next())
		if err != nil {
			p.fail(err)
		}
		rec.Step = step
		c, err := strconv.ParseFloat(p.next(), 64)
		if err != nil {
			p.fail(err)
		}
		rec.Coupling = c
		rec.Lossy = p.eigen()
		rec.Lossless = p.eigen()
		rec.BaseEnergy = p.complexValue()
		rec.OtherEnergy = p.complexValue()
		rec.EnergyGap = p.complexValue()
		if p.err != nil {
			return nil, p.err
		}
		records = append(records, rec)
	}
	return records, nil
}
