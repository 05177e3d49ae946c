package coupling

// Run performs the sweep serially and returns exactly p.StepCount records,
// ordered by step.
func Run(p Params) ([]Record, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	records := make([]Record, p.StepCount)
	fillRange(p, records, 0, p.StepCount)
	return records, nil
}

// Step computes the record for 1-based step a without validating p.
func Step(p Params, a int) Record {
	c := p.CouplingAt(a)
	return Record{
		Step:        a,
		Coupling:    c,
		Lossy:       Decompose(p.Lossy(c)),
		Lossless:    Decompose(p.Lossless(c)),
		BaseEnergy:  p.BaseEnergy,
		OtherEnergy: p.OtherEnergy,
		EnergyGap:   p.EnergyGap(),
	}
}

// fillRange writes records [start, end) in place.
func fillRange(p Params, records []Record, start, end int) {
	for i := start; i < end; i++ {
		records[i] = Step(p, i+1)
	}
}
