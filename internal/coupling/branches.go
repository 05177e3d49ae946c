package coupling

import "math/cmplx"

// TrackBranches returns a copy of records in which each decomposition is
// reordered so that Values[b] is the nearest continuation of Values[b] at the
// previous step. Lossy and lossless pairs are matched independently. Distance
// is taken in the complex plane because below an exceptional point the real
// parts of the lossy pair coincide and cannot tell the branches apart.
func TrackBranches(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	for i := 1; i < len(out); i++ {
		out[i].Lossy = match(out[i-1].Lossy, out[i].Lossy)
		out[i].Lossless = match(out[i-1].Lossless, out[i].Lossless)
	}
	return out
}

// match swaps cur when the crossed assignment is strictly closer to prev.
func match(prev, cur Eigen) Eigen {
	straight := cmplx.Abs(cur.Values[0]-prev.Values[0]) + cmplx.Abs(cur.Values[1]-prev.Values[1])
	crossed := cmplx.Abs(cur.Values[1]-prev.Values[0]) + cmplx.Abs(cur.Values[0]-prev.Values[1])
	if crossed < straight {
		return cur.Swapped()
	}
	return cur
}

// Swaps counts the steps at which TrackBranches would reorder the lossy pair.
func Swaps(records []Record) int {
	n := 0
	prev := Eigen{}
	for i, r := range records {
		if i == 0 {
			prev = r.Lossy
			continue
		}
		cur := match(prev, r.Lossy)
		if cur != r.Lossy {
			n++
		}
		prev = cur
	}
	return n
}
