// Package dispatch builds the earliest-deadline-first cyclic schedule a
// worker uses to route its enqueueGlobal output across outgoing channels
// in proportion to their frequency, and derives those per-channel
// frequencies from batch sizes and multiplicities.
package dispatch

import (
	"fmt"
	"math/bits"
)

// Sentinel marks a padded no-op entry in an Extend-ed table.
const Sentinel = -1

// Table is a cyclic schedule: symbol Table[i] is the outgoing-channel
// index (local to the owning worker) chosen at step i.
type Table []int

// gcd of a and b.
func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func gcdAll(vs []uint32) uint64 {
	g := uint64(0)
	for _, v := range vs {
		g = gcd(g, uint64(v))
	}
	return g
}

// Build constructs the discrepancy-bounded EDF table for freqs. freqs must
// be positive and index the caller's own symbol alphabet {0,...,len-1}.
// Frequencies are first reduced by their GCD to keep the table small.
//
// Empty input returns a nil table. Per the frequency-computation open
// question, gcd == 0 (every frequency zero) leaves freqs unreduced rather
// than dividing by zero, which yields an empty table; valid networks
// never reach this, but the guard is preserved defensively.
func Build(freqs []uint32) (Table, error) {
	if len(freqs) == 0 {
		return nil, nil
	}
	g := gcdAll(freqs)
	reduced := make([]uint64, len(freqs))
	total := uint64(0)
	if g == 0 {
		for i, f := range freqs {
			reduced[i] = uint64(f)
			total += uint64(f)
		}
	} else {
		for i, f := range freqs {
			reduced[i] = uint64(f) / g
			total += reduced[i]
		}
	}

	// Overflow guard: f_s*u must be computable without overflow; u ranges
	// up to 2*total, so total*total must fit comfortably below the native
	// word, hence the half-word bound.
	if bits.Len64(total) > bits.UintSize/2 {
		return nil, fmt.Errorf("dispatch: frequency table too large (T=%d)", total)
	}

	table := make(Table, total)
	alloc := make([]uint64, len(reduced))

	for i := uint64(0); i < total; i++ {
		best := -1
		var bestDeadline uint64
		for s, f := range reduced {
			if f == 0 {
				continue
			}
			// due no later than step i: alloc[s] == floor(i*f_s/T)
			if alloc[s] != (i*f)/total {
				continue
			}
			u := earliestDeadline(f, total, alloc[s]+1, i)
			if best == -1 || u < bestDeadline {
				best = s
				bestDeadline = u
			}
		}
		if best == -1 {
			// Every symbol already ahead of schedule at this step; pick
			// the one with the smallest deadline for its next unit
			// regardless of the "due" filter, guaranteeing progress.
			for s, f := range reduced {
				if f == 0 {
					continue
				}
				u := earliestDeadline(f, total, alloc[s]+1, i)
				if best == -1 || u < bestDeadline {
					best = s
					bestDeadline = u
				}
			}
		}
		table[i] = best
		alloc[best]++
	}
	return table, nil
}

// earliestDeadline binary-searches [lo, 2*total] for the smallest integer
// u such that floor(f*u/total) >= need.
func earliestDeadline(f, total, need, lo uint64) uint64 {
	hi := 2 * total
	if hi < lo {
		hi = lo
	}
	for lo < hi {
		mid := lo + (hi-lo)/2
		if (f*mid)/total >= need {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// Extend pads every table to the length of the longest one with Sentinel
// entries, so every worker carries a uniformly-typed schedule; the
// dispatch cursor treats Sentinel as a no-op and advances past it.
func Extend(tables []Table) []Table {
	maxLen := 0
	for _, t := range tables {
		if len(t) > maxLen {
			maxLen = len(t)
		}
	}
	out := make([]Table, len(tables))
	for i, t := range tables {
		padded := make(Table, maxLen)
		copy(padded, t)
		for j := len(t); j < maxLen; j++ {
			padded[j] = Sentinel
		}
		out[i] = padded
	}
	return out
}
