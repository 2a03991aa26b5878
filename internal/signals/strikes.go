// Package signals holds the pure signal-derivation functions. Every
// function is total over its numeric domain: no I/O, no randomness,
// and non-finite inputs are replaced by documented defaults instead of
// leaking into JSON output.
package signals

import "math"

// ATMStrike returns the at-the-money strike: the nearest step multiple
// to spot. Exact half-step spots round to the even multiple, so spot
// 25325 with step 50 is 25300, not 25350.
func ATMStrike(spot float64, step int) int {
	if step <= 0 {
		step = 50
	}
	spot = finite(spot, 0)
	return int(math.RoundToEven(spot/float64(step))) * step
}

// RelevantStrikes returns the 11-strike window around ATM: 5 step
// multiples below through 5 above, ascending.
func RelevantStrikes(spot float64, step int) []int {
	if step <= 0 {
		step = 50
	}
	atm := ATMStrike(spot, step)
	strikes := make([]int, 0, 11)
	for i := -5; i <= 5; i++ {
		strikes = append(strikes, atm+i*step)
	}
	return strikes
}
