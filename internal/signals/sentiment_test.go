package signals

import (
	"math"
	"testing"
)

func TestSentimentScoreComponents(t *testing.T) {
	cases := []struct {
		name     string
		pcr      float64
		spot     float64
		vwap     float64
		oiStatus string
		want     int
		label    string
	}{
		{"all bullish", 1.3, 25400, 25350, OIShortCovering, 10, "STRONG BUY"},
		{"all bearish", 0.6, 25300, 25350, OILongUnwinding, 0, "STRONG SELL"},
		{"neutral midline", 1.0, 25300, 25350, OINeutral, 3, "STRONG SELL"},
		{"mild bullish above vwap", 1.0, 25400, 25350, OIMildBullish, 8, "STRONG BUY"},
		{"mild bearish below vwap", 1.0, 25300, 25350, OIMildBearish, 2, "STRONG SELL"},
		{"balanced", 1.0, 25400, 25350, OINeutral, 7, "STRONG BUY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SentimentScore(tc.pcr, tc.spot, tc.vwap, tc.oiStatus)
			if got.Score != tc.want {
				t.Errorf("score = %d, want %d", got.Score, tc.want)
			}
			if got.Label != tc.label {
				t.Errorf("label = %q, want %q", got.Label, tc.label)
			}
		})
	}
}

func TestSentimentScoreBounds(t *testing.T) {
	pcrs := []float64{0.1, 0.7, 1.0, 1.2, 2.5}
	statuses := []string{OIShortCovering, OILongUnwinding, OIMildBullish, OIMildBearish, OIUncertain, OINeutral}
	for _, pcr := range pcrs {
		for _, spot := range []float64{100, 200} {
			for _, vwap := range []float64{100, 200} {
				for _, st := range statuses {
					s := SentimentScore(pcr, spot, vwap, st)
					if s.Score < 0 || s.Score > 10 {
						t.Fatalf("score %d out of [0,10] for pcr=%v spot=%v vwap=%v st=%s", s.Score, pcr, spot, vwap, st)
					}
				}
			}
		}
	}
}

func TestSentimentMonotonicInPCR(t *testing.T) {
	prev := -1
	for _, pcr := range []float64{0.5, 0.7, 0.9, 1.1, 1.3, 1.8} {
		s := SentimentScore(pcr, 25400, 25350, OINeutral)
		if s.Score < prev {
			t.Fatalf("score decreased as PCR rose: %d after %d at pcr=%v", s.Score, prev, pcr)
		}
		prev = s.Score
	}
}

func TestSentimentMonotonicInVWAPDistance(t *testing.T) {
	below := SentimentScore(1.0, 25300, 25350, OINeutral)
	above := SentimentScore(1.0, 25400, 25350, OINeutral)
	if above.Score < below.Score {
		t.Errorf("above-VWAP score %d < below-VWAP score %d", above.Score, below.Score)
	}
}

func TestSentimentNonFiniteInputs(t *testing.T) {
	s := SentimentScore(math.NaN(), math.Inf(1), math.Inf(-1), OINeutral)
	if s.Score < 0 || s.Score > 10 {
		t.Errorf("non-finite inputs produced out-of-range score %d", s.Score)
	}
}
