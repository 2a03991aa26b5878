package signals

// Sentiment is the composite 0-10 index sentiment reading.
type Sentiment struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// SentimentScore combines PCR, VWAP position, and the OI-shift status
// into a 0-10 score centered at 5. Non-finite inputs contribute
// nothing beyond their documented defaults (PCR 1.0, prices 0).
func SentimentScore(pcr, spot, vwap float64, oiStatus string) Sentiment {
	pcr = finite(pcr, 1.0)
	spot = finite(spot, 0)
	vwap = finite(vwap, 0)

	score := 5

	// PCR reads as a weighing machine
	if pcr > 1.2 {
		score += 2
	} else if pcr < 0.7 {
		score -= 2
	}

	// VWAP reads as the intraday trend
	if spot > vwap {
		score += 2
	} else {
		score -= 2
	}

	// OI shift carries the most weight
	switch oiStatus {
	case OIShortCovering:
		score += 3
	case OILongUnwinding:
		score -= 3
	case OIMildBullish:
		score++
	case OIMildBearish:
		score--
	}

	score = clampI(score, 0, 10)

	switch {
	case score >= 7:
		return Sentiment{Score: score, Label: "STRONG BUY", Color: ColorStrongGreen}
	case score <= 3:
		return Sentiment{Score: score, Label: "STRONG SELL", Color: ColorStrongRed}
	default:
		return Sentiment{Score: score, Label: "NEUTRAL", Color: ColorGrey}
	}
}
