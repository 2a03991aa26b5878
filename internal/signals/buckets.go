package signals

import "fmt"

// VIXReading is the bucketed India VIX level with a suggested stance.
type VIXReading struct {
	Value  float64 `json:"value"`
	Level  string  `json:"level"`
	Action string  `json:"action"`
	Color  string  `json:"color"`
}

// VIXBucket classifies a VIX value into five fixed bands.
func VIXBucket(vix float64) VIXReading {
	vix = finite(vix, 14.5)

	switch {
	case vix < 13:
		return VIXReading{Value: vix, Level: "VERY_LOW", Action: "Market calm, option buying cheap", Color: ColorStrongGreen}
	case vix < 15:
		return VIXReading{Value: vix, Level: "LOW", Action: "Favorable for directional trades", Color: ColorLightGreen}
	case vix < 18:
		return VIXReading{Value: vix, Level: "MODERATE", Action: "Both buying and selling workable", Color: ColorYellow}
	case vix < 22:
		return VIXReading{Value: vix, Level: "HIGH", Action: "Elevated premium, favor option selling", Color: ColorLightRed}
	default:
		return VIXReading{Value: vix, Level: "VERY_HIGH", Action: "Panic zone, reduce position size", Color: ColorStrongRed}
	}
}

// BreadthReading is the bucketed advance/decline market breadth.
type BreadthReading struct {
	Advancing      int     `json:"advancing"`
	Declining      int     `json:"declining"`
	Ratio          float64 `json:"advance_decline_ratio"`
	Signal         string  `json:"signal"`
	Interpretation string  `json:"interpretation"`
	Color          string  `json:"color"`
}

// BreadthSignal buckets market breadth by the advancing share of
// traded names: above 0.6 BULLISH, below 0.4 BEARISH.
func BreadthSignal(advancing, declining int) BreadthReading {
	if advancing < 0 {
		advancing = 0
	}
	if declining < 0 {
		declining = 0
	}

	total := advancing + declining
	r := BreadthReading{Advancing: advancing, Declining: declining}
	if declining > 0 {
		r.Ratio = round2(float64(advancing) / float64(declining))
	}

	var advShare float64
	if total > 0 {
		advShare = float64(advancing) / float64(total)
	}

	switch {
	case advShare > 0.6:
		r.Signal = "BULLISH"
		r.Interpretation = fmt.Sprintf("%d advancing vs %d declining - market health good", advancing, declining)
		r.Color = ColorStrongGreen
	case advShare < 0.4:
		r.Signal = "BEARISH"
		r.Interpretation = fmt.Sprintf("%d declining vs %d advancing - market weak", declining, advancing)
		r.Color = ColorStrongRed
	default:
		r.Signal = "NEUTRAL"
		r.Interpretation = fmt.Sprintf("%d green, %d red - mixed, no-trade zone", advancing, declining)
		r.Color = ColorYellow
	}
	return r
}

// VolumeReading classifies a move as genuine or a trap.
type VolumeReading struct {
	Signal         string `json:"signal"`
	Interpretation string `json:"interpretation"`
	Color          string `json:"color"`
}

// ClassifyVolume reads price change against volume change. Rising
// price on rising volume is a true move; rising price on falling
// volume is a trap.
func ClassifyVolume(priceChange, volumeChange float64) VolumeReading {
	priceChange = finite(priceChange, 0)
	volumeChange = finite(volumeChange, 0)

	switch {
	case priceChange > 0 && volumeChange > 0:
		return VolumeReading{Signal: "TRUE_BUYING", Interpretation: "Price up on rising volume - real buying", Color: ColorStrongGreen}
	case priceChange > 0 && volumeChange < 0:
		return VolumeReading{Signal: "TRAP_MOVE", Interpretation: "Price up on falling volume - fake breakout risk", Color: ColorLightRed}
	case priceChange < 0 && volumeChange > 0:
		return VolumeReading{Signal: "TRUE_SELLING", Interpretation: "Price down on rising volume - real selling", Color: ColorStrongRed}
	default:
		return VolumeReading{Signal: "WEAK_SELLING", Interpretation: "Price down on falling volume - bounce possible", Color: ColorYellow}
	}
}

// ThetaReading is the ATM straddle premium read.
type ThetaReading struct {
	StraddlePrice  float64 `json:"straddle_price"`
	EstimatedTheta float64 `json:"estimated_theta"`
	Signal         string  `json:"signal"`
	Interpretation string  `json:"interpretation"`
	Strategy       string  `json:"strategy"`
}

// ThetaRead classifies the ATM straddle premium. Daily theta is
// approximated as 6% of the straddle.
func ThetaRead(straddlePrice float64) ThetaReading {
	straddlePrice = finite(straddlePrice, 0)
	r := ThetaReading{
		StraddlePrice:  round2(straddlePrice),
		EstimatedTheta: round2(straddlePrice * 0.06),
	}

	switch {
	case straddlePrice > 400:
		r.Signal = "HIGH_PREMIUM"
		r.Interpretation = "Straddle price high - volatility expected, option buying OK"
		r.Strategy = "Option Buying"
	case straddlePrice > 200:
		r.Signal = "NORMAL"
		r.Interpretation = "Straddle price normal - wait for direction"
		r.Strategy = "Wait & Watch"
	default:
		r.Signal = "LOW_PREMIUM"
		r.Interpretation = "Straddle price low - sideways market, avoid option buying"
		r.Strategy = "Option Selling / Iron Condor"
	}
	return r
}
