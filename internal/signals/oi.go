package signals

// UI color constants shared across signal outputs.
const (
	ColorStrongGreen = "#00E676"
	ColorLightGreen  = "#69F0AE"
	ColorStrongRed   = "#FF5252"
	ColorLightRed    = "#FF8A80"
	ColorYellow      = "#FFD600"
	ColorGrey        = "#9E9E9E"
)

// OI shift status labels.
const (
	OIShortCovering = "SHORT COVERING"
	OILongUnwinding = "LONG UNWINDING"
	OIMildBullish   = "MILD BULLISH"
	OIMildBearish   = "MILD BEARISH"
	OIUncertain     = "UNCERTAIN"
	OINeutral       = "NEUTRAL"
)

// OIShift is the classified open-interest shift for a symbol.
type OIShift struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Color   string `json:"bg_color"`
}

// ClassifyOIShift maps total call/put change-in-OI to a shift label.
// The branches are order sensitive: short covering and long unwinding
// dominate, the both-positive split comes next, and any zero falls
// through to NEUTRAL.
func ClassifyOIShift(callCOI, putCOI int64) OIShift {
	switch {
	case callCOI < 0 && putCOI > 0:
		return OIShift{
			Message: "Short Covering: Call Writers Exiting, Put Writers Entering",
			Status:  OIShortCovering,
			Color:   ColorStrongGreen,
		}
	case callCOI > 0 && putCOI < 0:
		return OIShift{
			Message: "Long Unwinding: Call Writers Entering, Put Writers Exiting",
			Status:  OILongUnwinding,
			Color:   ColorStrongRed,
		}
	case callCOI > 0 && putCOI > 0:
		if putCOI > callCOI {
			return OIShift{
				Message: "Mild Bullish: Support Building with Put Writing",
				Status:  OIMildBullish,
				Color:   ColorLightGreen,
			}
		}
		return OIShift{
			Message: "Mild Bearish: Resistance Building with Call Writing",
			Status:  OIMildBearish,
			Color:   ColorLightRed,
		}
	case callCOI < 0 && putCOI < 0:
		return OIShift{
			Message: "Uncertain: Both Sides Unwinding, Expect Volatility",
			Status:  OIUncertain,
			Color:   ColorGrey,
		}
	default:
		return OIShift{
			Message: "Neutral: No Significant OI Change",
			Status:  OINeutral,
			Color:   ColorGrey,
		}
	}
}

// BarColor colors one side of an OI bar. Call unwinding and put
// writing read bullish (GREEN); call writing and put unwinding read
// bearish (RED).
func BarColor(oiChange int64, isCall bool) string {
	if oiChange == 0 {
		return "GREY"
	}
	if isCall {
		if oiChange < 0 {
			return "GREEN"
		}
		return "RED"
	}
	if oiChange > 0 {
		return "GREEN"
	}
	return "RED"
}
