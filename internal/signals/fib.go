package signals

// FibLevels are the 52-week Fibonacci retracement levels and the
// zone classification of the current price.
type FibLevels struct {
	SwingHigh         float64 `json:"swing_high"`
	SwingLow          float64 `json:"swing_low"`
	Fib236            float64 `json:"fib_236"`
	Fib382            float64 `json:"fib_382"`
	Fib500            float64 `json:"fib_500"`
	Fib618            float64 `json:"fib_618"`
	Fib786            float64 `json:"fib_786"`
	Zone              string  `json:"zone"`
	Signal            string  `json:"signal"`
	NearestSupport    float64 `json:"nearest_support"`
	NearestResistance float64 `json:"nearest_resistance"`
}

// Fibonacci computes retracement levels measured down from the 52-week
// high and classifies price into one of 6 ordered zones. The upper two
// zones read BULLISH, the middle two NEUTRAL, the lower two BEARISH.
func Fibonacci(price, high52, low52 float64) FibLevels {
	price = finite(price, 0)
	high52 = finite(high52, 0)
	low52 = finite(low52, 0)

	fibRange := high52 - low52

	f := FibLevels{
		SwingHigh: round2(high52),
		SwingLow:  round2(low52),
		Fib236:    round2(high52 - fibRange*0.236),
		Fib382:    round2(high52 - fibRange*0.382),
		Fib500:    round2(high52 - fibRange*0.500),
		Fib618:    round2(high52 - fibRange*0.618),
		Fib786:    round2(high52 - fibRange*0.786),
	}

	switch {
	case price >= f.Fib236:
		f.Zone = "ABOVE_236"
		f.Signal = "BULLISH"
		f.NearestSupport = f.Fib236
		f.NearestResistance = f.SwingHigh
	case price >= f.Fib382:
		f.Zone = "236_TO_382"
		f.Signal = "BULLISH"
		f.NearestSupport = f.Fib382
		f.NearestResistance = f.Fib236
	case price >= f.Fib500:
		f.Zone = "382_TO_500"
		f.Signal = "NEUTRAL"
		f.NearestSupport = f.Fib500
		f.NearestResistance = f.Fib382
	case price >= f.Fib618:
		f.Zone = "500_TO_618"
		f.Signal = "NEUTRAL"
		f.NearestSupport = f.Fib618
		f.NearestResistance = f.Fib500
	case price >= f.Fib786:
		f.Zone = "618_TO_786"
		f.Signal = "BEARISH"
		f.NearestSupport = f.Fib786
		f.NearestResistance = f.Fib618
	default:
		f.Zone = "BELOW_786"
		f.Signal = "BEARISH"
		f.NearestSupport = f.SwingLow
		f.NearestResistance = f.Fib786
	}

	return f
}
