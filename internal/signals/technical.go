package signals

// Indicators are the derived technical readings for one symbol.
type Indicators struct {
	RSI         float64 `json:"rsi"`
	RSISignal   string  `json:"rsi_signal"`
	MACD        string  `json:"macd"`
	Above20DMA  bool    `json:"above_20dma"`
	Above50DMA  bool    `json:"above_50dma"`
	Above200DMA bool    `json:"above_200dma"`
	VolumeSurge float64 `json:"volume_surge"`
	FibSignal   string  `json:"fib_signal"`
}

// RSI computes a simplified Wilder RSI over the trailing period
// deltas. Fewer than period+1 samples yields the neutral default 50;
// zero average loss yields 100, never NaN.
func RSI(prices []float64, period int) float64 {
	if period <= 0 {
		period = 14
	}
	if len(prices) < period+1 {
		return 50
	}

	var gains, losses float64
	start := len(prices) - period
	for i := start; i < len(prices); i++ {
		delta := finite(prices[i], 0) - finite(prices[i-1], 0)
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return round1(100 - 100/(1+rs))
}

// DeriveIndicators produces the screener's technical readings from a
// single quote. Without an intraday history the readings are proxies
// derived from the 52-week position and day change:
//   - RSI proxy: 30 + position*40, clamped to [15, 85]; 50 when the
//     52-week range is degenerate.
//   - MACD bucket: change beyond ±1% picks the direction.
//   - Moving-average flags: thresholds on change and range position.
//
// volumeRatio is today's volume over the recent average; pass 0 when
// unknown and it defaults to 1.0.
func DeriveIndicators(price, changePct, high52, low52, volumeRatio float64) Indicators {
	price = finite(price, 0)
	changePct = finite(changePct, 0)
	high52 = finite(high52, 0)
	low52 = finite(low52, 0)
	volumeRatio = finite(volumeRatio, 1.0)
	if volumeRatio <= 0 {
		volumeRatio = 1.0
	}

	var rsi float64
	if high52 > low52 {
		position := (price - low52) / (high52 - low52)
		rsi = clampF(30+position*40, 15, 85)
	} else {
		rsi = 50
	}
	rsi = round1(rsi)

	rsiSignal := "NEUTRAL"
	if rsi < 30 {
		rsiSignal = "OVERSOLD"
	} else if rsi > 70 {
		rsiSignal = "OVERBOUGHT"
	}

	macd := "NEUTRAL"
	if changePct > 1 {
		macd = "BULLISH"
	} else if changePct < -1 {
		macd = "BEARISH"
	}

	rangeSize := high52 - low52

	return Indicators{
		RSI:         rsi,
		RSISignal:   rsiSignal,
		MACD:        macd,
		Above20DMA:  changePct > -0.5,
		Above50DMA:  price > low52+rangeSize*0.3,
		Above200DMA: price > low52+rangeSize*0.2,
		VolumeSurge: round1(volumeRatio),
		FibSignal:   "NEUTRAL",
	}
}
