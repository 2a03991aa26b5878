package signals

import (
	"math"
	"testing"
)

func flatPrices(n int, v float64) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = v
	}
	return p
}

func TestRSIFlatSeriesIs100(t *testing.T) {
	// No movement means zero average loss, which must hit the 100
	// branch, never NaN.
	got := RSI(flatPrices(20, 10), 14)
	if got != 100 {
		t.Errorf("RSI(flat) = %v, want 100", got)
	}
}

func TestRSIShortSeriesIsNeutral(t *testing.T) {
	if got := RSI([]float64{10, 11, 12}, 14); got != 50 {
		t.Errorf("RSI(short series) = %v, want neutral 50", got)
	}
}

func TestRSIAllLossesNearZero(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 - float64(i)
	}
	got := RSI(prices, 14)
	if got != 0 {
		t.Errorf("RSI(pure downtrend) = %v, want 0", got)
	}
}

func TestRSIMixedSeries(t *testing.T) {
	// 7 gains of 2 and 7 losses of 1 over the window:
	// avgGain/avgLoss = 2, RSI = 100 - 100/3 = 66.7
	prices := []float64{100}
	for i := 0; i < 7; i++ {
		prices = append(prices, prices[len(prices)-1]+2)
		prices = append(prices, prices[len(prices)-1]-1)
	}
	got := RSI(prices, 14)
	if got != 66.7 {
		t.Errorf("RSI = %v, want 66.7", got)
	}
}

func TestDeriveIndicatorsRangePosition(t *testing.T) {
	// Price at top of range: rsi proxy = 30 + 1.0*40 = 70
	ind := DeriveIndicators(120, 0.2, 120, 80, 0)
	if ind.RSI != 70 {
		t.Errorf("top-of-range RSI = %v, want 70", ind.RSI)
	}
	if ind.RSISignal != "NEUTRAL" {
		t.Errorf("rsi_signal = %q", ind.RSISignal)
	}
	if !ind.Above50DMA || !ind.Above200DMA {
		t.Error("top-of-range price should sit above both longer MAs")
	}

	// Bottom of range: 30 + 0 = 30
	ind = DeriveIndicators(80, 0.2, 120, 80, 0)
	if ind.RSI != 30 {
		t.Errorf("bottom-of-range RSI = %v, want 30", ind.RSI)
	}
	if ind.Above50DMA || ind.Above200DMA {
		t.Error("bottom-of-range price should sit below longer MAs")
	}
}

func TestDeriveIndicatorsDegenerateRange(t *testing.T) {
	ind := DeriveIndicators(100, 0, 100, 100, 0)
	if ind.RSI != 50 {
		t.Errorf("degenerate range RSI = %v, want 50", ind.RSI)
	}
}

func TestDeriveIndicatorsMACDBuckets(t *testing.T) {
	if got := DeriveIndicators(100, 1.5, 120, 80, 0).MACD; got != "BULLISH" {
		t.Errorf("macd = %q, want BULLISH", got)
	}
	if got := DeriveIndicators(100, -1.5, 120, 80, 0).MACD; got != "BEARISH" {
		t.Errorf("macd = %q, want BEARISH", got)
	}
	if got := DeriveIndicators(100, 0.5, 120, 80, 0).MACD; got != "NEUTRAL" {
		t.Errorf("macd = %q, want NEUTRAL", got)
	}
}

func TestDeriveIndicatorsVolumeDefault(t *testing.T) {
	ind := DeriveIndicators(100, 0, 120, 80, 0)
	if ind.VolumeSurge != 1.0 {
		t.Errorf("volume_surge default = %v, want 1.0", ind.VolumeSurge)
	}
}

func TestDeriveIndicatorsDeterministic(t *testing.T) {
	a := DeriveIndicators(100, 0.7, 130, 85, 1.4)
	b := DeriveIndicators(100, 0.7, 130, 85, 1.4)
	if a != b {
		t.Errorf("indicators not deterministic: %+v vs %+v", a, b)
	}
}

func TestDeriveIndicatorsNonFinite(t *testing.T) {
	ind := DeriveIndicators(math.NaN(), math.Inf(1), math.Inf(-1), math.NaN(), math.NaN())
	if math.IsNaN(ind.RSI) || math.IsInf(ind.RSI, 0) {
		t.Errorf("RSI leaked non-finite value: %v", ind.RSI)
	}
	if math.IsNaN(ind.VolumeSurge) {
		t.Errorf("volume_surge leaked NaN")
	}
}

func TestFibonacciZones(t *testing.T) {
	const high, low = 200.0, 100.0
	// Levels: 236->176.4, 382->161.8, 500->150, 618->138.2, 786->121.4
	cases := []struct {
		price  float64
		zone   string
		signal string
	}{
		{200, "ABOVE_236", "BULLISH"},
		{180, "ABOVE_236", "BULLISH"},
		{170, "236_TO_382", "BULLISH"},
		{155, "382_TO_500", "NEUTRAL"},
		{140, "500_TO_618", "NEUTRAL"},
		{130, "618_TO_786", "BEARISH"},
		{110, "BELOW_786", "BEARISH"},
	}
	for _, tc := range cases {
		f := Fibonacci(tc.price, high, low)
		if f.Zone != tc.zone {
			t.Errorf("price %v: zone = %q, want %q", tc.price, f.Zone, tc.zone)
		}
		if f.Signal != tc.signal {
			t.Errorf("price %v: signal = %q, want %q", tc.price, f.Signal, tc.signal)
		}
	}
}

func TestFibonacciAtSwingHigh(t *testing.T) {
	f := Fibonacci(200, 200, 100)
	if f.Zone != "ABOVE_236" || f.Signal != "BULLISH" {
		t.Errorf("at swing high: zone=%q signal=%q", f.Zone, f.Signal)
	}
	if f.NearestResistance != 200 {
		t.Errorf("nearest_resistance = %v, want swing high", f.NearestResistance)
	}
}

func TestFibonacciLevelValues(t *testing.T) {
	f := Fibonacci(150, 200, 100)
	if f.Fib236 != 176.4 || f.Fib382 != 161.8 || f.Fib500 != 150.0 || f.Fib618 != 138.2 || f.Fib786 != 121.4 {
		t.Errorf("levels = %+v", f)
	}
}
