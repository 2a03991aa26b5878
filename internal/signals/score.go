package signals

import "fmt"

// Recommendation tiers, strongest buy first.
const (
	RecStrongBuy  = "STRONG BUY"
	RecBuy        = "BUY"
	RecHold       = "HOLD"
	RecSell       = "SELL"
	RecStrongSell = "STRONG SELL"
)

// ScreenerScore combines the technical readings into a 0-100 score
// starting from the neutral 50. The contributions are fixed:
// RSI extremes ±15, MACD ±20, each moving-average flag +5, a volume
// surge ±10 by price direction, Fibonacci signal ±10.
func ScreenerScore(ind Indicators, changePct float64, fibSignal string) int {
	changePct = finite(changePct, 0)
	score := 50

	if ind.RSI < 30 {
		score += 15
	} else if ind.RSI > 70 {
		score -= 15
	}

	switch ind.MACD {
	case "BULLISH":
		score += 20
	case "BEARISH":
		score -= 20
	}

	if ind.Above20DMA {
		score += 5
	}
	if ind.Above50DMA {
		score += 5
	}
	if ind.Above200DMA {
		score += 5
	}

	if ind.VolumeSurge > 2 {
		if changePct > 0 {
			score += 10
		} else {
			score -= 10
		}
	}

	switch fibSignal {
	case "BULLISH":
		score += 10
	case "BEARISH":
		score -= 10
	}

	return clampI(score, 0, 100)
}

// Recommendation maps a score to its tier and display color. The
// thresholds strictly determine the tier: equal scores always yield
// equal tiers.
func Recommendation(score int) (label, color string) {
	switch {
	case score >= 70:
		return RecStrongBuy, ColorStrongGreen
	case score >= 55:
		return RecBuy, ColorLightGreen
	case score >= 45:
		return RecHold, ColorYellow
	case score >= 30:
		return RecSell, ColorLightRed
	default:
		return RecStrongSell, ColorStrongRed
	}
}

// TradingLevels are the deterministic entry/target/stoploss derived
// from the current price and recommendation tier. Never persisted;
// always recomputed from the freshest price.
type TradingLevels struct {
	Entry      float64 `json:"entry"`
	Target     float64 `json:"target"`
	Stoploss   float64 `json:"stoploss"`
	RiskReward string  `json:"risk_reward"`
}

// ComputeTradingLevels derives levels for a recommendation tier.
// BUY tiers enter slightly below price; SELL tiers slightly above;
// HOLD pins all three to price with no ratio.
func ComputeTradingLevels(price float64, recommendation string) TradingLevels {
	price = finite(price, 0)

	switch recommendation {
	case RecStrongBuy, RecBuy:
		entry := round2(price * 0.995)
		target := round2(price * 1.03)
		stoploss := round2(price * 0.985)
		return TradingLevels{
			Entry:      entry,
			Target:     target,
			Stoploss:   stoploss,
			RiskReward: riskRewardRatio(entry-stoploss, target-entry),
		}
	case RecStrongSell, RecSell:
		entry := round2(price * 1.005)
		target := round2(price * 0.97)
		stoploss := round2(price * 1.015)
		return TradingLevels{
			Entry:      entry,
			Target:     target,
			Stoploss:   stoploss,
			RiskReward: riskRewardRatio(stoploss-entry, entry-target),
		}
	default:
		p := round2(price)
		return TradingLevels{Entry: p, Target: p, Stoploss: p, RiskReward: "N/A"}
	}
}

func riskRewardRatio(risk, reward float64) string {
	if risk <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("1:%g", round1(reward/risk))
}
