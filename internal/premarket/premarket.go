// Package premarket builds the morning report: overnight global
// markets, news sentiment, and the top picks for the next session.
package premarket

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/optionsense/backend/internal/external/gnews"
	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/internal/screener"
	"github.com/optionsense/backend/internal/signals"
	"github.com/optionsense/backend/pkg/logger"
)

const maxHeadlines = 8

// Keyword lists for headline sentiment. Matching is a plain substring
// scan over the lowercased title.
var (
	bullishKeywords = []string{
		"rally", "surge", "gain", "rise", "bullish", "positive", "growth",
		"record high", "upgrade", "beat", "strong", "boom", "optimism",
		"recovery", "profit", "outperform", "buy", "breakout", "up",
	}
	bearishKeywords = []string{
		"fall", "drop", "crash", "decline", "bearish", "negative", "loss",
		"record low", "downgrade", "miss", "weak", "bust", "pessimism",
		"recession", "selloff", "underperform", "sell", "breakdown", "down",
	}
)

// GlobalMarket is one overnight benchmark reading.
type GlobalMarket struct {
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"price"`
	Change     float64 `json:"change"`
	ChangePct  float64 `json:"change_pct"`
	IsPositive bool    `json:"is_positive"`
	Status     string  `json:"status"`
}

// GlobalMarkets is the overnight block with its aggregate sentiment.
type GlobalMarkets struct {
	Data          []GlobalMarket `json:"data"`
	Sentiment     string         `json:"sentiment"`
	PositiveCount int            `json:"positive_count"`
	TotalCount    int            `json:"total_count"`
}

// ScoredHeadline is a news item with its keyword sentiment.
type ScoredHeadline struct {
	gnews.Headline
	Sentiment string `json:"sentiment"`
	Score     int    `json:"score"`
	IsBullish *bool  `json:"is_bullish"`
}

// NewsSentiment aggregates headline sentiment into a market mood.
type NewsSentiment struct {
	Mood         string `json:"mood"`
	Score        int    `json:"score"`
	BullishCount int    `json:"bullish_count"`
	BearishCount int    `json:"bearish_count"`
	NeutralCount int    `json:"neutral_count"`
	Total        int    `json:"total"`
}

// News is the headlines block of the report.
type News struct {
	Headlines []ScoredHeadline `json:"headlines"`
	Sentiment NewsSentiment    `json:"sentiment"`
}

// Pick is one stock pick for the next session.
type Pick struct {
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	ChangePct      float64  `json:"change_pct"`
	Entry          float64  `json:"entry"`
	Target         float64  `json:"target"`
	Stoploss       float64  `json:"stoploss"`
	Score          int      `json:"score"`
	PreMarketScore int      `json:"pre_market_score"`
	Reasons        []string `json:"reasons"`
	Recommendation string   `json:"recommendation"`
}

// Mood is the combined global+news market mood.
type Mood struct {
	Mood    string `json:"mood"`
	Message string `json:"message"`
}

// Report is the complete pre-market payload.
type Report struct {
	Timestamp     string        `json:"timestamp"`
	MarketDate    string        `json:"market_date"`
	GlobalMarkets GlobalMarkets `json:"global_markets"`
	News          News          `json:"news"`
	TopPicks      []Pick        `json:"top_picks"`
	OverallMood   Mood          `json:"overall_mood"`
	Disclaimer    string        `json:"disclaimer"`
}

// worldFetcher scrapes global benchmark quote pages by slug.
type worldFetcher interface {
	FetchBySlug(ctx context.Context, slug string) (price, prevClose float64, err error)
}

// newsFetcher returns headlines, degrading internally to samples.
type newsFetcher interface {
	FetchHeadlines(ctx context.Context, max int) []gnews.Headline
}

// stockSource feeds processed screener entries into the pick scorer.
type stockSource interface {
	GetScreenerData(ctx context.Context, filter string) screener.Result
}

// Service assembles pre-market reports.
type Service struct {
	world  worldFetcher
	news   newsFetcher
	stocks stockSource
	logger *logger.Logger

	now func() time.Time
}

// NewService creates the pre-market service.
func NewService(world worldFetcher, news newsFetcher, stocks stockSource, log *logger.Logger) *Service {
	return &Service{
		world:  world,
		news:   news,
		stocks: stocks,
		logger: log.WithField("component", "premarket"),
		now:    time.Now,
	}
}

// GetReport builds the complete pre-market analysis.
func (s *Service) GetReport(ctx context.Context) Report {
	global := s.fetchGlobalMarkets(ctx)

	headlines := scoreHeadlines(s.news.FetchHeadlines(ctx, maxHeadlines))
	newsSentiment := overallNewsSentiment(headlines)

	picks := s.topPicks(ctx, newsSentiment.Mood)

	now := s.now()
	return Report{
		Timestamp:     now.Format("2006-01-02 15:04:05"),
		MarketDate:    now.AddDate(0, 0, 1).Format("2006-01-02"),
		GlobalMarkets: global,
		News:          News{Headlines: headlines, Sentiment: newsSentiment},
		TopPicks:      picks,
		OverallMood:   combineMoods(global.Sentiment, newsSentiment.Mood),
		Disclaimer:    "This analysis is for educational purposes only. Always do your own research before investing.",
	}
}

// mockGlobalMarkets keeps the report rendering when scraping fails.
var mockGlobalMarkets = []GlobalMarket{
	{Name: "S&P 500", Symbol: ".INX:INDEXSP", Price: 5850.25, Change: 45.30, ChangePct: 0.78, IsPositive: true, Status: "UP"},
	{Name: "NASDAQ", Symbol: ".IXIC:INDEXNASDAQ", Price: 18520.50, Change: 125.80, ChangePct: 0.68, IsPositive: true, Status: "UP"},
	{Name: "DOW JONES", Symbol: ".DJI:INDEXDJX", Price: 42850.00, Change: -85.50, ChangePct: -0.20, IsPositive: false, Status: "DOWN"},
	{Name: "GIFT NIFTY", Symbol: "NIFTY_50:INDEXNSE", Price: 23580.00, Change: 65.00, ChangePct: 0.28, IsPositive: true, Status: "UP"},
	{Name: "HANG SENG", Symbol: "HSI:INDEXHANGSENG", Price: 19850.30, Change: -120.45, ChangePct: -0.60, IsPositive: false, Status: "DOWN"},
	{Name: "NIKKEI", Symbol: "NI225:INDEXNIKKEI", Price: 38250.00, Change: 180.50, ChangePct: 0.47, IsPositive: true, Status: "UP"},
}

func (s *Service) fetchGlobalMarkets(ctx context.Context) GlobalMarkets {
	var data []GlobalMarket
	for _, wi := range market.WorldIndices {
		price, prevClose, err := s.world.FetchBySlug(ctx, wi.Slug)
		if err != nil || price <= 0 {
			continue
		}

		m := GlobalMarket{Name: wi.Name, Symbol: wi.Slug, Price: round2(price)}
		if prevClose > 0 {
			m.Change = round2(price - prevClose)
			m.ChangePct = round2((price - prevClose) / prevClose * 100)
		}
		m.IsPositive = m.Change >= 0
		if m.Change == 0 {
			m.Status = "FLAT"
		} else if m.IsPositive {
			m.Status = "UP"
		} else {
			m.Status = "DOWN"
		}
		data = append(data, m)
	}

	if len(data) == 0 {
		s.logger.Warn("global market scrape empty, serving sample data")
		data = mockGlobalMarkets
	}

	positive := 0
	for _, m := range data {
		if m.IsPositive {
			positive++
		}
	}

	sentiment := "NEUTRAL"
	if positive >= 4 {
		sentiment = "BULLISH"
	} else if positive <= 2 {
		sentiment = "BEARISH"
	}

	return GlobalMarkets{
		Data:          data,
		Sentiment:     sentiment,
		PositiveCount: positive,
		TotalCount:    len(data),
	}
}

// scoreHeadlines annotates each headline with its keyword sentiment.
func scoreHeadlines(headlines []gnews.Headline) []ScoredHeadline {
	scored := make([]ScoredHeadline, 0, len(headlines))
	for _, h := range headlines {
		scored = append(scored, classifyHeadline(h))
	}
	return scored
}

func classifyHeadline(h gnews.Headline) ScoredHeadline {
	title := strings.ToLower(h.Title)

	bullish, bearish := 0, 0
	for _, kw := range bullishKeywords {
		if strings.Contains(title, kw) {
			bullish++
		}
	}
	for _, kw := range bearishKeywords {
		if strings.Contains(title, kw) {
			bearish++
		}
	}

	score := bullish - bearish
	result := ScoredHeadline{Headline: h, Score: score}
	switch {
	case score > 0:
		result.Sentiment = "BULLISH"
		result.IsBullish = boolPtr(true)
	case score < 0:
		result.Sentiment = "BEARISH"
		result.IsBullish = boolPtr(false)
	default:
		result.Sentiment = "NEUTRAL"
	}
	return result
}

// overallNewsSentiment folds headline sentiments into a 0-10 score and
// a mood. A side needs a margin of more than 2 to claim the mood.
func overallNewsSentiment(headlines []ScoredHeadline) NewsSentiment {
	if len(headlines) == 0 {
		return NewsSentiment{Mood: "NEUTRAL", Score: 5}
	}

	var bullish, bearish int
	for _, h := range headlines {
		if h.IsBullish == nil {
			continue
		}
		if *h.IsBullish {
			bullish++
		} else {
			bearish++
		}
	}

	score := int(math.Round(float64(bullish) / float64(len(headlines)) * 10))

	mood := "NEUTRAL"
	if bullish > bearish+2 {
		mood = "BULLISH"
	} else if bearish > bullish+2 {
		mood = "BEARISH"
	}

	return NewsSentiment{
		Mood:         mood,
		Score:        score,
		BullishCount: bullish,
		BearishCount: bearish,
		NeutralCount: len(headlines) - bullish - bearish,
		Total:        len(headlines),
	}
}

// topPicks scores the screener set for next-session candidates and
// keeps the best three.
func (s *Service) topPicks(ctx context.Context, globalSentiment string) []Pick {
	result := s.stocks.GetScreenerData(ctx, screener.FilterAll)

	picks := make([]Pick, 0, len(result.Stocks))
	for _, stock := range result.Stocks {
		picks = append(picks, scorePick(stock, globalSentiment))
	}

	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].PreMarketScore > picks[j].PreMarketScore
	})
	if len(picks) > 3 {
		picks = picks[:3]
	}
	return picks
}

func scorePick(stock screener.Entry, globalSentiment string) Pick {
	score := 0
	var reasons []string

	switch stock.Recommendation {
	case signals.RecBuy:
		score += 30
		reasons = append(reasons, "Strong buy signal")
	case signals.RecStrongBuy:
		score += 40
		reasons = append(reasons, "Very strong buy signal")
	}

	if stock.Indicators.RSISignal == "OVERSOLD" {
		score += 15
		reasons = append(reasons, "RSI oversold - potential bounce")
	}
	if stock.Indicators.MACD == "BULLISH" {
		score += 10
		reasons = append(reasons, "MACD bullish crossover")
	}

	// the 0-100 screener score folded down to the original 0-10 scale
	score += stock.Score / 10 * 3

	switch globalSentiment {
	case "BULLISH":
		score += 5
	case "BEARISH":
		score -= 5
	}

	if rr, ok := parseRiskReward(stock.TradingLevels.RiskReward); ok {
		if rr >= 2 {
			score += 10
			reasons = append(reasons, "Excellent risk-reward of "+strconv.FormatFloat(rr, 'g', -1, 64))
		} else if rr >= 1.5 {
			score += 5
		}
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}

	recommendation := "WATCH"
	if score >= 40 {
		recommendation = "BUY"
	}

	return Pick{
		Symbol:         stock.Symbol,
		Name:           stock.Name,
		Price:          stock.Price,
		ChangePct:      stock.ChangePct,
		Entry:          stock.TradingLevels.Entry,
		Target:         stock.TradingLevels.Target,
		Stoploss:       stock.TradingLevels.Stoploss,
		Score:          stock.Score,
		PreMarketScore: score,
		Reasons:        reasons,
		Recommendation: recommendation,
	}
}

func combineMoods(globalSentiment, newsSentiment string) Mood {
	bullish, bearish := 0, 0
	for _, s := range []string{globalSentiment, newsSentiment} {
		switch s {
		case "BULLISH":
			bullish++
		case "BEARISH":
			bearish++
		}
	}

	switch {
	case bullish > bearish:
		return Mood{Mood: "BULLISH", Message: "Markets looking positive for tomorrow"}
	case bearish > bullish:
		return Mood{Mood: "BEARISH", Message: "Markets may see selling pressure"}
	default:
		return Mood{Mood: "NEUTRAL", Message: "Mixed signals - trade with caution"}
	}
}

func parseRiskReward(rr string) (float64, bool) {
	if !strings.HasPrefix(rr, "1:") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(rr, "1:"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func boolPtr(b bool) *bool {
	return &b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
