package commands

import (
	"fmt"

	"github.com/optionsense/backend/internal/analysis"
	"github.com/optionsense/backend/internal/dashboard"
	"github.com/optionsense/backend/internal/external/eod"
	"github.com/optionsense/backend/internal/external/gnews"
	"github.com/optionsense/backend/internal/external/googlefin"
	"github.com/optionsense/backend/internal/external/moneycontrol"
	"github.com/optionsense/backend/internal/external/nse"
	"github.com/optionsense/backend/internal/market"
	"github.com/optionsense/backend/internal/premarket"
	"github.com/optionsense/backend/internal/resolver"
	"github.com/optionsense/backend/internal/screener"
	"github.com/optionsense/backend/internal/strategy"
	"github.com/optionsense/backend/pkg/config"
	"github.com/optionsense/backend/pkg/logger"
)

// components wires the full service graph once per command invocation.
type components struct {
	cfg *config.Config
	log *logger.Logger

	nse          *nse.Client
	googlefin    *googlefin.Client
	moneycontrol *moneycontrol.Client
	eod          *eod.Client
	gnews        *gnews.Client

	resolver  *resolver.Resolver
	screener  *screener.Screener
	dashboard *dashboard.Service
	analysis  *analysis.Service
	premarket *premarket.Service
	strategy  *strategy.Engine
}

func buildComponents() (*components, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	nseClient := nse.NewClient(cfg, log)
	googlefinClient := googlefin.NewClient(cfg, log)
	moneycontrolClient := moneycontrol.NewClient(cfg, log)
	eodClient := eod.NewClient(cfg, log)
	gnewsClient := gnews.NewClient(cfg, log)

	// Scraped portals lead both chains; the NSE quote endpoint only
	// covers equities, so it slots in ahead of the archive there.
	indexChain := []resolver.SourceAdapter{googlefinClient, moneycontrolClient, eodClient}
	equityChain := []resolver.SourceAdapter{googlefinClient, moneycontrolClient, nseClient, eodClient}
	res := resolver.New(log, indexChain, equityChain)

	scr := screener.New(nseClient, eodClient, res, cfg.QuoteCacheTTL, cfg.UniverseCacheTTL, log)
	calendar := market.NewCalendar(cfg.MarketTimezone)

	return &components{
		cfg: cfg,
		log: log,

		nse:          nseClient,
		googlefin:    googlefinClient,
		moneycontrol: moneycontrolClient,
		eod:          eodClient,
		gnews:        gnewsClient,

		resolver:  res,
		screener:  scr,
		dashboard: dashboard.NewService(res, nseClient, calendar, log),
		analysis:  analysis.NewService(res, nseClient, moneycontrolClient, log),
		premarket: premarket.NewService(googlefinClient, gnewsClient, scr, log),
		strategy:  strategy.NewEngine(res, nseClient, log),
	}, nil
}
