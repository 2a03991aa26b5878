package market

// Index symbols with tradeable option chains.
var indexSymbols = map[string]bool{
	"NIFTY":      true,
	"BANKNIFTY":  true,
	"FINNIFTY":   true,
	"MIDCPNIFTY": true,
}

// IsIndex reports whether the symbol is an index rather than an equity.
func IsIndex(symbol string) bool {
	return indexSymbols[symbol]
}

// strikeSteps holds the exchange strike step per index.
var strikeSteps = map[string]int{
	"NIFTY":      50,
	"BANKNIFTY":  100,
	"FINNIFTY":   50,
	"MIDCPNIFTY": 25,
}

// StrikeStep returns the exchange strike step for a symbol, 50 by default.
func StrikeStep(symbol string) int {
	if step, ok := strikeSteps[symbol]; ok {
		return step
	}
	return 50
}

// IndexBasePrices are reference levels used by the mock tier when no
// live source can be reached.
var IndexBasePrices = map[string]float64{
	"NIFTY":      25350.0,
	"BANKNIFTY":  53800.0,
	"FINNIFTY":   24500.0,
	"MIDCPNIFTY": 12800.0,
}

// StockInfo is static company metadata for the screener set.
type StockInfo struct {
	Symbol string
	Name   string
	Sector string
}

// ScreenerStocks is the fixed table backing the mock screener tier.
var ScreenerStocks = []StockInfo{
	{"RELIANCE", "Reliance Industries", "Oil & Gas"},
	{"TCS", "Tata Consultancy Services", "IT"},
	{"HDFCBANK", "HDFC Bank", "Banking"},
	{"INFY", "Infosys", "IT"},
	{"ICICIBANK", "ICICI Bank", "Banking"},
	{"HINDUNILVR", "Hindustan Unilever", "FMCG"},
	{"SBIN", "State Bank of India", "Banking"},
	{"BHARTIARTL", "Bharti Airtel", "Telecom"},
	{"ITC", "ITC Limited", "FMCG"},
	{"KOTAKBANK", "Kotak Mahindra Bank", "Banking"},
	{"LT", "Larsen & Toubro", "Infrastructure"},
	{"AXISBANK", "Axis Bank", "Banking"},
	{"ASIANPAINT", "Asian Paints", "Paints"},
	{"MARUTI", "Maruti Suzuki", "Auto"},
	{"SUNPHARMA", "Sun Pharma", "Pharma"},
	{"TITAN", "Titan Company", "Consumer"},
	{"BAJFINANCE", "Bajaj Finance", "NBFC"},
	{"WIPRO", "Wipro", "IT"},
	{"ULTRACEMCO", "UltraTech Cement", "Cement"},
	{"TATAMOTORS", "Tata Motors", "Auto"},
	{"POWERGRID", "Power Grid Corp", "Power"},
	{"NTPC", "NTPC Limited", "Power"},
	{"ONGC", "Oil & Natural Gas Corp", "Oil & Gas"},
	{"TATASTEEL", "Tata Steel", "Metals"},
	{"JSWSTEEL", "JSW Steel", "Metals"},
	{"TECHM", "Tech Mahindra", "IT"},
	{"HCLTECH", "HCL Technologies", "IT"},
	{"ADANIENT", "Adani Enterprises", "Diversified"},
	{"ADANIPORTS", "Adani Ports", "Infrastructure"},
	{"COALINDIA", "Coal India", "Mining"},
}

// StockBasePrices are approximate reference prices for the mock tier.
var StockBasePrices = map[string]float64{
	"RELIANCE": 2450, "TCS": 3800, "HDFCBANK": 1650, "INFY": 1550,
	"ICICIBANK": 1050, "HINDUNILVR": 2400, "SBIN": 780, "BHARTIARTL": 1150,
	"ITC": 430, "KOTAKBANK": 1750, "LT": 3400, "AXISBANK": 1100,
	"ASIANPAINT": 2800, "MARUTI": 11500, "SUNPHARMA": 1650, "TITAN": 3200,
	"BAJFINANCE": 6800, "WIPRO": 480, "ULTRACEMCO": 10500, "TATAMOTORS": 780,
	"POWERGRID": 290, "NTPC": 350, "ONGC": 260, "TATASTEEL": 145,
	"JSWSTEEL": 920, "TECHM": 1450, "HCLTECH": 1650, "ADANIENT": 2900,
	"ADANIPORTS": 1250, "COALINDIA": 480,
}

// NiftyUniverse is the tracked symbol universe (NIFTY 50 + Next 50 +
// additional liquid names).
var NiftyUniverse = []string{
	// NIFTY 50
	"RELIANCE", "TCS", "HDFCBANK", "INFY", "ICICIBANK", "HINDUNILVR", "SBIN",
	"BHARTIARTL", "KOTAKBANK", "ITC", "LT", "AXISBANK", "ASIANPAINT", "MARUTI",
	"TITAN", "ULTRACEMCO", "BAJFINANCE", "WIPRO", "SUNPHARMA", "HCLTECH",
	"ONGC", "NTPC", "POWERGRID", "TATAMOTORS", "M&M", "ADANIENT", "ADANIPORTS",
	"COALINDIA", "JSWSTEEL", "TATASTEEL", "TECHM", "NESTLEIND", "BAJAJFINSV",
	"INDUSINDBK", "GRASIM", "DIVISLAB", "BRITANNIA", "HINDALCO", "CIPLA",
	"DRREDDY", "EICHERMOT", "APOLLOHOSP", "SBILIFE", "TATACONSUM", "BPCL",
	"HEROMOTOCO", "BAJAJ-AUTO", "UPL", "SHREECEM", "HDFCLIFE",
	// NIFTY Next 50
	"ADANIGREEN", "AMBUJACEM", "AUROPHARMA", "BANKBARODA", "BERGEPAINT",
	"BIOCON", "BOSCHLTD", "CHOLAFIN", "COLPAL", "DABUR", "DLF", "GAIL",
	"GODREJCP", "HAVELLS", "ICICIGI", "ICICIPRULI", "INDIGO", "IOC",
	"JINDALSTEL", "LICI", "LUPIN", "MARICO", "MCDOWELL-N", "MOTHERSON",
	"MUTHOOTFIN", "NAUKRI", "NMDC", "OBEROIRLTY", "OFSS", "PAGEIND",
	"PIDILITIND", "PNB", "SAIL", "SIEMENS", "SRF", "TATAPOWER", "TORNTPHARM",
	"TRENT", "VEDL", "YESBANK", "ZOMATO", "PAYTM", "POLICYBZR", "DMART",
	"NYKAA", "IRCTC", "HAL", "BEL", "IDEA", "IDFCFIRSTB",
	// Additional liquid names
	"ADANIPOWER", "ATGL", "CANBK", "CONCOR", "FEDERALBNK", "GMRINFRA",
	"IDBI", "IEX", "IRFC", "JIOFIN", "KALYANKJIL", "LODHA", "MAXHEALTH",
	"MCX", "MFSL", "NHPC", "OIL", "PATANJALI", "PEL", "PERSISTENT",
	"PETRONET", "PIIND", "PFC", "POLYCAB", "RECLTD", "SBICARD", "SONACOMS",
	"TATAELXSI", "TIINDIA", "TVSMOTOR", "UNIONBANK", "UBL", "VBL", "VOLTAS",
	"ZYDUSLIFE", "ABB", "ACC", "ABCAPITAL", "AJANTPHARM", "ALKEM",
	"ANGELONE", "ASHOKLEY", "ASTRAL", "ATUL", "AUBANK", "BALKRISIND",
	"BANDHANBNK", "BDL", "CAMS", "CANFINHOME", "CENTRALBK", "CGPOWER",
	"CROMPTON", "CUMMINSIND", "CYIENT", "DELHIVERY", "DIXON", "ESCORTS",
	"EXIDEIND", "FACT", "FORTIS", "GLENMARK", "GNFC", "GODREJPROP",
	"GUJGASLTD", "HDFCAMC", "HINDPETRO", "CDSL", "BSE", "KFINTECH",
	"HONAUT", "HUDCO", "INDHOTEL", "INDIAMART", "IGL", "INDUSTOWER",
	"IPCALAB", "IRB", "JKCEMENT", "JUBLFOOD", "KEI", "KPITTECH",
	"LAURUSLABS", "LICHSGFIN", "LTTS", "MANAPPURAM", "METROPOLIS", "MGL",
	"MRF", "NATIONALUM", "NAVINFLUOR", "NLCINDIA", "NUVAMA",
}

// googleSymbols maps internal symbols to Google Finance quote slugs.
// Only symbols listed here are covered by the Google adapter; absence
// is a static skip, never a network call.
var googleSymbols = map[string]string{
	"NIFTY":      "NIFTY_50:INDEXNSE",
	"BANKNIFTY":  "NIFTY_BANK:INDEXNSE",
	"FINNIFTY":   "NIFTY_FIN_SERVICE:INDEXNSE",
	"MIDCPNIFTY": "NIFTY_MID_SELECT:INDEXNSE",
	"INDIAVIX":   "INDIA_VIX:INDEXNSE",
}

// equities covered by the Google adapter map to SYMBOL:NSE pages
func init() {
	for _, s := range ScreenerStocks {
		googleSymbols[s.Symbol] = s.Symbol + ":NSE"
	}
}

// GoogleSymbol returns the Google Finance slug for a symbol.
func GoogleSymbol(symbol string) (string, bool) {
	slug, ok := googleSymbols[symbol]
	return slug, ok
}

// moneycontrolPaths maps internal symbols to Moneycontrol quote pages.
// Covered subset only; scraping URLs, not an API.
var moneycontrolPaths = map[string]string{
	"NIFTY":      "/indian-indices/cnx-nifty-9.html",
	"BANKNIFTY":  "/indian-indices/bank-nifty-23.html",
	"RELIANCE":   "/india/stockpricequote/refineries/relianceindustries/RI",
	"TCS":        "/india/stockpricequote/computers-software/tataconsultancyservices/TCS",
	"HDFCBANK":   "/india/stockpricequote/banks-private-sector/hdfcbank/HDF01",
	"INFY":       "/india/stockpricequote/computers-software/infosys/IT",
	"ICICIBANK":  "/india/stockpricequote/banks-private-sector/icicibank/ICI02",
	"SBIN":       "/india/stockpricequote/banks-public-sector/statebankindia/SBI",
	"BHARTIARTL": "/india/stockpricequote/telecommunications-service/bhartiairtel/BA08",
	"ITC":        "/india/stockpricequote/cigarettes/itc/ITC",
	"TATAMOTORS": "/india/stockpricequote/auto-lcvshcvs/tatamotors/TM03",
	"TATASTEEL":  "/india/stockpricequote/steel-large/tatasteel/TIS",
	"WIPRO":      "/india/stockpricequote/computers-software/wipro/W",
	"AXISBANK":   "/india/stockpricequote/banks-private-sector/axisbank/AB16",
}

// MoneycontrolPath returns the quote page path for a symbol.
func MoneycontrolPath(symbol string) (string, bool) {
	p, ok := moneycontrolPaths[symbol]
	return p, ok
}

// WorldIndex is one global benchmark tracked in pre-market analysis.
type WorldIndex struct {
	Name string
	Slug string
}

// WorldIndices are the global benchmarks shown in pre-market analysis,
// as Google Finance slugs.
var WorldIndices = []WorldIndex{
	{"S&P 500", ".INX:INDEXSP"},
	{"NASDAQ", ".IXIC:INDEXNASDAQ"},
	{"DOW JONES", ".DJI:INDEXDJX"},
	{"GIFT NIFTY", "NIFTY_50:INDEXNSE"},
	{"HANG SENG", "HSI:INDEXHANGSENG"},
	{"NIKKEI", "NI225:INDEXNIKKEI"},
	{"FTSE 100", "UKX:INDEXFTSE"},
	{"DAX", "DAX:INDEXDB"},
}

// BroadcastSymbols is the fixed set pushed over the realtime feed.
var BroadcastSymbols = []string{
	"NIFTY", "BANKNIFTY", "RELIANCE", "TCS", "HDFCBANK", "INFY", "ICICIBANK",
}
