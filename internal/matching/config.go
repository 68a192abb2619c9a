package matching

import "vessel-match-service/internal/domain"

// Keyword bucket used by both the region classifier and the commodity family
// lookup. Keywords are matched as whole words against normalized names.
type KeywordGroup struct {
	Name     string   `json:"name" mapstructure:"name" yaml:"name"`
	Keywords []string `json:"keywords" mapstructure:"keywords" yaml:"keywords"`
}

// Reference values the profit estimate is scaled against.
type Baselines struct {
	Profit float64 `json:"profit" mapstructure:"profit" yaml:"profit"`
	Rate   float64 `json:"rate" mapstructure:"rate" yaml:"rate"`
	DWT    float64 `json:"dwt" mapstructure:"dwt" yaml:"dwt"`
}

// Config is the injected default configuration for the matching engine.
// Nothing in this package reads package-level mutable state; callers build a
// Config (usually DefaultConfig with overrides) and hand it to NewEngine.
type Config struct {
	Weights   domain.Weights `json:"weights" mapstructure:"weights" yaml:"weights"`
	Baselines Baselines      `json:"baselines" mapstructure:"baselines" yaml:"baselines"`

	// Used when the offer has no age or the order has no threshold.
	AssumedAge    float64 `json:"assumed_age" mapstructure:"assumed_age" yaml:"assumed_age"`
	AssumedMaxAge float64 `json:"assumed_max_age" mapstructure:"assumed_max_age" yaml:"assumed_max_age"`

	RiskScoreThreshold int `json:"risk_score_threshold" mapstructure:"risk_score_threshold" yaml:"risk_score_threshold"`
	RiskLaycanGapDays  int `json:"risk_laycan_gap_days" mapstructure:"risk_laycan_gap_days" yaml:"risk_laycan_gap_days"`

	Regions  []KeywordGroup `json:"regions" mapstructure:"regions" yaml:"regions"`
	Families []KeywordGroup `json:"families" mapstructure:"families" yaml:"families"`
}

func DefaultConfig() Config {
	return Config{
		Weights: domain.DefaultWeights(),
		Baselines: Baselines{
			Profit: 50000,
			Rate:   20,
			DWT:    75000,
		},
		AssumedAge:         10,
		AssumedMaxAge:      25,
		RiskScoreThreshold: 70,
		RiskLaycanGapDays:  7,
		Regions:            DefaultRegions(),
		Families:           DefaultFamilies(),
	}
}

// DefaultRegions is a starter list of major trade regions. It is not complete;
// deployments extend it through configuration.
func DefaultRegions() []KeywordGroup {
	return []KeywordGroup{
		{Name: "ECSA", Keywords: []string{
			"santos", "paranagua", "rio grande", "sao francisco do sul", "itaqui", "tubarao",
			"vitoria", "salvador", "recife", "buenos aires", "rosario", "bahia blanca",
			"necochea", "montevideo", "nueva palmira", "brazil", "argentina", "uruguay",
		}},
		{Name: "USG", Keywords: []string{
			"houston", "galveston", "new orleans", "mississippi", "nola", "corpus christi",
			"mobile", "tampa", "beaumont", "us gulf", "usg",
		}},
		{Name: "North Europe", Keywords: []string{
			"rotterdam", "amsterdam", "antwerp", "ghent", "hamburg", "bremen", "bremerhaven",
			"dunkirk", "le havre", "immingham", "gdansk", "szczecin", "skaw", "continent", "ara",
		}},
		{Name: "Mediterranean", Keywords: []string{
			"genoa", "marseille", "barcelona", "valencia", "piraeus", "ravenna", "venice",
			"alexandria", "damietta", "izmir", "iskenderun", "gibraltar", "med",
		}},
		{Name: "Black Sea", Keywords: []string{
			"novorossiysk", "constanta", "odessa", "chornomorsk", "tuapse", "varna", "black sea",
		}},
		{Name: "Far East", Keywords: []string{
			"qingdao", "shanghai", "tianjin", "dalian", "rizhao", "lianyungang", "busan",
			"incheon", "tokyo", "yokohama", "kashima", "kaohsiung", "china", "japan", "korea",
		}},
		{Name: "Southeast Asia", Keywords: []string{
			"singapore", "port klang", "jakarta", "surabaya", "ho chi minh", "bangkok",
			"manila", "samarinda", "indonesia", "vietnam", "philippines",
		}},
		{Name: "Australia", Keywords: []string{
			"port hedland", "dampier", "newcastle", "gladstone", "hay point", "kwinana",
			"geraldton", "australia",
		}},
		{Name: "India", Keywords: []string{
			"mumbai", "kandla", "mundra", "paradip", "visakhapatnam", "vizag", "chennai",
			"haldia", "india",
		}},
		{Name: "Persian Gulf", Keywords: []string{
			"dubai", "jebel ali", "dammam", "bandar abbas", "ras al khair", "fujairah",
			"arabian gulf", "persian gulf",
		}},
		{Name: "West Africa", Keywords: []string{
			"lagos", "abidjan", "tema", "dakar", "conakry", "kamsar", "lome", "west africa",
		}},
	}
}

// DefaultFamilies groups commodities that usually share a vessel class and
// hold preparation.
func DefaultFamilies() []KeywordGroup {
	return []KeywordGroup{
		{Name: "grain", Keywords: []string{
			"grain", "grains", "wheat", "corn", "maize", "soy", "soya", "soybean", "soybeans",
			"barley", "sorghum", "rice", "meal", "sbm",
		}},
		{Name: "dry bulk minerals", Keywords: []string{
			"coal", "iron ore", "ore", "bauxite", "alumina", "manganese", "nickel", "pet coke",
			"petcoke", "clinker", "cement", "limestone",
		}},
		{Name: "fertilizer", Keywords: []string{
			"fertilizer", "fertiliser", "urea", "potash", "phosphate", "dap", "map", "sulphur",
			"sulfur", "ammonium nitrate",
		}},
		{Name: "steel", Keywords: []string{
			"steel", "steels", "coils", "hrc", "crc", "rebar", "billets", "slabs", "pipes",
			"scrap",
		}},
		{Name: "agri softs", Keywords: []string{
			"sugar", "raw sugar", "coffee", "cocoa", "cotton", "wood pellets", "pellets",
		}},
	}
}
