package config

// Config holds mawa configuration.
// Stored at: config.yaml in the working directory or ~/.mawa/.
type Config struct {
	OCRProviders      map[string]OCRProviderCfg      `mapstructure:"ocr_providers" yaml:"ocr_providers"`
	AnalysisProviders map[string]AnalysisProviderCfg `mapstructure:"analysis_providers" yaml:"analysis_providers"`
	Defaults          DefaultsCfg                    `mapstructure:"defaults" yaml:"defaults"`
	Cities            map[string]CityCfg             `mapstructure:"cities" yaml:"cities"`
}

// OCRProviderCfg configures an OCR provider.
type OCRProviderCfg struct {
	Type      string  `mapstructure:"type" yaml:"type"`             // "mistral-ocr"
	Model     string  `mapstructure:"model" yaml:"model"`           // OCR model name
	APIKey    string  `mapstructure:"api_key" yaml:"api_key"`       // API key (supports ${ENV_VAR} syntax)
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per second
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// AnalysisProviderCfg configures an LLM provider used for zone finding and
// rule analysis.
type AnalysisProviderCfg struct {
	Type    string `mapstructure:"type" yaml:"type"`       // "openrouter"
	Model   string `mapstructure:"model" yaml:"model"`     // Model name
	APIKey  string `mapstructure:"api_key" yaml:"api_key"` // API key (supports ${ENV_VAR} syntax)
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	OCRProvider      string `mapstructure:"ocr_provider" yaml:"ocr_provider"`
	AnalysisProvider string `mapstructure:"analysis_provider" yaml:"analysis_provider"`
	MaxWorkers       int    `mapstructure:"max_workers" yaml:"max_workers"`
}

// CityCfg carries per-city settings: the zone identifiers expected in that
// city's zoning plan, an optional city-specific curation rule file, and the
// public URL the source PLU was fetched from.
type CityCfg struct {
	Zones        []string `mapstructure:"zones" yaml:"zones"`
	CuratorRules string   `mapstructure:"curator_rules" yaml:"curator_rules"`
	SourcePLUURL string   `mapstructure:"source_plu_url" yaml:"source_plu_url"`
}

// KnownCities lists the city identifiers the pipeline ships with.
var KnownCities = []string{
	"bordeaux",
	"grenoble-alpes",
	"lille",
	"montpellier",
	"nantes",
	"nice",
	"rennes",
	"rouen",
	"strasbourg",
	"toulouse",
	"rnu_national",
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	cities := make(map[string]CityCfg, len(KnownCities))
	for _, city := range KnownCities {
		cities[city] = CityCfg{}
	}

	return &Config{
		OCRProviders: map[string]OCRProviderCfg{
			"mistral": {
				Type:      "mistral-ocr",
				Model:     "mistral-ocr-latest",
				APIKey:    "${MISTRAL_API_KEY}",
				RateLimit: 6.0,
				Enabled:   true,
			},
		},
		AnalysisProviders: map[string]AnalysisProviderCfg{
			"openrouter": {
				Type:    "openrouter",
				Model:   "google/gemini-2.5-pro",
				APIKey:  "${OPENROUTER_API_KEY}",
				Enabled: true,
			},
		},
		Defaults: DefaultsCfg{
			OCRProvider:      "mistral",
			AnalysisProvider: "openrouter",
			MaxWorkers:       4,
		},
		Cities: cities,
	}
}

// GetOCRProvider returns an OCR provider config by name.
func (c *Config) GetOCRProvider(name string) (OCRProviderCfg, bool) {
	cfg, ok := c.OCRProviders[name]
	return cfg, ok
}

// GetAnalysisProvider returns an analysis provider config by name.
func (c *Config) GetAnalysisProvider(name string) (AnalysisProviderCfg, bool) {
	cfg, ok := c.AnalysisProviders[name]
	return cfg, ok
}

// GetCity returns the configuration for a city, falling back to an empty
// config when the city is known but has no explicit entry.
func (c *Config) GetCity(name string) (CityCfg, bool) {
	if cfg, ok := c.Cities[name]; ok {
		return cfg, true
	}
	for _, city := range KnownCities {
		if city == name {
			return CityCfg{}, true
		}
	}
	return CityCfg{}, false
}

// CityZones returns the configured zone list for a city, or nil when the
// zones should be inferred from the document alone.
func (c *Config) CityZones(name string) []string {
	cfg, ok := c.Cities[name]
	if !ok {
		return nil
	}
	return cfg.Zones
}
