package config

// Config represents the complete configuration structure
type Config struct {
	Accounts []AccountConfig `mapstructure:"accounts" yaml:"accounts"`
	Fetch    FetchConfig     `mapstructure:"fetch" yaml:"fetch"`
	Logging  LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// AccountConfig holds the credentials and tenant coordinates for one
// library account
type AccountConfig struct {
	Username    string `mapstructure:"username" yaml:"username"`
	Password    string `mapstructure:"password" yaml:"password"`
	BaseURL     string `mapstructure:"base_url" yaml:"base_url"`
	Institution string `mapstructure:"institution" yaml:"institution"`
	View        string `mapstructure:"view" yaml:"view"`
	TenantName  string `mapstructure:"tenant_name" yaml:"tenant_name,omitempty"`
}

// DisplayName returns the friendly tenant name, falling back to the
// institution code
func (a AccountConfig) DisplayName() string {
	if a.TenantName != "" {
		return a.TenantName
	}
	return a.Institution
}

// FetchConfig contains settings for the fetch pipeline
type FetchConfig struct {
	// Details enables per-loan bibliographic enrichment by default
	Details bool `mapstructure:"details" yaml:"details"`
	// DetailConcurrency bounds the per-account detail fan-out
	DetailConcurrency int `mapstructure:"detail_concurrency" yaml:"detail_concurrency"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Color  bool   `mapstructure:"color" yaml:"color"`
}
