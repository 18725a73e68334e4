package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. SHEETBILL_OUTPUT_FOLDER.
const EnvPrefix = "SHEETBILL_"

// Config is the issuer and output configuration, usually config.yaml.
// JSON files with the same keys load too.
type Config struct {
	CompanyName    string       `yaml:"company_name"`
	CompanyAddress string       `yaml:"company_address"`
	CompanyPhone   string       `yaml:"company_phone"`
	CompanyEmail   string       `yaml:"company_email"`
	LogoPath       string       `yaml:"logo_path"`
	OutputFolder   string       `yaml:"output_folder"`
	CurrencySymbol string       `yaml:"currency_symbol"`
	ThankYouNote   string       `yaml:"thank_you_note"`
	Workers        int          `yaml:"workers,omitempty"`
	LogFile        string       `yaml:"log_file,omitempty"`
	Server         ServerConfig `yaml:"server"`
}

// ServerConfig controls the upload server.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	UploadFolder string `yaml:"upload_folder"`
	MaxUploadMB  int64  `yaml:"max_upload_mb"`
}

// MaxUploadBytes returns the upload size cap in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// Load reads a config file from disk over the defaults. A missing file is
// not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		CompanyName:    "Your Company Name",
		CompanyAddress: "123 Business Street\nCity, State 12345",
		CompanyPhone:   "+1 (555) 123-4567",
		CompanyEmail:   "info@yourcompany.com",
		OutputFolder:   "generated_invoices",
		CurrencySymbol: "$",
		ThankYouNote:   "Thank you for your business!",
		Workers:        1,
		LogFile:        "invoice-log.csv",
		Server: ServerConfig{
			Addr:         ":5000",
			UploadFolder: "uploads",
			MaxUploadMB:  16,
		},
	}
}

// fillDefaults restores defaults for keys a file set to empty values
// where empty makes no sense.
func (c *Config) fillDefaults() {
	d := Default()
	if c.OutputFolder == "" {
		c.OutputFolder = d.OutputFolder
	}
	if c.CurrencySymbol == "" {
		c.CurrencySymbol = d.CurrencySymbol
	}
	if c.Workers < 1 {
		c.Workers = d.Workers
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.UploadFolder == "" {
		c.Server.UploadFolder = d.Server.UploadFolder
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = d.Server.MaxUploadMB
	}
}

// ApplyEnv overrides fields from SHEETBILL_* variables found by lookup
// (normally os.LookupEnv). Unparseable numbers are reported.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"COMPANY_NAME":    &c.CompanyName,
		"COMPANY_ADDRESS": &c.CompanyAddress,
		"COMPANY_PHONE":   &c.CompanyPhone,
		"COMPANY_EMAIL":   &c.CompanyEmail,
		"LOGO_PATH":       &c.LogoPath,
		"OUTPUT_FOLDER":   &c.OutputFolder,
		"CURRENCY_SYMBOL": &c.CurrencySymbol,
		"THANK_YOU_NOTE":  &c.ThankYouNote,
		"LOG_FILE":        &c.LogFile,
		"ADDR":            &c.Server.Addr,
		"UPLOAD_FOLDER":   &c.Server.UploadFolder,
	}
	for key, field := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			// Addresses in env files usually carry literal "\n".
			*field = strings.ReplaceAll(v, `\n`, "\n")
		}
	}

	if v, ok := lookup(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %sWORKERS %q: %w", EnvPrefix, v, err)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvPrefix + "MAX_UPLOAD_MB"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %sMAX_UPLOAD_MB %q: %w", EnvPrefix, v, err)
		}
		c.Server.MaxUploadMB = n
	}

	c.fillDefaults()
	return nil
}
