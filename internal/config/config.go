package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type ParserConfig struct {
	// DefaultTimezone is applied to time expressions carrying no zone info.
	DefaultTimezone string `yaml:"default_timezone"`
	// ConferencingHosts is the allow-list of host patterns recognized as
	// meeting links. Entries are matched as substrings of the URL host.
	ConferencingHosts []string `yaml:"conferencing_hosts"`
	// MaxNotesLength bounds the free-text notes, in bytes.
	MaxNotesLength int `yaml:"max_notes_length"`
	// MaxTimeCandidates bounds how many time candidates a single email
	// can produce, so pathological inputs cannot cause unbounded work.
	MaxTimeCandidates int `yaml:"max_time_candidates"`
}

type Config struct {
	Server ServerConfig `yaml:"server"`
	Parser ParserConfig `yaml:"parser"`
}

// Default returns the built-in configuration, used when no config file is
// present and as the base the file/env layers override.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: ":8080"},
		Parser: ParserConfig{
			DefaultTimezone: "UTC",
			ConferencingHosts: []string{
				"zoom.", "meet.", "teams.", "webex.", "gotomeeting.", "whereby.",
			},
			MaxNotesLength:    500,
			MaxTimeCandidates: 16,
		},
	}
}

func Load() *Config {
	cfg := Default()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(cfg); err != nil {
			log.Fatalf("failed to decode %s: %v", path, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("failed to open %s: %v", path, err)
	}

	overrideFromEnv(cfg)

	return cfg
}

func overrideFromEnv(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if tz := os.Getenv("PARSER_DEFAULT_TIMEZONE"); tz != "" {
		cfg.Parser.DefaultTimezone = tz
	}
	if hosts := os.Getenv("PARSER_CONFERENCING_HOSTS"); hosts != "" {
		parts := strings.Split(hosts, ",")
		cfg.Parser.ConferencingHosts = cfg.Parser.ConferencingHosts[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Parser.ConferencingHosts = append(cfg.Parser.ConferencingHosts, p)
			}
		}
	}
	if raw := os.Getenv("PARSER_MAX_NOTES_LENGTH"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.Parser.MaxNotesLength = n
		}
	}
	if raw := os.Getenv("PARSER_MAX_TIME_CANDIDATES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.Parser.MaxTimeCandidates = n
		}
	}
}
