// Package config loads rr-dig settings from the environment on top of
// built-in defaults, falling back to the system resolv.conf for the list
// of nameservers when the environment names none.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds the settings rr-dig runs with.
type AppConfig struct {
	// Servers lists upstream nameservers in ip:port form. Empty means
	// "use resolv.conf".
	Servers []string `koanf:"servers" validate:"omitempty,dive,ip_port"`

	// Timeout bounds each upstream exchange.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// Parallel races all servers instead of walking them in order.
	Parallel bool `koanf:"parallel"`

	// CacheSize is the number of keys the in-memory answer cache holds.
	// Zero disables the memory cache.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// CachePath locates the persistent answer cache. Empty disables it.
	CachePath string `koanf:"cache_path"`

	// BloomFPRate is the persistent cache prefilter's target false
	// positive rate.
	BloomFPRate float64 `koanf:"bloom_fp_rate" validate:"gt=0,lt=1"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// NoColor disables colored terminal output.
	NoColor bool `koanf:"no_color"`
}

// DEFAULT_APP_CONFIG holds the defaults a bare environment resolves to.
// Servers stays empty here; Load fills it from resolv.conf.
var DEFAULT_APP_CONFIG = AppConfig{
	Timeout:     5 * time.Second,
	CacheSize:   1000,
	BloomFPRate: 0.01,
	Env:         "prod",
	LogLevel:    "warn",
}

// fallbackServer answers when neither the environment nor resolv.conf
// yields a nameserver.
const fallbackServer = "8.8.8.8:53"

// validIPPort reports whether the field holds a usable "IP:port" value.
func validIPPort(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	ip, port, err := net.SplitHostPort(addr)
	if err != nil || ip == "" || port == "" {
		return false
	}
	if net.ParseIP(ip) == nil {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0 && portNum < 65536
}

// envLoader loads environment variables with the prefix "RRDIG_",
// lowercasing keys and splitting comma or space separated lists.
// Injectable for tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "RRDIG_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "RRDIG_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG via the structs provider.
// Injectable for tests.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation wires the custom ip_port rule. Injectable for tests.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("ip_port", validIPPort)
}

// resolvConfPath is where Load looks for system nameservers. Injectable
// for tests.
var resolvConfPath = "/etc/resolv.conf"

// Load builds the effective configuration: defaults, then environment,
// then a resolv.conf fallback for the server list, validated as a whole.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if len(cfg.Servers) == 0 {
		cfg.Servers = systemServers()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

// systemServers reads resolv.conf nameservers, falling back to a public
// resolver when the file is missing or names none.
func systemServers() []string {
	servers, err := LoadResolvConf(resolvConfPath)
	if err != nil || len(servers) == 0 {
		return []string{fallbackServer}
	}
	return servers
}
