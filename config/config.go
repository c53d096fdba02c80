// Package config loads service configuration from yaml files with
// environment variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const defaultPath = "."

// Config is the shared configuration for every binary in the module. Each
// binary reads only the sections it needs; unused sections may stay nil.
type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		// Session is the shared HMAC secret. Every service validates tokens
		// with this same secret; none of them holds session state.
		Session string `json:"session" yaml:"session"`
	} `json:"secretKey" yaml:"secretKey"`

	Session *SessionConfig `json:"session" yaml:"session"`

	// Gateway configuration; only read by the gateway binary.
	Gateway *GatewayConfig `json:"gateway" yaml:"gateway"`

	// Directory configuration for cross-service nickname resolution.
	Directory *DirectoryConfig `json:"directory" yaml:"directory"`

	// PubSub configuration for event publishing.
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// SMTP configuration for the mail dispatch consumer.
	SMTP *SMTPConfig `json:"smtp" yaml:"smtp"`
}

// Log holds logger settings.
type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// SessionConfig defines session token and cookie behavior.
type SessionConfig struct {
	// TokenTTL is the fixed, server-chosen session lifetime. Defaults to 7 days.
	TokenTTL time.Duration `json:"tokenTtl" yaml:"tokenTtl"`

	// CookieName is the session cookie name. Defaults to "authToken".
	CookieName string `json:"cookieName" yaml:"cookieName"`

	// CookieSameSite is "lax" for same-site deployments or "none" for
	// cross-site ones; "none" forces Secure.
	CookieSameSite string `json:"cookieSameSite" yaml:"cookieSameSite"`

	// CookieSecure marks the cookie Secure even in lax mode.
	CookieSecure bool `json:"cookieSecure" yaml:"cookieSecure"`

	// CookieDomain optionally scopes the cookie to a domain.
	CookieDomain string `json:"cookieDomain" yaml:"cookieDomain"`
}

// GatewayConfig defines the edge gateway's downstream routes.
type GatewayConfig struct {
	Routes []GatewayRoute `json:"routes" yaml:"routes"`
}

// GatewayRoute maps a path prefix to a downstream service target URL.
type GatewayRoute struct {
	Prefix string `json:"prefix" yaml:"prefix"`
	Target string `json:"target" yaml:"target"`
}

// DirectoryConfig defines the cross-service nickname resolution client.
type DirectoryConfig struct {
	// BaseURL of the profile-owning service, e.g. "http://identity:8080".
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`

	// Timeout bounds a single resolution call. Defaults to 2 seconds.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing.
type PubSubConfig struct {
	// Provider type: "local" for local HTTP push or "google" for Google Pub/Sub.
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider).
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Topic for profile-creation events (for google provider).
	ProfileTopicID string `json:"profileTopicId" yaml:"profileTopicId"`

	// Topic for verification-mail requests (for google provider).
	MailTopicID string `json:"mailTopicId" yaml:"mailTopicId"`

	// Local worker base endpoint for development (for local provider),
	// e.g. "http://localhost:8081".
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// SMTPConfig defines the outbound mail server used by the mail consumer.
type SMTPConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	From     string `json:"from" yaml:"from"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads the configuration and applies defaults for optional sections.
func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if cfg.Session == nil {
		cfg.Session = &SessionConfig{}
	}
	if cfg.Session.TokenTTL <= 0 {
		cfg.Session.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "authToken"
	}
	if cfg.Session.CookieSameSite == "" {
		cfg.Session.CookieSameSite = "lax"
	}

	if cfg.Directory != nil && cfg.Directory.Timeout <= 0 {
		cfg.Directory.Timeout = 2 * time.Second
	}

	return cfg, nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
