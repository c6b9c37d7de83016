// Package config loads optilife settings from an optional YAML file and
// OPTILIFE_* environment variables, in that order of precedence.
package config

import (
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const EnvPrefix = "OPTILIFE_"

type Config struct {
	Env struct {
		Log Log `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	Storage struct {
		// Path of the sqlite file; empty means the per-user default.
		Path string `json:"path" yaml:"path"`
	} `json:"storage" yaml:"storage"`

	Identity struct {
		// User overrides the persisted active user.
		User string `json:"user" yaml:"user"`
	} `json:"identity" yaml:"identity"`

	Fasting struct {
		Strict bool `json:"strict" yaml:"strict"`
	} `json:"fasting" yaml:"fasting"`

	Insight InsightConfig `json:"insight" yaml:"insight"`

	Nutrition struct {
		// BaseURL of the Open Food Facts API used for barcode lookups.
		BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	} `json:"nutrition" yaml:"nutrition"`

	Backup struct {
		// BucketURL is a gocloud blob URL; empty means a directory next to the database.
		BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`
	} `json:"backup" yaml:"backup"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// InsightConfig points at an OpenAI-compatible chat completions endpoint.
type InsightConfig struct {
	BaseURL string        `json:"baseUrl" yaml:"baseUrl"`
	APIKey  string        `json:"apiKey" yaml:"apiKey"`
	Model   string        `json:"model" yaml:"model"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Env.Log.Level = "warn"
	cfg.Insight.BaseURL = "https://api.openai.com/v1"
	cfg.Insight.Model = "gpt-4o-mini"
	cfg.Insight.Timeout = 60 * time.Second
	cfg.Nutrition.BaseURL = "https://world.openfoodfacts.org"
	return cfg
}

// Load reads path when it exists, then applies OPTILIFE_* overrides on top
// of the defaults. A missing file is only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if strings.TrimSpace(path) != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "read config %s failed", path)
			}
		case os.IsNotExist(err) && !required:
		default:
			return nil, errors.Wrapf(err, "stat config %s", path)
		}
	}

	existing := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, EnvPrefix)
			if key == "" {
				return "", nil
			}
			return canonicalizeEnvKey(key, existing), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	if cfg.Insight.Timeout <= 0 {
		cfg.Insight.Timeout = Default().Insight.Timeout
	}
	return cfg, nil
}

// canonicalizeEnvKey maps INSIGHT_APIKEY to insight.apiKey, reusing the
// spelling of keys already present in the file.
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
