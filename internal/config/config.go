package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type BusConfig struct {
	URL        string        `yaml:"url"`      // http://broker:8000
	Token      string        `yaml:"token"`    // optional bearer token, supports ${VAR}
	Identity   string        `yaml:"identity"` // consumer name, default: file-detection
	Timeout    time.Duration `yaml:"timeout"`  // request timeout
	UserAgent  string        `yaml:"user_agent"`
	MaxRetries int           `yaml:"max_retries"` // publish retry attempts (e.g. 3)
	Backoff    time.Duration `yaml:"backoff"`     // initial backoff (e.g. 500ms)
	MaxBackoff time.Duration `yaml:"max_backoff"` // cap (e.g. 5s)
}

type S3Config struct {
	Endpoint  string        `yaml:"endpoint"` // minio:9000
	AccessKey string        `yaml:"access_key"`
	SecretKey string        `yaml:"secret_key"` // supports ${VAR}
	Bucket    string        `yaml:"bucket"`     // fallback when the sample ref names none
	Region    string        `yaml:"region"`
	UseSSL    bool          `yaml:"use_ssl"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ClassifierConfig describes one external tool invocation. Args are passed
// before the sample path.
type ClassifierConfig struct {
	Bin     string        `yaml:"bin"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout"`
	Disable bool          `yaml:"disable"`
}

type ClassifiersConfig struct {
	Die    ClassifierConfig `yaml:"die"`
	Trid   ClassifierConfig `yaml:"trid"`
	Magika ClassifierConfig `yaml:"magika"`
}

type TagsConfig struct {
	RulesPath string `yaml:"rules_path"` // YAML rule table, see internal/tags
}

type MetricsConfig struct {
	Enable bool   `yaml:"enable"`
	Addr   string `yaml:"addr"` // :9109
}

type DedupConfig struct {
	Enable  bool          `yaml:"enable"`
	TTL     time.Duration `yaml:"ttl"`      // e.g. 24h
	MaxKeys int           `yaml:"max_keys"` // cap to bound memory
}

type Config struct {
	Bus         BusConfig         `yaml:"bus"`
	S3          S3Config          `yaml:"s3"`
	Classifiers ClassifiersConfig `yaml:"classifiers"`
	Tags        TagsConfig        `yaml:"tags"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Dedup       DedupConfig       `yaml:"dedup"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, err
	}
	// Secrets may arrive via the environment rather than the file.
	c.Bus.Token = os.ExpandEnv(c.Bus.Token)
	c.S3.AccessKey = os.ExpandEnv(c.S3.AccessKey)
	c.S3.SecretKey = os.ExpandEnv(c.S3.SecretKey)

	if c.Bus.URL == "" {
		return c, errors.New("bus.url is required")
	}
	if c.S3.Endpoint == "" {
		return c, errors.New("s3.endpoint is required")
	}
	if c.Classifiers.Die.Disable && c.Classifiers.Trid.Disable && c.Classifiers.Magika.Disable {
		return c, errors.New("all classifiers disabled")
	}
	for name, cc := range map[string]ClassifierConfig{
		"die": c.Classifiers.Die, "trid": c.Classifiers.Trid, "magika": c.Classifiers.Magika,
	} {
		if !cc.Disable && cc.Bin == "" {
			return c, fmt.Errorf("classifiers.%s.bin is required (or set disable: true)", name)
		}
	}
	return c, nil
}
