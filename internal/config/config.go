package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rohmanhakim/site-mirror/internal/build"
	"github.com/rohmanhakim/site-mirror/internal/logging"
	"github.com/rohmanhakim/site-mirror/pkg/hashutil"
	"github.com/rohmanhakim/site-mirror/pkg/urlutil"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//===============
	//  Crawl scope
	//===============
	// Address the mirror starts from. Its host is the only host that is crawled.
	rootURL url.URL

	//===============
	// Fetch
	//===============
	// Maximum number of targets fetched at the same time.
	// 1 reproduces a strictly sequential crawl.
	concurrency int
	// User agent that will be used in the request header. In raw string
	userAgent string
	// Maximum time of a single request including its body. 0 means no limit
	timeout time.Duration

	//===============
	// Output
	//===============
	// Root directory of the mirrored tree
	mirrorDir string
	// File name used for addresses whose path names a directory
	indexFileName string
	// Digest recorded for every mirrored file
	hashAlgo hashutil.HashAlgo

	//===============
	// Logging
	//===============
	logLevel      string
	logFormat     string
	logFile       string
	logMaxSizeMB  int
	logMaxBackups int
}

type configDTO struct {
	RootURL       string `json:"rootUrl,omitempty" yaml:"rootUrl,omitempty"`
	MirrorDir     string `json:"mirrorDir,omitempty" yaml:"mirrorDir,omitempty"`
	Concurrency   int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	UserAgent     string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Timeout       string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	IndexFileName string `json:"indexFileName,omitempty" yaml:"indexFileName,omitempty"`
	HashAlgo      string `json:"hashAlgo,omitempty" yaml:"hashAlgo,omitempty"`
	LogLevel      string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat     string `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
	LogFile       string `json:"logFile,omitempty" yaml:"logFile,omitempty"`
	LogMaxSizeMB  int    `json:"logMaxSizeMb,omitempty" yaml:"logMaxSizeMb,omitempty"`
	LogMaxBackups int    `json:"logMaxBackups,omitempty" yaml:"logMaxBackups,omitempty"`
}

// newConfigFromDTO starts from the defaults and overrides every field the
// file sets. The result is not validated; call Build.
func newConfigFromDTO(dto configDTO) (*Config, error) {
	var rootURL url.URL
	if dto.RootURL != "" {
		parsed, err := url.Parse(dto.RootURL)
		if err != nil {
			return nil, fmt.Errorf("%w: rootUrl: %s", ErrConfigParsingFail, err.Error())
		}
		rootURL = *parsed
	}

	cfg := WithDefault(rootURL, dto.MirrorDir)

	if dto.Concurrency != 0 {
		cfg.concurrency = dto.Concurrency
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.Timeout != "" {
		timeout, err := time.ParseDuration(dto.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: timeout: %s", ErrConfigParsingFail, err.Error())
		}
		cfg.timeout = timeout
	}
	if dto.IndexFileName != "" {
		cfg.indexFileName = dto.IndexFileName
	}
	if dto.HashAlgo != "" {
		cfg.hashAlgo = hashutil.HashAlgo(dto.HashAlgo)
	}
	if dto.LogLevel != "" {
		cfg.logLevel = dto.LogLevel
	}
	if dto.LogFormat != "" {
		cfg.logFormat = dto.LogFormat
	}
	if dto.LogFile != "" {
		cfg.logFile = dto.LogFile
	}
	if dto.LogMaxSizeMB != 0 {
		cfg.logMaxSizeMB = dto.LogMaxSizeMB
	}
	if dto.LogMaxBackups != 0 {
		cfg.logMaxBackups = dto.LogMaxBackups
	}

	return cfg, nil
}

// WithConfigFile reads a JSON (.json) or YAML (.yaml, .yml) file and returns
// a builder holding the defaults overridden by the file.
// Callers apply their own overrides, then Build.
func WithConfigFile(path string) (*Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	cfgDTO := configDTO{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(configContent, &cfgDTO)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(configContent, &cfgDTO)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a new Config with the provided root URL and mirror
// directory and default values for all other fields.
func WithDefault(rootURL url.URL, mirrorDir string) *Config {
	defaultConfig := Config{
		rootURL:       rootURL,
		mirrorDir:     mirrorDir,
		concurrency:   1,
		userAgent:     "site-mirror/" + build.Version,
		timeout:       30 * time.Second,
		indexFileName: "index.html",
		hashAlgo:      hashutil.HashAlgoBLAKE3,
		logLevel:      "info",
		logFormat:     string(logging.FormatConsole),
		logFile:       "",
		logMaxSizeMB:  10,
		logMaxBackups: 3,
	}
	return &defaultConfig
}

func (c *Config) WithRootURL(rootURL url.URL) *Config {
	c.rootURL = rootURL
	return c
}

func (c *Config) WithMirrorDir(dir string) *Config {
	c.mirrorDir = dir
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithIndexFileName(name string) *Config {
	c.indexFileName = name
	return c
}

func (c *Config) WithHashAlgo(algo hashutil.HashAlgo) *Config {
	c.hashAlgo = algo
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) WithLogFile(path string) *Config {
	c.logFile = path
	return c
}

func (c *Config) WithLogRotation(maxSizeMB int, maxBackups int) *Config {
	c.logMaxSizeMB = maxSizeMB
	c.logMaxBackups = maxBackups
	return c
}

func (c *Config) Build() (Config, error) {
	if !urlutil.IsAbsolute(c.rootURL) {
		return Config{}, fmt.Errorf("%w: root url %q must carry a scheme and a host", ErrInvalidConfig, c.rootURL.String())
	}
	if c.rootURL.Scheme != "http" && c.rootURL.Scheme != "https" {
		return Config{}, fmt.Errorf("%w: root url scheme %q is not http or https", ErrInvalidConfig, c.rootURL.Scheme)
	}
	if strings.TrimSpace(c.mirrorDir) == "" {
		return Config{}, fmt.Errorf("%w: mirror directory cannot be empty", ErrInvalidConfig)
	}
	if c.concurrency < 1 {
		return Config{}, fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidConfig, c.concurrency)
	}
	if c.timeout < 0 {
		return Config{}, fmt.Errorf("%w: timeout cannot be negative", ErrInvalidConfig)
	}
	if c.indexFileName == "" || strings.ContainsAny(c.indexFileName, `/\`) || c.indexFileName == "." || c.indexFileName == ".." {
		return Config{}, fmt.Errorf("%w: index file name %q must be a plain file name", ErrInvalidConfig, c.indexFileName)
	}
	if _, err := hashutil.ParseHashAlgo(string(c.hashAlgo)); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	if _, err := logging.ParseLevel(c.logLevel); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	if _, err := logging.ParseFormat(c.logFormat); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	if c.logMaxSizeMB <= 0 || c.logMaxBackups < 0 {
		return Config{}, fmt.Errorf("%w: log rotation needs a positive size and non-negative backups", ErrInvalidConfig)
	}

	return *c, nil
}

func (c Config) RootURL() url.URL {
	return c.rootURL
}

// ScopeHost is the host name every crawled address must carry.
func (c Config) ScopeHost() string {
	return c.rootURL.Hostname()
}

func (c Config) MirrorDir() string {
	return c.mirrorDir
}

func (c Config) Concurrency() int {
	return c.concurrency
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) IndexFileName() string {
	return c.indexFileName
}

func (c Config) HashAlgo() hashutil.HashAlgo {
	return c.hashAlgo
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func (c Config) LogFormat() string {
	return c.logFormat
}

func (c Config) LogFile() string {
	return c.logFile
}

func (c Config) LogMaxSizeMB() int {
	return c.logMaxSizeMB
}

func (c Config) LogMaxBackups() int {
	return c.logMaxBackups
}
