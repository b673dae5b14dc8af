package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the complete configuration for wikimcp.
type Config struct {
	// Server settings
	Port           int      `yaml:"port" json:"port"`
	Path           string   `yaml:"path" json:"path"`
	AllowRemote    bool     `yaml:"allowRemote" json:"allowRemote"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty" json:"allowedOrigins,omitempty"`
	SessionTimeout int      `yaml:"sessionTimeout" json:"sessionTimeout"`
	MaxSessions    int      `yaml:"maxSessions" json:"maxSessions"`
	ReadTimeout    int      `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout   int      `yaml:"writeTimeout" json:"writeTimeout"`

	// Upstream settings
	Timeout      int    `yaml:"timeout" json:"timeout"`
	RESTBaseURL  string `yaml:"restBaseUrl" json:"restBaseUrl"`
	ActionAPIURL string `yaml:"actionApiUrl" json:"actionApiUrl"`
	PageBaseURL  string `yaml:"pageBaseUrl" json:"pageBaseUrl"`
	UserAgent    string `yaml:"userAgent" json:"userAgent"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`

	ConfigFile string `yaml:"-" json:"configFile,omitempty"`

	// Sources tracks where each value came from.
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields holds the YAML keys present in a loaded file, so an explicit
	// false can override a true from a lower layer.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// Where a config value originated.
const (
	SourceDefault = "default"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Upper bounds accepted by Validate.
const (
	maxPort        = 65535
	maxTimeoutSecs = 3600
	maxSessionCap  = 100000
)

// Validate reports every invalid field, joined into one error.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 0 || c.Port > maxPort {
		errs = append(errs, fmt.Errorf("port %d is out of range (0-%d)", c.Port, maxPort))
	}
	if !strings.HasPrefix(c.Path, "/") {
		errs = append(errs, fmt.Errorf("path %q must start with /", c.Path))
	}
	if c.Timeout <= 0 || c.Timeout > maxTimeoutSecs {
		errs = append(errs, fmt.Errorf("timeout %d is out of range (1-%d)", c.Timeout, maxTimeoutSecs))
	}
	if c.SessionTimeout < 0 || c.SessionTimeout > maxTimeoutSecs*24 {
		errs = append(errs, fmt.Errorf("sessionTimeout %d is out of range", c.SessionTimeout))
	}
	if c.MaxSessions < 0 || c.MaxSessions > maxSessionCap {
		errs = append(errs, fmt.Errorf("maxSessions %d is out of range (0-%d)", c.MaxSessions, maxSessionCap))
	}
	if c.ReadTimeout < 0 || c.ReadTimeout > maxTimeoutSecs {
		errs = append(errs, fmt.Errorf("readTimeout %d is out of range (0-%d)", c.ReadTimeout, maxTimeoutSecs))
	}
	if c.WriteTimeout < 0 || c.WriteTimeout > maxTimeoutSecs {
		errs = append(errs, fmt.Errorf("writeTimeout %d is out of range (0-%d)", c.WriteTimeout, maxTimeoutSecs))
	}

	for key, raw := range map[string]string{
		"restBaseUrl":  c.RESTBaseURL,
		"actionApiUrl": c.ActionAPIURL,
		"pageBaseUrl":  c.PageBaseURL,
	} {
		if err := validateAbsoluteURL(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

func validateAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}

// UpstreamTimeout returns Timeout as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SessionTTL returns SessionTimeout as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTimeout) * time.Second
}
