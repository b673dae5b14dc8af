package config

import (
	"time"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/wikipedia"
)

// Server defaults.
const (
	DefaultPort           = 8090
	DefaultPath           = "/mcp"
	DefaultSessionTimeout = 30 * 60
	DefaultMaxSessions    = 100
	DefaultReadTimeout    = 30
	DefaultWriteTimeout   = 30
)

// DefaultTimeout is the upstream request timeout in seconds.
const DefaultTimeout = int(wikipedia.DefaultTimeout / time.Second)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// NewDefault creates a Config populated with defaults.
func NewDefault() *Config {
	cfg := &Config{
		Port:           DefaultPort,
		Path:           DefaultPath,
		AllowedOrigins: []string{"*"},
		SessionTimeout: DefaultSessionTimeout,
		MaxSessions:    DefaultMaxSessions,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		Timeout:        DefaultTimeout,
		RESTBaseURL:    wikipedia.DefaultRESTBaseURL,
		ActionAPIURL:   wikipedia.DefaultActionAPIURL,
		PageBaseURL:    wikipedia.DefaultPageBaseURL,
		UserAgent:      wikipedia.DefaultUserAgent,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		Sources:        make(map[string]string),
	}
	for _, key := range Keys {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}

// Keys lists every configurable key in display order.
var Keys = []string{
	"port",
	"path",
	"allowRemote",
	"allowedOrigins",
	"sessionTimeout",
	"maxSessions",
	"readTimeout",
	"writeTimeout",
	"timeout",
	"restBaseUrl",
	"actionApiUrl",
	"pageBaseUrl",
	"userAgent",
	"logLevel",
	"logFormat",
	"logFile",
}
