package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvPort         = "WIKIMCP_PORT"
	EnvPath         = "WIKIMCP_PATH"
	EnvAllowRemote  = "WIKIMCP_ALLOW_REMOTE"
	EnvLogLevel     = "WIKIMCP_LOG_LEVEL"
	EnvLogFormat    = "WIKIMCP_LOG_FORMAT"
	EnvLogFile      = "WIKIMCP_LOG_FILE"
	EnvTimeout      = "WIKIMCP_TIMEOUT"
	EnvRESTBaseURL  = "WIKIMCP_REST_BASE_URL"
	EnvActionAPIURL = "WIKIMCP_ACTION_API_URL"
	EnvUserAgent    = "WIKIMCP_USER_AGENT"
	EnvConfig       = "WIKIMCP_CONFIG"
)

// LoadEnvConfig applies environment variables to cfg.
// Only variables that are set are applied; unparsable numbers are ignored.
func LoadEnvConfig(cfg *Config) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
			cfg.Sources["port"] = SourceEnv
		}
	}

	if v := os.Getenv(EnvPath); v != "" {
		cfg.Path = v
		cfg.Sources["path"] = SourceEnv
	}

	if v := os.Getenv(EnvAllowRemote); v != "" {
		cfg.AllowRemote = parseBool(v)
		cfg.Sources["allowRemote"] = SourceEnv
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Timeout = secs
			cfg.Sources["timeout"] = SourceEnv
		}
	}

	setString(&cfg.RESTBaseURL, EnvRESTBaseURL, "restBaseUrl", cfg.Sources)
	setString(&cfg.ActionAPIURL, EnvActionAPIURL, "actionApiUrl", cfg.Sources)
	setString(&cfg.UserAgent, EnvUserAgent, "userAgent", cfg.Sources)
	setString(&cfg.LogLevel, EnvLogLevel, "logLevel", cfg.Sources)
	setString(&cfg.LogFormat, EnvLogFormat, "logFormat", cfg.Sources)
	setString(&cfg.LogFile, EnvLogFile, "logFile", cfg.Sources)
}

func setString(dst *string, env, key string, sources map[string]string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
		sources[key] = SourceEnv
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
