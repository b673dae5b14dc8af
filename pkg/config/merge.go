package config

// MergeConfig applies the non-zero values of source onto target and records
// sourceType for each applied key.
func MergeConfig(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}
	mark := func(key string) { target.Sources[key] = sourceType }

	if source.Port != 0 {
		target.Port = source.Port
		mark("port")
	}
	if source.Path != "" {
		target.Path = source.Path
		mark("path")
	}
	// Booleans can only be detected as explicitly false via SetFields.
	if boolIsSet(source, "allowRemote") {
		target.AllowRemote = source.AllowRemote
		mark("allowRemote")
	}
	if len(source.AllowedOrigins) > 0 {
		target.AllowedOrigins = append([]string(nil), source.AllowedOrigins...)
		mark("allowedOrigins")
	}
	if source.SessionTimeout != 0 {
		target.SessionTimeout = source.SessionTimeout
		mark("sessionTimeout")
	}
	if source.MaxSessions != 0 {
		target.MaxSessions = source.MaxSessions
		mark("maxSessions")
	}
	if source.ReadTimeout != 0 {
		target.ReadTimeout = source.ReadTimeout
		mark("readTimeout")
	}
	if source.WriteTimeout != 0 {
		target.WriteTimeout = source.WriteTimeout
		mark("writeTimeout")
	}
	if source.Timeout != 0 {
		target.Timeout = source.Timeout
		mark("timeout")
	}
	if source.RESTBaseURL != "" {
		target.RESTBaseURL = source.RESTBaseURL
		mark("restBaseUrl")
	}
	if source.ActionAPIURL != "" {
		target.ActionAPIURL = source.ActionAPIURL
		mark("actionApiUrl")
	}
	if source.PageBaseURL != "" {
		target.PageBaseURL = source.PageBaseURL
		mark("pageBaseUrl")
	}
	if source.UserAgent != "" {
		target.UserAgent = source.UserAgent
		mark("userAgent")
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		mark("logLevel")
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		mark("logFormat")
	}
	if source.LogFile != "" {
		target.LogFile = source.LogFile
		mark("logFile")
	}
}

// boolIsSet reports whether a boolean key was present in the source. Configs
// built in code have no SetFields, so only true counts as set.
func boolIsSet(cfg *Config, yamlKey string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	switch yamlKey {
	case "allowRemote":
		return cfg.AllowRemote
	}
	return false
}
