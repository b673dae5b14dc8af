package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/cli/internal/output"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/config"
)

// configEntry is one resolved key as printed by "wikimcp config --json".
type configEntry struct {
	Key    string      `json:"key"`
	Value  interface{} `json:"value"`
	Source string      `json:"source"`
}

func newConfigCmd(root *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration and where each value came from",
		Long: `Show the effective configuration after merging defaults, the global
config file, the local (or --config) file, WIKIMCP_* environment variables
and flags. Each value is annotated with its source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			entries := configEntries(cfg)
			w := cmd.OutOrStdout()

			if jsonOutput {
				return output.JSON(w, map[string]interface{}{
					"configFile": cfg.ConfigFile,
					"values":     entries,
				})
			}

			if cfg.ConfigFile != "" {
				fmt.Fprintf(w, "# Resolved configuration from %s\n\n", cfg.ConfigFile)
			} else {
				fmt.Fprintln(w, "# Resolved configuration (no config file found)")
				for _, path := range append(config.GlobalConfigSearchPaths(), config.LocalConfigSearchPaths()...) {
					fmt.Fprintf(w, "#   searched %s\n", path)
				}
				fmt.Fprintln(w)
			}
			tw := output.Table(w)
			fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, formatValue(e.Value), e.Source)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				output.Warn(cmd.ErrOrStderr(), "%v", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

// configEntries returns every key in display order with its value and source.
func configEntries(cfg *config.Config) []configEntry {
	values := map[string]interface{}{
		"port":           cfg.Port,
		"path":           cfg.Path,
		"allowRemote":    cfg.AllowRemote,
		"allowedOrigins": cfg.AllowedOrigins,
		"sessionTimeout": cfg.SessionTimeout,
		"maxSessions":    cfg.MaxSessions,
		"readTimeout":    cfg.ReadTimeout,
		"writeTimeout":   cfg.WriteTimeout,
		"timeout":        cfg.Timeout,
		"restBaseUrl":    cfg.RESTBaseURL,
		"actionApiUrl":   cfg.ActionAPIURL,
		"pageBaseUrl":    cfg.PageBaseURL,
		"userAgent":      cfg.UserAgent,
		"logLevel":       cfg.LogLevel,
		"logFormat":      cfg.LogFormat,
		"logFile":        cfg.LogFile,
	}

	entries := make([]configEntry, 0, len(config.Keys))
	for _, key := range config.Keys {
		source := cfg.Sources[key]
		if source == "" {
			source = config.SourceDefault
		}
		entries = append(entries, configEntry{Key: key, Value: values[key], Source: source})
	}
	return entries
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	case string:
		if val == "" {
			return "-"
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}
