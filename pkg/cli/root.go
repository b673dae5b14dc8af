package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/config"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	logLevel   string
	logFormat  string
}

// NewRootCmd builds the wikimcp command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "wikimcp",
		Short: "wikimcp exposes Wikipedia to AI assistants over MCP",
		Long: `wikimcp is a Model Context Protocol server that gives AI assistants
three read-only Wikipedia tools: article search, section outlines and
section content.

Configuration can be provided via flags, WIKIMCP_* environment variables,
a local .wikimcp.yaml or a global config under the XDG config directory.`,
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Main()
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Path to config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format (text, json)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMCPCmd(opts),
		newSearchCmd(opts),
		newSectionsCmd(opts),
		newSectionCmd(opts),
		newToolsCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// loadConfig resolves configuration from files and environment, then applies
// the persistent flags on top.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		paths := config.DefaultPaths()
		paths.File = o.configFile
		cfg, err = config.LoadFrom(paths)
	} else {
		cfg, err = config.LoadAll()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
		cfg.Sources["logLevel"] = config.SourceFlag
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
		cfg.Sources["logFormat"] = config.SourceFlag
	}
	return cfg, nil
}
