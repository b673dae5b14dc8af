package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/mcp"
	"github.com/ajayindfw/WikipediaMcpServer-sub001/pkg/wikipedia"
)

// lookupFunc performs one gateway call and returns the rendered text.
type lookupFunc func(cmd *cobra.Command, gw *wikipedia.Client, args []string) string

// newLookupCmd builds a one-shot command that prints exactly what the
// matching MCP tool would return.
func newLookupCmd(root *rootOptions, use, short string, args cobra.PositionalArgs, fn lookupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, closer, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			fmt.Fprintln(cmd.OutOrStdout(), fn(cmd, newGateway(cfg, log), args))
			return nil
		},
	}
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	cmd := newLookupCmd(root, "search <query>", "Print the summary of the article titled <query>",
		cobra.ExactArgs(1),
		func(cmd *cobra.Command, gw *wikipedia.Client, args []string) string {
			return mcp.FormatSearch(args[0], gw.Search(contextOrBackground(cmd), args[0]))
		})
	cmd.Example = `  wikimcp search "Go (programming language)"`
	return cmd
}

func newSectionsCmd(root *rootOptions) *cobra.Command {
	cmd := newLookupCmd(root, "sections <topic>", "List the section titles of an article",
		cobra.ExactArgs(1),
		func(cmd *cobra.Command, gw *wikipedia.Client, args []string) string {
			return mcp.FormatSections(args[0], gw.GetSections(contextOrBackground(cmd), args[0]))
		})
	cmd.Example = `  wikimcp sections "Alan Turing"`
	return cmd
}

func newSectionCmd(root *rootOptions) *cobra.Command {
	cmd := newLookupCmd(root, "section <topic> <section-title>", "Print the plain text of one article section",
		cobra.ExactArgs(2),
		func(cmd *cobra.Command, gw *wikipedia.Client, args []string) string {
			topic, title := args[0], args[1]
			return mcp.FormatSectionContent(topic, title, gw.GetSectionContent(contextOrBackground(cmd), topic, title))
		})
	cmd.Example = `  wikimcp section "Alan Turing" "Early life and education"`
	return cmd
}
