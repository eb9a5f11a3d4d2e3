package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"kwbrowse/domain/keywords"
	"kwbrowse/internal"
	"kwbrowse/internal/catalog"
	"kwbrowse/internal/cloud"
	"kwbrowse/internal/config"
	"kwbrowse/internal/container"
	"kwbrowse/internal/profiling"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are shared by every subcommand
type rootOptions struct {
	source  string
	asJSON  bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "kwbrowse",
		Short:         "Browse a keyword sheet from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.source, "source", "", "CSV/XLSX URL or local path (default: KEYWORDS_SOURCE)")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of text")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log fetch details to stderr")

	rootCmd.AddCommand(
		newListCmd(opts),
		newGroupsCmd(opts),
		newOptionsCmd(opts),
		newSuggestCmd(opts),
		newCloudCmd(opts),
		newProfileCmd(opts),
	)
	return rootCmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every column with its keywords",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, snap, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, snap.Table.Columns())
			}
			for _, col := range snap.Table.Columns() {
				fmt.Fprintf(out, "%s (%d): %s\n", col.Label, len(col.Keywords), strings.Join(col.Keywords, ", "))
			}
			return nil
		},
	}
}

func newGroupsCmd(opts *rootOptions) *cobra.Command {
	var chunk int

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Show columns grouped into blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, snap, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			if chunk == 0 {
				chunk = c.Catalog.ChunkSize()
			}
			groups, err := keywords.GroupColumns(snap.Table, chunk)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, groups)
			}
			for _, block := range groups.Blocks {
				fmt.Fprintf(out, "[%s]\n", block.Label)
				for _, col := range block.Columns {
					fmt.Fprintf(out, "  %s: %s\n", col.Label, strings.Join(col.Keywords, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&chunk, "chunk", 0, "Columns per block (default: CHUNK_SIZE)")
	return cmd
}

func newOptionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the flat option list with heading markers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, snap, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, snap.Options)
			}
			for _, o := range snap.Options.Strings() {
				fmt.Fprintln(out, o)
			}
			return nil
		},
	}
}

func newSuggestCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <query>",
		Short: "Suggest keywords close to a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, snap, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = c.Config.Browse.SuggestionLimit
			}
			query := strings.Join(args, " ")
			suggestions := c.Suggester.Suggest(query, snap.Pool, limit)

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, suggestions)
			}
			if len(suggestions) == 0 {
				fmt.Fprintf(out, "No keywords match %q\n", query)
				return nil
			}
			fmt.Fprintln(out, "Did you mean:")
			for _, s := range suggestions {
				fmt.Fprintf(out, "  %s\n", s.Keyword)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum suggestions (default: SUGGESTION_LIMIT)")
	return cmd
}

func newCloudCmd(opts *rootOptions) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "cloud",
		Short: "Print word cloud terms by frequency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, snap, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			wc, err := cloud.Build(snap.Table.Joined(), c.Config.CloudRenderConfig())
			if err != nil {
				return err
			}
			words := wc.Words
			if top > 0 && len(words) > top {
				words = words[:top]
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, words)
			}
			for _, w := range words {
				fmt.Fprintf(out, "%-24s %4d %3dpx\n", w.Text, w.Count, w.FontSize)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 25, "Show only the most frequent terms (0 = all)")
	return cmd
}

func newProfileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Summarize how keywords are spread across columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, snap, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			profile, err := profiling.ProfileTable(snap.Table)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, profile)
			}
			s := profile.Counts
			fmt.Fprintf(out, "Columns: %d  Keywords/column: mean %.1f, median %.1f, min %.0f, max %.0f\n",
				s.N, s.Mean, s.Median, s.Min, s.Max)
			if len(profile.Busiest) > 0 {
				fmt.Fprintf(out, "Busiest: %s\n", strings.Join(profile.Busiest, ", "))
			}
			if len(profile.Empty) > 0 {
				fmt.Fprintf(out, "Empty: %s\n", strings.Join(profile.Empty, ", "))
			}
			for _, c := range profile.Columns {
				if c.Outlier {
					fmt.Fprintf(out, "Outlier: %s (%d)\n", c.Label, c.Count)
				}
			}
			return nil
		},
	}
}

// load builds the container from the environment, applies --source and
// fetches one snapshot.
func (o *rootOptions) load(ctx context.Context) (*container.Container, *catalog.Snapshot, error) {
	appConfig, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.source != "" {
		appConfig.Source.URL = o.source
	}

	logger := internal.NewNopLogger()
	if o.verbose {
		logger = internal.NewLogger(internal.LogLevelDebug)
	}

	c, err := container.New(appConfig, logger)
	if err != nil {
		return nil, nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	snap, err := c.Catalog.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c, snap, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
