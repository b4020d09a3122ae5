package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"catalog/internal/embed"
	"catalog/internal/library"
	"catalog/internal/services/embedding"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var fuzzy bool
	var embeddings bool
	var threshold int
	var maxResults int
	var full bool

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search transcript and speech nodes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fuzzy && embeddings {
				return fmt.Errorf("--fuzzy and --embeddings are mutually exclusive")
			}
			query := strings.Join(args, " ")
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if threshold == 0 {
				threshold = cfg.Search.Threshold
			}
			if maxResults == 0 {
				maxResults = cfg.Search.MaxResults
			}

			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				if embeddings {
					return false, searchEmbeddings(cmd, ctx, lib, query, maxResults)
				}

				opts := library.SearchOptions{
					Mode:       library.SearchExact,
					Threshold:  threshold,
					MaxResults: maxResults,
					FullSearch: full,
				}
				if fuzzy {
					opts.Mode = library.SearchFuzzy
				}
				results, err := lib.Search(query, opts)
				if err != nil {
					return false, err
				}
				if len(results) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No matches")
					return false, nil
				}
				rows := make([][]string, 0, len(results))
				for _, res := range results {
					rows = append(rows, []string{res.Locator, truncateText(res.Text, 72)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Locator", "Text"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				return false, nil
			})
		},
	}

	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Approximate matching with a score threshold")
	cmd.Flags().BoolVar(&embeddings, "embeddings", false, "Semantic search over the embeddings sidecar")
	cmd.Flags().IntVar(&threshold, "threshold", 0, "Minimum fuzzy score (0-100)")
	cmd.Flags().IntVar(&maxResults, "max", 0, "Maximum number of results")
	cmd.Flags().BoolVar(&full, "full", false, "Search every entry instead of each object's most recent one")
	return cmd
}

// searchEmbeddings brings the sidecar up to date against the library, then
// runs a cosine-similarity query. Both steps call the embedding service and
// block; a service failure surfaces directly.
func searchEmbeddings(cmd *cobra.Command, ctx *commandContext, lib *library.Library, query string, maxResults int) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if cfg.Embeddings.BaseURL == "" {
		return fmt.Errorf("embeddings search requires [embeddings] base_url in the configuration")
	}

	client := embedding.NewClient(embedding.Config{
		APIKey:         cfg.Embeddings.APIKey,
		BaseURL:        cfg.Embeddings.BaseURL,
		Model:          cfg.Embeddings.Model,
		Dimensionality: cfg.Embeddings.Dimensionality,
		TimeoutSeconds: cfg.Embeddings.TimeoutSeconds,
	})

	index, err := embed.Open(cfg.Paths.EmbeddingsPath, ctx.ensureLogger())
	if err != nil {
		return err
	}
	added, err := index.Sync(cmd.Context(), lib, client, cfg.Embeddings.MaxEntries)
	if err != nil {
		return err
	}
	if added > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Indexed %d new node(s)\n", added)
	}

	matches, err := index.Search(cmd.Context(), query, client, maxResults)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matches")
		return nil
	}

	rows := make([][]string, 0, len(matches))
	for _, match := range matches {
		text, err := lib.ResolveLocator(match.Locator)
		if err != nil {
			text = ""
		}
		rows = append(rows, []string{
			match.Locator,
			fmt.Sprintf("%.3f", match.Score),
			truncateText(text, 64),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Locator", "Score", "Text"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
	return nil
}
