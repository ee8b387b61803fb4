package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/moyklass/moyklass"
)

// summaryConcurrency bounds the parallel requests made under one token
const summaryConcurrency = 4

type summarySource struct {
	name  string
	key   string
	fetch func(ctx context.Context) (*moyklass.Response, error)
}

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show counts of the company's reference data",
	Long: `Fetch payment types, user attributes, courses, groups and subscription
groupings concurrently under a single session token and print their counts.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	sources := []summarySource{
		{name: "Payment types", fetch: client.Payments.Types},
		{name: "User attributes", fetch: client.Users.Attributes},
		{name: "Courses", fetch: func(ctx context.Context) (*moyklass.Response, error) {
			return client.Groups.Courses(ctx, nil)
		}},
		{name: "Groups", fetch: func(ctx context.Context) (*moyklass.Response, error) {
			return client.Groups.Classes(ctx, nil)
		}},
		{name: "Subscription groupings", fetch: func(ctx context.Context) (*moyklass.Response, error) {
			return client.Subscriptions.Groupings(ctx, nil)
		}},
		{name: "Catalogue subscriptions", key: "subscriptions", fetch: func(ctx context.Context) (*moyklass.Response, error) {
			return client.Subscriptions.List(ctx, nil)
		}},
	}

	counts := make(map[string]int, len(sources))

	err := withSession(cmd, func(ctx context.Context) error {
		// Create error group with limited concurrency
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(summaryConcurrency)

		// Use mutex to protect concurrent writes
		var mu sync.Mutex

		for _, source := range sources {
			g.Go(func() error {
				resp, err := source.fetch(ctx)
				if err != nil {
					return fmt.Errorf("failed to fetch %s: %w", source.name, err)
				}

				count := len(resp.Records(source.key))
				if source.key != "" {
					if total := resp.Get("stats.totalItems"); total.Exists() {
						count = int(total.Int())
					}
				}

				logger.Debug().Str("source", source.name).Int("count", count).Msg("Fetched")

				mu.Lock()
				counts[source.name] = count
				mu.Unlock()
				return nil
			})
		}

		return g.Wait()
	})
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		return printJSON(counts)
	}

	titleLabel.Fprintln(stdout, "Moyklass summary:")
	for _, source := range sources {
		fmt.Fprintf(stdout, "- %s: %d\n", source.name, counts[source.name])
	}
	return nil
}
