package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/s0up4200/moyklass/filter"
	"github.com/s0up4200/moyklass/moyklass"
)

// stdout receives command output; logs and status marks go to stderr.
var stdout io.Writer = os.Stdout

// printList writes a list response. The records live under key (or form the
// top-level array); when a filter is active only matching records are printed,
// otherwise the body is printed unchanged.
func printList(ctx context.Context, resp *moyklass.Response, key string) error {
	if !resp.IsJSON() {
		fmt.Fprintln(stdout, resp.Text())
		return nil
	}

	f, err := filters.Resolve(filterExpr, preset, cfg.Filter.DefaultExpression)
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	if f == nil {
		if outputFormat == "text" {
			printRecords(resp.Records(key))
			return nil
		}
		return printJSON(resp.Value())
	}

	records := resp.Records(key)
	matches, err := filters.Apply(ctx, f, records)
	if err != nil {
		return err
	}

	logger.Info().
		Str("filter", f.Expression()).
		Int("total", len(records)).
		Int("matched", len(matches)).
		Msg("Filtered records")

	if outputFormat == "text" {
		printRecords(matches)
		return nil
	}
	return printJSON(matches)
}

// printObject writes a single-object response
func printObject(resp *moyklass.Response) error {
	if !resp.IsJSON() {
		fmt.Fprintln(stdout, resp.Text())
		return nil
	}

	if filterExpr != "" || preset != "" {
		warnLabel.Fprintln(os.Stderr, "Filters apply to list commands only, ignoring")
	}

	if outputFormat == "text" {
		if record, ok := resp.Value().(map[string]any); ok {
			printRecord(record)
			return nil
		}
	}
	return printJSON(resp.Value())
}

// filterFunctions are the Moyklass helpers available to --filter and presets
func filterFunctions() map[string]any {
	return map[string]any{
		// statusName maps a user subscription statusId to its name:
		// statusName(statusId) == "frozen"
		"statusName": func(v any) string {
			id, ok := v.(float64)
			if !ok {
				return moyklass.SubscriptionStatus(0).String()
			}
			return moyklass.SubscriptionStatus(int(id)).String()
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printRecords(records []filter.Record) {
	if len(records) == 0 {
		fmt.Fprintln(stdout, "No records found.")
		return
	}

	titleLabel.Fprintf(stdout, "Found %d records:\n", len(records))
	fmt.Fprintln(stdout, strings.Repeat("-", 80))
	for _, record := range records {
		printRecord(record)
	}
}

// printRecord prints "• id=1 name=Anna ..." with id first and the remaining
// keys sorted. Nested values are printed as compact JSON.
func printRecord(record map[string]any) {
	keys := make([]string, 0, len(record))
	for k := range record {
		if k != "id" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	if _, ok := record["id"]; ok {
		keys = append([]string{"id"}, keys...)
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+formatValue(record[k]))
	}
	fmt.Fprintf(stdout, "• %s\n", strings.Join(parts, " "))
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		if strings.ContainsAny(val, " \t") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case float64, bool:
		return fmt.Sprint(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
