package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"scrivener/internal/batch"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Collect, review, and process a batch of videos",
	}

	batchCmd.AddCommand(newBatchAddCommand(ctx))
	batchCmd.AddCommand(newBatchListCommand(ctx))
	batchCmd.AddCommand(newBatchSetCommand(ctx))
	batchCmd.AddCommand(newBatchSelectCommand(ctx))
	batchCmd.AddCommand(newBatchSkipCommand(ctx))
	batchCmd.AddCommand(newBatchProcessCommand(ctx))
	batchCmd.AddCommand(newBatchResultsCommand(ctx))
	batchCmd.AddCommand(newBatchStatusCommand(ctx))
	batchCmd.AddCommand(newBatchResetCommand(ctx))

	return batchCmd
}

func newBatchAddCommand(ctx *commandContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "add [url...]",
		Short: "Fetch metadata for URLs and open the batch for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := append([]string(nil), args...)
			if fromFile != "" {
				fileURLs, err := readURLFile(fromFile)
				if err != nil {
					return err
				}
				urls = append(urls, fileURLs...)
			}
			if len(urls) == 0 {
				return fmt.Errorf("no URLs given; pass them as arguments or with --from-file")
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			coordinator, err := ctx.newCoordinator(store)
			if err != nil {
				return err
			}

			report, err := coordinator.Fetch(cmd.Context(), urls)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, dropped := range report.Dropped {
				fmt.Fprintf(out, "Dropped %s: %s\n", dropped.URL, dropped.Reason)
			}
			fmt.Fprintf(out, "Batch open for review with %d items\n", len(report.Items))
			fmt.Fprintln(out, itemsTable(report.Items))
			fmt.Fprintln(out, "Edit naming with 'scrivener batch set', then run 'scrivener batch process'")
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "from-file", "", "Read URLs from a file, one per line")
	return cmd
}

func newBatchListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the items in the current batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.Items(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{"items": itemsJSON(items)})
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Batch is empty; add videos with 'scrivener batch add'")
				return nil
			}
			fmt.Fprintln(out, itemsTable(items))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}

func newBatchSetCommand(ctx *commandContext) *cobra.Command {
	var (
		authorFlag string
		topicFlag  string
		yearFlag   string
	)

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Edit the naming fields of one item during review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePositiveIDs(args)
			if err != nil {
				return err
			}
			if authorFlag == "" && topicFlag == "" && yearFlag == "" {
				return fmt.Errorf("nothing to change; pass --author, --topic, or --year")
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.UpdateNaming(cmd.Context(), ids[0], authorFlag, topicFlag, yearFlag); err != nil {
				return err
			}

			item, err := store.ItemByID(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %d: %s / %s / %s\n", item.ID, item.Author, item.Topic, item.Year)
			return nil
		},
	}

	cmd.Flags().StringVar(&authorFlag, "author", "", "New author value")
	cmd.Flags().StringVar(&topicFlag, "topic", "", "New topic value")
	cmd.Flags().StringVar(&yearFlag, "year", "", "New year value")
	return cmd
}

func newBatchSelectCommand(ctx *commandContext) *cobra.Command {
	return newSelectionCommand(ctx, "select", "Mark items for processing", true)
}

func newBatchSkipCommand(ctx *commandContext) *cobra.Command {
	return newSelectionCommand(ctx, "skip", "Exclude items from processing", false)
}

func newSelectionCommand(ctx *commandContext, use, short string, selected bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePositiveIDs(args)
			if err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			for _, id := range ids {
				if err := store.SetSelected(cmd.Context(), id, selected); err != nil {
					return err
				}
				if selected {
					fmt.Fprintf(out, "Item %d selected\n", id)
				} else {
					fmt.Fprintf(out, "Item %d skipped\n", id)
				}
			}
			return nil
		},
	}
}

func newBatchProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Process the selected items and save their transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			coordinator, err := ctx.newCoordinator(store)
			if err != nil {
				return err
			}

			summary, err := coordinator.Process(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Batch complete: %d saved, %d failed, %d skipped\n",
				summary.Success, summary.Errors, summary.Skipped)
			fmt.Fprintln(out, "See details with 'scrivener batch results'")
			return nil
		},
	}
}

func newBatchResultsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show per-item outcomes of the last processing run",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			results, err := store.Results(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{"results": resultsJSON(results)})
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No results recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				detail := result.Message
				if result.Status == batch.StatusSuccess {
					detail = strings.Join(result.Files, "\n")
				}
				rows = append(rows, []string{
					strconv.FormatInt(result.ItemID, 10),
					result.Title,
					string(result.Status),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Item", "Title", "Status", "Detail"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))

			summary, err := store.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d saved, %d failed, %d skipped\n", summary.Success, summary.Errors, summary.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}

func newBatchStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the batch phase and item counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			phase, batchID, err := store.Phase(cmd.Context())
			if err != nil {
				return err
			}
			items, err := store.Items(cmd.Context())
			if err != nil {
				return err
			}
			selected := 0
			for _, item := range items {
				if item.Selected {
					selected++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Phase: %s\n", phase)
			if batchID != "" {
				fmt.Fprintf(out, "Batch: %s\n", batchID)
			}
			fmt.Fprintf(out, "Items: %d (%d selected)\n", len(items), selected)
			if phase == batch.PhaseComplete || phase == batch.PhaseProcessing {
				summary, err := store.Summarize(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Results: %d saved, %d failed, %d skipped\n",
					summary.Success, summary.Errors, summary.Skipped)
			}
			return nil
		},
	}
}

func newBatchResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the current batch and return to the input phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Batch reset; ready for new URLs")
			return nil
		},
	}
}

func parsePositiveIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid item id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func itemsTable(items []batch.Item) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			yesNo(item.Selected),
			item.Author,
			item.Topic,
			item.Year,
			item.Title,
		})
	}
	return renderTable(
		[]string{"ID", "Selected", "Author", "Topic", "Year", "Title"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func itemsJSON(items []batch.Item) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{
			"id":       item.ID,
			"video_id": item.VideoID,
			"url":      item.URL,
			"title":    item.Title,
			"author":   item.Author,
			"topic":    item.Topic,
			"year":     item.Year,
			"selected": item.Selected,
		})
	}
	return out
}

func resultsJSON(results []batch.Result) []map[string]any {
	out := make([]map[string]any, 0, len(results))
	for _, result := range results {
		out = append(out, map[string]any{
			"item_id":  result.ItemID,
			"video_id": result.VideoID,
			"url":      result.URL,
			"title":    result.Title,
			"status":   string(result.Status),
			"message":  result.Message,
			"files":    result.Files,
		})
	}
	return out
}
