package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scrivener/internal/config"
	"scrivener/internal/logging"
	"scrivener/internal/naming"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		authorFlag    string
		topicFlag     string
		yearFlag      string
		fromFile      string
		noLinks       bool
		outputDirFlag string
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "process [url...]",
		Short: "Fetch and save transcripts without the batch workflow",
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

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if outputDirFlag != "" {
				expanded, err := config.ExpandPath(outputDirFlag)
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
				cfg.Paths.OutputDir = expanded
				if err := cfg.EnsureDirectories(); err != nil {
					return err
				}
			}
			if noLinks {
				cfg.Source.IncludeLinks = false
			}

			overrides := naming.Fields{Author: authorFlag, Topic: topicFlag, Year: yearFlag}
			hasOverrides := authorFlag != "" || topicFlag != "" || yearFlag != ""
			if hasOverrides && len(urls) > 1 {
				fmt.Fprintln(cmd.ErrOrStderr(), "Naming overrides apply to a single URL only; ignoring them")
				overrides = naming.Fields{}
			}

			coordinator, err := ctx.newCoordinator(nil)
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			type outcome struct {
				URL   string   `json:"url"`
				Title string   `json:"title,omitempty"`
				Files []string `json:"files,omitempty"`
				Error string   `json:"error,omitempty"`
			}

			out := cmd.OutOrStdout()
			outcomes := make([]outcome, 0, len(urls))
			failures := 0
			for _, url := range urls {
				video, files, err := coordinator.ProcessURL(cmd.Context(), url, overrides)
				result := outcome{URL: url, Files: files}
				if video != nil {
					result.Title = video.Title
				}
				if err != nil {
					failures++
					result.Error = err.Error()
					logger.Error("process failed", logging.String("url", url), logging.Error(err))
					if !jsonOutput {
						fmt.Fprintf(out, "Failed: %s (%v)\n", url, err)
					}
				} else if !jsonOutput {
					fmt.Fprintf(out, "Saved: %s\n", video.Title)
					for _, file := range files {
						fmt.Fprintf(out, "  %s\n", file)
					}
				}
				outcomes = append(outcomes, result)
			}

			if jsonOutput {
				if err := writeJSON(cmd, map[string]any{"results": outcomes}); err != nil {
					return err
				}
			}
			if failures == len(urls) {
				return fmt.Errorf("all %d URLs failed", len(urls))
			}
			if failures > 0 && !jsonOutput {
				fmt.Fprintf(out, "%d of %d URLs failed\n", failures, len(urls))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&authorFlag, "author", "", "Override the author naming field (single URL only)")
	cmd.Flags().StringVar(&topicFlag, "topic", "", "Override the topic naming field (single URL only)")
	cmd.Flags().StringVar(&yearFlag, "year", "", "Override the year naming field (single URL only)")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "Read URLs from a file, one per line")
	cmd.Flags().BoolVar(&noLinks, "no-links", false, "Skip link extraction from the description")
	cmd.Flags().StringVar(&outputDirFlag, "output-dir", "", "Write transcripts under this directory")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")

	return cmd
}

// readURLFile loads URLs from a file, one per line. Blank lines and lines
// starting with # are skipped.
func readURLFile(path string) ([]string, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve URL file: %w", err)
	}
	f, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL file: %w", err)
	}
	return urls, nil
}
