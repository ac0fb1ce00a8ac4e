package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"

	"github.com/goliatone/go-timeline/pkg/content"
	"github.com/goliatone/go-timeline/pkg/logger"
	"github.com/goliatone/go-timeline/pkg/pipeline"
)

func main() {
	contentDir := flag.String("content", "content", "directory holding the content documents")
	baseURL := flag.String("url", "", "fetch content from this base URL instead of -content")
	out := flag.String("out", "timeline.html", "output path for the assembled page")
	themeName := flag.String("theme", "", "theme name (empty selects the default)")
	variant := flag.String("variant", "", "theme variant")
	attempts := flag.Int("attempts", content.DefaultAttempts, "fetch attempts per document")
	readyTimeout := flag.Duration("ready-timeout", pipeline.DefaultReadyTimeout, "bound on template readiness")
	verbose := flag.Bool("v", false, "debug logging")
	yes := flag.Bool("yes", false, "never prompt; exit on failure without asking to retry")
	flag.Parse()

	ctx := context.Background()
	if err := run(ctx, *contentDir, *baseURL, *out, *themeName, *variant, *attempts, *readyTimeout, *verbose, *yes); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, contentDir, baseURL, out, themeName, variant string, attempts int, readyTimeout time.Duration, verbose, yes bool) error {
	logOpts := []logger.Option{logger.WithWriter(os.Stderr), logger.WithName("timeline")}
	if verbose {
		logOpts = append(logOpts, logger.WithLevel(slog.LevelDebug))
	}
	log := logger.New(logOpts...)

	batch := content.DirBatch(contentDir)
	if baseURL != "" {
		batch = content.URLBatch(baseURL)
	}

	pipe, err := pipeline.New(
		pipeline.WithBatch(batch),
		pipeline.WithLogger(log),
		pipeline.WithRetryPolicy(attempts, 0),
		pipeline.WithReadyTimeout(readyTimeout),
		pipeline.WithTheme(themeName, variant),
	)
	if err != nil {
		return err
	}

	err = pipe.Run(ctx)
	for err != nil {
		var failure *pipeline.Failure
		if errors.As(err, &failure) {
			fmt.Fprintln(os.Stderr, failure.Message)
		}
		if yes || !interactive() {
			return err
		}

		retry, perr := confirmRetry()
		if perr != nil {
			if errors.Is(perr, terminal.InterruptErr) {
				return nil
			}
			return perr
		}
		if !retry {
			return err
		}
		// Retry requires the failed state the pass above left behind.
		err = pipe.Retry(ctx)
	}

	page, ok := pipe.Page()
	if !ok {
		return errors.New("pipeline finished without an assembled page")
	}
	if err := os.WriteFile(out, page, 0o644); err != nil {
		return fmt.Errorf("write page: %w", err)
	}

	status := pipe.Status()
	if !status.Composites.OK() {
		fmt.Fprintln(os.Stderr, "warning: some sections degraded; see the page for inline diagnostics")
	}
	fmt.Printf("Timeline written to %s\n", out)
	return nil
}

func confirmRetry() (bool, error) {
	retry := false
	prompt := &survey.Confirm{
		Message: "The pass failed. Retry from scratch?",
		Default: true,
	}
	if err := survey.AskOne(prompt, &retry); err != nil {
		return false, err
	}
	return retry, nil
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
