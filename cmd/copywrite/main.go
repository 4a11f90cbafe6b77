// Command copywrite rewrites a piece of product copy in the Spot voice.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"spotvoice/internal/config"
	"spotvoice/internal/console"
	"spotvoice/internal/copywriter"
	"spotvoice/internal/logging"
	"spotvoice/internal/voice"
)

const usage = `Usage: copywrite "Your input copy here"`

func main() {
	os.Exit(run())
}

func run() int {
	n := flag.Int("n", copywriter.DefaultVariations, "number of variations")
	checkpoint := flag.String("checkpoint", "", "sampler checkpoint (tinker://...), overrides SPOT_CHECKPOINT")
	envPath := flag.String("env", ".env", "path to .env file")
	lint := flag.Bool("lint", false, "print voice rule violations under each option")
	logLevel := flag.String("log-level", "warn", "log level for stderr")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, usage)
		return 1
	}
	input := flag.Arg(0)
	if *n < 1 {
		fmt.Fprintln(os.Stderr, "-n must be at least 1")
		return 1
	}

	logger := logging.NewText(os.Stderr, *logLevel)
	out := console.New(os.Stdout)

	if err := config.LoadDotEnv(*envPath); err != nil {
		out.Error(err.Error())
		return 1
	}
	cfg, err := config.Load()
	if err != nil {
		out.Error(err.Error())
		return 1
	}
	if *checkpoint != "" {
		cfg.Tinker.Checkpoint = *checkpoint
	}
	cfg.Lint = cfg.Lint || *lint
	if err := cfg.Validate(); err != nil {
		out.ConfigError(err)
		return 1
	}

	writer, err := copywriter.Setup(cfg, voice.ProfileCopywrite, logger)
	if err != nil {
		out.Error(err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out.CopyHeader(input)
	err = writer.WriteEach(ctx, input, *n, func(v copywriter.Variation) error {
		out.CopyVariation(v)
		return nil
	})
	if err != nil {
		out.Error(err.Error())
		return 1
	}
	out.CopyFooter()
	return 0
}
