// Command voicetest runs a voice profile's fixed prompts against a checkpoint.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"spotvoice/internal/config"
	"spotvoice/internal/console"
	"spotvoice/internal/copywriter"
	"spotvoice/internal/logging"
	"spotvoice/internal/voice"
)

func main() {
	os.Exit(run())
}

func run() int {
	checkpoint := flag.String("checkpoint", "", "sampler checkpoint (tinker://...), overrides SPOT_CHECKPOINT")
	envPath := flag.String("env", ".env", "path to .env file")
	profileName := flag.String("profile", voice.ProfileEditorial, "voice profile to test")
	logLevel := flag.String("log-level", "warn", "log level for stderr")
	flag.Parse()

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
	if err := cfg.Validate(); err != nil {
		out.ConfigError(err)
		return 1
	}

	out.ModelLoading()
	writer, err := copywriter.Setup(cfg, *profileName, logger)
	if err != nil {
		out.Error(err.Error())
		return 1
	}
	out.ModelLoaded()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for _, prompt := range writer.Profile().Prompts {
		out.VoicePrompt(prompt)
		response, err := writer.Generate(ctx, prompt)
		if err != nil {
			out.Error(err.Error())
			return 1
		}
		out.VoiceResponse(response)
	}

	out.VoiceDone()
	return 0
}
