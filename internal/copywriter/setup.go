package copywriter

import (
	"fmt"
	"log/slog"

	"spotvoice/internal/chat"
	"spotvoice/internal/config"
	"spotvoice/internal/tinker"
	"spotvoice/internal/transport"
	"spotvoice/internal/voice"
)

// Setup wires a Service to the checkpoint in cfg using the named voice profile.
// cfg must already pass Validate.
func Setup(cfg config.Config, profileName string, logger *slog.Logger) (*Service, error) {
	catalog, err := voice.LoadCatalog(cfg.ProfilesPath)
	if err != nil {
		return nil, err
	}
	profile, err := catalog.Get(profileName)
	if err != nil {
		return nil, err
	}

	httpClient := transport.NewAuthorizedClient(cfg.RequestTimeout, cfg.Tinker.APIKey)
	service, err := tinker.NewServiceClient(cfg.Tinker, httpClient, logger)
	if err != nil {
		return nil, fmt.Errorf("tinker client: %w", err)
	}
	sampling, err := service.CreateSamplingClient(cfg.Tinker.Checkpoint)
	if err != nil {
		return nil, err
	}

	return NewService(Config{
		Sampler: NewTinkerSampler(sampling, chat.Llama3Renderer{}),
		Profile: profile,
		Lint:    cfg.Lint,
		Logger:  logger,
	}), nil
}
