package main

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Vovarama1992/auv-mission-bridge/internal/ai"
	"github.com/Vovarama1992/auv-mission-bridge/internal/config"
	"github.com/Vovarama1992/auv-mission-bridge/internal/defaults"
	"github.com/Vovarama1992/auv-mission-bridge/internal/logging"
	"github.com/Vovarama1992/auv-mission-bridge/internal/mission"
	"github.com/Vovarama1992/auv-mission-bridge/internal/telemetry"
)

// pipeline is everything the subcommands share.
type pipeline struct {
	cfg     *config.Config
	log     *logrus.Logger
	store   *defaults.Store
	holder  *defaults.Holder
	service *mission.Service
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	var cfg *config.Config
	if envFile != "" {
		cfg = config.Load(envFile)
	} else {
		cfg = config.Load()
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Structured)
	if err := cfg.Validate(); err != nil {
		return nil, log, err
	}
	return cfg, log, nil
}

// buildPipeline loads the default document and wires the generation service.
// A default file that cannot be loaded is fatal.
func buildPipeline(cfg *config.Config, log *logrus.Logger, extra ...telemetry.Observer) (*pipeline, error) {
	store := defaults.NewStore(cfg.Defaults.Path)
	initial, err := store.LoadOrCreate()
	if err != nil {
		var loadErr *defaults.ConfigLoadError
		if errors.As(err, &loadErr) {
			log.WithError(err).Fatal("Default configuration is unusable")
		}
		return nil, err
	}

	holder, err := defaults.NewHolder(initial, store)
	if err != nil {
		return nil, err
	}

	observer := telemetry.Multi{telemetry.NewLogObserver(log)}
	observer = append(observer, extra...)

	client, err := ai.NewOpenAIClient(cfg.AI(), observer)
	if err != nil {
		return nil, err
	}

	svc := mission.NewService(client, holder,
		mission.WithTimeout(cfg.Inference.Timeout),
		mission.WithObserver(observer),
	)

	log.WithFields(logrus.Fields{
		"defaults": store.Path(),
		"model":    cfg.Inference.Model,
	}).Debug("Pipeline ready")

	return &pipeline{cfg: cfg, log: log, store: store, holder: holder, service: svc}, nil
}
