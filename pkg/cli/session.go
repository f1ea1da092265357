package cli

import (
	"os"

	"github.com/DeBrosOfficial/cable/pkg/actioncable"
	"github.com/DeBrosOfficial/cable/pkg/config"
	"github.com/DeBrosOfficial/cable/pkg/contracts"
	"github.com/DeBrosOfficial/cable/pkg/errors"
	"github.com/DeBrosOfficial/cable/pkg/logging"
	"github.com/DeBrosOfficial/cable/pkg/socket"
	"go.uber.org/zap"
)

// ConfigFile is looked up in config.ConfigDir when -c is not given.
const ConfigFile = "cable.yaml"

// Session is a registry wired to a cable connection, built the way an
// application would build it.
type Session struct {
	Config   *config.Config
	Logger   *logging.ColoredLogger
	Consumer *actioncable.Consumer
	Registry *socket.Registry
}

// LoadConfig reads the config file named by opts, or the default file when it
// exists, and applies the environment on top.
func LoadConfig(opts GlobalOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()

	path := opts.ConfigPath
	if path == "" {
		if p, err := config.DefaultPath(ConfigFile); err == nil {
			if _, statErr := os.Stat(p); statErr == nil {
				path = p
			}
		}
	}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// NewSession validates cfg and builds the logger, consumer and registry.
func NewSession(cfg *config.Config) (*Session, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errors.NewValidationError("config", errs[0].Error(), len(errs))
	}

	logger, err := logging.NewConfiguredLogger(logging.ComponentCLI,
		cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputFile, true)
	if err != nil {
		return nil, err
	}

	hosts, err := cfg.Hosts()
	if err != nil {
		return nil, errors.NewValidationError("app_url", err.Error(), cfg.AppURL)
	}

	opts := append(actioncable.OptionsFromConfig(cfg.Transport, hosts.RESTHost), actioncable.WithLogger(logger))
	consumer := actioncable.NewConsumer(hosts.SocketHost, opts...)

	logger.ComponentDebug(logging.ComponentCLI, "session ready",
		zap.String("rest_host", hosts.RESTHost),
		zap.String("socket_host", hosts.SocketHost))

	return &Session{
		Config:   cfg,
		Logger:   logger,
		Consumer: consumer,
		Registry: socket.NewRegistry(consumer, logger),
	}, nil
}

// Close drops the cable connection.
func (s *Session) Close() {
	s.Consumer.Disconnect()
	_ = s.Logger.Sync()
}

// staticParams returns a ParamsFunc that adds the identity under "id" and the
// fixed params given with -p.
func staticParams(fixed map[string]string) socket.ParamsFunc {
	return func(id socket.Identity) contracts.Params {
		params := contracts.Params{"id": string(id)}
		for k, v := range fixed {
			params[k] = v
		}
		return params
	}
}
