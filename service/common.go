package service

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"newsboard/app/config"
	"newsboard/app/logger"
	"newsboard/app/repositories"

	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags "-X newsboard/service.Version=...".
var Version = "dev"

// cli carries the state shared by every command of one invocation.
type cli struct {
	configPath string
	envFile    string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg *config.Config
}

// loadConfig loads the settings once per invocation.
func (c *cli) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	if err := config.LoadEnvFile(c.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *cli) newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(c.stderr, cfg.LogLevel)
}

func (c *cli) openStore(cfg *config.Config) (*repositories.Store, error) {
	store, err := repositories.Open(cfg.Storage.Type, cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database at %s: %w", cfg.Storage.Type, cfg.Storage.DSN, err)
	}
	return store, nil
}

// confirm asks a yes/no question on stdout and reads the answer from stdin.
func (c *cli) confirm(question string) bool {
	fmt.Fprintf(c.stdout, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(c.stdin).ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}
