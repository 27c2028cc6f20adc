package main

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"studypulse/internal/api"
	"studypulse/internal/config"
	"studypulse/internal/logging"
	"studypulse/internal/sessions"
)

type commandContext struct {
	configFlag *string
	addrFlag   *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, addrFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		addrFlag:   addrFlag,
	}
}

// loadDotEnv reads .env from the working directory when present.
func loadDotEnv() {
	_ = godotenv.Load()
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, resolved, _, err := config.Load(c.flagConfigPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) flagConfigPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// apiBaseURL returns the daemon base URL from --addr or the configured bind.
// Wildcard hosts are dialled on loopback.
func (c *commandContext) apiBaseURL() (string, error) {
	addr := ""
	if c.addrFlag != nil {
		addr = strings.TrimSpace(*c.addrFlag)
	}
	if addr == "" {
		cfg, err := c.ensureConfig()
		if err != nil {
			return "", err
		}
		addr = cfg.Paths.APIBind
	}
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimRight(addr, "/"), nil
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("parse api address %q: %w", addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port), nil
}

// withAssistant opens the configured store and runs fn against an Assistant
// using the configured classifier and transcriber.
func (c *commandContext) withAssistant(fn func(*api.Assistant) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger := logging.NewNop()
	opts, err := api.ProvidersFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("configure providers: %w", err)
	}
	store, err := sessions.Open(cfg, sessions.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()
	return fn(api.NewAssistant(store, opts))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
