// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"swapops.yaml",
	"swapops.yml",
	"/etc/swapops/config.yaml",
	"/etc/swapops/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "SWAPOPS_CONFIG"

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values mirroring the application's production settings
//  2. Config File: optional YAML config file (if it exists)
//  3. Environment Variables: override any setting
//
// Callers that source the project env file (setup, launch) must do so before
// calling Load so the env layer sees its keys.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when they arrive as env var strings.
var sliceConfigPaths = []string{
	"deploy.services",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings; the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// The DB_* and REDIS_URL names match what the web application itself reads,
// so a single env file configures both.
//
// Unmapped variables are dropped to keep unrelated environment noise out of
// the configuration.
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		// Project layout
		"PROJECT_ROOT":      "project.root",
		"VENV_DIR":          "project.venv_dir",
		"PYTHON_BIN":        "project.python_bin",
		"REQUIREMENTS_FILE": "project.requirements_file",
		"ENV_FILE":          "project.env_file",
		"ENV_TEMPLATE":      "project.env_template",

		// Database (application-compatible names)
		"DB_HOST":            "database.host",
		"DB_PORT":            "database.port",
		"DB_NAME":            "database.name",
		"DB_USER":            "database.user",
		"DB_PASSWORD":        "database.password",
		"DB_SSL_MODE":        "database.ssl_mode",
		"DB_CONNECT_TIMEOUT": "database.connect_timeout",

		// Cache/broker (application-compatible name)
		"REDIS_URL":        "redis.url",
		"REDIS_SERVER_BIN": "redis.server_bin",
		"REDIS_CLI_BIN":    "redis.cli_bin",

		// Web server
		"WEB_BIN":     "web.bin",
		"WEB_MODULE":  "web.module",
		"HTTP_HOST":   "web.host",
		"HTTP_PORT":   "web.port",
		"WEB_WORKERS": "web.workers",

		// Task queue
		"CELERY_BIN":           "worker.bin",
		"CELERY_APP":           "worker.app",
		"CELERY_CONCURRENCY":   "worker.concurrency",
		"CELERY_SCHEDULE_FILE": "worker.schedule_file",
		"CELERY_LOG_LEVEL":     "worker.log_level",

		// Backup
		"BACKUP_DIR":               "backup.dir",
		"BACKUP_RETAIN_COUNT":      "backup.retain_count",
		"BACKUP_COMPRESSION_LEVEL": "backup.compression_level",
		"PG_DUMP_BIN":              "backup.pg_dump_bin",

		// Deploy
		"GIT_BIN":         "deploy.git_bin",
		"DEPLOY_REMOTE":   "deploy.remote",
		"DEPLOY_BRANCH":   "deploy.branch",
		"DEPLOY_SERVICES": "deploy.services",

		// Setup
		"SETUP_FORCE_INIT": "setup.force_init",

		// Logging
		"LOG_LEVEL":  "logging.level",
		"LOG_FORMAT": "logging.format",
		"LOG_CALLER": "logging.caller",
	}

	if mapped, ok := envMappings[strings.ToUpper(key)]; ok {
		return mapped
	}
	return ""
}
