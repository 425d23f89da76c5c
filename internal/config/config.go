// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

// Package config loads and validates the swapops configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Process environment variables (see the mapping table in koanf.go)
//   - The project environment file (.env), sourced into the process
//     environment before the environment layer is read
//   - Optional YAML config file (config.yaml or /etc/swapops/config.yaml)
//   - Built-in defaults
//
// The environment file carries the same key set the web application itself
// consumes (DB_HOST, DB_USER, DB_NAME, REDIS_URL, ...), so swapops and the
// application it operates always agree on credentials and endpoints.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for all swapops commands.
type Config struct {
	Project  ProjectConfig  `koanf:"project"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Web      WebConfig      `koanf:"web"`
	Worker   WorkerConfig   `koanf:"worker"`
	Backup   BackupConfig   `koanf:"backup"`
	Deploy   DeployConfig   `koanf:"deploy"`
	Setup    SetupConfig    `koanf:"setup"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ProjectConfig locates the web application checkout swapops operates on.
type ProjectConfig struct {
	// Root is the application checkout directory. manage.py, the env file
	// and the requirements file are resolved relative to it.
	Root string `koanf:"root" validate:"required"`

	// VenvDir is the virtualenv directory created by bootstrap.
	VenvDir string `koanf:"venv_dir" validate:"required"`

	// PythonBin is the system interpreter used to create the virtualenv
	// and to verify the minimum runtime version.
	PythonBin string `koanf:"python_bin" validate:"required"`

	// RequirementsFile is the pinned dependency manifest.
	RequirementsFile string `koanf:"requirements_file" validate:"required"`

	// EnvFile is the environment file sourced before setup and launch.
	EnvFile string `koanf:"env_file" validate:"required"`

	// EnvTemplate is copied to EnvFile when the latter is missing.
	EnvTemplate string `koanf:"env_template" validate:"required"`
}

// ManagePy returns the path to the application's management entry point.
func (p ProjectConfig) ManagePy() string {
	return filepath.Join(p.Root, "manage.py")
}

// VenvPython returns the virtualenv interpreter path.
func (p ProjectConfig) VenvPython() string {
	return filepath.Join(p.VenvDir, "bin", "python")
}

// VenvPip returns the virtualenv pip path.
func (p ProjectConfig) VenvPip() string {
	return filepath.Join(p.VenvDir, "bin", "pip")
}

// DatabaseConfig holds PostgreSQL connection settings. The field set mirrors
// the application's production settings so the same env file drives both.
type DatabaseConfig struct {
	Host     string `koanf:"host" validate:"required"`
	Port     int    `koanf:"port" validate:"min=1,max=65535"`
	Name     string `koanf:"name" validate:"required"`
	User     string `koanf:"user" validate:"required"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"ssl_mode" validate:"oneof=disable require verify-ca verify-full"`

	// ConnectTimeout bounds the connectivity preflight before a dump.
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// DSN returns a lib/pq connection string for the configured database.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s connect_timeout=%d",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, int(d.ConnectTimeout.Seconds()))
}

// RedisConfig holds the cache/broker settings.
type RedisConfig struct {
	// URL is the broker URL the application and the task queue consume.
	URL string `koanf:"url" validate:"required,uri"`

	// ServerBin is the broker daemon started by the launcher.
	ServerBin string `koanf:"server_bin" validate:"required"`

	// CLIBin is used for health probes (PING).
	CLIBin string `koanf:"cli_bin" validate:"required"`
}

// Port extracts the port from the broker URL, defaulting to 6379.
func (r RedisConfig) Port() string {
	u, err := url.Parse(r.URL)
	if err != nil || u.Port() == "" {
		return "6379"
	}
	return u.Port()
}

// WebConfig holds the web server process settings.
type WebConfig struct {
	// Bin is the WSGI server executable, resolved inside the virtualenv
	// when not absolute.
	Bin string `koanf:"bin" validate:"required"`

	// Module is the WSGI application module.
	Module string `koanf:"module" validate:"required"`

	// Host and Port form the bind address. The launcher binds all
	// interfaces by default, matching the application's deployment.
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	// Workers is the WSGI worker count.
	Workers int `koanf:"workers" validate:"min=1"`
}

// Bind returns the host:port bind address.
func (w WebConfig) Bind() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// WorkerConfig holds task queue worker and scheduler settings.
type WorkerConfig struct {
	// Bin is the task queue executable (celery), resolved inside the
	// virtualenv when not absolute.
	Bin string `koanf:"bin" validate:"required"`

	// App is the task queue application module (-A flag).
	App string `koanf:"app" validate:"required"`

	// Concurrency is the worker pool size; 0 lets the worker decide.
	Concurrency int `koanf:"concurrency" validate:"min=0"`

	// ScheduleFile is the scheduler's persistent schedule store.
	ScheduleFile string `koanf:"schedule_file" validate:"required"`

	// LogLevel is passed to worker and scheduler processes.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warning error critical"`
}

// BackupConfig holds database backup and rotation settings.
type BackupConfig struct {
	// Dir is the backup directory. Must be absolute.
	Dir string `koanf:"dir" validate:"required"`

	// RetainCount is how many previous backups survive a rotation, in
	// addition to the backup just taken.
	RetainCount int `koanf:"retain_count" validate:"min=1"`

	// CompressionLevel is the gzip level (1-9).
	CompressionLevel int `koanf:"compression_level" validate:"min=1,max=9"`

	// PgDumpBin is the dump utility executable.
	PgDumpBin string `koanf:"pg_dump_bin" validate:"required"`
}

// DeployConfig holds production deploy settings.
type DeployConfig struct {
	// GitBin is the source control executable.
	GitBin string `koanf:"git_bin" validate:"required"`

	// Remote and Branch select what `git pull` fetches.
	Remote string `koanf:"remote" validate:"required"`
	Branch string `koanf:"branch" validate:"required"`

	// Services are the systemd units restarted after a deploy, in order:
	// web server, task worker, task scheduler.
	Services []string `koanf:"services" validate:"min=1,dive,required"`
}

// SetupConfig holds first-run initializer settings.
type SetupConfig struct {
	// ForceInit re-runs ledger initialization even when the ledger already
	// holds blocks. Off by default; re-initialization wipes the chain.
	ForceInit bool `koanf:"force_init"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults mirror the
// application's production settings (settings_production.py key for key).
func defaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Root:             "/opt/moneyswap",
			VenvDir:          "/opt/moneyswap/venv",
			PythonBin:        "python3",
			RequirementsFile: "/opt/moneyswap/requirements.txt",
			EnvFile:          "/opt/moneyswap/.env",
			EnvTemplate:      "/opt/moneyswap/.env.example",
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			Name:           "moneyswap",
			User:           "moneyswap_user",
			Password:       "",
			SSLMode:        "disable",
			ConnectTimeout: 10 * time.Second,
		},
		Redis: RedisConfig{
			URL:       "redis://localhost:6379/0",
			ServerBin: "redis-server",
			CLIBin:    "redis-cli",
		},
		Web: WebConfig{
			Bin:     "gunicorn",
			Module:  "money_swapv2.wsgi:application",
			Host:    "0.0.0.0",
			Port:    8000,
			Workers: 3,
		},
		Worker: WorkerConfig{
			Bin:          "celery",
			App:          "money_swapv2",
			Concurrency:  0,
			ScheduleFile: "/var/lib/moneyswap/celerybeat-schedule",
			LogLevel:     "info",
		},
		Backup: BackupConfig{
			Dir:              "/var/backups/moneyswap",
			RetainCount:      7,
			CompressionLevel: 6,
			PgDumpBin:        "pg_dump",
		},
		Deploy: DeployConfig{
			GitBin:   "git",
			Remote:   "origin",
			Branch:   "main",
			Services: []string{"gunicorn", "celery", "celerybeat"},
		},
		Setup: SetupConfig{
			ForceInit: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Validate checks the configuration for structural and cross-field errors.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !filepath.IsAbs(c.Backup.Dir) {
		return fmt.Errorf("backup.dir must be an absolute path, got: %s", c.Backup.Dir)
	}
	if !filepath.IsAbs(c.Project.Root) {
		return fmt.Errorf("project.root must be an absolute path, got: %s", c.Project.Root)
	}
	if c.Project.EnvFile == c.Project.EnvTemplate {
		return fmt.Errorf("project.env_file and project.env_template must differ")
	}
	return nil
}
