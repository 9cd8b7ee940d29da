// Package config resolves server settings from .env, SURVEY_* variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/soaringjerry/avatar-survey/internal/services"
	"github.com/soaringjerry/avatar-survey/internal/utils"
)

type Config struct {
	Addr          string
	DBPath        string
	MigrationsDir string
	StaticDir     string

	SurveyExportPath    string
	UserStudyExportPath string
	ExportInterval      time.Duration
	ExportCron          string
	ExportOnce          bool

	LogLevel  string
	LogFormat string

	AdminPassword string
	JWTSecret     string
	CORSOrigins   []string
	VideoURLs     []string
	SeedDemo      bool

	Commit    string
	BuildTime string
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		Addr:                ":7860",
		DBPath:              "./survey.db",
		SurveyExportPath:    "./survey.csv",
		UserStudyExportPath: "./user_study.csv",
		ExportInterval:      60 * time.Second,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// Load reads an optional .env file, then the environment, then args (without
// the program name).
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "load .env")
	}
	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyFlags(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// FromEnv overlays SURVEY_* variables on Defaults.
func FromEnv() (Config, error) {
	d := Defaults()
	cfg := Config{
		Addr:                utils.SafeEnv("SURVEY_ADDR", d.Addr),
		DBPath:              utils.SafeEnv("SURVEY_DB_PATH", d.DBPath),
		MigrationsDir:       os.Getenv("SURVEY_MIGRATIONS_DIR"),
		StaticDir:           os.Getenv("SURVEY_STATIC_DIR"),
		SurveyExportPath:    utils.SafeEnv("SURVEY_EXPORT_PATH", d.SurveyExportPath),
		UserStudyExportPath: utils.SafeEnv("SURVEY_USER_STUDY_EXPORT_PATH", d.UserStudyExportPath),
		ExportCron:          os.Getenv("SURVEY_EXPORT_CRON"),
		LogLevel:            utils.SafeEnv("SURVEY_LOG_LEVEL", d.LogLevel),
		LogFormat:           utils.SafeEnv("SURVEY_LOG_FORMAT", d.LogFormat),
		AdminPassword:       os.Getenv("SURVEY_ADMIN_PASSWORD"),
		JWTSecret:           os.Getenv("SURVEY_JWT_SECRET"),
		CORSOrigins:         utils.ListEnv("SURVEY_CORS_ORIGINS", nil),
		VideoURLs:           utils.ListEnv("SURVEY_VIDEO_URLS", nil),
		Commit:              os.Getenv("SURVEY_COMMIT"),
		BuildTime:           os.Getenv("SURVEY_BUILD_TIME"),
	}
	var err error
	if cfg.ExportInterval, err = utils.DurationEnv("SURVEY_EXPORT_INTERVAL", d.ExportInterval); err != nil {
		return Config{}, err
	}
	if cfg.SeedDemo, err = utils.BoolEnv("SURVEY_SEED_DEMO", false); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyFlags parses command-line overrides into c.
func (c *Config) ApplyFlags(args []string) error {
	fs := pflag.NewFlagSet("avatar-survey", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database file")
	fs.DurationVar(&c.ExportInterval, "export-interval", c.ExportInterval, "CSV export period")
	fs.StringVar(&c.ExportCron, "export-cron", c.ExportCron, "cron expression for CSV exports (overrides --export-interval)")
	fs.BoolVar(&c.SeedDemo, "seed-demo", c.SeedDemo, "insert demo surveys into an empty database")
	fs.BoolVar(&c.ExportOnce, "export-once", c.ExportOnce, "write the CSV exports once and exit")
	return errors.Wrap(fs.Parse(args), "parse flags")
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("database path must not be empty")
	}
	if c.ExportCron == "" && c.ExportInterval <= 0 {
		return errors.Newf("export interval must be positive, got %s", c.ExportInterval)
	}
	if _, err := c.Schedule(); err != nil {
		return err
	}
	if _, err := utils.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Schedule is the export schedule: the cron expression when set, otherwise
// the fixed interval.
func (c Config) Schedule() (services.Schedule, error) {
	if c.ExportCron != "" {
		return services.NewCronSchedule(c.ExportCron)
	}
	return services.IntervalSchedule(c.ExportInterval), nil
}

// ExportTargets lists the files each export tick overwrites.
func (c Config) ExportTargets() []services.ExportTarget {
	return []services.ExportTarget{
		{Table: services.TableSurvey, Path: c.SurveyExportPath},
		{Table: services.TableUserStudy, Path: c.UserStudyExportPath},
	}
}
