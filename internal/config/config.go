package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Buchenkov/PlanBoard/internal/domain"
	"github.com/Buchenkov/PlanBoard/internal/schedule"
	toml "github.com/pelletier/go-toml/v2"
)

// Theme names accepted by ui.theme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	UI       UIConfig       `toml:"ui"`
	Schedule ScheduleConfig `toml:"schedule"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

// DevFileConfig controls the dev-mode log file sink.
type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type UIConfig struct {
	Theme          string `toml:"theme"`
	ConfirmDelete  bool   `toml:"confirm_delete"`
	ConfirmPastDue bool   `toml:"confirm_past_due"`
	DefaultFilter  string `toml:"default_filter"`
	MaxRowLines    int    `toml:"max_row_lines"` // 1 disables wrapping
}

type ScheduleConfig struct {
	DayRollover string `toml:"day_rollover"` // HH:MM, local time
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".planboard/log",
			},
		},
		UI: UIConfig{
			Theme:          ThemeDark,
			ConfirmDelete:  true,
			ConfirmPastDue: true,
			DefaultFilter:  string(domain.StatusAll),
			MaxRowLines:    3,
		},
		Schedule: ScheduleConfig{
			DayRollover: "00:00",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	switch strings.TrimSpace(strings.ToLower(c.UI.Theme)) {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("invalid ui.theme: %q", c.UI.Theme)
	}
	if _, err := domain.ParseStatusMode(c.UI.DefaultFilter); err != nil {
		return fmt.Errorf("invalid ui.default_filter: %w", err)
	}
	if c.UI.MaxRowLines < 1 {
		return fmt.Errorf("ui.max_row_lines must be >= 1, got %d", c.UI.MaxRowLines)
	}

	if _, err := schedule.DailySpec(c.Schedule.DayRollover); err != nil {
		return fmt.Errorf("invalid schedule.day_rollover: %w", err)
	}
	return nil
}

// DefaultFilterMode returns the parsed ui.default_filter, or all.
func (c Config) DefaultFilterMode() domain.StatusMode {
	mode, err := domain.ParseStatusMode(c.UI.DefaultFilter)
	if err != nil {
		return domain.StatusAll
	}
	return mode
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
