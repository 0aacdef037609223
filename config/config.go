package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"durian-grader/internal/domain/entity"
)

type Config struct {
	TelegramToken string          `yaml:"telegram_token"`
	Segmenter     SegmenterConfig `yaml:"segmenter"`
	Grading       GradingConfig   `yaml:"grading"`
	Rendering     RenderingConfig `yaml:"rendering"`
}

// SegmenterConfig адрес и параметры сервиса сегментации
type SegmenterConfig struct {
	URL            string  `yaml:"url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	MinConfidence  float64 `yaml:"min_confidence"`
}

// GradingConfig параметры оценки
type GradingConfig struct {
	Policy              string         `yaml:"policy"`
	Adj                 int            `yaml:"adj"`
	DistanceThreshold   int            `yaml:"distance_threshold"`
	PercentageThreshold float64        `yaml:"percentage_threshold"`
	Split               string         `yaml:"split"`
	Fullness            string         `yaml:"fullness"`
	Table               string         `yaml:"table"`
	Scores              map[string]int `yaml:"scores"` // Full/Half/Empty
	Workers             int            `yaml:"workers"`
}

// RenderingConfig параметры отрисовки разметки
type RenderingConfig struct {
	LineThickness int     `yaml:"line_thickness"`
	PointSize     int     `yaml:"point_size"`
	Alpha         float64 `yaml:"alpha"`
}

// Load собирает конфигурацию: .env, затем YAML-файл, затем переменные окружения
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := defaults()

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}

	// Переменные окружения важнее файла
	var errs []error
	envOverride(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	envOverride(&cfg.Segmenter.URL, "SEGMENTER_URL")
	errs = append(errs,
		envOverrideInt(&cfg.Segmenter.TimeoutSeconds, "SEGMENTER_TIMEOUT_SECONDS"),
		envOverrideFloat(&cfg.Segmenter.MinConfidence, "SEGMENTER_MIN_CONFIDENCE"),
	)
	envOverride(&cfg.Grading.Policy, "GRADING_POLICY")
	envOverride(&cfg.Grading.Split, "GRADING_SPLIT")
	envOverride(&cfg.Grading.Fullness, "GRADING_FULLNESS")
	envOverride(&cfg.Grading.Table, "GRADING_TABLE")
	errs = append(errs,
		envOverrideInt(&cfg.Grading.Adj, "GRADING_ADJ"),
		envOverrideInt(&cfg.Grading.DistanceThreshold, "GRADING_DISTANCE_THRESHOLD"),
		envOverrideFloat(&cfg.Grading.PercentageThreshold, "GRADING_PERCENTAGE_THRESHOLD"),
		envOverrideInt(&cfg.Grading.Workers, "GRADING_WORKERS"),
	)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if _, err := cfg.GradeConfiguration(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	def := entity.DefaultGradeConfiguration()
	return &Config{
		Segmenter: SegmenterConfig{
			URL:            "http://localhost:8000/segment",
			TimeoutSeconds: 30,
			MinConfidence:  0.5,
		},
		Grading: GradingConfig{
			Policy:              string(def.Policy),
			Adj:                 def.EdgeBandPx,
			DistanceThreshold:   def.DistanceThreshold,
			PercentageThreshold: def.PercentageThreshold,
			Split:               string(def.Split),
			Fullness:            string(def.Fullness),
			Table:               string(def.Table),
		},
		Rendering: RenderingConfig{
			LineThickness: 1,
			PointSize:     3,
			Alpha:         0.5,
		},
	}
}

// GradeConfiguration переводит секцию grading в параметры движка и проверяет их
func (c *Config) GradeConfiguration() (entity.GradeConfiguration, error) {
	g := c.Grading
	gc := entity.GradeConfiguration{
		Policy:              entity.Policy(strings.ToLower(g.Policy)),
		EdgeBandPx:          g.Adj,
		DistanceThreshold:   g.DistanceThreshold,
		PercentageThreshold: g.PercentageThreshold,
		Split:               entity.SplitMode(strings.ToLower(g.Split)),
		Fullness:            entity.FullnessVariant(strings.ToLower(g.Fullness)),
		Table:               entity.GradeTable(strings.ToLower(g.Table)),
		ScoreTable:          entity.DefaultScoreTable(),
	}
	for name, score := range g.Scores {
		status, ok := parseStatus(name)
		if !ok {
			return gc, fmt.Errorf("%w: unknown status %q in scores", entity.ErrInvalidConfiguration, name)
		}
		gc.ScoreTable[status] = score
	}
	return gc, gc.Validate()
}

func parseStatus(name string) (entity.SideStatus, bool) {
	for _, s := range []entity.SideStatus{entity.StatusFull, entity.StatusHalf, entity.StatusEmpty} {
		if strings.EqualFold(name, string(s)) {
			return s, true
		}
	}
	return "", false
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envKey, val, err)
	}
	*field = parsed
	return nil
}

func envOverrideFloat(field *float64, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", envKey, val, err)
	}
	*field = parsed
	return nil
}
