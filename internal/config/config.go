package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultDescription = "Sin descripción disponible"

type Config struct {
	DBPath    string
	OutputDir string

	MenuAPIBaseURL     string
	MenuAPIEndpoint    string
	MenuAPIToken       string
	MenuAPITimeoutMs   int
	MenuAPIMaxAttempts int
	MenuRateLimitRPS   int

	Locale                  string
	CategoryPriority        []string
	PriorityFile            string
	DefaultDescription      string
	DescriptionPlaceholders []string
	HideOutOfStock          bool

	ListenAddr         string
	CORSAllowOrigins   []string
	RefreshIntervalSec int
	LogLevel           string
}

type priorityFile struct {
	Priority []string `yaml:"priority"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "menu.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		MenuAPIBaseURL:     getEnv("MENU_API_BASE_URL", "http://localhost:3000/api"),
		MenuAPIEndpoint:    getEnv("MENU_API_ENDPOINT", "/menu"),
		MenuAPIToken:       getEnv("MENU_API_TOKEN", ""),
		MenuAPITimeoutMs:   getEnvInt("MENU_API_TIMEOUT_MS", 10000),
		MenuAPIMaxAttempts: getEnvInt("MENU_API_MAX_ATTEMPTS", 1),
		MenuRateLimitRPS:   getEnvInt("MENU_RATE_LIMIT_RPS", 5),

		Locale:                  getEnv("MENU_LOCALE", "es"),
		CategoryPriority:        getEnvList("MENU_CATEGORY_PRIORITY", nil),
		PriorityFile:            getEnv("MENU_PRIORITY_FILE", ""),
		DefaultDescription:      getEnv("MENU_DEFAULT_DESCRIPTION", DefaultDescription),
		DescriptionPlaceholders: getEnvList("MENU_DESCRIPTION_PLACEHOLDERS", []string{DefaultDescription, "No description available"}),
		HideOutOfStock:          getEnvBool("MENU_HIDE_OUT_OF_STOCK", false),

		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		CORSAllowOrigins:   getEnvList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		RefreshIntervalSec: getEnvInt("REFRESH_INTERVAL_SEC", 300),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Require("MENU_API_BASE_URL", cfg.MenuAPIBaseURL); err != nil {
		return Config{}, err
	}
	if err := cfg.Require("MENU_API_ENDPOINT", cfg.MenuAPIEndpoint); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.PriorityFile) != "" {
		priority, err := LoadPriorityFile(cfg.PriorityFile)
		if err != nil {
			return Config{}, err
		}
		// Env list wins over the file when both are set.
		if len(cfg.CategoryPriority) == 0 {
			cfg.CategoryPriority = priority
		}
	}

	return cfg, nil
}

// LoadPriorityFile reads an ordered category list from a YAML document of the
// form `priority: [Waters, Flavored Water]`.
func LoadPriorityFile(path string) ([]string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read priority file: %w", err)
	}
	var doc priorityFile
	if err := yaml.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("parse priority file %s: %w", path, err)
	}
	out := make([]string, 0, len(doc.Priority))
	for _, name := range doc.Priority {
		if name != "" {
			out = append(out, name)
		}
	}
	return out, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

// getEnvList splits a comma separated value. Entries are trimmed of
// surrounding whitespace only; category names keep their case.
func getEnvList(key string, fallback []string) []string {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
