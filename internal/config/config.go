package config

import (
	"os"
	"path/filepath"
	"strconv"

	"fogstudy/adapters/chart"
)

// Config represents the complete application configuration
type Config struct {
	Data   DataConfig
	Server ServerConfig
	Report ReportConfig
	Chart  chart.Style
}

// DataConfig holds the locations of the study's metadata tables
type DataConfig struct {
	Dir         string
	Subjects    string
	Events      string
	Tasks       string
	TDCSFoG     string
	DeFOG       string
	DailyLiving string
}

// ServerConfig holds exploration server settings
type ServerConfig struct {
	Port       string
	SampleSeed int64
}

// ReportConfig holds report generation settings
type ReportConfig struct {
	OutputDir string
}

// Load reads configuration from environment variables. Every value has a
// default; table paths resolve relative to FOG_DATA_DIR unless absolute.
func Load() (*Config, error) {
	dataDir := getEnvOrDefault("FOG_DATA_DIR", "data")

	config := &Config{
		Data: DataConfig{
			Dir:         dataDir,
			Subjects:    dataPath(dataDir, "FOG_SUBJECTS_FILE", "subjects.csv"),
			Events:      dataPath(dataDir, "FOG_EVENTS_FILE", "events.csv"),
			Tasks:       dataPath(dataDir, "FOG_TASKS_FILE", "tasks.csv"),
			TDCSFoG:     dataPath(dataDir, "FOG_TDCSFOG_FILE", "tdcsfog_metadata.csv"),
			DeFOG:       dataPath(dataDir, "FOG_DEFOG_FILE", "defog_metadata.csv"),
			DailyLiving: dataPath(dataDir, "FOG_DAILY_FILE", "daily_metadata.csv"),
		},
		Server: ServerConfig{
			Port:       getEnvOrDefault("PORT", "8080"),
			SampleSeed: getEnvInt64OrDefault("FOG_SAMPLE_SEED", 55),
		},
		Report: ReportConfig{
			OutputDir: getEnvOrDefault("FOG_REPORT_DIR", "reports"),
		},
		Chart: chart.Style{
			Palette:   getEnvOrDefault("FOG_CHART_PALETTE", "Blues_r"),
			FigWidth:  getEnvFloatOrDefault("FOG_CHART_WIDTH", 12),
			FigHeight: getEnvFloatOrDefault("FOG_CHART_HEIGHT", 3),
		},
	}

	return config, nil
}

func dataPath(dataDir, key, defaultName string) string {
	value := getEnvOrDefault(key, defaultName)
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(dataDir, value)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
