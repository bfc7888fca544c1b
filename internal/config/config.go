package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"aimtrainer/internal/options"
)

type Config struct {
	Port           string
	DatabaseURL    string
	NATSURL        string
	RoundDuration  int // seconds, default session duration
	FrameHz        int
	BroadcastEvery int // frames between snapshot broadcasts
	SurfaceWidth   float64
	SurfaceHeight  float64
	LogLevel       log.Level
}

// Load reads the environment, after merging an optional .env file into it.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("ignoring .env", "err", err)
	}

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		NATSURL:        os.Getenv("NATS_URL"),
		RoundDuration:  getEnvInt("ROUND_DURATION", options.DefaultDuration),
		FrameHz:        getEnvInt("FRAME_HZ", 60),
		BroadcastEvery: getEnvInt("BROADCAST_EVERY", 2),
		SurfaceWidth:   getEnvFloat("SURFACE_WIDTH", 1200),
		SurfaceHeight:  getEnvFloat("SURFACE_HEIGHT", 675),
		LogLevel:       log.InfoLevel,
	}
	if lvl, err := log.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		cfg.LogLevel = lvl
	}
	if cfg.FrameHz < 1 {
		cfg.FrameHz = 1
	}
	if cfg.BroadcastEvery < 1 {
		cfg.BroadcastEvery = 1
	}
	return cfg
}

// SessionDefaults are the options a new session starts from.
func (c Config) SessionDefaults() options.Options {
	o := options.Defaults()
	o.Duration = c.RoundDuration
	return o.Normalize()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}
