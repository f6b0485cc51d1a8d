package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the terminal client's settings.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	GelfAddr string
	CAFile   string
	Progress bool
	Log      *log.Logger
}

// Load reads a .env file from the working directory if there is one, then
// the environment. Variables already set in the environment win over .env.
func Load() Config {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file path.
func LoadFile(path string) Config {
	logger := log.New(os.Stderr, "[ascii-form] ", log.LstdFlags|log.Lshortfile)

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Printf("Warning: could not read %s: %v", path, err)
	}

	var timeout time.Duration
	if raw := strings.TrimSpace(os.Getenv("ASCII_HTTP_TIMEOUT")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			logger.Printf("Warning: ignoring ASCII_HTTP_TIMEOUT=%q: %v", raw, err)
		} else {
			timeout = parsed
		}
	}

	return Config{
		BaseURL:  strings.TrimRight(envOrDefault("ASCII_BASE_URL", "http://127.0.0.1:8080"), "/"),
		Timeout:  timeout,
		GelfAddr: strings.TrimSpace(os.Getenv("ASCII_GELF_ADDR")),
		CAFile:   strings.TrimSpace(os.Getenv("ASCII_CA_FILE")),
		Progress: !strings.EqualFold(strings.TrimSpace(os.Getenv("ASCII_PROGRESS")), "false"),
		Log:      logger,
	}
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
