package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultThreshold is the mid-range intensity used to binarize 8-bit grayscale images.
const DefaultThreshold = 150

// Config is the construction-time configuration of the conversion pipeline
// and the glue around it (CLI, HTTP server, storage).
type Config struct {
	Threshold   int         `yaml:"threshold"`
	Segmenter   string      `yaml:"segmenter"`
	PDFDPI      int         `yaml:"pdf_dpi"`
	Recognition Recognition `yaml:"recognition"`
	Storage     Storage     `yaml:"storage"`
	Server      Server      `yaml:"server"`
	LogLevel    string      `yaml:"log_level"`
	MaxPixels   int64       `yaml:"max_pixels"` // 0 = derive from free memory
}

// Recognition selects and tunes the text-recognition engine.
type Recognition struct {
	Engine    string   `yaml:"engine"` // tesseract, gosseract, none
	Binary    string   `yaml:"binary"`
	Languages []string `yaml:"languages"`
	PSM       int      `yaml:"psm"`
	DPI       int      `yaml:"dpi"`
}

// Storage selects where uploads and generated documents are kept.
type Storage struct {
	Backend string `yaml:"backend"` // local, s3
	Dir     string `yaml:"dir"`
	Bucket  string `yaml:"bucket"`
	Region  string `yaml:"region"`
	Prefix  string `yaml:"prefix"`
}

// Server configures the HTTP upload endpoint.
type Server struct {
	Addr           string   `yaml:"addr"`
	MaxUploadMB    int      `yaml:"max_upload_mb"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns a config with sensible defaults.
func Default() Config {
	return Config{
		Threshold: DefaultThreshold,
		Segmenter: "threshold",
		PDFDPI:    96,
		Recognition: Recognition{
			Engine:    "tesseract",
			Binary:    "tesseract",
			Languages: []string{"eng"},
			PSM:       3,
		},
		Storage: Storage{
			Backend: "local",
			Dir:     "output",
			Region:  "us-east-1",
		},
		Server: Server{
			Addr:           ":8080",
			MaxUploadMB:    20,
			AllowedOrigins: []string{"*"},
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file on top of Default. An empty path yields the defaults.
// Unknown keys are rejected so that typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment. A .env file in the working
// directory is loaded first when present.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	c.Threshold = getEnvInt("SKETCH2HTML_THRESHOLD", c.Threshold)
	c.Segmenter = getEnv("SKETCH2HTML_SEGMENTER", c.Segmenter)
	c.PDFDPI = getEnvInt("SKETCH2HTML_PDF_DPI", c.PDFDPI)
	c.Recognition.Engine = getEnv("SKETCH2HTML_ENGINE", c.Recognition.Engine)
	c.Recognition.Binary = getEnv("SKETCH2HTML_TESSERACT", c.Recognition.Binary)
	if langs := getEnv("SKETCH2HTML_LANGS", ""); langs != "" {
		c.Recognition.Languages = strings.Split(langs, "+")
	}
	c.Storage.Backend = getEnv("SKETCH2HTML_STORAGE", c.Storage.Backend)
	c.Storage.Dir = getEnv("SKETCH2HTML_STORAGE_DIR", c.Storage.Dir)
	c.Storage.Bucket = getEnv("SKETCH2HTML_BUCKET", c.Storage.Bucket)
	c.Storage.Region = getEnv("AWS_REGION", c.Storage.Region)
	c.Server.Addr = getEnv("SKETCH2HTML_ADDR", c.Server.Addr)
	c.LogLevel = getEnv("SKETCH2HTML_LOG_LEVEL", c.LogLevel)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Threshold < 1 || c.Threshold > 255 {
		return fmt.Errorf("threshold %d out of range 1..255", c.Threshold)
	}
	if c.PDFDPI <= 0 {
		return fmt.Errorf("pdf_dpi must be positive, got %d", c.PDFDPI)
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("max_pixels must not be negative, got %d", c.MaxPixels)
	}
	switch c.Segmenter {
	case "threshold", "gocv":
	default:
		return fmt.Errorf("unknown segmenter: %q", c.Segmenter)
	}
	switch c.Recognition.Engine {
	case "tesseract", "gosseract", "none":
	default:
		return fmt.Errorf("unknown recognition engine: %q", c.Recognition.Engine)
	}
	switch c.Storage.Backend {
	case "local":
		if c.Storage.Dir == "" {
			return errors.New("storage.dir is required for the local backend")
		}
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("storage.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
