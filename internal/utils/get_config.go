package utils

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT validation key, shared with the auth provider
	JWTSecret string `yaml:"JWT_SECRET"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Receipt scanning collaborators
	OCRURL        string `yaml:"OCR_URL"`
	OCRTimeout    string `yaml:"OCR_TIMEOUT"`
	OpenAIAPIKey  string `yaml:"OPENAI_API_KEY"`
	OpenAIModel   string `yaml:"OPENAI_MODEL"`
	OpenAIURL     string `yaml:"OPENAI_URL"`
	OpenAITimeout string `yaml:"OPENAI_TIMEOUT"`

	// Image lookup
	ImageLookupURL     string `yaml:"IMAGE_LOOKUP_URL"`
	ImageLookupTimeout string `yaml:"IMAGE_LOOKUP_TIMEOUT"`

	// Reconciliation
	MatchThreshold string `yaml:"MATCH_THRESHOLD"`

	LogLevel string `yaml:"LOG_LEVEL"`
	AppPort  string `yaml:"APP_PORT"`
}

var config Config

// LoadConfig reads config.yaml from the working directory. A missing file is
// not fatal; values can come from the environment instead.
func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}
}

// GetConfig returns the value for key. A non-empty environment variable of
// the same name wins over config.yaml.
func GetConfig(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "OCR_URL":
		return config.OCRURL
	case "OCR_TIMEOUT":
		return config.OCRTimeout
	case "OPENAI_API_KEY":
		return config.OpenAIAPIKey
	case "OPENAI_MODEL":
		return config.OpenAIModel
	case "OPENAI_URL":
		return config.OpenAIURL
	case "OPENAI_TIMEOUT":
		return config.OpenAITimeout
	case "IMAGE_LOOKUP_URL":
		return config.ImageLookupURL
	case "IMAGE_LOOKUP_TIMEOUT":
		return config.ImageLookupTimeout
	case "MATCH_THRESHOLD":
		return config.MatchThreshold
	case "LOG_LEVEL":
		return config.LogLevel
	case "APP_PORT":
		return config.AppPort
	default:
		return ""
	}
}

func GetDurationConfig(key string, fallback time.Duration) time.Duration {
	raw := GetConfig(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("invalid duration for %s: %q, using %s\n", key, raw, fallback)
		return fallback
	}
	return d
}
