package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	UploadPath string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	CORSAllowedOrigins string

	// Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka Config
	KafkaBrokers       string
	KafkaWorkflowTopic string

	// SMTP Config
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	// Admin site, used in notification email links and export links
	AdminSiteURL string

	// External data services
	DenominationsAPIURL string // denominations endpoint of the data API
	LocationsAPIURL     string // cities endpoint of the data API
	OmekaBaseURL        string // Omeka S API root for schedule images
	GeocodingUserAgent  string // User-Agent sent to Nominatim
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	cfg := &Config{
		Port:       os.Getenv("PORT"),
		UploadPath: os.Getenv("UPLOAD_PATH"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		CORSAllowedOrigins: os.Getenv("CORS_ALLOWED_ORIGINS"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers:       os.Getenv("KAFKA_BROKERS"),
		KafkaWorkflowTopic: os.Getenv("KAFKA_WORKFLOW_TOPIC"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  os.Getenv("SMTP_FROM_NAME"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		AdminSiteURL: os.Getenv("ADMIN_SITE_URL"),

		DenominationsAPIURL: os.Getenv("DENOMINATIONS_API_URL"),
		LocationsAPIURL:     os.Getenv("LOCATIONS_API_URL"),
		OmekaBaseURL:        os.Getenv("OMEKA_BASE_URL"),
		GeocodingUserAgent:  os.Getenv("GEOCODING_USER_AGENT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.UploadPath == "" {
		cfg.UploadPath = "./uploads"
	}
	if cfg.CORSAllowedOrigins == "" {
		cfg.CORSAllowedOrigins = "http://localhost:5173,http://localhost:3000"
	}
	if cfg.KafkaWorkflowTopic == "" {
		cfg.KafkaWorkflowTopic = "census.workflow"
	}
	if cfg.DenominationsAPIURL == "" {
		cfg.DenominationsAPIURL = "https://data.chnm.org/relcensus/denominations"
	}
	if cfg.LocationsAPIURL == "" {
		cfg.LocationsAPIURL = "https://data.chnm.org/relcensus/cities"
	}
	if cfg.OmekaBaseURL == "" {
		cfg.OmekaBaseURL = "https://omeka.religiousecologies.org/api"
	}
	if cfg.GeocodingUserAgent == "" {
		cfg.GeocodingUserAgent = "ReligiousEcologies/1.0 (relcensus-backend geocoding)"
	}

	return cfg
}
