package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	Env                  string
	PostgresConnStr      string
	MongoURI             string
	JWTSecret            string
	BaseURL              string
	EmailProvider        string // "brevo", "gmail" or "mock"
	BrevoAPIKey          string
	EmailFromAddr        string
	EmailFromName        string
	CloudinaryCloudName  string
	CloudinaryPreset     string
}

// Load reads configuration from a .env file when present, falling back to
// the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		PostgresConnStr:     getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:            getEnv("MONGO_URI", ""),
		JWTSecret:           getEnv("JWT_SECRET", "supersecretjwtkey"),
		BaseURL:             getEnv("BASE_URL", "http://localhost:3000"),
		EmailProvider:       getEnv("EMAIL_PROVIDER", "mock"),
		BrevoAPIKey:         getEnv("BREVO_API_KEY", ""),
		EmailFromAddr:       getEnv("EMAIL_FROM_ADDR", "no-reply@tripverse.app"),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Tripverse"),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryPreset:    getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
