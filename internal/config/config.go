package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

type Postgres struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"ridebook"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

type Mongo struct {
	URI      string `envconfig:"MONGO_DB_URI" default:"mongodb://localhost:27017"`
	Database string `envconfig:"MONGO_DATABASE" default:"ridebook"`
}

type Storage struct {
	Region    string `envconfig:"AWS_REGION"`
	AccessKey string `envconfig:"AWS_ACCESS_KEY_ID"`
	SecretKey string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	Bucket    string `envconfig:"AWS_S3_BUCKET"`
	// Receipts land here when S3 is not configured.
	ReceiptDir string `envconfig:"RECEIPT_DIR" default:"./receipts"`
}

type App struct {
	Port        string   `envconfig:"PORT" default:"8080"`
	Env         string   `envconfig:"APP_ENV" default:"development"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	StoreDriver        string `envconfig:"STORE_DRIVER" default:"postgres"`
	PersistSharedNames bool   `envconfig:"PERSIST_SHARED_NAMES" default:"false"`

	Postgres
	Mongo

	// Empty disables ride event publishing.
	RedisURL string `envconfig:"REDIS_URL"`

	AuthBaseURL string `envconfig:"AUTH_BASE_URL" default:"https://dummyjson.com"`

	StripeKey        string `envconfig:"STRIPE_KEY"`
	CheckoutCurrency string `envconfig:"CHECKOUT_CURRENCY" default:"usd"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	Storage
}

func (a App) IsProduction() bool {
	return a.Env == "production"
}

// Load reads an optional .env file and then the process environment.
// The returned bool reports whether a .env file was found.
func Load(files ...string) (App, bool, error) {
	foundEnv := godotenv.Load(files...) == nil

	var c App
	err := envconfig.Process("", &c)
	return c, foundEnv, err
}
