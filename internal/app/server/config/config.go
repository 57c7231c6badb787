package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env        string
	DB         db
	Server     server
	Logger     logger
	Encryption encryption
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type encryption struct {
	// KeyHex is the 32-byte server key, hex encoded. When empty the key is
	// derived from Passphrase instead.
	KeyHex     string `env:"ENCRYPTION_KEY"`
	Passphrase string `env:"ENCRYPTION_PASSPHRASE"`
}

func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()

	config := Config{
		Env: viper.GetString("app_env"),
		DB: db{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: server{RunAddress: viper.GetString("run_address")},
		Logger: logger{LogLevel: viper.GetString("log_level")},
		Encryption: encryption{
			KeyHex:     viper.GetString("encryption_key"),
			Passphrase: viper.GetString("encryption_passphrase"),
		},
	}

	if config.Server.RunAddress == "" {
		config.Server.RunAddress = ":8080"
	}

	return &config
}
