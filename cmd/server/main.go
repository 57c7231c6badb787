package main

import (
	"errors"
	"net/http"
	"os"

	"credvault/internal/app/server/api"
	"credvault/internal/app/server/config"
	"credvault/internal/crypto"
	"credvault/internal/infrastructure/storage/postgres"
	"credvault/internal/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	codec, err := buildCodec(cfg)
	if err != nil {
		log.Error("failed to build encryption codec", "error", err)
		os.Exit(1)
	}

	storage, err := postgres.New(cfg)
	if err != nil {
		log.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	mux := api.New(storage, codec, log)

	log.Info("server starting", "address", cfg.Server.RunAddress, "env", cfg.Env)
	if err := http.ListenAndServe(cfg.Server.RunAddress, mux); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func buildCodec(cfg *config.Config) (*crypto.Codec, error) {
	if cfg.Encryption.KeyHex != "" {
		return crypto.NewCodecFromHex(cfg.Encryption.KeyHex)
	}
	if cfg.Encryption.Passphrase == "" {
		return nil, errors.New("either ENCRYPTION_KEY or ENCRYPTION_PASSPHRASE must be set")
	}
	return crypto.NewCodec(crypto.KeyFromPassphrase(cfg.Encryption.Passphrase))
}
