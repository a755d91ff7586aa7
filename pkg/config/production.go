package config

import "os"

func loadProductionConfig(cfg *Config) {
	dataDir := os.Getenv("DATA_DIRECTORY")
	if dataDir == "" {
		dataDir = "/data"
	}

	cfg.DatabaseFilePath = dataDir + "/shelfmark.sqlite"
	cfg.AssetDir = "/app/assets"
	cfg.ServerHost = "127.0.0.1"
}
