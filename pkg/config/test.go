package config

func loadTestConfig(cfg *Config) {
	cfg.DatabaseFilePath = ":memory:"
	cfg.LookupTimeout = cfg.LookupTimeout / 10
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
}
