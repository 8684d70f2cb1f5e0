package mocks

import "github.com/cradoe/finlap/internal/config"

func NewMockConfig() *config.Config {
	cfg := &config.Config{
		BaseURL:     "http://localhost:4444",
		FrontendURL: "http://localhost:3000",
		HttpPort:    4444,
		Environment: "test",
		RedisServer: "localhost:6379",
	}

	cfg.Db.Dsn = "mock_dsn"
	cfg.Db.Automigrate = false
	cfg.Session.CookieName = "finlap_session"
	cfg.Notifications.Email = ""
	cfg.Smtp.Host = "smtp.example.com"
	cfg.Smtp.Port = 587
	cfg.Smtp.Username = "user@example.com"
	cfg.Smtp.Password = "password"
	cfg.Smtp.From = "no-reply@example.com"
	cfg.Flutterwave.SecretKey = "test_secret"
	cfg.Flutterwave.WebhookSecretHash = "test-webhook-hash"
	cfg.KafkaServers = "localhost:9092"

	return cfg
}
