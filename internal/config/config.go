package config

type Config struct {
	BaseURL     string
	FrontendURL string
	HttpPort    int
	Environment string
	Db          struct {
		Dsn         string
		Automigrate bool
	}
	RedisServer string
	Session     struct {
		CookieName string
	}
	Notifications struct {
		Email string
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	Flutterwave struct {
		SecretKey         string
		WebhookSecretHash string
	}
	FileUploader struct {
		CloudName string
		ApiKey    string
		ApiSecret string
	}
	KafkaServers string
}
