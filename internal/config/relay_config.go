package config

// RelayConfig holds configuration for the outbox relay service.
type RelayConfig struct {
	DatabaseURL string
	RabbitMQURL string
	QueueName   string
	HealthPort  string
	LogLevel    string
}

func LoadRelayConfig() *RelayConfig {
	v := newViper()

	dbURL := v.GetString("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := v.GetString("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		DatabaseURL: dbURL,
		RabbitMQURL: rabbitURL,
		QueueName:   v.GetString("EVENTS_QUEUE_NAME"),
		HealthPort:  v.GetString("RELAY_HEALTH_PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
	}
}

// DatabaseConfig is the subset used by messctl.
type DatabaseConfig struct {
	DatabaseURL string
	LogLevel    string
}

func LoadDatabaseConfig() *DatabaseConfig {
	v := newViper()

	dbURL := v.GetString("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}
	return &DatabaseConfig{DatabaseURL: dbURL, LogLevel: v.GetString("LOG_LEVEL")}
}
