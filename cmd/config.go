package cmd

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers     string
	KafkaOrdersTopic string

	NatsURL                string
	NatsEventsQueue        string
	NatsNotificationsQueue string

	WorkerPoolSize string

	InventoryServiceURL    string
	PaymentServiceURL      string
	NotificationServiceURL string
	InvoiceServiceURL      string
	ServiceTimeout         string
}
