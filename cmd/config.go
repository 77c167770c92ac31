package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr            string
	RedisPassword        string
	TrackingCacheTTLSecs int

	S3Region      string
	S3Endpoint    string
	S3LabelBucket string

	CarrierABaseURL string
	CarrierAAPIKey  string
	CarrierBBaseURL string
	CarrierBAPIKey  string
}
