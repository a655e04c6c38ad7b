package config

const (
	// EnvPrefix is handed to envconfig; every field carries its full variable name.
	EnvPrefix = "LENSFINDERZ"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "LENSFINDERZ_APP_ENV"
	EnvPort   = "LENSFINDERZ_APP_PORT"

	EnvDBDSN  = "LENSFINDERZ_DB_DSN"
	EnvDBHost = "LENSFINDERZ_DB_HOST"
	EnvDBUser = "LENSFINDERZ_DB_USER"
	EnvDBName = "LENSFINDERZ_DB_NAME"

	EnvRedisURL = "LENSFINDERZ_REDIS_URL"

	EnvOffersCatalogFetchTimeout = "LENSFINDERZ_OFFERS_CATALOG_FETCH_TIMEOUT"
	EnvOffersCatalogCacheTTL     = "LENSFINDERZ_OFFERS_CATALOG_CACHE_TTL"

	EnvGCPProjectID          = "LENSFINDERZ_GCP_PROJECT_ID"
	EnvPubSubOfferAuditTopic = "LENSFINDERZ_PUBSUB_OFFER_AUDIT_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
