package config

const EnvPrefix = "GAMESHELF"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultSQLitePath mirrors the local-dev database file used by the seed CLI.
const DefaultSQLitePath = "store.db"

const (
	EnvAppEnv   = "GAMESHELF_APP_ENV"
	EnvPort     = "GAMESHELF_APP_PORT"
	EnvDBDSN    = "GAMESHELF_DB_DSN"
	EnvDBDriver = "GAMESHELF_DB_DRIVER"
	EnvDBHost   = "GAMESHELF_DB_HOST"
	EnvDBUser   = "GAMESHELF_DB_USER"
	EnvDBName   = "GAMESHELF_DB_NAME"
	EnvRedisURL = "GAMESHELF_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
