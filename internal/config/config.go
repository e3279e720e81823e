package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and counters.
type Config struct {
    Env             string // application environment (e.g. "dev", "prod")
    Port            string // HTTP port to listen on
    DBUser          string // database username
    DBPass          string // database password (optional)
    DBHost          string // database host address
    DBPort          string // database port number
    DBName          string // database name
    JWTSecret       string // secret used to verify identity-provider JWTs
    PinTokenURL     string // PIN provider OAuth token endpoint
    PinAPIURL       string // PIN provider hourly-PIN endpoint
    PinClientID     string // PIN provider client credential id
    PinClientSecret string // PIN provider client credential secret
    PinTimezone     string // IANA zone the locks report local time in
    PinVariance     int    // PIN provider variance parameter
    PinTimeoutSec   int    // request timeout for PIN provider calls in seconds
    AMQPURL         string // RabbitMQ connection string (empty disables events)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),              // environment (dev/test/prod)
        Port:            must("APP_PORT"),             // port to bind the HTTP server
        DBUser:          must("DB_USER"),              // database user
        DBPass:          os.Getenv("DB_PASS"),         // database password (empty allowed)
        DBHost:          must("DB_HOST"),              // database host
        DBPort:          must("DB_PORT"),              // database port
        DBName:          must("DB_NAME"),              // database name
        JWTSecret:       must("JWT_SECRET"),           // secret used to verify JWTs
        PinTokenURL:     must("PIN_TOKEN_URL"),        // lock provider token endpoint
        PinAPIURL:       must("PIN_API_URL"),          // lock provider PIN endpoint
        PinClientID:     must("PIN_CLIENT_ID"),        // lock provider client id
        PinClientSecret: must("PIN_CLIENT_SECRET"),    // lock provider client secret
        PinTimezone:     getenv("PIN_TIMEZONE", "Europe/Berlin"), // lock local zone
        PinVariance:     atoiDefault("PIN_VARIANCE", 1),          // provider variance
        PinTimeoutSec:   atoiDefault("PIN_TIMEOUT_SEC", 10),      // provider call timeout
        AMQPURL:         os.Getenv("AMQP_URL"),        // queue URL (empty allowed)
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// atoiDefault converts an optional environment variable into an integer,
// falling back to def when unset or unparseable.
func atoiDefault(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
