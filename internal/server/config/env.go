package config

import (
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "HUNT"

// parseEnv overlays HUNT_* environment variables, e.g. HUNT_DATABASE_DSN or
// HUNT_CORS_ORIGINS=http://a,http://b.
func parseEnv(config *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	keys := []string{
		"http_addr", "grpc_addr", "database_dsn", "secret_key",
		"access_token_validity", "refresh_token_validity",
		"s3_root_user", "s3_root_password", "s3_bucket", "s3_region", "s3_base_endpoint", "s3_public_base_url",
		"redis_addr", "login_rate_limit", "login_rate_window", "scan_lock_ttl",
		"cors_origins", "public_base_url", "waypoints", "log_level",
	}
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			panic(err)
		}
	}

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	str("http_addr", &config.HTTPAddr)
	str("grpc_addr", &config.GRPCAddr)
	str("database_dsn", &config.DatabaseDSN)
	str("secret_key", &config.SecretKey)
	str("s3_root_user", &config.S3RootUser)
	str("s3_root_password", &config.S3RootPassword)
	str("s3_bucket", &config.S3Bucket)
	str("s3_region", &config.S3Region)
	str("s3_base_endpoint", &config.S3BaseEndpoint)
	str("s3_public_base_url", &config.S3PublicBaseURL)
	str("redis_addr", &config.RedisAddr)
	str("public_base_url", &config.PublicBaseURL)
	str("log_level", &config.LogLevel)

	if v.IsSet("access_token_validity") {
		config.AccessTokenValidity = v.GetDuration("access_token_validity")
	}
	if v.IsSet("refresh_token_validity") {
		config.RefreshTokenValidity = v.GetDuration("refresh_token_validity")
	}
	if v.IsSet("login_rate_window") {
		config.LoginRateWindow = v.GetDuration("login_rate_window")
	}
	if v.IsSet("scan_lock_ttl") {
		config.ScanLockTTL = v.GetDuration("scan_lock_ttl")
	}
	if v.IsSet("login_rate_limit") {
		config.LoginRateLimit = v.GetInt("login_rate_limit")
	}
	if v.IsSet("waypoints") {
		config.Waypoints = v.GetInt("waypoints")
	}
	if v.IsSet("cors_origins") {
		config.CORSOrigins = splitList(v.GetString("cors_origins"))
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
