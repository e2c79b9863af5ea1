package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/schnitzeljagd/internal/flagx"
	"github.com/dmitrijs2005/schnitzeljagd/internal/timex"
)

// JsonConfig is the on-disk shape of the server config. Durations accept
// both "15m" and integer nanoseconds. Absent fields keep their current value.
type JsonConfig struct {
	HTTPAddr             *string         `json:"http_addr"`
	GRPCAddr             *string         `json:"grpc_addr"`
	DatabaseDSN          *string         `json:"database_dsn"`
	SecretKey            *string         `json:"secret_key"`
	AccessTokenValidity  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidity *timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser           *string         `json:"s3_root_user"`
	S3RootPassword       *string         `json:"s3_root_password"`
	S3Bucket             *string         `json:"s3_bucket"`
	S3Region             *string         `json:"s3_region"`
	S3BaseEndpoint       *string         `json:"s3_base_endpoint"`
	S3PublicBaseURL      *string         `json:"s3_public_base_url"`
	RedisAddr            *string         `json:"redis_addr"`
	LoginRateLimit       *int            `json:"login_rate_limit"`
	LoginRateWindow      *timex.Duration `json:"login_rate_window"`
	ScanLockTTL          *timex.Duration `json:"scan_lock_ttl"`
	CORSOrigins          []string        `json:"cors_origins"`
	PublicBaseURL        *string         `json:"public_base_url"`
	Waypoints            *int            `json:"waypoints"`
	LogLevel             *string         `json:"log_level"`
}

// parseJson overlays the file named by -c/-config. A missing flag means no
// file; an unreadable or invalid file panics.
func parseJson(config *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidity, c.AccessTokenValidity)
	setDuration(&config.RefreshTokenValidity, c.RefreshTokenValidity)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	setString(&config.RedisAddr, c.RedisAddr)
	setInt(&config.LoginRateLimit, c.LoginRateLimit)
	setDuration(&config.LoginRateWindow, c.LoginRateWindow)
	setDuration(&config.ScanLockTTL, c.ScanLockTTL)
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setInt(&config.Waypoints, c.Waypoints)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
