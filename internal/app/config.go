package app

import (
	"time"

	"github.com/yungbote/talentgrid-backend/internal/platform/envutil"
)

type Config struct {
	ServiceName    string
	Environment    string
	Version        string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
}

func LoadConfig() Config {
	return Config{
		ServiceName:    envutil.String("SERVICE_NAME", "talentgrid-backend"),
		Environment:    envutil.String("ENVIRONMENT", "development"),
		Version:        envutil.String("SERVICE_VERSION", "dev"),
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL: envutil.Duration("ACCESS_TOKEN_TTL", time.Hour),
	}
}
