package config

import (
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string `env:"APP_PORT,default=8000"`

	ClusterIdentifier string `env:"DSQL_CLUSTER_IDENTIFIER,required"`
	DatabaseName      string `env:"DATABASE_NAME,default=kabobstore"`
	Region            string `env:"AWS_REGION,default=us-east-1"`
}

func Load() (Config, error) {

	// Optional .env for local runs.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil

}
