package main

import (
	"context"
	"fmt"

	"charityportal/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/kelseyhightower/envconfig"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.SessionIdleTimeoutSec == 0 {
		c.SessionIdleTimeoutSec = 1800
	}

	return c, nil
}

// requireCookieKeys is only checked by serve; seed and requirements run
// without them.
func requireCookieKeys(c *types.Config) error {
	if c.CookieHashKey == "" || c.CookieBlockKey == "" {
		return fmt.Errorf("set COOKIE_HASH_KEY and COOKIE_BLOCK_KEY")
	}
	return nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}
