package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// credentialEnv mirrors the EBAY_* environment variables.
type credentialEnv struct {
	ClientID      string `env:"EBAY_CLIENT_ID"`
	ClientSecret  string `env:"EBAY_CLIENT_SECRET"`
	Environment   string `env:"EBAY_ENV" envDefault:"production"`
	MarketplaceID string `env:"EBAY_MARKETPLACE_ID" envDefault:"EBAY_US"`
}

// LoadCredentials reads eBay API credentials from the environment. When
// either the client ID or secret is absent it returns (nil, nil): the
// caller should fall back to demo mode. An unrecognized EBAY_ENV value is
// an error even when credentials are absent.
func LoadCredentials() (*domain.Credentials, error) {
	var ce credentialEnv
	if err := env.Parse(&ce); err != nil {
		return nil, fmt.Errorf("parsing credential environment: %w", err)
	}

	environment := domain.Environment(ce.Environment)
	if !environment.Valid() {
		return nil, fmt.Errorf(
			"EBAY_ENV must be %q or %q (got %q)",
			domain.EnvProduction, domain.EnvSandbox, ce.Environment,
		)
	}

	if ce.ClientID == "" || ce.ClientSecret == "" {
		return nil, nil
	}

	return &domain.Credentials{
		ClientID:      ce.ClientID,
		ClientSecret:  ce.ClientSecret,
		Environment:   environment,
		MarketplaceID: ce.MarketplaceID,
	}, nil
}

// ResolveMode loads credentials and maps them to an operating mode: live
// when full credentials are present, demo otherwise.
func ResolveMode() (domain.Mode, error) {
	creds, err := LoadCredentials()
	if err != nil {
		return domain.Mode{}, err
	}
	if creds == nil {
		return domain.DemoMode(), nil
	}
	return domain.LiveMode(*creds), nil
}
