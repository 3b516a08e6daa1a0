package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fretscout/fretscout/internal/config"
	"github.com/fretscout/fretscout/internal/ebay"
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Verify eBay credentials by fetching an access token",
	Long: "Fetches an OAuth application token using the credentials in " +
		"EBAY_CLIENT_ID and EBAY_CLIENT_SECRET. Prints a success message " +
		"with the token lifetime; the token itself is never printed.",
	RunE: runSmoke,
}

func init() {
	rootCmd.AddCommand(smokeCmd)
}

func runSmoke(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	mode, err := config.ResolveMode()
	if err != nil {
		return fmt.Errorf("resolving mode: %w", err)
	}
	creds := mode.Credentials()
	if creds == nil {
		return fmt.Errorf("no credentials configured: set EBAY_CLIENT_ID and EBAY_CLIENT_SECRET")
	}

	tokenOpts := []ebay.TokenOption{}
	if cfg.Ebay.TokenURL != "" {
		tokenOpts = append(tokenOpts, ebay.WithTokenURL(cfg.Ebay.TokenURL))
	}
	if cfg.Ebay.Scope != "" {
		tokenOpts = append(tokenOpts, ebay.WithScope(cfg.Ebay.Scope))
	}
	client := ebay.NewTokenClient(*creds, tokenOpts...)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	token, err := client.FetchToken(ctx)
	if err != nil {
		return fmt.Errorf("fetching token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: token obtained for %s environment, expires in ~%d seconds\n",
		creds.Environment, token.ExpiresIn)
	return nil
}
