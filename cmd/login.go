package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/StrungPattern-coder/SecureSight/internal/client"
	"github.com/StrungPattern-coder/SecureSight/internal/config"
)

// Variables to hold flag values
var (
	host         string
	email        string
	pass         string
	clientID     string
	clientSecret string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the SecureSight dashboard",
	Long: `Authenticates with the dashboard API using your operator credentials
and saves the session token locally for future commands.

Example:
  securesight login --host "https://dashboard.example.com" --email operator@example.com --password pass`,
	Run: func(cmd *cobra.Command, args []string) {
		// Clean up input host (remove trailing slash if present)
		host = strings.TrimRight(host, "/")

		cfg := client.ClientConfig{
			BaseURL:      host,
			Email:        email,
			Password:     pass,
			ClientID:     clientID,
			ClientSecret: clientSecret,
		}

		fmt.Printf("Authenticating against %s as '%s'...\n", host, email)

		api := client.New(cfg)

		token, err := api.Login()
		if err != nil {
			log.Fatalf("Fatal: Login failed: %v", err)
		}

		fmt.Println("Login successful. Saving configuration...")

		// Save the base URL so subsequent commands know where to connect.
		viper.Set("base_url", host)

		if err := config.SaveSession(token); err != nil {
			log.Fatalf("Failed to save configuration file: %v", err)
		}

		fmt.Printf("Session saved. You can now run commands like './securesight incidents list'.\n")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&host, "host", "", "Dashboard base URL (e.g. https://dashboard.example.com)")
	loginCmd.Flags().StringVarP(&email, "email", "u", "", "Operator email")
	loginCmd.Flags().StringVarP(&pass, "password", "p", "", "Operator password")
	loginCmd.Flags().StringVar(&clientID, "client-id", "", "Integration client ID (optional, for headless use)")
	loginCmd.Flags().StringVar(&clientSecret, "client-secret", "", "Integration client secret (optional)")

	_ = loginCmd.MarkFlagRequired("host")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}
