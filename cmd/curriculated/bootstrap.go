package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pauljbernard/content-sub002/pkg/bootstrap"
	"github.com/pauljbernard/content-sub002/pkg/config"
	"github.com/pauljbernard/content-sub002/pkg/crypto"
	"github.com/pauljbernard/content-sub002/pkg/db"
	gormstore "github.com/pauljbernard/content-sub002/pkg/store/gorm"
)

// bootstrapCmd represents the bootstrap command
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Install system types, default tenant and roles",
	Long: `Install the data a fresh deployment needs: system content types,
the default tenant and organization, and the built-in role definitions.
Re-running against a populated database is safe.

With --superuser-email and --superuser-password, also creates the first
superuser account.

Example:
  curriculated bootstrap
  curriculated bootstrap --superuser-email root@example.com --superuser-password '...'`,
	Run: func(cmd *cobra.Command, args []string) {
		cipher, err := cipherFromEnv()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{Cipher: cipher})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad configuration:", err)
			os.Exit(1)
		}

		types := gormstore.NewTypesStore(database)
		instances := gormstore.NewInstancesStore(database)

		if err := bootstrap.Install(types, instances, cfg); err != nil {
			fmt.Fprintln(os.Stderr, "Bootstrap failed:", err)
			os.Exit(1)
		}
		fmt.Println("System types, default tenant and roles installed")

		email, _ := cmd.Flags().GetString("superuser-email")
		password, _ := cmd.Flags().GetString("superuser-password")
		if email == "" {
			return
		}
		if password == "" {
			fmt.Fprintln(os.Stderr, "--superuser-password is required with --superuser-email")
			os.Exit(1)
		}

		userID, err := bootstrap.CreateSuperuser(types, instances, cfg, email, password)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Superuser creation failed:", err)
			os.Exit(1)
		}
		fmt.Printf("Superuser created: %s (%s)\n", email, userID)
	},
}

func cipherFromEnv() (crypto.SymmetricCipher, error) {
	dataKeyB64, ok := os.LookupEnv("PLATFORM_DATA_KEY")
	if !ok {
		return nil, fmt.Errorf("PLATFORM_DATA_KEY environment variable is required")
	}
	dataKey, err := base64.StdEncoding.DecodeString(dataKeyB64)
	if err != nil {
		return nil, fmt.Errorf("bad PLATFORM_DATA_KEY: %w", err)
	}
	return crypto.NewSymmetric(dataKey)
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)

	bootstrapCmd.Flags().String("superuser-email", "", "email for the first superuser account")
	bootstrapCmd.Flags().String("superuser-password", "", "password for the first superuser account")
}
