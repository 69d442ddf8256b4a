package main

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pauljbernard/content-sub002/pkg/bootstrap"
	"github.com/pauljbernard/content-sub002/pkg/config"
	"github.com/pauljbernard/content-sub002/pkg/crypto"
	"github.com/pauljbernard/content-sub002/pkg/db"
	"github.com/pauljbernard/content-sub002/pkg/server"
	"github.com/pauljbernard/content-sub002/pkg/server/endpoints"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the platform API server",
	Long: `Run the platform API server.

Requires the environment variables PLATFORM_DATA_KEY and DATABASE_URL.

By default, database migrations and bootstrap run on startup. Use
--no-migrate and --no-bootstrap to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		dataKeyB64, ok := os.LookupEnv("PLATFORM_DATA_KEY")
		if !ok {
			fmt.Fprintln(os.Stderr, "PLATFORM_DATA_KEY environment variable is required")
			os.Exit(1)
		}
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		dataKey, err := base64.StdEncoding.DecodeString(dataKeyB64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad PLATFORM_DATA_KEY:", err)
			os.Exit(1)
		}

		cipher, err := crypto.NewSymmetric(dataKey)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to initiate cipher:", err)
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad configuration:", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Bad configuration:", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{Cipher: cipher})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		// The token HMAC key derives from the same secret as the data
		// cipher, so rotating PLATFORM_DATA_KEY rotates both.
		tokenKey := crypto.DeriveKey("token:" + dataKeyB64)
		s := server.NewServer(database, cipher, tokenKey, cfg)

		noBootstrap, _ := cmd.Flags().GetBool("no-bootstrap")
		if !noBootstrap {
			log.Println("Installing system types and defaults...")
			if err := bootstrap.Install(s.Types, s.Instances, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "Bootstrap failed: %v\n", err)
				os.Exit(1)
			}
		}

		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s...\n", cfg.ListenAddr())
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
	serverCmd.Flags().Bool("no-bootstrap", false, "skip installing system types and defaults on start")
}
