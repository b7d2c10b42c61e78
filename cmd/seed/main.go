package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/database"
	"github.com/inkpost/inkpost/internal/seed"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the inkpost database with development data",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found, using system environment variables")
		}
		if err := database.Initialize(); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = database.Close()
	},
}

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Seed groups, users, posts, comments and follows",
	Run: func(cmd *cobra.Command, args []string) {
		seeder := seed.NewSeeder(database.DB)
		if err := seeder.SeedDev(); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Development data seeded; all users log in with password \"password\"")
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all seed data (use with caution)",
	Run: func(cmd *cobra.Command, args []string) {
		seeder := seed.NewSeeder(database.DB)
		if err := seeder.Clean(); err != nil {
			log.Fatalf("Clean failed: %v", err)
		}
		log.Println("Seed data removed")
	},
}

func init() {
	rootCmd.AddCommand(devCmd)
	rootCmd.AddCommand(cleanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
