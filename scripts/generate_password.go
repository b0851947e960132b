package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/zozagateway/snack-backend/internal/config"
	"github.com/zozagateway/snack-backend/internal/pkg/auth"
)

// Prints a bcrypt hash for a password that satisfies the account policy,
// using the configured cost. Handy for SQL fixtures.
func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("Usage: go run scripts/generate_password.go <password>")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	passwords := auth.NewPasswordManager(cfg)
	password := os.Args[1]

	if err := passwords.ValidatePassword(password); err != nil {
		logrus.Fatalf("Password rejected: %v", err)
	}

	hash, err := passwords.HashPassword(password)
	if err != nil {
		logrus.Fatalf("Error generating hash: %v", err)
	}

	if err := passwords.VerifyPassword(password, hash); err != nil {
		logrus.Fatalf("Hash verification failed: %v", err)
	}

	fmt.Printf("Cost: %d\n", cfg.Security.BcryptCost)
	fmt.Printf("Hash: %s\n", hash)
}
