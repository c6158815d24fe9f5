// Generates the bcrypt hash for OPS_PASSWORD_HASH.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/xavisavvy/toa-website-sub001/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password>")
	}

	password := os.Args[1]

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	fmt.Printf("OPS_PASSWORD_HASH=%s\n", hash)

	if err := auth.VerifyPassword(password, hash); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Println("✅ Hash verified successfully!")
}
