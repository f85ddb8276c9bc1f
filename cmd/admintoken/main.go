package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/linemk/switch-merchant/internal/config"
	security "github.com/linemk/switch-merchant/internal/jwt-new"
)

// admintoken выпускает токен для GET /orders, когда задан ADMIN_JWT_SECRET.
func main() {
	var subject string
	var ttl time.Duration
	flag.StringVar(&subject, "subject", "admin", "token subject")
	flag.DurationVar(&ttl, "ttl", 0, "token lifetime, admin.token_ttl by default")

	admin := config.MustLoadAdmin()

	if admin.JWTSecret == "" {
		log.Fatal("ADMIN_JWT_SECRET is not set, /orders is not protected")
	}
	if ttl == 0 {
		ttl = time.Duration(admin.TokenTTL) * time.Minute
	}

	token, err := security.NewToken(subject, ttl, admin.JWTSecret)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
