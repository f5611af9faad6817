// cmd/gentoken/main.go: issues a bearer token for local development.
// Uso: go run ./cmd/gentoken -email operador@taller.co -ttl 8h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"liquidaciontextil/internal/config"
	"liquidaciontextil/internal/middleware"
)

func main() {
	userID := flag.String("user", "dev", "subject of the token")
	email := flag.String("email", "dev@localhost", "email claim")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no configurado")
		os.Exit(1)
	}

	token, err := middleware.NewToken(cfg.JWTSecret, *userID, *email, *ttl)
	if err != nil {
		panic(err)
	}
	fmt.Println(token)
}
