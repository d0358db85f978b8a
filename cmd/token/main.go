// Command token prints a rider token signed with JWT_SECRET, for local clients and curl.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/motolog/motolog/internal/config"
	"github.com/motolog/motolog/internal/session"
)

func main() {
	rider := flag.String("rider", "", "rider id placed in the token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *rider == "" {
		fmt.Fprintln(os.Stderr, "-rider is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	token, err := session.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer).Issue(*rider, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
