package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/havenly/property-service/internal/applink"
)

// companion simulates the mobile side of the session handoff: it takes a
// deep-link URL (as the OS would deliver it) and exchanges the embedded
// transfer token for a live session.
func main() {
	var (
		apiURL  = flag.String("api", "http://127.0.0.1:8080", "base URL of the property service API")
		scheme  = flag.String("scheme", "havenly", "registered deep-link scheme")
		link    = flag.String("link", "", "deep-link URL carrying the transfer token")
		timeout = flag.Duration("timeout", 15*time.Second, "exchange request timeout")
	)
	flag.Parse()

	if *link == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	consumer := applink.NewConsumer(*apiURL, *scheme, nil)
	session, err := consumer.HandleLink(ctx, *link)
	if err != nil {
		log.Fatalf("handoff failed: %v", err)
	}

	fmt.Printf("authenticated as %s (%s)\n", session.User.Email, session.User.Role)
	fmt.Printf("session expires at %s\n", session.ExpiresAt.Format(time.RFC3339))
}
