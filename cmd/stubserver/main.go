// stubserver runs the in-memory backend for local demos and manual
// testing of the console against known data.
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tailor-console/internal/stub"
)

func main() {
	_ = godotenv.Load()

	opts := stub.Options{
		Email:    os.Getenv("STUB_EMAIL"),
		Password: os.Getenv("STUB_PASSWORD"),
	}
	if v := os.Getenv("STUB_ACCESS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid STUB_ACCESS_TTL: %v", err)
		}
		opts.AccessTTL = d
	}

	port := os.Getenv("STUB_PORT")
	if port == "" {
		port = "8000"
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", stub.New(opts)))

	log.Printf("stub backend listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatalf("server: %v", err)
	}
}
