// Package background contains long-running workers started alongside the
// HTTP server.
package background

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Leonardo-Reis-al74689/Exercise-Intern-Bosch/config"
)

// StartKeepAliveService periodically pings the application's own public
// URL so free-tier hosts do not idle the instance out. It does nothing
// when no URL is configured. The returned WaitGroup is done once the
// worker has observed stopChan closing and exited.
func StartKeepAliveService(cfg *config.KeepAliveConfig, stopChan <-chan struct{}) *sync.WaitGroup {
	var wg sync.WaitGroup

	if cfg.URL == "" {
		log.Println("Keep-alive service disabled: no URL configured")
		return &wg
	}

	client := &http.Client{Timeout: 30 * time.Second}

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("Starting keep-alive service: pinging %s every %s", cfg.URL, cfg.Interval)
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ping(client, cfg.URL)
			case <-stopChan:
				log.Println("Keep-alive service stopping")
				return
			}
		}
	}()

	return &wg
}

func ping(client *http.Client, url string) {
	resp, err := client.Get(url)
	if err != nil {
		log.Printf("Keep-alive ping failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("Keep-alive ping returned status %d", resp.StatusCode)
	}
}
