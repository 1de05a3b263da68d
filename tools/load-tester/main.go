package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// randomID returns a ten character alphanumeric identifier.
func randomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func main() {
	targetURL := flag.String("url", "http://127.0.0.1:8899/register", "Target URL for registration")
	concurrency := flag.Int("c", 10, "Number of concurrent workers")
	duration := flag.Duration("d", 30*time.Second, "Duration of the load test")
	rps := flag.Int("rps", 200, "Requests per second limit")
	samePair := flag.Bool("same-pair", false, "Send one tenant/realm pair from every worker to exercise duplicate handling")
	flag.Parse()

	log.Printf("Starting load test on %s", *targetURL)
	log.Printf("Concurrency: %d, Duration: %s, RPS: %d, Same pair: %v", *concurrency, *duration, *rps, *samePair)

	var wg sync.WaitGroup
	var okCount, conflictCount, errorCount atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(*rps), 100) // Allow bursts up to 100
	fixedTenant, fixedRealm := randomID(), randomID()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{
				Timeout: 5 * time.Second,
			}

			for {
				if err := limiter.Wait(ctx); err != nil {
					return // Deadline reached
				}

				tenant, realm := randomID(), randomID()
				if *samePair {
					tenant, realm = fixedTenant, fixedRealm
				}
				payload, _ := json.Marshal(map[string]string{"tenant_id": tenant, "realm_id": realm})

				req, err := http.NewRequestWithContext(ctx, http.MethodPost, *targetURL, bytes.NewReader(payload))
				if err != nil {
					continue // Should not happen
				}
				req.Header.Set("Content-Type", "application/json")

				resp, err := client.Do(req)
				if err != nil {
					if ctx.Err() == nil {
						errorCount.Add(1)
					}
					continue
				}

				switch resp.StatusCode {
				case http.StatusOK:
					okCount.Add(1)
				case http.StatusConflict:
					conflictCount.Add(1)
				default:
					errorCount.Add(1)
				}
				resp.Body.Close()
			}
		}()
	}

	wg.Wait()

	totalRequests := okCount.Load() + conflictCount.Load() + errorCount.Load()
	actualRPS := float64(totalRequests) / duration.Seconds()

	log.Println("Load test finished.")
	log.Printf("Total Requests: %d", totalRequests)
	log.Printf("Registered (200 OK): %d", okCount.Load())
	log.Printf("Duplicates (409 Conflict): %d", conflictCount.Load())
	log.Printf("Errors: %d", errorCount.Load())
	log.Printf("Actual RPS: %.2f", actualRPS)
	if *samePair && okCount.Load() > 1 {
		log.Printf("WARNING: pair %s/%s was registered %d times; is ENFORCE_UNIQUE_PAIR disabled?", fixedTenant, fixedRealm, okCount.Load())
	}
}
