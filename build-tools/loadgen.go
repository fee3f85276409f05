//go:build ignore

// Run: go run ./build-tools/loadgen.go -addr http://localhost:8080 -rps 20 -duration 60s -chain solana -tokens TOKEN1,TOKEN2

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

type analyzeRequest struct {
	ChainID      string `json:"chain_id"`
	TokenAddress string `json:"token_address"`
}

func main() {
	var (
		addr     = flag.String("addr", "http://localhost:8080", "service base URL")
		rps      = flag.Int("rps", 10, "requests per second target")
		duration = flag.Duration("duration", 30*time.Second, "how long to run")
		chain    = flag.String("chain", "solana", "chain id to query")
		tokens   = flag.String("tokens", "", "comma-separated token addresses")
		bearer   = flag.String("bearer", "", "optional bearer token")
	)
	flag.Parse()

	tokenAddrs := splitTrim(*tokens)
	if len(tokenAddrs) == 0 {
		fmt.Println("no tokens provided")
		os.Exit(1)
	}

	cli := &http.Client{Timeout: 15 * time.Second}
	url := strings.TrimRight(*addr, "/") + "/api/analyze"

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deadline := time.Now().Add(*duration)
	interval := time.Second / time.Duration(*rps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var sent, failed int
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			report(sent, failed)
			return
		case <-ticker.C:
		}

		body, _ := json.Marshal(analyzeRequest{
			ChainID:      *chain,
			TokenAddress: tokenAddrs[rand.Intn(len(tokenAddrs))],
		})

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			fmt.Printf("request build error: %v\n", err)
			os.Exit(1)
		}
		req.Header.Set("Content-Type", "application/json")
		if *bearer != "" {
			req.Header.Set("Authorization", "Bearer "+*bearer)
		}

		resp, err := cli.Do(req)
		sent++
		if err != nil {
			failed++
			fmt.Printf("request error: %v\n", err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			failed++
			fmt.Printf("status %d for %s\n", resp.StatusCode, string(body))
		}
		resp.Body.Close()
	}

	report(sent, failed)
}

func report(sent, failed int) {
	fmt.Printf("done: sent=%d failed=%d\n", sent, failed)
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
