// Package main is a smoke checker for a running finance tracker server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type endpoint struct {
	path        string
	method      string
	body        string
	status      int
	contentType string
	contains    []string
}

// checkForm is a throwaway draft id; the sequence below leaves nothing behind
const checkForm = "validate-smoke-check"

var endpoints = []endpoint{
	{path: "/api/health", method: "GET", contentType: "application/json", contains: []string{`"status":"ok"`}},

	// Calculators
	{path: "/api/calc/compound?principal=1000&rate=0&years=5", method: "GET", contentType: "application/json", contains: []string{`"formatted":"$1,000.00"`}},
	{path: "/api/calc/loan?principal=1200&rate=0&years=1", method: "GET", contentType: "application/json", contains: []string{`"formatted":"$100.00"`}},
	{path: "/api/calc/loan?principal=100000&rate=0.06&years=30", method: "GET", contentType: "application/json", contains: []string{"$599.55"}},
	{path: "/api/calc/loan/schedule.pdf?principal=1200&rate=0.05&years=1", method: "GET", contentType: "application/pdf"},
	{path: "/api/calc/tax", method: "POST", body: `{"income":25000,"brackets":[[10000,0.1],[40000,0.2],[null,0.3]]}`, contentType: "application/json", contains: []string{`"formatted":"$4,000.00"`}},
	{path: "/api/calc/federal?gross=60000", method: "GET", contentType: "application/json", contains: []string{`"income_tax"`}},

	// Draft round trip
	{path: "/api/drafts/" + checkForm, method: "PUT", body: `{"amount":"1"}`, contentType: "application/json", contains: []string{`"outcome":"saved"`}},
	{path: "/api/drafts/" + checkForm + "/restore", method: "POST", body: `{"amount":""}`, contentType: "application/json", contains: []string{`"amount":"1"`}},
	{path: "/api/drafts/" + checkForm, method: "DELETE", status: http.StatusNoContent},
	{path: "/api/drafts/" + checkForm, method: "GET", status: http.StatusNotFound, contentType: "application/json", contains: []string{`"no_draft"`}},

	// UI state
	{path: "/api/ui/theme", method: "GET", contentType: "application/json", contains: []string{`"theme"`}},
	{path: "/api/ui/notifications", method: "GET", contentType: "application/json", contains: []string{`"notifications"`}},

	// Backup
	{path: "/api/backup", method: "GET", contentType: "application/zip"},
}

type result struct {
	endpoint endpoint
	status   int
	duration time.Duration
	err      error
}

func main() {
	url := flag.String("url", "http://localhost:8080", "Base URL of the server to validate")
	verbose := flag.Bool("v", false, "Verbose output")
	timeout := flag.Int("timeout", 10, "Request timeout in seconds")
	flag.Parse()

	client := &http.Client{
		Timeout: time.Duration(*timeout) * time.Second,
	}

	fmt.Printf("Validating server at %s\n", *url)
	fmt.Printf("Testing %d endpoints...\n\n", len(endpoints))

	var passed, failed int
	for _, ep := range endpoints {
		r := validateEndpoint(client, *url, ep)

		if r.err != nil {
			failed++
			fmt.Printf("FAIL %s %s\n", ep.method, ep.path)
			fmt.Printf("     Error: %v\n", r.err)
			continue
		}
		passed++
		if *verbose {
			fmt.Printf("PASS %s %s (%d, %v)\n", ep.method, ep.path, r.status, r.duration)
		}
	}

	fmt.Printf("\n========================================\n")
	fmt.Printf("Results: %d passed, %d failed\n", passed, failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func validateEndpoint(client *http.Client, baseURL string, ep endpoint) result {
	start := time.Now()

	var body io.Reader
	if ep.body != "" {
		body = strings.NewReader(ep.body)
	}
	req, err := http.NewRequest(ep.method, baseURL+ep.path, body)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("failed to create request: %w", err)}
	}
	if ep.body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("failed to read body: %w", err)}
	}

	r := result{endpoint: ep, status: resp.StatusCode, duration: time.Since(start)}
	r.err = check(ep, resp, data)
	return r
}

func check(ep endpoint, resp *http.Response, body []byte) error {
	want := ep.status
	if want == 0 {
		want = http.StatusOK
	}
	if resp.StatusCode != want {
		return fmt.Errorf("status %d, expected %d", resp.StatusCode, want)
	}

	if ep.contentType == "" {
		return nil
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, ep.contentType) {
		return fmt.Errorf("wrong content type: got %q, expected %q", ct, ep.contentType)
	}

	if ep.contentType == "application/json" {
		var js interface{}
		if err := json.Unmarshal(body, &js); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
	}

	for _, needle := range ep.contains {
		if !strings.Contains(string(body), needle) {
			return fmt.Errorf("missing expected content: %q", needle)
		}
	}
	return nil
}
