//go:build integration

package test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ollamux/ollamux/pkg/config"
	"github.com/ollamux/ollamux/pkg/providers"
	"github.com/ollamux/ollamux/pkg/server"
	"github.com/ollamux/ollamux/pkg/telemetry/metrics"
)

// newProxyUnderTest wires a full server handler against the given upstream.
func newProxyUnderTest(t *testing.T, upstreamURL string) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Providers: []config.ProviderConfig{{
			Name:    "ollama",
			URL:     upstreamURL,
			APIType: "ollama",
			Models:  []string{"qwen3-coder-plus"},
		}},
	}
	cfg.Telemetry.Metrics.Enabled = true
	config.ApplyDefaults(cfg)

	reg, err := config.BuildRegistry(cfg)
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}

	srv := server.New(server.Options{
		Config:  cfg,
		Holder:  providers.NewHolder(reg),
		Metrics: metrics.NewCollector(metrics.Options{Enabled: true}),
		Version: "integration",
	})

	proxy := httptest.NewServer(srv.Handler())
	t.Cleanup(proxy.Close)
	return proxy
}

// TestProxyIntegration exercises the end-to-end flow over real HTTP
// connections on both legs.
func TestProxyIntegration(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		flusher := w.(http.Flusher)
		for i := 0; i < 3; i++ {
			fmt.Fprintf(w, `{"message":{"content":"part-%d"},"done":false}`+"\n", i)
			flusher.Flush()
			time.Sleep(10 * time.Millisecond)
		}
		fmt.Fprintln(w, `{"done":true}`)
		flusher.Flush()
	}))
	defer upstream.Close()

	proxy := newProxyUnderTest(t, upstream.URL)

	t.Run("streamed chat arrives line by line", func(t *testing.T) {
		resp, err := http.Post(proxy.URL+"/api/chat", "application/json",
			bytes.NewReader([]byte(`{"model":"ollama-qwen3-coder-plus","messages":[]}`)))
		if err != nil {
			t.Fatalf("POST /api/chat: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}

		var lines []string
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if len(lines) != 4 {
			t.Fatalf("got %d lines, want 4: %v", len(lines), lines)
		}
		if !strings.Contains(lines[3], `"done":true`) {
			t.Errorf("final line = %q", lines[3])
		}
	})

	t.Run("catalog lists tagged models", func(t *testing.T) {
		resp, err := http.Get(proxy.URL + "/api/tags")
		if err != nil {
			t.Fatalf("GET /api/tags: %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Models []struct {
				Name string `json:"name"`
			} `json:"models"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body.Models) != 1 || body.Models[0].Name != "ollama-qwen3-coder-plus" {
			t.Errorf("catalog = %+v", body.Models)
		}
	})

	t.Run("client cancel stops the stream", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		req, _ := http.NewRequestWithContext(ctx, "POST", proxy.URL+"/api/chat",
			bytes.NewReader([]byte(`{"model":"ollama-qwen3-coder-plus"}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("POST /api/chat: %v", err)
		}
		defer resp.Body.Close()

		// Read one line, then hang up mid-stream.
		reader := bufio.NewReader(resp.Body)
		if _, err := reader.ReadString('\n'); err != nil {
			t.Fatalf("first line: %v", err)
		}
		cancel()

		if _, err := reader.ReadString('\n'); err == nil {
			// The transport may deliver already-buffered lines; draining
			// must still terminate promptly.
			for {
				if _, err := reader.ReadString('\n'); err != nil {
					break
				}
			}
		}
	})
}
