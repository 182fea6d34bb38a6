package proxy

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

// streamMode selects how the upstream body is forwarded.
type streamMode int

const (
	// modeBuffered copies the whole body in one shot.
	modeBuffered streamMode = iota
	// modeSSE forwards complete server-sent events, one flush per event.
	modeSSE
	// modeNDJSON forwards newline-delimited JSON, one flush per line.
	modeNDJSON
	// modeChunked forwards raw chunks as they arrive, one flush per read.
	modeChunked
)

// RelayOptions configures the shared upstream HTTP client.
type RelayOptions struct {
	// ConnectTimeout bounds the upstream dial. Default: 10 seconds.
	ConnectTimeout time.Duration

	// IdleTimeout bounds the wait for upstream response headers and the
	// gap between successive body reads. An upstream that goes silent
	// mid-stream for longer than this is cancelled so the relay goroutine
	// and its connection are released. It also caps how long idle pooled
	// connections are kept. Default: 120 seconds.
	IdleTimeout time.Duration

	// Logger is used for relay diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// RelayResult describes what a relay wrote downstream.
type RelayResult struct {
	// Status is the upstream status forwarded downstream.
	Status int

	// Streamed reports whether the body was forwarded unit by unit.
	Streamed bool

	// Chunks is the number of forwarded units (1 for a buffered body
	// that had content).
	Chunks int
}

// Relay performs the upstream call for a prepared OutboundCall and pipes
// the response back to the inbound connection, preserving framing.
//
// A single Relay is shared by all requests; its client pools upstream
// connections. Pooling never changes observable semantics because each
// relayed response still maps one upstream read unit to one downstream
// write.
type Relay struct {
	client      *http.Client
	logger      *slog.Logger
	idleTimeout time.Duration
}

// NewRelay creates a relay with a shared upstream client. The client has no
// overall request timeout because streamed completions legitimately run for
// minutes; cancellation comes from the inbound request context instead.
func NewRelay(opts RelayOptions) *Relay {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 120 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: opts.ConnectTimeout,
		}).DialContext,
		ResponseHeaderTimeout: opts.IdleTimeout,
		IdleConnTimeout:       opts.IdleTimeout,
		MaxIdleConnsPerHost:   8,
		ForceAttemptHTTP2:     true,
	}

	return &Relay{
		client:      &http.Client{Transport: transport},
		logger:      opts.Logger,
		idleTimeout: opts.IdleTimeout,
	}
}

// Relay executes the outbound call and writes the upstream response to w.
// The upstream status and body are forwarded verbatim, including non-2xx
// responses, so the caller sees the provider's own errors.
//
// An error is returned only when nothing has been written downstream yet
// (connection failure); once headers are forwarded, failures are resolved
// by closing the response so the client never hangs on a silent drop.
func (rl *Relay) Relay(ctx context.Context, call *OutboundCall, w http.ResponseWriter) (*RelayResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, call.Method, call.URL, bytes.NewReader(call.Body))
	if err != nil {
		return nil, &MalformedRequestError{Reason: err.Error()}
	}
	req.Header = call.Header

	resp, err := rl.client.Do(req)
	if err != nil {
		return nil, &UpstreamUnreachableError{Provider: call.Provider.Name, Cause: err}
	}
	defer resp.Body.Close()

	// ResponseHeaderTimeout covers the wait for headers, but nothing in
	// net/http bounds the gap between body bytes. The watchdog is rearmed
	// on every read; on expiry the request context is cancelled, which
	// fails the blocked read.
	var stalled atomic.Bool
	watchdog := time.AfterFunc(rl.idleTimeout, func() {
		stalled.Store(true)
		cancel()
	})
	defer watchdog.Stop()
	body := &idleAwareBody{r: resp.Body, watchdog: watchdog, timeout: rl.idleTimeout}

	copyResponseHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	result := &RelayResult{Status: resp.StatusCode}

	mode := classifyBody(resp)
	if mode == modeBuffered {
		n, err := io.Copy(w, body)
		if n > 0 {
			result.Chunks = 1
		}
		if err != nil && !isDisconnect(ctx, err) {
			rl.logger.WarnContext(ctx, "buffered relay interrupted",
				"provider", call.Provider.Name,
				"error", err,
			)
		}
	} else {
		result.Streamed = true
		rl.relayStream(ctx, call, w, body, mode, result)
	}

	if stalled.Load() {
		rl.logger.WarnContext(ctx, "upstream stalled mid-body, relay cancelled",
			"provider", call.Provider.Name,
			"idle_timeout", rl.idleTimeout,
			"chunks_forwarded", result.Chunks,
		)
	}
	return result, nil
}

// idleAwareBody rearms the relay watchdog each time upstream data arrives.
// While a read is blocked the timer keeps running, so a silent upstream
// trips it.
type idleAwareBody struct {
	r        io.Reader
	watchdog *time.Timer
	timeout  time.Duration
}

func (b *idleAwareBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if n > 0 {
		b.watchdog.Reset(b.timeout)
	}
	return n, err
}

// relayStream forwards the body unit by unit, flushing after each write so
// every upstream unit reaches the client as soon as it arrives. Exactly one
// downstream write happens per upstream unit; units are never merged, split,
// or reordered.
func (rl *Relay) relayStream(ctx context.Context, call *OutboundCall, w http.ResponseWriter, body io.Reader, mode streamMode, result *RelayResult) {
	flusher, _ := w.(http.Flusher)

	forward := func(unit []byte) bool {
		if len(unit) == 0 {
			return true
		}
		if _, err := w.Write(unit); err != nil {
			// Downstream went away; the deferred body close plus the
			// request context tear down the upstream read.
			rl.logger.DebugContext(ctx, "downstream write failed, cancelling upstream",
				"provider", call.Provider.Name,
				"chunks_forwarded", result.Chunks,
			)
			return false
		}
		if flusher != nil {
			flusher.Flush()
		}
		result.Chunks++
		return true
	}

	switch mode {
	case modeSSE:
		rl.copySSE(ctx, call, body, forward)
	case modeNDJSON:
		rl.copyLines(ctx, call, body, forward)
	default:
		rl.copyChunks(ctx, call, body, forward)
	}
}

// copySSE forwards complete server-sent events. An event is everything up
// to and including its blank-line terminator.
func (rl *Relay) copySSE(ctx context.Context, call *OutboundCall, body io.Reader, forward func([]byte) bool) {
	reader := bufio.NewReader(body)
	var event bytes.Buffer

	for {
		line, err := reader.ReadBytes('\n')
		event.Write(line)

		// A lone newline terminates the event.
		if bytes.Equal(line, []byte("\n")) || bytes.Equal(line, []byte("\r\n")) {
			if !forward(event.Bytes()) {
				return
			}
			event.Reset()
		}

		if err != nil {
			// Forward any unterminated trailing event before closing.
			forward(event.Bytes())
			rl.logStreamEnd(ctx, call, err)
			return
		}
	}
}

// copyLines forwards newline-delimited JSON one line at a time.
func (rl *Relay) copyLines(ctx context.Context, call *OutboundCall, body io.Reader, forward func([]byte) bool) {
	reader := bufio.NewReader(body)

	for {
		line, err := reader.ReadBytes('\n')
		if !forward(line) {
			return
		}
		if err != nil {
			rl.logStreamEnd(ctx, call, err)
			return
		}
	}
}

// copyChunks forwards raw reads as they arrive for bodies with no
// recognized unit framing.
func (rl *Relay) copyChunks(ctx context.Context, call *OutboundCall, body io.Reader, forward func([]byte) bool) {
	buf := make([]byte, 32*1024)

	for {
		n, err := body.Read(buf)
		if n > 0 && !forward(buf[:n]) {
			return
		}
		if err != nil {
			rl.logStreamEnd(ctx, call, err)
			return
		}
	}
}

// logStreamEnd records how an upstream stream terminated.
func (rl *Relay) logStreamEnd(ctx context.Context, call *OutboundCall, err error) {
	if errors.Is(err, io.EOF) {
		return
	}
	if isDisconnect(ctx, err) {
		rl.logger.DebugContext(ctx, "stream cancelled",
			"provider", call.Provider.Name,
		)
		return
	}
	rl.logger.WarnContext(ctx, "upstream stream ended abnormally",
		"provider", call.Provider.Name,
		"error", err,
	)
}

// isDisconnect reports whether an error stems from the inbound caller going
// away rather than an upstream fault.
func isDisconnect(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}

// classifyBody picks the forwarding mode from the upstream response.
func classifyBody(resp *http.Response) streamMode {
	contentType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		contentType = ""
	}

	switch contentType {
	case "text/event-stream":
		return modeSSE
	case "application/x-ndjson", "application/jsonl", "application/json-seq":
		return modeNDJSON
	}

	// A declared length means the upstream already finished producing the
	// body, so one-shot copying cannot change what the client observes.
	if resp.ContentLength >= 0 {
		return modeBuffered
	}
	return modeChunked
}

// copyResponseHeader copies upstream response headers downstream, dropping
// hop-by-hop headers.
func copyResponseHeader(dst, src http.Header) {
	for key, values := range src {
		if isHopByHop(key) {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

// isHopByHop reports whether a header is connection-level.
func isHopByHop(key string) bool {
	for _, h := range hopByHopHeaders {
		if http.CanonicalHeaderKey(h) == http.CanonicalHeaderKey(key) {
			return true
		}
	}
	return false
}
