package prerouter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayomtuase/julieth/topk"
)

// TestBlockIP_WhenIPIsAlreadyBlocked verifies that a pre-blocked IP is rejected.
func TestBlockIP_WhenIPIsAlreadyBlocked(t *testing.T) {
	env := newTestEnv(t)
	middleware := NewBlockIp(env)

	blockedIP := "192.0.2.100"
	if err := middleware.Block(blockedIP); err != nil {
		t.Fatalf("Block: %v", err)
	}
	env.cache.Wait()

	handlerChain := middleware.Execute(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler was called unexpectedly for a blocked IP")
	}))

	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = blockedIP + ":12345"
	rr := httptest.NewRecorder()
	handlerChain.ServeHTTP(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected status code %d, but got %d", http.StatusTooManyRequests, rr.Code)
	}
}

func TestBlockIP_WhenIPIsNotBlocked(t *testing.T) {
	env := newTestEnv(t)
	middleware := NewBlockIp(env)

	handlerCalled := false
	handlerChain := middleware.Execute(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	rr := httptest.NewRecorder()
	handlerChain.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status code %d, but got %d", http.StatusOK, rr.Code)
	}
	if !handlerCalled {
		t.Error("next handler was not called for an allowed IP")
	}
}

func TestBlockIP_Disabled(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.BlockIp.Enabled = false
	middleware := NewBlockIp(env)
	if err := middleware.Block("192.0.2.100"); err != nil {
		t.Fatalf("Block: %v", err)
	}
	env.cache.Wait()

	called := false
	h := middleware.Execute(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "192.0.2.100:1"
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("a disabled block list must let everything through")
	}
}

// TestBlockIP_ProcessAndBlockTrigger verifies an IP is blocked after exceeding the threshold.
func TestBlockIP_ProcessAndBlockTrigger(t *testing.T) {
	env := newTestEnv(t)

	// A tick is 3 submissions and a client may send 1 per window.
	middleware := &BlockIp{
		env: env,
		sketch: topk.New(topk.SketchParams{
			K: 2, WindowSize: 10, TickSize: 3, Width: 256, Depth: 2, ActivationRPS: 1, MaxSharePercent: 5,
		}),
		now: time.Now,
	}

	ipToBlock := "192.0.2.200"
	middleware.Process(ipToBlock)
	middleware.Process("192.0.2.99")
	middleware.Process(ipToBlock)

	// Blocking is asynchronous, poll the cache.
	var isBlocked bool
	for i := 0; i < 50; i++ {
		env.cache.Wait()
		if middleware.IsBlocked(ipToBlock) {
			isBlocked = true
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !isBlocked {
		t.Fatal("IP was not blocked within the timeout period")
	}
	if middleware.IsBlocked("192.0.2.99") {
		t.Error("the light client must not be blocked")
	}
}

func TestBlockIP_BlockSpansBuckets(t *testing.T) {
	env := newTestEnv(t)
	middleware := NewBlockIp(env)

	// One minute before the bucket ends, the block continues in the next one.
	end := time.Unix((getTimeBucket(time.Now())+1)*bucketDurationSec, 0)
	middleware.now = func() time.Time { return end.Add(-time.Minute) }
	if err := middleware.Block("192.0.2.5"); err != nil {
		t.Fatalf("Block: %v", err)
	}
	env.cache.Wait()

	middleware.now = func() time.Time { return end.Add(time.Second) }
	if !middleware.IsBlocked("192.0.2.5") {
		t.Error("block lost at the bucket boundary")
	}
}
