package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"pocketledger/internal/core"
)

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		t.Fatalf("encode reply: %v", err)
	}
}

func testPipeline(serverURL string) *Pipeline {
	return NewPipeline(NewClient(Config{
		URL:    serverURL,
		APIKey: "test-key",
		Model:  "test-model",
	}))
}

func TestParseBillSuccess(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		chatReply(t, w, `{"type":"expense","amount":35,"category":"餐饮-午餐","note":"午饭"}`)
	}))
	defer srv.Close()

	p := testPipeline(srv.URL)
	r := <-p.ParseBill(context.Background(), "午饭花了35元")
	if r.Err != nil {
		t.Fatalf("parse bill: %v", r.Err)
	}
	if r.Value.Type != core.TypeExpense || r.Value.Amount != 35 {
		t.Fatalf("unexpected transaction: %+v", r.Value)
	}
	if r.Value.Date != time.Now().Format(core.DateLayout) {
		t.Fatalf("date should default to today, got %q", r.Value.Date)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotReq.Model != "test-model" || len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("unexpected request body: %+v", gotReq)
	}
}

func TestParseTaskSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "```json\n{\"title\":\"买牛奶\",\"description\":\"null\",\"priority\":\"low\"}\n```")
	}))
	defer srv.Close()

	p := testPipeline(srv.URL)
	r := <-p.ParseTask(context.Background(), "任务：买牛奶")
	if r.Err != nil {
		t.Fatalf("parse task: %v", r.Err)
	}
	if r.Value.Title != "买牛奶" || r.Value.Priority != core.PriorityLow {
		t.Fatalf("unexpected item: %+v", r.Value)
	}
	if r.Value.Description != "" {
		t.Fatalf("null description should be empty, got %q", r.Value.Description)
	}
}

func TestParseBillServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := testPipeline(srv.URL)
	r := <-p.ParseBill(context.Background(), "午饭花了35元")
	if r.Err == nil {
		t.Fatal("non-success status should fail the call")
	}
}

func TestParseBillTimeoutDeliversErrorOnce(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	p := NewPipeline(NewClient(Config{
		URL:            srv.URL,
		Model:          "test-model",
		ConnectTimeout: 50 * time.Millisecond,
		ReadTimeout:    50 * time.Millisecond,
	}))

	d := NewDispatcher()
	defer d.Close()

	var mu sync.Mutex
	var successes, failures int
	done := make(chan struct{}, 2)
	Deliver(p.ParseBill(context.Background(), "午饭花了35元"), d,
		func(core.Transaction) {
			mu.Lock()
			successes++
			mu.Unlock()
			done <- struct{}{}
		},
		func(reason string) {
			mu.Lock()
			failures++
			mu.Unlock()
			if reason == "" {
				t.Error("error continuation should carry a reason")
			}
			done <- struct{}{}
		})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("no continuation fired")
	}
	// Give a wrongly duplicated delivery a moment to show up.
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if successes != 0 || failures != 1 {
		t.Fatalf("timeout delivered successes=%d failures=%d, want exactly one failure", successes, failures)
	}
}

func TestDispatcherSerializesDeliveries(t *testing.T) {
	d := NewDispatcher()

	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		i := i
		d.Dispatch(func() {
			// Appending without a lock is only safe because everything runs
			// on the single dispatcher goroutine.
			order = append(order, i)
			wg.Done()
		})
	}
	wg.Wait()
	d.Close()

	if len(order) != 20 {
		t.Fatalf("delivered %d callbacks, want 20", len(order))
	}
}

func TestConcurrentParsesAreIndependent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `{"type":"expense","amount":1,"category":"x"}`)
	}))
	defer srv.Close()

	p := testPipeline(srv.URL)
	first := p.ParseBill(context.Background(), "a")
	second := p.ParseBill(context.Background(), "b")

	for i, ch := range []<-chan Result[core.Transaction]{first, second} {
		select {
		case r := <-ch:
			if r.Err != nil {
				t.Fatalf("call %d failed: %v", i, r.Err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("call %d never completed", i)
		}
	}
}
