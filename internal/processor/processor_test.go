package processor_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/notifyhub/assignment-queue/internal/domain"
	"github.com/notifyhub/assignment-queue/internal/processor"
)

var due = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

func TestLog_EmitsOneLinePerAssignment(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := processor.NewLog(zap.New(core))

	a := domain.MustAssignment("Finish work assignment #1", due, domain.PriorityHigh)
	if err := p.Process(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("consumed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["description"] != "Finish work assignment #1" {
		t.Fatalf("unexpected description field: %v", fields["description"])
	}
	if fields["priority"] != "HIGH" {
		t.Fatalf("unexpected priority field: %v", fields["priority"])
	}
	if fields["due_date"] != "2024-03-05T09:00:00Z" {
		t.Fatalf("unexpected due_date field: %v", fields["due_date"])
	}
}

func TestWebhook_PostsAssignment(t *testing.T) {
	var got processor.WebhookRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	a := domain.MustAssignment("Buy milk and eggs", due, domain.PriorityMedium)
	if err := processor.NewWebhook(srv.URL, time.Second).Process(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID != a.ID().String() || got.Description != "Buy milk and eggs" || got.Priority != "MEDIUM" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if !got.DueDate.Equal(due) {
		t.Fatalf("unexpected due date: %s", got.DueDate)
	}
}

func TestWebhook_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := domain.MustAssignment("x", due, domain.PriorityLow)
	if err := processor.NewWebhook(srv.URL, time.Second).Process(context.Background(), a); err == nil {
		t.Fatal("expected an error for a 502 response")
	}
}

func TestChain_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	count := processor.Func(func(context.Context, domain.Assignment) error { calls++; return nil })
	fail := processor.Func(func(context.Context, domain.Assignment) error { return boom })

	chain := processor.Chain{count, fail, count}
	err := chain.Process(context.Background(), domain.MustAssignment("x", due, domain.PriorityLow))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected chain to stop after the failure, got %d calls", calls)
	}
}
