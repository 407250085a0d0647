package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func shortRetries(t *testing.T) {
	t.Helper()
	origDelay := initialRetryDelay
	initialRetryDelay = time.Millisecond
	t.Cleanup(func() { initialRetryDelay = origDelay })
}

func TestNewClient_MissingConfig(t *testing.T) {
	if c := NewClient("", "123"); c != nil {
		t.Fatal("NewClient returned client without token")
	}
	if c := NewClient("tok", ""); c != nil {
		t.Fatal("NewClient returned client without chat ID")
	}
}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotReq sendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(apiResponse{OK: true})
	}))
	defer srv.Close()

	c := NewClient("123:tok", "-100200300")
	c.baseURL = srv.URL

	if err := c.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if gotPath != "/bot123:tok/sendMessage" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotReq.ChatID != "-100200300" || gotReq.Text != "hello" {
		t.Fatalf("request = %+v", gotReq)
	}
	if gotReq.ParseMode != "MarkdownV2" {
		t.Fatalf("parse_mode = %q, want MarkdownV2", gotReq.ParseMode)
	}
}

func TestSendMessage_TransientThenSuccess(t *testing.T) {
	shortRetries(t)

	var calls, delivered int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		delivered++
		_ = json.NewEncoder(w).Encode(apiResponse{OK: true})
	}))
	defer srv.Close()

	c := NewClient("123:tok", "-100")
	c.baseURL = srv.URL

	if err := c.SendMessage(context.Background(), "retry me"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if delivered != 1 {
		t.Fatalf("delivered %d times, want exactly 1", delivered)
	}
}

func TestSendMessage_RejectionIsPermanent(t *testing.T) {
	shortRetries(t)

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(apiResponse{OK: false, ErrorCode: 400, Description: "can't parse entities"})
	}))
	defer srv.Close()

	c := NewClient("123:tok", "-100")
	c.baseURL = srv.URL

	if err := c.SendMessage(context.Background(), "*bad"); err == nil {
		t.Fatal("SendMessage succeeded on rejected message")
	}
	if calls != 1 {
		t.Fatalf("send attempted %d times for permanent rejection, want 1", calls)
	}
}

func TestSendMessage_RetryBudgetExhausted(t *testing.T) {
	shortRetries(t)

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("123:tok", "-100")
	c.baseURL = srv.URL

	if err := c.SendMessage(context.Background(), "never lands"); err == nil {
		t.Fatal("SendMessage succeeded, want error after budget exhausted")
	}
	if calls != int(maxRetries)+1 {
		t.Fatalf("send attempted %d times, want %d", calls, maxRetries+1)
	}
}
