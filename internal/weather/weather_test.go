package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConditionEmoji(t *testing.T) {
	cases := []struct{ condition, want string }{
		{"Sunny", "☀️"},
		{"Clear", "☀️"},
		{"Partly cloudy", "⛅"},
		{"Overcast", "☁️"},
		{"Light rain", "🌧"},
		{"Patchy light drizzle", "🌧"},
		{"Thundery outbreaks possible", "⛈"},
		{"Blowing snow", "❄️"},
		{"Mist", "🌫"},
		{"Volcanic ash", "🌤"},
	}
	for _, c := range cases {
		if got := ConditionEmoji(c.condition); got != c.want {
			t.Fatalf("ConditionEmoji(%q) = %q, want %q", c.condition, got, c.want)
		}
	}
}

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "21.028,105.854" {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"location": {"name": "Hanoi", "country": "Vietnam"},
			"current": {
				"last_updated": "2026-08-28 14:00",
				"temp_c": 33.5,
				"feelslike_c": 38.1,
				"condition": {"text": "Partly cloudy"}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.baseURL = srv.URL

	obs, err := c.Current(context.Background(), "21.028,105.854")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if obs.Location.Name != "Hanoi" {
		t.Fatalf("Name = %q", obs.Location.Name)
	}
	if obs.Current.TempC != 33.5 {
		t.Fatalf("TempC = %v", obs.Current.TempC)
	}
}

func TestCurrent_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("bad-key")
	c.baseURL = srv.URL

	if _, err := c.Current(context.Background(), "0,0"); err == nil {
		t.Fatal("Current succeeded with rejected key")
	}
}

func TestNewClient_EmptyKey(t *testing.T) {
	if c := NewClient("  "); c != nil {
		t.Fatal("NewClient returned client for empty key")
	}
}
