package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bobmcallan/board-race/internal/models"
)

func samplePayload() *models.Payload {
	return &models.Payload{
		Text: "*Trello race results for Oct 14, 2026*",
		Attachments: []models.Attachment{
			{Title: "Cards finished", Text: "Congratulations to Alice for finishing 1 card(s)!", Color: models.ColorGood},
		},
	}
}

func TestSend_PostsJSON(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("body is not JSON: %v", err)
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	if err := NewSlackNotifier(srv.URL, time.Second).Send(context.Background(), samplePayload()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	want := map[string]interface{}{
		"text": "*Trello race results for Oct 14, 2026*",
		"attachments": []interface{}{
			map[string]interface{}{
				"fallback": "",
				"title":    "Cards finished",
				"text":     "Congratulations to Alice for finishing 1 card(s)!",
				"color":    "good",
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected wire payload (-want +got):\n%s", diff)
	}
}

func TestSend_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("invalid_token"))
	}))
	defer srv.Close()

	err := NewSlackNotifier(srv.URL, time.Second).Send(context.Background(), samplePayload())
	if err == nil {
		t.Fatal("expected error for 403")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "invalid_token") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSend_MissingWebhook(t *testing.T) {
	if err := NewSlackNotifier("", 0).Send(context.Background(), samplePayload()); err == nil {
		t.Fatal("expected error without webhook url")
	}
}

func TestSend_UnreachableHidesWebhook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	hook := srv.URL + "/services/T000/B000/secret"
	srv.Close()

	err := NewSlackNotifier(hook, time.Second).Send(context.Background(), samplePayload())
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("webhook leaked into error: %v", err)
	}
}
