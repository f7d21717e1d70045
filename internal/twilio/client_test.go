package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeleteMessage(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if user, pass, ok := r.BasicAuth(); !ok || user != "AC123" || pass != "token" {
			t.Errorf("missing or wrong basic auth: %q %q", user, pass)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient("AC123", "token").WithBaseURL(srv.URL)
	if err := c.DeleteMessage(context.Background(), "SM456"); err != nil {
		t.Fatalf("delete message: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/Accounts/AC123/Messages/SM456.json" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
}

func TestDeleteMessage_NonNoContentIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("AC123", "token").WithBaseURL(srv.URL)
	if err := c.DeleteMessage(context.Background(), "SM456"); err == nil {
		t.Fatalf("expected error for 404 response")
	}
}

func TestListIncomingPhoneNumbers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Accounts/AC123/IncomingPhoneNumbers.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("PageSize") != "20" {
			t.Errorf("unexpected page size %q", r.URL.Query().Get("PageSize"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"incoming_phone_numbers":[{"sid":"PN1","phone_number":"+15551230000","friendly_name":"Frame"}]}`))
	}))
	defer srv.Close()

	c := NewClient("AC123", "token").WithBaseURL(srv.URL)
	numbers, err := c.ListIncomingPhoneNumbers(context.Background(), 20)
	if err != nil {
		t.Fatalf("list numbers: %v", err)
	}
	if len(numbers) != 1 || numbers[0].PhoneNumber != "+15551230000" || numbers[0].SID != "PN1" {
		t.Fatalf("unexpected numbers: %+v", numbers)
	}
}
