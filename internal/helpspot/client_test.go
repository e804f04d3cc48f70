package helpspot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestCreateRemovalRequest_Success проверяет успешное создание заявки.
func TestCreateRemovalRequest_Success(t *testing.T) {
	var gotPath, gotMethod string
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method

		user, pass, ok := r.BasicAuth()
		if !ok || user != "api-user" || pass != "api-pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotForm = map[string]string{
			"method":    r.PostFormValue("method"),
			"sEmail":    r.PostFormValue("sEmail"),
			"sTitle":    r.PostFormValue("sTitle"),
			"xCategory": r.PostFormValue("xCategory"),
		}

		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><results><request><xRequest>12846</xRequest></request></results>`))
	}))
	defer srv.Close()

	client := NewClient()
	ticketID, err := client.CreateRemovalRequest(context.Background(), Config{
		Endpoint:   srv.URL,
		Username:   "api-user",
		Password:   "api-pass",
		CategoryID: "7",
	}, "user@example.com", "note text")
	if err != nil {
		t.Fatalf("CreateRemovalRequest ошибка: %v", err)
	}

	if ticketID != "12846" {
		t.Errorf("ticketID = %q, ожидался 12846", ticketID)
	}
	if gotPath != "/api/index.php" {
		t.Errorf("path = %q, ожидался /api/index.php", gotPath)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, ожидался POST", gotMethod)
	}
	if gotForm["method"] != "private.request.create" {
		t.Errorf("form method = %q", gotForm["method"])
	}
	if gotForm["sEmail"] != "user@example.com" {
		t.Errorf("sEmail = %q", gotForm["sEmail"])
	}
	if gotForm["sTitle"] != "Please remove outgoing letter" {
		t.Errorf("sTitle = %q", gotForm["sTitle"])
	}
	if gotForm["xCategory"] != "7" {
		t.Errorf("xCategory = %q", gotForm["xCategory"])
	}
}

// TestCreateRemovalRequest_AuthFailed проверяет обработку 401.
func TestCreateRemovalRequest_AuthFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient()
	_, err := client.CreateRemovalRequest(context.Background(), Config{
		Endpoint: srv.URL, Username: "bad", Password: "creds", CategoryID: "7",
	}, "user@example.com", "note")
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("err = %v, ожидался ErrAuthFailed", err)
	}
}

// TestCreateRemovalRequest_APIError проверяет извлечение описания ошибки из XML.
func TestCreateRemovalRequest_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><results><error><id>3</id><description>Invalid category</description></error></results>`))
	}))
	defer srv.Close()

	client := NewClient()
	_, err := client.CreateRemovalRequest(context.Background(), Config{
		Endpoint: srv.URL, Username: "u", Password: "p", CategoryID: "999",
	}, "user@example.com", "note")
	if err == nil {
		t.Fatal("ожидалась ошибка API")
	}
	if !strings.Contains(err.Error(), "Invalid category") {
		t.Errorf("err = %v, должно содержать описание из XML", err)
	}
}

// TestApiEndpoint проверяет нормализацию базового адреса.
func TestApiEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://helpdesk.example.com", "https://helpdesk.example.com/api/index.php"},
		{"https://helpdesk.example.com/", "https://helpdesk.example.com/api/index.php"},
		{"helpdesk.example.com/helpspot", "https://helpdesk.example.com/helpspot/api/index.php"},
		{"http://internal:8080", "http://internal:8080/api/index.php"},
	}
	for _, tt := range tests {
		got, err := apiEndpoint(tt.in)
		if err != nil {
			t.Errorf("apiEndpoint(%q) ошибка: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("apiEndpoint(%q) = %q, ожидалось %q", tt.in, got, tt.want)
		}
	}

	if _, err := apiEndpoint("  "); err == nil {
		t.Error("пустой адрес должен давать ошибку")
	}
}
