package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fesgura/mathtrade-logistics-sub000/api"
	"github.com/fesgura/mathtrade-logistics-sub000/utils"
)

type testSession struct {
	authenticated bool
	token         string
	userId        int
	admin         bool
}

func (s *testSession) IsAuthenticated() bool { return s.authenticated }
func (s *testSession) Token() string         { return s.token }
func (s *testSession) UserId() int           { return s.userId }
func (s *testSession) IsAdmin() bool         { return s.admin }

func newTestClient(t *testing.T, handler http.Handler) (*api.Client, *testSession) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("MT_API_BASE_URL", srv.URL)
	session := &testSession{authenticated: true, token: "abc123", userId: 7}
	client, err := api.NewClient(session)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, session
}

func TestClient_SendsAuthAndCorrelationHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotCorrelation, gotContentType string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotCorrelation = r.Header.Get("X-Correlation-Id")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"ok":true}`))
	}))

	raw, err := client.Execute(context.Background(), http.MethodPost, "logistics/boxes/", map[string]int{"destination_id": 3})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if raw == nil {
		t.Fatal("expected a body back")
	}
	if gotAuth != "Token abc123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if gotCorrelation == "" {
		t.Error("missing X-Correlation-Id")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
}

func TestClient_PropagatesCorrelationIdFromContext(t *testing.T) {
	var got string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Correlation-Id")
	}))

	ctx := utils.SetCorrelationIdInContext(context.Background(), "corr-42")
	if _, err := client.Execute(ctx, http.MethodGet, "trades/", nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "corr-42" {
		t.Errorf("X-Correlation-Id = %q, want the context's id", got)
	}
}

func TestClient_UnauthenticatedNeverCallsServer(t *testing.T) {
	called := false
	client, session := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	session.authenticated = false

	_, err := client.Execute(context.Background(), http.MethodGet, "trades/", nil)
	if !errors.Is(err, utils.ErrorNotAuthenticated) {
		t.Fatalf("err = %v, want ErrorNotAuthenticated", err)
	}
	if called {
		t.Error("request went out despite the missing session")
	}
}

func TestClient_ExtractsServerErrorDetail(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"detail field", `{"detail":"Box already deleted"}`, "Box already deleted"},
		{"message fallback", `{"message":"Invalid status"}`, "Invalid status"},
		{"opaque body", `<html>boom</html>`, "request failed (400)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))

			_, err := client.Execute(context.Background(), http.MethodDelete, "logistics/boxes/5/", nil)
			var serverErr *api.ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("err = %v, want *ServerError", err)
			}
			if serverErr.StatusCode != http.StatusBadRequest {
				t.Errorf("StatusCode = %d", serverErr.StatusCode)
			}
			if serverErr.Error() != tc.want {
				t.Errorf("Error() = %q, want %q", serverErr.Error(), tc.want)
			}
		})
	}
}

func TestClient_EmptyBodyMeansNoPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	raw, err := client.Execute(context.Background(), http.MethodDelete, "logistics/boxes/5/", nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if raw != nil {
		t.Errorf("raw = %s, want nil", raw)
	}
}

// A 2xx response with no body is a legitimate null result and must reach the
// typed layer as "nothing here", never as a decode error.
func TestTypedOperations_EmptyBodyIsNullResult(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	items, err := client.FetchItems(ctx)
	if err != nil {
		t.Fatalf("FetchItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %v, want none", items)
	}

	trades, err := client.FetchTrades(ctx)
	if err != nil {
		t.Fatalf("FetchTrades: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("trades = %v, want none", trades)
	}

	box, err := client.CreateBox(ctx, 3, nil)
	if err != nil {
		t.Fatalf("CreateBox: %v", err)
	}
	if box != nil {
		t.Errorf("CreateBox box = %+v, want nil", box)
	}

	box, err = client.UpdateBoxItems(ctx, 5, []int{1})
	if err != nil {
		t.Fatalf("UpdateBoxItems: %v", err)
	}
	if box != nil {
		t.Errorf("UpdateBoxItems box = %+v, want nil", box)
	}
}

func TestSessionFromContext(t *testing.T) {
	ctx := utils.SetTokenInContext(context.Background(), "tok-9")
	ctx = utils.SetUserIdInContext(ctx, 42)
	ctx = utils.SetIsAdminInContext(ctx, true)

	session := api.SessionFromContext(ctx)
	if !session.IsAuthenticated() {
		t.Fatal("session with a token should be authenticated")
	}
	if session.Token() != "tok-9" || session.UserId() != 42 || !session.IsAdmin() {
		t.Errorf("session = %q/%d/admin=%v", session.Token(), session.UserId(), session.IsAdmin())
	}

	empty := api.SessionFromContext(context.Background())
	if empty.IsAuthenticated() {
		t.Error("bare context produced an authenticated session")
	}
}

func TestPublicMessage(t *testing.T) {
	if got := api.PublicMessage(&api.ServerError{StatusCode: 400, Detail: "Item is not in the event yet"}); got != "Item is not in the event yet" {
		t.Errorf("PublicMessage(server detail) = %q", got)
	}
	if got := api.PublicMessage(utils.ErrorNotAuthenticated); got != "You must be logged in to do that" {
		t.Errorf("PublicMessage(not authenticated) = %q", got)
	}
	if got := api.PublicMessage(errors.New("dial tcp: refused")); got != "Something went wrong, please try again" {
		t.Errorf("PublicMessage(transport) = %q", got)
	}
}
