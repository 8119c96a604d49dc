package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestAPI(t *testing.T, disconnectCode int) (*apiClient, *[]string) {
	t.Helper()
	var disconnected []string

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/agents", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"agents":[
			{"id":"abc12345-1234-5678-9abc-def012345678","card":{"name":"athyr-chat"}},
			{"id":"abd99999-1234-5678-9abc-def012345678","card":{"name":"support"}}
		]}`))
	})
	mux.HandleFunc("/v1/disconnect", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		disconnected = append(disconnected, req["agent_id"])
		json.NewEncoder(w).Encode(map[string]any{"ok": disconnectCode == 0, "code": disconnectCode, "message": "not found"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &apiClient{base: srv.URL, http: srv.Client()}, &disconnected
}

func TestResolveAgentID(t *testing.T) {
	api, _ := newTestAPI(t, 0)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "full uuid", input: "11111111-2222-3333-4444-555555555555", want: "11111111-2222-3333-4444-555555555555"},
		{name: "prefix", input: "abc1", want: "abc12345-1234-5678-9abc-def012345678"},
		{name: "session name", input: "support", want: "abd99999-1234-5678-9abc-def012345678"},
		{name: "ambiguous", input: "ab", wantErr: "multiple agents"},
		{name: "unknown", input: "zzz", wantErr: "no agent found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := api.resolveAgentID(context.Background(), tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveAgentID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveAgentID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisconnect(t *testing.T) {
	api, calls := newTestAPI(t, 0)

	if err := api.disconnect(context.Background(), "abc12345-1234-5678-9abc-def012345678"); err != nil {
		t.Fatalf("disconnect() error = %v", err)
	}
	if len(*calls) != 1 || (*calls)[0] != "abc12345-1234-5678-9abc-def012345678" {
		t.Errorf("calls = %v, want one disconnect", *calls)
	}
}

func TestDisconnect_ServerError(t *testing.T) {
	api, _ := newTestAPI(t, 5)

	err := api.disconnect(context.Background(), "abc12345-1234-5678-9abc-def012345678")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("disconnect() error = %v, want server message", err)
	}
}
