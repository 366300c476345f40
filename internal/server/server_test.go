package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/edgard/careeradvisor/internal/advisor"
	"github.com/edgard/careeradvisor/internal/config"
	"github.com/edgard/careeradvisor/internal/database"
	"github.com/edgard/careeradvisor/internal/gemini"
	"github.com/edgard/careeradvisor/internal/gemini/geminitest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(client *geminitest.Client, store database.Store) *gin.Engine {
	return New(Deps{
		Config: config.ServerConfig{
			Addr:        ":0",
			CORSOrigins: config.DefaultCORSOrigins,
		},
		History: config.HistoryConfig{MaxList: 50},
		Model:   client.Model(),
		Advisor: advisor.NewAdvisor(client, nil),
		Relay:   advisor.NewRelay(client, nil),
		Store:   store,
	}).Router()
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	t.Parallel()

	client := &geminitest.Client{ModelName: "gemini-1.5-flash"}
	rec := doJSON(t, newTestRouter(client, nil), http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["ok"] != true || body["model"] != "gemini-1.5-flash" {
		t.Errorf("body = %v", body)
	}
	if len(client.Prompts())+len(client.Conversations()) != 0 {
		t.Error("/health contacted the completion service")
	}
}

func TestCareerAdvice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		request    string
		output     string
		err        error
		wantStatus int
		wantBody   map[string]any
		wantCalls  int
	}{
		{
			name:       "fenced json",
			request:    `{"name":"Ada","skills":["Go"],"time_per_week_hours":5}`,
			output:     "```json\n{\"a\":1}\n```",
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"a": float64(1)},
			wantCalls:  1,
		},
		{
			name:       "empty profile",
			request:    `{}`,
			output:     `{"a":1}`,
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"a": float64(1)},
			wantCalls:  1,
		},
		{
			name:       "invalid json from model",
			request:    `{}`,
			output:     "not json at all",
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"error": "Model returned invalid JSON", "raw": "not json at all"},
			wantCalls:  1,
		},
		{
			name:       "completion failure",
			request:    `{}`,
			err:        &gemini.Error{Kind: gemini.KindNetwork, Detail: "connection refused"},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"error": "connection refused"},
			wantCalls:  1,
		},
		{
			name:       "wrong field type",
			request:    `{"skills":"Go"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			request:    `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &geminitest.Client{Text: tt.output, Err: tt.err}
			rec := doJSON(t, newTestRouter(client, nil), http.MethodPost, "/career-advice", tt.request)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := len(client.Prompts()); got != tt.wantCalls {
				t.Errorf("completion calls = %d, want %d", got, tt.wantCalls)
			}
			if tt.wantBody == nil {
				return
			}

			body := decodeBody(t, rec)
			if len(body) != len(tt.wantBody) {
				t.Errorf("body = %v, want %v", body, tt.wantBody)
			}
			for k, v := range tt.wantBody {
				if body[k] != v {
					t.Errorf("body[%q] = %v, want %v", k, body[k], v)
				}
			}
		})
	}
}

func TestChat(t *testing.T) {
	t.Parallel()

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		client := &geminitest.Client{Text: "Happy to help."}
		rec := doJSON(t, newTestRouter(client, nil), http.MethodPost, "/chat", `{"history":[],"new_message":"Where do I start?"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		if body := decodeBody(t, rec); body["reply"] != "Happy to help." {
			t.Errorf("body = %v", body)
		}

		turns := client.Conversations()[0]
		if len(turns) != 3 || turns[0].Parts[0] != advisor.ChatPersonaPrompt || turns[2].Parts[0] != "Where do I start?" {
			t.Errorf("unexpected conversation: %+v", turns)
		}
	})

	t.Run("with history", func(t *testing.T) {
		t.Parallel()

		client := &geminitest.Client{Text: "Yes."}
		req := `{"history":[{"role":"user","parts":["a"]},{"role":"model","parts":["b","c"]}],"new_message":"d"}`
		rec := doJSON(t, newTestRouter(client, nil), http.MethodPost, "/chat", req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		turns := client.Conversations()[0]
		if len(turns) != 3 || turns[1].Role != "model" || len(turns[1].Parts) != 2 || turns[2].Parts[0] != "d" {
			t.Errorf("unexpected conversation: %+v", turns)
		}
	})

	t.Run("completion failure", func(t *testing.T) {
		t.Parallel()

		client := &geminitest.Client{Err: &gemini.Error{Kind: gemini.KindAuth, Detail: "API key not valid"}}
		rec := doJSON(t, newTestRouter(client, nil), http.MethodPost, "/chat", `{"history":[],"new_message":"hi"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["error"] != "API key not valid" || len(body) != 1 {
			t.Errorf("body = %v", body)
		}
	})

	for name, req := range map[string]string{
		"missing history":     `{"new_message":"hi"}`,
		"missing new_message": `{"history":[]}`,
		"turn without role":   `{"history":[{"parts":["a"]}],"new_message":"hi"}`,
		"turn without parts":  `{"history":[{"role":"user"}],"new_message":"hi"}`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			client := &geminitest.Client{Text: "unused"}
			rec := doJSON(t, newTestRouter(client, nil), http.MethodPost, "/chat", req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if len(client.Conversations()) != 0 {
				t.Error("invalid request reached the completion service")
			}
		})
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&geminitest.Client{}, nil)

	tests := []struct {
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{origin: "null", wantStatus: http.StatusNoContent, wantAllow: "null"},
		{origin: "http://localhost:5500", wantStatus: http.StatusNoContent, wantAllow: "http://localhost:5500"},
		{origin: "https://evil.example.com", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
		req.Header.Set("Origin", tt.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != tt.wantStatus {
			t.Errorf("origin %q: status = %d, want %d", tt.origin, rec.Code, tt.wantStatus)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
			t.Errorf("origin %q: Access-Control-Allow-Origin = %q, want %q", tt.origin, got, tt.wantAllow)
		}
		if tt.wantAllow != "" && rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Errorf("origin %q: credentials not allowed", tt.origin)
		}
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })
	store := database.NewStore(db, nil)

	client := &geminitest.Client{
		GenerateFunc: func(context.Context, string) (string, error) { return "not json at all", nil },
		CompleteFunc: func(context.Context, []gemini.Turn) (string, error) { return "Sure.", nil },
	}
	router := newTestRouter(client, store)

	if rec := doJSON(t, router, http.MethodPost, "/career-advice", `{"name":"Ada"}`); rec.Code != http.StatusOK {
		t.Fatalf("advice status = %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodPost, "/chat", `{"history":[],"new_message":"hi"}`); rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d", rec.Code)
	}

	var advice struct {
		Records []database.AdviceRecord `json:"records"`
	}
	rec := doJSON(t, router, http.MethodGet, "/history/advice?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &advice); err != nil {
		t.Fatalf("decode advice history: %v", err)
	}
	if len(advice.Records) != 1 {
		t.Fatalf("advice records = %d, want 1", len(advice.Records))
	}
	if r := advice.Records[0]; r.Status != database.StatusInvalidJSON || r.Response != "not json at all" || r.RequestID == "" {
		t.Errorf("advice record = %+v", r)
	}

	var chats struct {
		Records []database.ChatRecord `json:"records"`
	}
	rec = doJSON(t, router, http.MethodGet, "/history/chat", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &chats); err != nil {
		t.Fatalf("decode chat history: %v", err)
	}
	if len(chats.Records) != 1 || chats.Records[0].Reply != "Sure." || chats.Records[0].Message != "hi" {
		t.Errorf("chat records = %+v", chats.Records)
	}

	if rec := doJSON(t, router, http.MethodGet, "/history/chat?limit=abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid limit status = %d, want 400", rec.Code)
	}
}

func TestHistoryRoutesDisabledWithoutStore(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, newTestRouter(&geminitest.Client{}, nil), http.MethodGet, "/history/advice", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
