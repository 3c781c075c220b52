//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/altibbe/transparency/internal/client"
	"github.com/altibbe/transparency/internal/events"
	"github.com/altibbe/transparency/internal/models"
	"github.com/altibbe/transparency/internal/pdf"
	"github.com/altibbe/transparency/internal/session"
	"github.com/altibbe/transparency/internal/store"
	"github.com/altibbe/transparency/internal/workflow"
)

type silentNotifier struct{}

func (silentNotifier) Success(string) {}
func (silentNotifier) Warn(string)    {}
func (silentNotifier) Error(string)   {}

// fakeServer mimics the transparency API closely enough for a full journey:
// register, create product, generate questions, create report, fetch, list.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"token": "integration-token",
			"user":  map[string]string{"id": "u-1", "name": "Integration User", "email": "it@example.com"},
		})
	})
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer integration-token" {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(w, map[string]string{"error": "missing token"})
			return
		}
		writeJSON(w, map[string]any{"data": map[string]string{"_id": "prod-1"}})
	})
	mux.HandleFunc("/api/ai/generate-questions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"questions": []any{
			"Where are the ingredients sourced from?",
			map[string]any{
				"question": "Is the packaging recyclable?",
				"type":     "select",
				"options":  []string{"Yes", "No", "Partially"},
				"required": true,
			},
		}})
	})
	mux.HandleFunc("/api/reports", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, map[string]any{"data": []any{reportPayload()}})
			return
		}
		var body struct {
			ProductID string         `json:"productId"`
			Answers   map[string]any `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID != "prod-1" {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"error": "bad report request"})
			return
		}
		writeJSON(w, map[string]any{"data": reportPayload()})
	})
	mux.HandleFunc("/api/reports/rep-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": reportPayload()})
	})
	return httptest.NewServer(mux)
}

func reportPayload() map[string]any {
	return map[string]any{
		"_id": "rep-1",
		"product": map[string]any{
			"name":        "Herbal Face Cream",
			"category":    "skincare",
			"brand":       "Altibbe",
			"ingredients": []string{"aloe vera", "shea butter"},
		},
		"summary": "Well documented sourcing.",
		"aiAnalysis": map[string]any{
			"transparencyScore": 82,
		},
		"analysis": map[string]any{
			"strengths":       []string{"Full ingredient list"},
			"improvements":    []string{"Add certification details"},
			"recommendations": []string{"Publish supplier audits"},
		},
		"status":    "completed",
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestSubmissionJourneyIntegration(t *testing.T) {
	srv := fakeServer(t)
	defer srv.Close()

	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	bus := events.NewBus()
	sess, err := session.NewStore(st, bus)
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	api := client.New(srv.URL, sess, zap.NewNop(), 5*time.Second)
	ctx := context.Background()

	token, user, err := api.Register(ctx, "Integration User", "it@example.com", "Secret123!", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" || user == nil || user.ID != "u-1" {
		t.Fatalf("unexpected register result: token=%q user=%+v", token, user)
	}
	if err := sess.SetCredentials(token, user); err != nil {
		t.Fatalf("set credentials: %v", err)
	}

	var created *models.Report
	unsubscribe := bus.Subscribe(func(e any) {
		if rc, ok := e.(events.ReportCreated); ok {
			created = rc.Report
		}
	})
	defer unsubscribe()

	flow := workflow.New(api, bus, silentNotifier{}, zap.NewNop())
	draft := &models.ProductDraft{
		Name:            "Herbal Face Cream",
		Category:        "skincare",
		Brand:           "Altibbe",
		IngredientsText: "aloe vera, shea butter",
	}
	if fieldErrs, err := flow.SubmitProduct(ctx, draft); err != nil {
		t.Fatalf("submit product: %v (%v)", err, fieldErrs)
	}
	if flow.State() != workflow.StateAnsweringQuestions {
		t.Fatalf("state = %v, want answering", flow.State())
	}
	qs := flow.Questions()
	if len(qs) != 5 {
		// 2 category templates + 1 brand template + 2 server questions.
		t.Fatalf("got %d questions, want 5", len(qs))
	}
	if qs[len(qs)-1].Type != models.QuestionSelect {
		t.Fatalf("server select question lost its type: %+v", qs[len(qs)-1])
	}

	answers := models.AnswerSet{}
	for _, q := range qs {
		answers.Set(q.ID, "answered")
	}
	report, err := flow.SubmitAnswers(ctx, answers)
	if err != nil {
		t.Fatalf("submit answers: %v", err)
	}
	if report.ID != "rep-1" || report.TransparencyScore != 82 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if created == nil || created.ID != report.ID {
		t.Fatalf("report creation event not published")
	}

	fetched, err := api.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	data, err := pdf.Render(fetched)
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	out := filepath.Join(t.TempDir(), pdf.FileName(fetched.Product.Name))
	if err := os.WriteFile(out, data, 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !strings.HasSuffix(out, "Herbal_Face_Cream_Transparency_Report.pdf") {
		t.Fatalf("unexpected pdf name: %s", out)
	}

	summaries, err := api.ListReports(ctx)
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "rep-1" {
		t.Fatalf("unexpected list: %+v", summaries)
	}
	if err := st.UpsertReports(summaries); err != nil {
		t.Fatalf("cache reports: %v", err)
	}
	cached, err := st.CachedReports()
	if err != nil || len(cached) != 1 {
		t.Fatalf("cached reports: %v (%d)", err, len(cached))
	}
}
