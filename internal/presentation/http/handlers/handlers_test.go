package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ettle-app/ettle-go/internal/application/services"
	"github.com/ettle-app/ettle-go/internal/domain/forms"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/logging"
	"github.com/ettle-app/ettle-go/internal/infrastructure/observability/performance"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/database"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/local"
	"github.com/ettle-app/ettle-go/internal/infrastructure/persistence/submissions"
	userRepo "github.com/ettle-app/ettle-go/internal/infrastructure/persistence/user"
	"github.com/ettle-app/ettle-go/internal/infrastructure/security"
	"github.com/ettle-app/ettle-go/internal/infrastructure/syncer"
	"github.com/ettle-app/ettle-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

func intPtr(v int) *int { return &v }

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = false
	cfg.OutputToConsole = false
	logger, err := logging.NewChanneledLogger(cfg)
	if err != nil {
		t.Fatalf("NewChanneledLogger: %v", err)
	}
	return logger
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := testLogger(t)
	perfTracker := performance.NewTracker(nil)

	graph, err := forms.NewGraph([]forms.Question{
		{ID: 2, Type: forms.TypeShortAnswer, Prompt: "Full name?", Next: intPtr(5)},
		{ID: 5, Type: forms.TypeEmail, Prompt: "Email?", Next: intPtr(40)},
		{ID: 40, Type: forms.TypeCheckbox, Prompt: "Keep me posted", Optional: true},
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	store, err := local.NewStore(filepath.Join(t.TempDir(), "sessions.db"), logger)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	conn, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "submissions.db")+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := database.NewTableCreator().CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}

	db := &database.DB{DB: conn}
	submissionsRepo := submissions.NewRepository(db, logger)
	syncSvc := services.NewSyncService(submissionsRepo, syncer.NewDebouncer(5*time.Millisecond, logger), logger)
	sessionSvc := services.NewSessionService(graph, local.NewSessionRepository(store, logger), syncSvc, logger)
	leadSvc := services.NewLeadService(userRepo.NewLeadRepository(db, logger), nil, "https://ettle.test/signup", logger)

	hash, err := security.HashPassword("letmein")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	authSvc := services.NewAuthService(hash, "test-secret", time.Hour, logger)

	formHandlers := NewFormHandlers(sessionSvc, logger, perfTracker)
	leadHandlers := NewLeadHandlers(leadSvc, logger, perfTracker)
	authHandlers := NewAuthHandlers(authSvc, logger, perfTracker)
	adminHandlers := NewAdminHandlers(submissionsRepo, logger, perfTracker)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/lead", leadHandlers.PostLead)
	form := api.Group("/form")
	form.GET("/questions", formHandlers.GetQuestions)
	form.GET("/session", formHandlers.GetSession)
	form.POST("/consent", formHandlers.PostConsent)
	form.POST("/answer", formHandlers.PostAnswer)
	form.POST("/navigate", formHandlers.PostNavigate)
	form.POST("/submit", formHandlers.PostSubmit)
	api.POST("/auth/login", authHandlers.PostLogin)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware(authSvc))
	admin.GET("/submissions", adminHandlers.GetSubmissions)
	admin.GET("/submissions/:runId", adminHandlers.GetSubmission)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, runID string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if runID != "" {
		req.Header.Set(RunIDHeader, runID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestGetQuestions(t *testing.T) {
	r := testRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/form/questions", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["total"] != float64(3) {
		t.Errorf("total = %v, want 3", body["total"])
	}
}

func TestGetSessionMintsRunID(t *testing.T) {
	r := testRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/form/session", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	runID := w.Header().Get(RunIDHeader)
	if runID == "" {
		t.Fatal("no run id header in response")
	}
	body := decode(t, w)
	if body["runId"] != runID {
		t.Errorf("body runId %v does not match header %s", body["runId"], runID)
	}
}

func TestAnswerRequiresRunHeader(t *testing.T) {
	r := testRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/form/answer", "",
		map[string]any{"questionId": 2, "value": "Ada"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnswerBeforeConsentForbidden(t *testing.T) {
	r := testRouter(t)
	session := doJSON(t, r, http.MethodGet, "/api/v1/form/session", "", nil, nil)
	runID := session.Header().Get(RunIDHeader)

	w := doJSON(t, r, http.MethodPost, "/api/v1/form/answer", runID,
		map[string]any{"questionId": 2, "value": "Ada"}, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestFullFlowOverHTTP(t *testing.T) {
	r := testRouter(t)
	session := doJSON(t, r, http.MethodGet, "/api/v1/form/session", "", nil, nil)
	runID := session.Header().Get(RunIDHeader)

	if w := doJSON(t, r, http.MethodPost, "/api/v1/form/consent", runID,
		map[string]any{"granted": true}, nil); w.Code != http.StatusOK {
		t.Fatalf("consent status = %d: %s", w.Code, w.Body.String())
	}

	// Unsatisfied answer blocks navigation with 422.
	if w := doJSON(t, r, http.MethodPost, "/api/v1/form/navigate", runID,
		map[string]any{"direction": "next"}, nil); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("navigate without answer = %d, want 422", w.Code)
	}

	if w := doJSON(t, r, http.MethodPost, "/api/v1/form/answer", runID,
		map[string]any{"questionId": 2, "value": "Ada Lovelace"}, nil); w.Code != http.StatusOK {
		t.Fatalf("answer status = %d: %s", w.Code, w.Body.String())
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/form/navigate", runID,
		map[string]any{"direction": "next"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("navigate status = %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	question, _ := body["question"].(map[string]any)
	if question["id"] != float64(5) {
		t.Fatalf("landed on question %v, want 5", question["id"])
	}

	doJSON(t, r, http.MethodPost, "/api/v1/form/answer", runID,
		map[string]any{"questionId": 5, "value": "ada@example.com"}, nil)
	doJSON(t, r, http.MethodPost, "/api/v1/form/navigate", runID,
		map[string]any{"direction": "next"}, nil)

	// Final question is optional; submitting completes the run.
	w = doJSON(t, r, http.MethodPost, "/api/v1/form/submit", runID, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d: %s", w.Code, w.Body.String())
	}
	if body = decode(t, w); body["status"] != "complete" {
		t.Errorf("status = %v, want complete", body["status"])
	}
}

func TestNavigateRejectsUnknownDirection(t *testing.T) {
	r := testRouter(t)
	session := doJSON(t, r, http.MethodGet, "/api/v1/form/session", "", nil, nil)
	runID := session.Header().Get(RunIDHeader)

	w := doJSON(t, r, http.MethodPost, "/api/v1/form/navigate", runID,
		map[string]any{"direction": "sideways"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLeadCapture(t *testing.T) {
	r := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/lead", "",
		map[string]any{"email": "not-an-email"}, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid email status = %d, want 422", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/lead", "",
		map[string]any{"email": "ada@example.com"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["leadId"] == "" {
		t.Error("no lead id returned")
	}
}

func TestAdminAuthFlow(t *testing.T) {
	r := testRouter(t)

	// No token.
	if w := doJSON(t, r, http.MethodGet, "/api/v1/admin/submissions", "", nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}

	// Bad password.
	if w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "",
		map[string]any{"password": "wrong"}, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "",
		map[string]any{"password": "letmein"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatal("no token returned")
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/admin/submissions", "", nil,
		map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d: %s", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["total"] != float64(0) {
		t.Errorf("total = %v, want 0", body["total"])
	}

	if w := doJSON(t, r, http.MethodGet, "/api/v1/admin/submissions/nope", "", nil,
		map[string]string{"Authorization": "Bearer " + token}); w.Code != http.StatusNotFound {
		t.Errorf("missing submission status = %d, want 404", w.Code)
	}
}
