package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/waltherrera/Social-Media-Database/analysis"
	"github.com/waltherrera/Social-Media-Database/config"
	"github.com/waltherrera/Social-Media-Database/dao/migrate"
	"github.com/waltherrera/Social-Media-Database/dao/query"
	"github.com/waltherrera/Social-Media-Database/metrics"
	"github.com/waltherrera/Social-Media-Database/response"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Code response.ErrorCode `json:"code"`
	Data json.RawMessage    `json:"data"`
	Msg  string             `json:"msg"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "analysis.db")
	cfg.Database.MaxIdleConns = 2
	cfg.Database.MaxOpenConns = 4
	db, err := query.Open(cfg)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := migrate.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	m := metrics.New()
	return NewRouter(cfg, NewHandler(analysis.NewService(db), m), m)
}

func do(t *testing.T, r http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, env
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func expectStatus(t *testing.T, got, want int, env envelope) {
	t.Helper()
	if got != want {
		t.Fatalf("expected status %d, got %d (code %d, msg %q)", want, got, env.Code, env.Msg)
	}
}

func addPost(t *testing.T, r http.Handler, username, at string) uint {
	t.Helper()
	status, env := do(t, r, http.MethodPost, "/api/posts", gin.H{
		"username":     username,
		"social_media": "Twitter",
		"post_time":    at,
		"content":      "post by " + username,
	})
	expectStatus(t, status, http.StatusCreated, env)
	var post struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	return post.ID
}

func createProject(t *testing.T, r http.Handler, name string, posts ...uint) uint {
	t.Helper()
	status, env := do(t, r, http.MethodPost, "/api/projects", gin.H{
		"name":       name,
		"institute":  "UTD Social Lab",
		"start_date": "2025-01-15",
		"end_date":   "2025-06-30",
		"posts":      posts,
	})
	expectStatus(t, status, http.StatusCreated, env)
	var out struct {
		Project struct {
			ID uint `json:"id"`
		} `json:"project"`
		LinkedPosts int `json:"linked_posts"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode project: %v", err)
	}
	if out.LinkedPosts != len(posts) {
		t.Fatalf("expected %d linked posts, got %d", len(posts), out.LinkedPosts)
	}
	return out.Project.ID
}

func TestProjectLifecycle(t *testing.T) {
	r := newTestRouter(t)
	p1 := addPost(t, r, "alice", "2025-01-20 10:00:00")
	p2 := addPost(t, r, "alice", "2025-01-20 11:00:00")
	id := createProject(t, r, "Election 2025", p1)
	base := "/api/projects/" + itoa(id)

	status, env := do(t, r, http.MethodPost, base+"/posts", gin.H{"post_id": p2})
	expectStatus(t, status, http.StatusCreated, env)
	status, env = do(t, r, http.MethodPost, base+"/posts", gin.H{"post_id": p2})
	expectStatus(t, status, http.StatusOK, env)

	status, env = do(t, r, http.MethodPost, base+"/fields", gin.H{"field_name": "topic"})
	expectStatus(t, status, http.StatusCreated, env)
	status, env = do(t, r, http.MethodPost, base+"/fields", gin.H{"field_name": "topic"})
	expectStatus(t, status, http.StatusOK, env)

	status, env = do(t, r, http.MethodPost, base+"/results", gin.H{
		"post_id": p1,
		"results": gin.H{"sentiment": "positive", "score": 4},
	})
	expectStatus(t, status, http.StatusCreated, env)
	status, env = do(t, r, http.MethodPost, base+"/results", gin.H{
		"post_id": p1,
		"results": gin.H{"sentiment": "negative"},
	})
	expectStatus(t, status, http.StatusOK, env)

	status, env = do(t, r, http.MethodGet, base+"/completion", nil)
	expectStatus(t, status, http.StatusOK, env)
	expectCompletionBody(t, env, map[string]string{"sentiment": "50.00%", "score": "50.00%", "topic": "0.00%"})

	status, env = do(t, r, http.MethodGet, base+"/completion?post_ids="+itoa(p1), nil)
	expectStatus(t, status, http.StatusOK, env)
	expectCompletionBody(t, env, map[string]string{"sentiment": "100.00%", "score": "100.00%", "topic": "0.00%"})

	status, env = do(t, r, http.MethodGet, base+"/completion?post_ids=", nil)
	expectStatus(t, status, http.StatusOK, env)
	expectCompletionBody(t, env, map[string]string{"sentiment": "0.00%", "score": "0.00%", "topic": "0.00%"})

	status, env = do(t, r, http.MethodGet, "/api/reports/project?project_name=Election%202025", nil)
	expectStatus(t, status, http.StatusOK, env)
	var report analysis.ProjectReport
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Posts) != 2 || report.Posts[0].Results["sentiment"] != "negative" || report.Posts[0].Results["score"] != "4" {
		t.Fatalf("unexpected report %+v", report)
	}
}

func expectCompletionBody(t *testing.T, env envelope, want map[string]string) {
	t.Helper()
	var body struct {
		FieldCompletion map[string]string `json:"field_completion"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode completion: %v", err)
	}
	if len(body.FieldCompletion) != len(want) {
		t.Fatalf("expected %v, got %v", want, body.FieldCompletion)
	}
	for k, v := range want {
		if body.FieldCompletion[k] != v {
			t.Fatalf("field %s: expected %s, got %s", k, v, body.FieldCompletion[k])
		}
	}
}

func TestErrorStatusMapping(t *testing.T) {
	r := newTestRouter(t)
	p := addPost(t, r, "alice", "2025-01-20 10:00:00")
	id := createProject(t, r, "Election 2025")
	base := "/api/projects/" + itoa(id)

	cases := []struct {
		name, method, path string
		body               any
		status             int
		code               response.ErrorCode
	}{
		{"end before start", http.MethodPost, "/api/projects", gin.H{
			"name": "X", "institute": "Lab", "start_date": "2025-02-01", "end_date": "2025-01-01",
		}, http.StatusBadRequest, response.InvalidRequest},
		{"duplicate project", http.MethodPost, "/api/projects", gin.H{
			"name": "Election 2025", "institute": "Lab", "start_date": "2025-01-01", "end_date": "2025-02-01",
		}, http.StatusConflict, response.Conflict},
		{"non-numeric project id", http.MethodPost, "/api/projects/abc/posts", gin.H{"post_id": p},
			http.StatusBadRequest, response.InvalidRequest},
		{"unknown project", http.MethodPost, "/api/projects/999/posts", gin.H{"post_id": p},
			http.StatusNotFound, response.NotFound},
		{"unknown post", http.MethodPost, base + "/posts", gin.H{"post_id": 999},
			http.StatusNotFound, response.NotFound},
		{"empty field name", http.MethodPost, base + "/fields", gin.H{"field_name": "  "},
			http.StatusBadRequest, response.InvalidRequest},
		{"empty results", http.MethodPost, base + "/results", gin.H{"post_id": p, "results": gin.H{}},
			http.StatusBadRequest, response.InvalidRequest},
		{"bad post_ids", http.MethodGet, base + "/completion?post_ids=1,x", nil,
			http.StatusBadRequest, response.InvalidRequest},
		{"report without reference", http.MethodGet, "/api/reports/project", nil,
			http.StatusBadRequest, response.InvalidRequest},
		{"unknown report", http.MethodGet, "/api/reports/project?project_name=nope", nil,
			http.StatusNotFound, response.NotFound},
		{"bad search time", http.MethodGet, "/api/reports/search?from_time=soon", nil,
			http.StatusBadRequest, response.InvalidRequest},
		{"unknown post detail", http.MethodGet, "/api/posts/999", nil,
			http.StatusNotFound, response.NotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := do(t, r, tc.method, tc.path, tc.body)
			expectStatus(t, status, tc.status, env)
			if env.Code != tc.code {
				t.Fatalf("expected code %d, got %d", tc.code, env.Code)
			}
		})
	}
}

func TestSearchReportBuckets(t *testing.T) {
	r := newTestRouter(t)
	p1 := addPost(t, r, "alice", "2025-01-20 10:00:00")
	addPost(t, r, "bob", "2025-01-20 11:00:00")
	createProject(t, r, "Election 2025", p1)

	status, env := do(t, r, http.MethodGet, "/api/reports/search?social_media=TWITTER", nil)
	expectStatus(t, status, http.StatusOK, env)
	var body struct {
		Experiments map[string]struct {
			Posts []struct {
				Username string `json:"username"`
			} `json:"posts"`
			FieldCompletion map[string]string `json:"field_completion"`
		} `json:"experiments"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Experiments) != 2 {
		t.Fatalf("expected two buckets, got %+v", body.Experiments)
	}
	if b := body.Experiments["Election 2025"]; len(b.Posts) != 1 || b.Posts[0].Username != "alice" {
		t.Fatalf("unexpected project bucket %+v", b)
	}
	if b := body.Experiments["Unassigned"]; len(b.Posts) != 1 || b.Posts[0].Username != "bob" || b.FieldCompletion != nil {
		t.Fatalf("unexpected unassigned bucket %+v", b)
	}
}

func TestPostRoutes(t *testing.T) {
	r := newTestRouter(t)
	p1 := addPost(t, r, "alice", "2025-01-20 10:00:00")
	addPost(t, r, "bob", "2025-01-19 10:00:00")

	status, env := do(t, r, http.MethodPost, "/api/posts", gin.H{
		"username": "alice", "social_media": "Twitter", "post_time": "2025-01-20 10:00:00", "content": "again",
	})
	expectStatus(t, status, http.StatusOK, env)

	status, env = do(t, r, http.MethodPost, "/api/posts/"+itoa(p1)+"/reposts", gin.H{
		"reposter_username": "bob", "repost_time": "2025-01-20 12:00:00",
	})
	expectStatus(t, status, http.StatusCreated, env)
	status, env = do(t, r, http.MethodPost, "/api/posts/"+itoa(p1)+"/reposts", gin.H{
		"reposter_username": "bob", "repost_time": "2025-01-20 12:00:00",
	})
	expectStatus(t, status, http.StatusConflict, env)

	status, env = do(t, r, http.MethodGet, "/api/posts?start=2025-01-20&end=2025-01-20", nil)
	expectStatus(t, status, http.StatusOK, env)
	if !strings.Contains(string(env.Data), `"username":"bob"`) {
		t.Fatalf("expected the repost in range, got %s", env.Data)
	}

	status, env = do(t, r, http.MethodGet, "/api/users/bob/posts?platform=Twitter", nil)
	expectStatus(t, status, http.StatusOK, env)
	if !strings.Contains(string(env.Data), `"type":"repost"`) {
		t.Fatalf("expected a repost entry, got %s", env.Data)
	}

	status, env = do(t, r, http.MethodGet, "/api/users", nil)
	expectStatus(t, status, http.StatusOK, env)
	if string(env.Data) != `{"usernames":["alice","bob"]}` {
		t.Fatalf("unexpected usernames %s", env.Data)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)
	addPost(t, r, "alice", "2025-01-20 10:00:00")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("metrics: %d %s", rec.Code, rec.Body.String())
	}
}

func TestEnterResultsKeepsLargeIntegers(t *testing.T) {
	r := newTestRouter(t)
	p := addPost(t, r, "alice", "2025-01-20 10:00:00")
	id := createProject(t, r, "Big Numbers", p)

	status, env := do(t, r, http.MethodPost, "/api/projects/"+itoa(id)+"/results", gin.H{
		"post_id": p,
		"results": json.RawMessage(`{"tweet_id":1234567890123456789,"score":0.1}`),
	})
	expectStatus(t, status, http.StatusCreated, env)

	status, env = do(t, r, http.MethodGet, "/api/reports/project?project_id="+itoa(id), nil)
	expectStatus(t, status, http.StatusOK, env)
	var report analysis.ProjectReport
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	got := report.Posts[0].Results
	if got["tweet_id"] != "1234567890123456789" || got["score"] != "0.1" {
		t.Fatalf("unexpected stored values %v", got)
	}
}

func TestEnterResultsRejectsMalformedBody(t *testing.T) {
	r := newTestRouter(t)
	id := createProject(t, r, "Malformed")

	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+itoa(id)+"/results", strings.NewReader(`{"post_id":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
