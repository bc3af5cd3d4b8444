// Command test drives a running server through the main analysis flow and
// prints PASS/FAIL per step. Point it elsewhere with -base.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
	Msg  string          `json:"msg"`
}

type step struct {
	name       string
	method     string
	path       string
	body       any
	wantStatus int
}

func call(ctx context.Context, client *http.Client, base string, s step) (*envelope, int, error) {
	var body io.Reader = http.NoBody
	if s.body != nil {
		buf, err := json.Marshal(s.body)
		if err != nil {
			return nil, 0, err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, s.method, base+s.path, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("accept", "application/json")
	if s.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, resp.StatusCode, err
	}
	return &env, resp.StatusCode, nil
}

type runner struct {
	ctx    context.Context
	client *http.Client
	base   string
	failed int
}

// run executes s, prints the verdict and decodes the data payload into out
// when out is not nil.
func (r *runner) run(s step, out any) {
	env, status, err := call(r.ctx, r.client, r.base, s)
	switch {
	case err != nil:
		r.failed++
		fmt.Printf("[FAIL] %s -> %v\n", s.name, err)
		return
	case status != s.wantStatus:
		r.failed++
		fmt.Printf("[FAIL] %s -> status %d (want %d): %s\n", s.name, status, s.wantStatus, env.Msg)
		return
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			r.failed++
			fmt.Printf("[FAIL] %s -> decode: %v\n", s.name, err)
			return
		}
	}
	fmt.Printf("[PASS] %s\n", s.name)
}

func main() {
	base := flag.String("base", "http://127.0.0.1:5001/api", "API base URL")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	r := &runner{ctx: ctx, client: &http.Client{Timeout: 10 * time.Second}, base: *base}
	suffix := time.Now().Format("150405")
	name := "Election Sentiment " + suffix
	postBody := map[string]any{
		"username": "alice_" + suffix, "social_media": "Twitter",
		"post_time": "2025-01-20 10:00:00", "content": "first", "first_name": "Alice",
	}

	var post struct {
		ID uint `json:"id"`
	}
	r.run(step{"add post", http.MethodPost, "/posts", postBody, http.StatusCreated}, &post)
	r.run(step{"add same post again", http.MethodPost, "/posts", postBody, http.StatusOK}, nil)

	project := map[string]any{
		"name": name, "institute": "UTD Social Lab",
		"start_date": "2025-01-15", "end_date": "2025-06-30",
	}
	var created struct {
		Project struct {
			ID uint `json:"id"`
		} `json:"project"`
	}
	r.run(step{"add project", http.MethodPost, "/projects", project, http.StatusCreated}, &created)
	r.run(step{"add project with same name", http.MethodPost, "/projects", project, http.StatusConflict}, nil)
	r.run(step{"add project ending before start", http.MethodPost, "/projects", map[string]any{
		"name": name + " bad", "institute": "UTD Social Lab",
		"start_date": "2025-06-30", "end_date": "2025-01-15",
	}, http.StatusBadRequest}, nil)

	projectPath := fmt.Sprintf("/projects/%d", created.Project.ID)
	r.run(step{"assign post", http.MethodPost, projectPath + "/posts", map[string]any{"post_id": post.ID}, http.StatusCreated}, nil)
	r.run(step{"assign post again", http.MethodPost, projectPath + "/posts", map[string]any{"post_id": post.ID}, http.StatusOK}, nil)
	r.run(step{"enter results", http.MethodPost, projectPath + "/results", map[string]any{
		"post_id": post.ID, "results": map[string]any{"sentiment": "positive", "objects": 4},
	}, http.StatusCreated}, nil)
	r.run(step{"overwrite result", http.MethodPost, projectPath + "/results", map[string]any{
		"post_id": post.ID, "results": map[string]any{"sentiment": "negative"},
	}, http.StatusOK}, nil)

	var completion struct {
		FieldCompletion map[string]string `json:"field_completion"`
	}
	r.run(step{"field completion", http.MethodGet, projectPath + "/completion", nil, http.StatusOK}, &completion)
	if got := completion.FieldCompletion["sentiment"]; got != "100.00%" {
		r.failed++
		fmt.Printf("[FAIL] sentiment completion %q, want 100.00%%\n", got)
	}

	r.run(step{"report by name", http.MethodGet, "/reports/project?project_name=" + url.QueryEscape(name), nil, http.StatusOK}, nil)
	r.run(step{"search by platform", http.MethodGet, "/reports/search?social_media=twitter", nil, http.StatusOK}, nil)
	r.run(step{"list usernames", http.MethodGet, "/users", nil, http.StatusOK}, nil)

	if r.failed > 0 {
		os.Exit(1)
	}
}
