package analysis

import (
	"context"
	"sync"
	"testing"

	"github.com/waltherrera/Social-Media-Database/dao/model"
)

func TestConcurrentWritersShareRows(t *testing.T) {
	svc, db := newTestService(t)
	postID := seedPosts(t, svc, 1)[0]
	projectID := seedProject(t, svc, "Concurrent")
	ctx := context.Background()

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    []error
		linkIDs = map[uint]struct{}{}
		fields  = map[uint]struct{}{}
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}
	for i := 0; i < workers; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			id, _, err := svc.ResolveField(ctx, projectID, "sentiment")
			if err != nil {
				record(err)
				return
			}
			mu.Lock()
			fields[id] = struct{}{}
			mu.Unlock()
		}()
		go func() {
			defer wg.Done()
			id, _, err := svc.EnsureLink(ctx, projectID, postID)
			if err != nil {
				record(err)
				return
			}
			mu.Lock()
			linkIDs[id] = struct{}{}
			mu.Unlock()
		}()
		go func() {
			defer wg.Done()
			if _, err := svc.RecordResults(ctx, projectID, postID, map[string]any{"sentiment": "positive"}); err != nil {
				record(err)
			}
		}()
	}
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("expected no errors, got %d: %v", len(errs), errs[0])
	}
	if len(fields) != 1 || len(linkIDs) != 1 {
		t.Fatalf("expected one field id and one link id, got %d and %d", len(fields), len(linkIDs))
	}
	if n := countRows(t, db, &model.ProjectField{}, "project_id = ?", projectID); n != 1 {
		t.Fatalf("expected 1 field row, got %d", n)
	}
	if n := countRows(t, db, &model.ProjectPost{}, "project_id = ?", projectID); n != 1 {
		t.Fatalf("expected 1 link row, got %d", n)
	}
	if n := countRows(t, db, &model.AnalysisResult{}, ""); n != 1 {
		t.Fatalf("expected 1 result row, got %d", n)
	}
}
