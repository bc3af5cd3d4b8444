package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/waltherrera/Social-Media-Database/config"
	"github.com/waltherrera/Social-Media-Database/dao/migrate"
	"github.com/waltherrera/Social-Media-Database/dao/query"

	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
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
	return NewService(db), db
}

type postSeed struct {
	username, platform, at string
	first, last            string
}

func seedPost(t *testing.T, svc *Service, p postSeed) uint {
	t.Helper()
	in := NewPost{Username: p.username, SocialMedia: p.platform, PostTime: p.at, Content: "content by " + p.username}
	if p.first != "" {
		in.FirstName = &p.first
	}
	if p.last != "" {
		in.LastName = &p.last
	}
	post, _, err := svc.AddPost(context.Background(), in)
	if err != nil {
		t.Fatalf("seed post %+v: %v", p, err)
	}
	return post.ID
}

// seedPosts adds n posts by one user, one minute apart.
func seedPosts(t *testing.T, svc *Service, n int) []uint {
	t.Helper()
	ids := make([]uint, n)
	for i := range ids {
		ids[i] = seedPost(t, svc, postSeed{
			username: "alice",
			platform: "Twitter",
			at:       fmt.Sprintf("2025-01-20 10:%02d:00", i),
		})
	}
	return ids
}

func seedProject(t *testing.T, svc *Service, name string, postIDs ...uint) uint {
	t.Helper()
	out, err := svc.CreateProject(context.Background(), NewProject{
		Name:      name,
		Institute: "UTD Social Lab",
		StartDate: "2025-01-15",
		EndDate:   "2025-06-30",
		PostIDs:   postIDs,
	})
	if err != nil {
		t.Fatalf("seed project %s: %v", name, err)
	}
	return out.Project.ID
}

func countRows(t *testing.T, db *gorm.DB, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(m)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func expectErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}
