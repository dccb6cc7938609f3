package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/atinyakov/SmartBrain/internal/models"
)

// counterRepo increments atomically, the way the database does.
type counterRepo struct {
	entries atomic.Int64
	known   int64
}

func (r *counterRepo) GetProfileByID(ctx context.Context, id int64) (*models.Profile, error) {
	if id != r.known {
		return nil, models.ErrNotFound
	}
	return &models.Profile{ID: id, Entries: r.entries.Load()}, nil
}

func (r *counterRepo) IncrementEntries(ctx context.Context, id int64) (int64, error) {
	if id != r.known {
		return 0, models.ErrNotFound
	}
	return r.entries.Add(1), nil
}

func TestProfileService_GetProfile(t *testing.T) {
	svc := NewProfileService(&counterRepo{known: 1})

	p, err := svc.GetProfile(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if p.ID != 1 {
		t.Errorf("GetProfile id = %d; want 1", p.ID)
	}

	if _, err := svc.GetProfile(context.Background(), 2); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetProfile(2) error = %v; want ErrNotFound", err)
	}
}

func TestProfileService_IncrementEntriesSequential(t *testing.T) {
	svc := NewProfileService(&counterRepo{known: 1})

	for want := int64(1); want <= 5; want++ {
		got, err := svc.IncrementEntries(context.Background(), 1)
		if err != nil {
			t.Fatalf("IncrementEntries returned error: %v", err)
		}
		if got != want {
			t.Errorf("IncrementEntries = %d; want %d", got, want)
		}
	}
}

// Every concurrent call reaches the repository exactly once. Atomicity of
// the stored counter is the repository's job.
func TestProfileService_IncrementEntriesConcurrentCallers(t *testing.T) {
	repo := &counterRepo{known: 1}
	svc := NewProfileService(repo)

	const n = 64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.IncrementEntries(context.Background(), 1); err != nil {
				t.Errorf("IncrementEntries returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := repo.entries.Load(); got != n {
		t.Errorf("entries = %d; want %d", got, n)
	}
}

func TestProfileService_IncrementEntriesNotFound(t *testing.T) {
	svc := NewProfileService(&counterRepo{known: 1})

	if _, err := svc.IncrementEntries(context.Background(), 9); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("IncrementEntries(9) error = %v; want ErrNotFound", err)
	}
}
