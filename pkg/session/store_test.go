package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/invoice-builder/pkg/invoice"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(ttl, 0, func() *invoice.Builder { return invoice.NewBuilder(invoice.Header{}) })
	s.now = func() time.Time { return now }
	return s, &now
}

func mustCreate(t *testing.T, s *Store) string {
	t.Helper()
	id, err := s.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return id
}

func TestStore_CreateAndDo(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	id := mustCreate(t, s)

	err := s.Do(id, func(b *invoice.Builder) error {
		_, err := b.AddItem("Widget", 2, "1.50")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	var total string
	_ = s.Do(id, func(b *invoice.Builder) error {
		total = b.Total().StringFixed(2)
		return nil
	})
	if total != "3.00" {
		t.Fatalf("total = %s", total)
	}
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	a, b := mustCreate(t, s), mustCreate(t, s)
	_ = s.Do(a, func(bl *invoice.Builder) error {
		_, err := bl.AddItem("Widget", 1, 1)
		return err
	})
	_ = s.Do(b, func(bl *invoice.Builder) error {
		if bl.Len() != 0 {
			t.Errorf("session %s sees %d items", b, bl.Len())
		}
		return nil
	})
}

func TestStore_UnknownAndExpired(t *testing.T) {
	s, now := newTestStore(time.Hour)
	if err := s.Do("missing", func(*invoice.Builder) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	id := mustCreate(t, s)
	*now = now.Add(30 * time.Minute)
	if err := s.Do(id, func(*invoice.Builder) error { return nil }); err != nil {
		t.Fatalf("active session: %v", err)
	}
	*now = now.Add(61 * time.Minute)
	if err := s.Do(id, func(*invoice.Builder) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestStore_DoPropagatesError(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	id := mustCreate(t, s)
	boom := errors.New("boom")
	if err := s.Do(id, func(*invoice.Builder) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	s.Delete(id)
	if s.Len() != 0 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	id := mustCreate(t, s)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(id, func(b *invoice.Builder) error {
				_, err := b.AddItem("Bolt", 1, "0.10")
				return err
			})
		}()
	}
	wg.Wait()

	_ = s.Do(id, func(b *invoice.Builder) error {
		if b.Len() != 50 || b.Total().StringFixed(2) != "5.00" {
			t.Errorf("len=%d total=%s", b.Len(), b.Total())
		}
		return nil
	})
}

func TestStore_MaxSessions(t *testing.T) {
	s, now := newTestStore(time.Hour)
	s.max = 2
	mustCreate(t, s)
	mustCreate(t, s)
	if _, err := s.Create(); !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}

	// expired sessions free their slots
	*now = now.Add(2 * time.Hour)
	mustCreate(t, s)
	if s.Len() != 1 {
		t.Fatalf("len = %d", s.Len())
	}
}
