package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/voxverify/voxverify/internal/domain"
)

func TestStorePutAndSnapshot(t *testing.T) {
	s := NewMemoryStore()
	s.Put(domain.NewSession("abc"))

	snap, err := s.Snapshot("abc")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.State != domain.StateGreeting {
		t.Errorf("state = %q, want %q", snap.State, domain.StateGreeting)
	}
}

func TestStoreMissingSession(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Snapshot("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Snapshot err = %v, want ErrNotFound", err)
	}
	if err := s.With("nope", func(*domain.Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("With err = %v, want ErrNotFound", err)
	}
}

func TestStoreWithMutates(t *testing.T) {
	s := NewMemoryStore()
	s.Put(domain.NewSession("abc"))

	err := s.With("abc", func(sess *domain.Session) error {
		sess.State = domain.StateCollectingDOB
		sess.Fields[domain.FieldName] = "Bob Smith"
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	snap, _ := s.Snapshot("abc")
	if snap.State != domain.StateCollectingDOB || snap.Fields[domain.FieldName] != "Bob Smith" {
		t.Errorf("mutation not visible: %+v", snap)
	}
}

func TestStoreWithPropagatesError(t *testing.T) {
	s := NewMemoryStore()
	s.Put(domain.NewSession("abc"))
	want := errors.New("boom")
	if err := s.With("abc", func(*domain.Session) error { return want }); !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewMemoryStore()
	s.Put(domain.NewSession("abc"))

	snap, _ := s.Snapshot("abc")
	snap.Fields[domain.FieldName] = "tampered"
	snap.History = append(snap.History, domain.Message{Role: domain.RoleUser, Content: "x"})

	fresh, _ := s.Snapshot("abc")
	if _, ok := fresh.Fields[domain.FieldName]; ok {
		t.Error("snapshot mutation leaked into the store")
	}
	if len(fresh.History) != 0 {
		t.Error("snapshot history mutation leaked into the store")
	}
}

func TestStorePutReplaces(t *testing.T) {
	s := NewMemoryStore()
	old := domain.NewSession("abc")
	old.State = domain.StateCompleted
	s.Put(old)
	s.Put(domain.NewSession("abc"))

	snap, _ := s.Snapshot("abc")
	if snap.State != domain.StateGreeting {
		t.Errorf("state = %q, want fresh session", snap.State)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("sess-%d", n)
			s.Put(domain.NewSession(id))
			for j := 0; j < 50; j++ {
				_ = s.With(id, func(sess *domain.Session) error {
					sess.AppendMessage(domain.RoleUser, "hi")
					return nil
				})
				_, _ = s.Snapshot(id)
			}
		}(i)
	}
	wg.Wait()

	if s.Len() != 10 {
		t.Errorf("Len = %d, want 10", s.Len())
	}
	snap, err := s.Snapshot("sess-3")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.History) != 50 {
		t.Errorf("history length = %d, want 50", len(snap.History))
	}
}

func TestValidID(t *testing.T) {
	for _, id := range []string{"abc", "A-b_c.9:z", "123"} {
		if !ValidID(id) {
			t.Errorf("ValidID(%q) = false, want true", id)
		}
	}
	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	for _, id := range []string{"", "has space", "slash/y", string(long), "semi;colon"} {
		if ValidID(id) {
			t.Errorf("ValidID(%q) = true, want false", id)
		}
	}
}
