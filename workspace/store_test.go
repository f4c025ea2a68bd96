package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/dvespero/authkit/storage"
)

func validContext() Context {
	return Context{
		CompanyID:       "c1",
		EstablishmentID: "e1",
		Company:         CompanySummary{ID: "c1", Name: "Acme SA"},
		Establishment:   EstablishmentSummary{ID: "e1", Name: "Main branch"},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := NewStore(storage.NewMemoryTier(), nil)
	ctx := context.Background()

	if s.Has(ctx) {
		t.Fatal("expected empty store")
	}

	if err := s.Save(ctx, validContext()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok := s.Get(ctx)
	if !ok {
		t.Fatal("expected stored context")
	}
	if got.CompanyID != "c1" || got.EstablishmentID != "e1" || got.Company.Name != "Acme SA" {
		t.Fatalf("unexpected context: %+v", got)
	}
}

func TestSaveRejectsPartialContext(t *testing.T) {
	s := NewStore(storage.NewMemoryTier(), nil)

	err := s.Save(context.Background(), Context{CompanyID: "c1"})
	if !errors.Is(err, ErrPartialContext) {
		t.Fatalf("expected ErrPartialContext, got %v", err)
	}
	if s.Has(context.Background()) {
		t.Fatal("partial save must not persist anything")
	}
}

func TestLastContextIDsSurviveClearOfNothing(t *testing.T) {
	s := NewStore(storage.NewMemoryTier(), nil)
	ctx := context.Background()

	if c, e := s.LastContextIDs(ctx); c != "" || e != "" {
		t.Fatalf("expected empty ids, got %q/%q", c, e)
	}

	if err := s.Save(ctx, validContext()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	c, e := s.LastContextIDs(ctx)
	if c != "c1" || e != "e1" {
		t.Fatalf("LastContextIDs = %q/%q", c, e)
	}
}

func TestClearRemovesContextAndIDs(t *testing.T) {
	s := NewStore(storage.NewMemoryTier(), nil)
	ctx := context.Background()

	if err := s.Save(ctx, validContext()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	s.Clear(ctx)

	if s.Has(ctx) {
		t.Fatal("expected context removed")
	}
	if c, e := s.LastContextIDs(ctx); c != "" || e != "" {
		t.Fatalf("expected ids removed, got %q/%q", c, e)
	}
}

func TestCorruptStoredContextDegradesToAbsent(t *testing.T) {
	tier := storage.NewMemoryTier()
	s := NewStore(tier, nil)
	ctx := context.Background()

	if err := tier.Set(ctx, "workspace", "{broken"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, ok := s.Get(ctx); ok {
		t.Fatal("corrupt context must read as absent")
	}
	// Corrupt blob is dropped on first observation.
	if _, err := tier.Get(ctx, "workspace"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected corrupt blob deleted, got %v", err)
	}
}

func TestStorageOutageFailsOpen(t *testing.T) {
	s := NewStore(failingTier{}, nil)
	ctx := context.Background()

	if err := s.Save(ctx, validContext()); err != nil {
		t.Fatalf("Save must swallow storage failures, got %v", err)
	}
	if s.Has(ctx) {
		t.Fatal("expected no context readable during outage")
	}
	s.Clear(ctx)
}

type failingTier struct{}

func (failingTier) Get(context.Context, string) (string, error) {
	return "", storage.ErrUnavailable
}

func (failingTier) Set(context.Context, string, string) error {
	return storage.ErrUnavailable
}

func (failingTier) Delete(context.Context, ...string) error {
	return storage.ErrUnavailable
}
