package repo

import (
	"context"
	"testing"

	"github.com/tbourn/friend-app/internal/domain"
)

func TestSeedClasses_IdempotentAndOrdered(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	rows := []domain.Tag{
		{Title: "Gender", Value: "Female"},
		{Title: "Gender", Value: "Male"},
		{Title: "Hobby", Value: "Chess"},
	}
	n, err := SeedClasses(ctx, db, rows)
	if err != nil || n != 3 {
		t.Fatalf("SeedClasses = %d, %v", n, err)
	}
	n, err = SeedClasses(ctx, db, append(rows, domain.Tag{Title: "Gender", Value: "Other"}))
	if err != nil || n != 1 {
		t.Fatalf("reseed = %d, %v", n, err)
	}

	got, err := ListClasses(ctx, db)
	if err != nil {
		t.Fatalf("ListClasses: %v", err)
	}
	want := []string{"Gender/Female", "Gender/Male", "Hobby/Chess", "Gender/Other"}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i, c := range got {
		if c.Title+"/"+c.Value != want[i] {
			t.Fatalf("row %d = %s/%s; want %s", i, c.Title, c.Value, want[i])
		}
	}
}
