package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/tbourn/friend-app/internal/domain"
)

func TestAdService_AddRejectsUnknownTagWithoutWriting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")

	tags := []domain.Tag{{Title: "Hobby", Value: "Chess"}, {Title: "Hobby", Value: "Skydiving"}}
	if _, err := f.ads.Add(ctx, "Title", "Desc", 30, owner, tags); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("expected ErrInvalidTag, got %v", err)
	}
	all, _ := f.ads.ListAll(ctx)
	if len(all) != 0 {
		t.Fatalf("no ad should have been written, got %+v", all)
	}
}

func TestAdService_AddValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")

	cases := []struct {
		name, title, desc string
		age               int
	}{
		{"blank title", "  ", "d", 30},
		{"long title", strings.Repeat("t", 51), "d", 30},
		{"blank description", "t", "", 30},
		{"long description", "t", strings.Repeat("d", 1001), 30},
		{"zero age", "t", "d", 0},
		{"huge age", "t", "d", 1000},
	}
	for _, c := range cases {
		if _, err := f.ads.Add(ctx, c.title, c.desc, c.age, owner, nil); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", c.name, err)
		}
	}
}

func TestAdService_GetJoinsOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	id := f.ad(t, owner, "Chess partner")

	d, err := f.ads.Get(ctx, id)
	if err != nil || d.OwnerUsername != "owner" || d.Title != "Chess partner" {
		t.Fatalf("Get = %+v, %v", d, err)
	}
	if _, err := f.ads.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdService_UpdateReplacesTagSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	other := f.user(t, "other")
	id := f.ad(t, owner, "Chess", domain.Tag{Title: "Hobby", Value: "Chess"}, domain.Tag{Title: "City", Value: "Helsinki"})

	if err := f.ads.Update(ctx, id, other, "x", "y", nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner: expected ErrForbidden, got %v", err)
	}
	if err := f.ads.Update(ctx, "missing", owner, "x", "y", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: expected ErrNotFound, got %v", err)
	}
	if err := f.ads.Update(ctx, id, owner, "x", "y", []domain.Tag{{Title: "Nope", Value: "x"}}); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("bad tag: expected ErrInvalidTag, got %v", err)
	}

	newTags := []domain.Tag{{Title: "Hobby", Value: "Hiking"}, {Title: "Hobby", Value: "Hiking"}}
	if err := f.ads.Update(ctx, id, owner, "Hiking buddy", "Trails", newTags); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := f.ads.Tags(ctx, id)
	if !reflect.DeepEqual(got, []domain.Tag{{Title: "Hobby", Value: "Hiking"}}) {
		t.Fatalf("tags after update = %v", got)
	}
	d, _ := f.ads.Get(ctx, id)
	if d.Title != "Hiking buddy" || d.Description != "Trails" {
		t.Fatalf("text not updated: %+v", d)
	}

	// An empty tag set clears every tag.
	if err := f.ads.Update(ctx, id, owner, "Hiking buddy", "Trails", nil); err != nil {
		t.Fatalf("Update(nil tags): %v", err)
	}
	if got, _ := f.ads.Tags(ctx, id); len(got) != 0 {
		t.Fatalf("expected no tags, got %v", got)
	}
}

func TestAdService_RemoveCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	a := f.user(t, "a")
	b := f.user(t, "b")
	id := f.ad(t, owner, "Chess", domain.Tag{Title: "Hobby", Value: "Chess"})
	keep := f.ad(t, owner, "Keep")

	ta, _ := f.threads.Start(ctx, id, a)
	tb, _ := f.threads.Start(ctx, id, b)
	tk, _ := f.threads.Start(ctx, keep, a)
	for _, th := range []*domain.Thread{ta, tb, tk} {
		if _, err := f.threads.Send(ctx, th.ID, owner, "hello"); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	if err := f.ads.Remove(ctx, id, a); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner: expected ErrForbidden, got %v", err)
	}
	if err := f.ads.Remove(ctx, id, owner); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := f.ads.Remove(ctx, id, owner); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Remove: expected ErrNotFound, got %v", err)
	}

	var n int64
	f.db.Model(&domain.AdTag{}).Where("message_id = ?", id).Count(&n)
	if n != 0 {
		t.Fatalf("tags left: %d", n)
	}
	f.db.Model(&domain.Thread{}).Where("ad_id = ?", id).Count(&n)
	if n != 0 {
		t.Fatalf("threads left: %d", n)
	}
	f.db.Model(&domain.ThreadMessage{}).Where("thread_id IN ?", []string{ta.ID, tb.ID}).Count(&n)
	if n != 0 {
		t.Fatalf("thread messages left: %d", n)
	}
	if th, _ := f.threads.Get(ctx, tk.ID); th == nil {
		t.Fatalf("thread of another ad must survive")
	}
}

func TestAdService_SearchAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner")
	f.ad(t, owner, "Chess partner")
	f.ad(t, owner, "Hiking group")

	got, err := f.ads.Search(ctx, "cHeSs")
	if err != nil || len(got) != 1 || got[0].Title != "Chess partner" {
		t.Fatalf("Search = %+v, %v", got, err)
	}
	if got, _ := f.ads.Search(ctx, ""); len(got) != 0 {
		t.Fatalf("blank search should be empty, got %+v", got)
	}
	if got, _ := f.ads.ListByUser(ctx, owner); len(got) != 2 {
		t.Fatalf("ListByUser = %+v", got)
	}
	count, latest, err := f.ads.FeedStats(ctx)
	if err != nil || count != 2 || latest == nil {
		t.Fatalf("FeedStats = %d, %v, %v", count, latest, err)
	}
}

// tagsOnlyCatalog answers TagsOf from a fixed map and fails catalog reads.
type tagsOnlyCatalog map[string][]domain.Tag

func (tagsOnlyCatalog) AllClasses(context.Context) (domain.ClassCatalog, error) {
	return domain.ClassCatalog{}, errors.New("unused")
}

func (c tagsOnlyCatalog) TagsOf(_ context.Context, adID string) ([]domain.Tag, error) {
	return c[adID], nil
}

func TestAdService_TagsComeFromCatalog(t *testing.T) {
	want := []domain.Tag{{Title: "Hobby", Value: "Chess"}}
	svc := NewAdService(nil, tagsOnlyCatalog{"ad-1": want})

	got, err := svc.Tags(context.Background(), "ad-1")
	if err != nil || len(got) != 1 || got[0] != want[0] {
		t.Fatalf("Tags = %v, %v", got, err)
	}
}
