package service

import (
	"context"
	"errors"
	"testing"

	"quotewall/internal/services/engagement/domain"
)

// fakeCache mimics the redis fast path in memory
// setting err makes every call fail, the cache-down case
type fakeCache struct {
	err     error
	members map[string]bool
	counts  map[string]int64

	incrCalls, decrCalls int
	seeded               map[string]int64
	invalidated          []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		members: map[string]bool{},
		counts:  map[string]int64{},
		seeded:  map[string]int64{},
	}
}

func (f *fakeCache) AddMember(_ context.Context, kind domain.Kind, userID, quoteID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	k := edgeKey(kind, userID, quoteID)
	if f.members[k] {
		return false, nil
	}
	f.members[k] = true
	return true, nil
}

func (f *fakeCache) RemoveMember(_ context.Context, kind domain.Kind, userID, quoteID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	k := edgeKey(kind, userID, quoteID)
	if !f.members[k] {
		return false, nil
	}
	delete(f.members, k)
	return true, nil
}

func (f *fakeCache) MembersAmong(_ context.Context, kind domain.Kind, userID string, quoteIDs []string) (map[string]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]bool, len(quoteIDs))
	for _, id := range quoteIDs {
		out[id] = f.members[edgeKey(kind, userID, id)]
	}
	return out, nil
}

func (f *fakeCache) IncrLikes(_ context.Context, quoteID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.incrCalls++
	f.counts[quoteID]++
	return f.counts[quoteID], nil
}

func (f *fakeCache) DecrLikes(_ context.Context, quoteID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.decrCalls++
	if f.counts[quoteID] > 0 {
		f.counts[quoteID]--
	}
	return f.counts[quoteID], nil
}

func (f *fakeCache) Counts(_ context.Context, quoteIDs []string) (map[string]int64, []string, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	cached := map[string]int64{}
	var missing []string
	for _, id := range quoteIDs {
		if n, ok := f.counts[id]; ok {
			cached[id] = n
		} else {
			missing = append(missing, id)
		}
	}
	return cached, missing, nil
}

func (f *fakeCache) SeedCount(_ context.Context, quoteID string, n int64) error {
	if f.err != nil {
		return f.err
	}
	f.seeded[quoteID] = n
	if _, ok := f.counts[quoteID]; !ok {
		f.counts[quoteID] = n
	}
	return nil
}

func (f *fakeCache) InvalidateQuote(_ context.Context, quoteID string) error {
	if f.err != nil {
		return f.err
	}
	f.invalidated = append(f.invalidated, quoteID)
	delete(f.counts, quoteID)
	return nil
}

// fakePublisher captures published events
type fakePublisher struct {
	events []domain.Event
}

func (f *fakePublisher) Publish(_ context.Context, ev domain.Event) error {
	f.events = append(f.events, ev)
	return nil
}

func newCachedSvc(f *fakeRepo, c *fakeCache, p *fakePublisher) *Svc {
	s := &Svc{Repo: f, cache: c}
	if p != nil {
		s.pub = p
	}
	return s
}

func TestMark_CachePath_NewLike_BumpsTallyAndPublishes(t *testing.T) {
	t.Parallel()

	f := newFakeRepo()
	c := newFakeCache()
	p := &fakePublisher{}
	s := newCachedSvc(f, c, p)

	created, out, err := s.Mark(context.Background(), domain.KindLike, testUser, testQuote)
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if !created || !out.Marked {
		t.Fatalf("new like should report created, got created=%v out=%+v", created, out)
	}
	if c.incrCalls != 1 {
		t.Fatalf("expected one tally bump, got %d", c.incrCalls)
	}
	if out.Count == nil || *out.Count != 1 {
		t.Fatalf("response should carry the cached tally, got %+v", out.Count)
	}
	if f.addCalls != 0 {
		t.Fatalf("cache path must not write postgres, saw %d writes", f.addCalls)
	}
	if len(p.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(p.events))
	}
	ev := p.events[0]
	if ev.Kind != domain.KindLike || ev.Action != domain.ActionAdd || ev.UserID != testUser || ev.QuoteID != testQuote {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestMark_CachePath_DuplicateLike_NoBumpNoPublish(t *testing.T) {
	t.Parallel()

	f := newFakeRepo()
	c := newFakeCache()
	c.members[edgeKey(domain.KindLike, testUser, testQuote)] = true
	p := &fakePublisher{}
	s := newCachedSvc(f, c, p)

	created, out, err := s.Mark(context.Background(), domain.KindLike, testUser, testQuote)
	if err != nil {
		t.Fatalf("duplicate like failed: %v", err)
	}
	if created {
		t.Fatalf("duplicate like must not report created")
	}
	if !out.Marked {
		t.Fatalf("duplicate like should still report marked")
	}
	if c.incrCalls != 0 {
		t.Fatalf("duplicate like must not bump the tally, got %d bumps", c.incrCalls)
	}
	if len(p.events) != 0 {
		t.Fatalf("duplicate like must not publish, got %d events", len(p.events))
	}
	if f.addCalls != 0 {
		t.Fatalf("cache path must not write postgres, saw %d writes", f.addCalls)
	}
}

func TestMark_CachePath_Save_NoTally(t *testing.T) {
	t.Parallel()

	f := newFakeRepo()
	c := newFakeCache()
	p := &fakePublisher{}
	s := newCachedSvc(f, c, p)

	created, out, err := s.Mark(context.Background(), domain.KindSave, testUser, testQuote)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !created {
		t.Fatalf("new save should report created")
	}
	if c.incrCalls != 0 {
		t.Fatalf("saves must not touch the like tally")
	}
	if out.Count != nil {
		t.Fatalf("save response must not carry a tally")
	}
	if len(p.events) != 1 || p.events[0].Kind != domain.KindSave {
		t.Fatalf("expected one save event, got %+v", p.events)
	}
}

func TestMark_CacheError_FallsBackToDurable(t *testing.T) {
	t.Parallel()

	f := newFakeRepo()
	f.counts[testQuote] = 9
	c := newFakeCache()
	c.err = errors.New("redis down")
	p := &fakePublisher{}
	s := newCachedSvc(f, c, p)

	created, out, err := s.Mark(context.Background(), domain.KindLike, testUser, testQuote)
	if err != nil {
		t.Fatalf("like should fall back when the cache fails, got %v", err)
	}
	if !created {
		t.Fatalf("durable fallback should report created")
	}
	if f.addCalls != 1 {
		t.Fatalf("expected one durable write, got %d", f.addCalls)
	}
	if out.Count == nil || *out.Count != 9 {
		t.Fatalf("fallback should answer with the durable tally, got %+v", out.Count)
	}
	if len(p.events) != 0 {
		t.Fatalf("durable writes have nothing to reconcile, got %d events", len(p.events))
	}
}

func TestUnmark_CachePath_RemovedLike_DropsTallyAndPublishes(t *testing.T) {
	t.Parallel()

	f := newFakeRepo()
	c := newFakeCache()
	c.members[edgeKey(domain.KindLike, testUser, testQuote)] = true
	c.counts[testQuote] = 4
	p := &fakePublisher{}
	s := newCachedSvc(f, c, p)

	if err := s.Unmark(context.Background(), domain.KindLike, testUser, testQuote); err != nil {
		t.Fatalf("unmark failed: %v", err)
	}
	if c.decrCalls != 1 {
		t.Fatalf("expected one tally drop, got %d", c.decrCalls)
	}
	if f.removeCalls != 0 {
		t.Fatalf("cache path must not write postgres, saw %d deletes", f.removeCalls)
	}
	if len(p.events) != 1 || p.events[0].Action != domain.ActionRemove {
		t.Fatalf("expected one remove event, got %+v", p.events)
	}
}

func TestUnmark_CachePath_AbsentEdge_Quiet(t *testing.T) {
	t.Parallel()

	f := newFakeRepo()
	c := newFakeCache()
	p := &fakePublisher{}
	s := newCachedSvc(f, c, p)

	if err := s.Unmark(context.Background(), domain.KindLike, testUser, testQuote); err != nil {
		t.Fatalf("unmark of absent edge must succeed, got %v", err)
	}
	if c.decrCalls != 0 {
		t.Fatalf("absent edge must not drop the tally")
	}
	if len(p.events) != 0 {
		t.Fatalf("absent edge must not publish, got %+v", p.events)
	}
}

func TestUnmark_CacheError_FallsBackToDurable(t *testing.T) {
	t.Parallel()

	f := newFakeRepo()
	f.edges[edgeKey(domain.KindLike, testUser, testQuote)] = true
	c := newFakeCache()
	c.err = errors.New("redis down")
	s := newCachedSvc(f, c, &fakePublisher{})

	if err := s.Unmark(context.Background(), domain.KindLike, testUser, testQuote); err != nil {
		t.Fatalf("unmark should fall back when the cache fails, got %v", err)
	}
	if f.removeCalls != 1 {
		t.Fatalf("expected one durable delete, got %d", f.removeCalls)
	}
}

func TestLikeCounts_CacheMisses_SeededFromDurable(t *testing.T) {
	t.Parallel()

	f := newFakeRepo()
	f.counts["b"] = 5
	c := newFakeCache()
	c.counts["a"] = 2
	s := newCachedSvc(f, c, nil)

	got, err := s.LikeCounts(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("LikeCounts failed: %v", err)
	}
	if got["a"] != 2 || got["b"] != 5 {
		t.Fatalf("unexpected counts: %v", got)
	}
	if c.seeded["b"] != 5 {
		t.Fatalf("durable tally for the miss should be seeded back, got %v", c.seeded)
	}
	if _, ok := c.seeded["a"]; ok {
		t.Fatalf("cached hit must not be re-seeded")
	}
}

func TestMarksFor_CachePath_BothKinds(t *testing.T) {
	t.Parallel()

	f := newFakeRepo()
	c := newFakeCache()
	c.members[edgeKey(domain.KindSave, testUser, testQuote)] = true
	s := newCachedSvc(f, c, nil)

	marks, err := s.MarksFor(context.Background(), testUser, []string{testQuote})
	if err != nil {
		t.Fatalf("MarksFor failed: %v", err)
	}
	if marks.Liked[testQuote] {
		t.Fatalf("quote should not read as liked")
	}
	if !marks.Saved[testQuote] {
		t.Fatalf("quote should read as saved")
	}
}

func TestInvalidateQuote_DropsCachedTally(t *testing.T) {
	t.Parallel()

	f := newFakeRepo()
	c := newFakeCache()
	c.counts[testQuote] = 12
	s := newCachedSvc(f, c, nil)

	if err := s.InvalidateQuote(context.Background(), testQuote); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if len(c.invalidated) != 1 || c.invalidated[0] != testQuote {
		t.Fatalf("expected one cache invalidation, got %v", c.invalidated)
	}
	if _, ok := c.counts[testQuote]; ok {
		t.Fatalf("tally should be gone after invalidation")
	}
}
