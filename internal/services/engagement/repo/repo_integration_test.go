//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quotewall/internal/migrations"
	"quotewall/internal/platform/store"
	"quotewall/internal/services/engagement/domain"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func openStore(t *testing.T, dsn string) *store.Store {
	t.Helper()

	if err := migrations.Up(dsn); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}
	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{Enabled: true, URL: dsn},
	})
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st
}

func seedUserAndQuote(t *testing.T, st *store.Store) (userID, quoteID string) {
	t.Helper()
	ctx := context.Background()

	if err := st.PG.QueryRow(ctx,
		`insert into users (username) values ('alice') returning id::text`,
	).Scan(&userID); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := st.PG.QueryRow(ctx,
		`insert into quotes (author_id, body) values ($1, 'hello') returning id::text`,
		userID,
	).Scan(&quoteID); err != nil {
		t.Fatalf("seed quote: %v", err)
	}
	return userID, quoteID
}

func TestEdges_IdempotentAddRemove(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()
	st := openStore(t, dsn)
	r := NewPG().Bind(st.PG)
	ctx := context.Background()

	userID, quoteID := seedUserAndQuote(t, st)

	added, err := r.AddEdge(ctx, domain.KindLike, userID, quoteID)
	if err != nil || !added {
		t.Fatalf("first add: added=%v err=%v", added, err)
	}
	added, err = r.AddEdge(ctx, domain.KindLike, userID, quoteID)
	if err != nil {
		t.Fatalf("duplicate add errored: %v", err)
	}
	if added {
		t.Fatalf("duplicate add must be a no-op")
	}

	n, err := r.LikeCount(ctx, quoteID)
	if err != nil || n != 1 {
		t.Fatalf("like count = %d (%v), want 1", n, err)
	}

	removed, err := r.RemoveEdge(ctx, domain.KindLike, userID, quoteID)
	if err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	removed, err = r.RemoveEdge(ctx, domain.KindLike, userID, quoteID)
	if err != nil {
		t.Fatalf("absent remove errored: %v", err)
	}
	if removed {
		t.Fatalf("absent remove must report false")
	}
}

func TestAddEdge_MissingQuote_NoOp(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()
	st := openStore(t, dsn)
	r := NewPG().Bind(st.PG)
	ctx := context.Background()

	userID, _ := seedUserAndQuote(t, st)

	// add for a quote that no longer exists must not error
	added, err := r.AddEdge(ctx, domain.KindLike, userID, "99999999-9999-9999-9999-999999999999")
	if err != nil {
		t.Fatalf("add for missing quote errored: %v", err)
	}
	if added {
		t.Fatalf("add for missing quote must be a no-op")
	}
}

func TestLikeCounts_ZeroFilled(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()
	st := openStore(t, dsn)
	r := NewPG().Bind(st.PG)
	ctx := context.Background()

	userID, quoteID := seedUserAndQuote(t, st)
	if _, err := r.AddEdge(ctx, domain.KindLike, userID, quoteID); err != nil {
		t.Fatalf("add: %v", err)
	}

	other := "99999999-9999-9999-9999-999999999999"
	counts, err := r.LikeCounts(ctx, []string{quoteID, other})
	if err != nil {
		t.Fatalf("LikeCounts: %v", err)
	}
	if counts[quoteID] != 1 || counts[other] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestApply_RedeliveryIsNoOp(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()
	st := openStore(t, dsn)
	r := NewPG().Bind(st.PG)
	ctx := context.Background()

	userID, quoteID := seedUserAndQuote(t, st)

	batch := []domain.Event{
		{Kind: domain.KindLike, Action: domain.ActionAdd, UserID: userID, QuoteID: quoteID, At: time.Now()},
		{Kind: domain.KindSave, Action: domain.ActionAdd, UserID: userID, QuoteID: quoteID, At: time.Now()},
	}
	for i := 0; i < 2; i++ {
		if err := r.Apply(ctx, batch); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}

	n, err := r.LikeCount(ctx, quoteID)
	if err != nil || n != 1 {
		t.Fatalf("like count after replay = %d (%v), want 1", n, err)
	}

	marks, err := r.MarksFor(ctx, userID, []string{quoteID})
	if err != nil {
		t.Fatalf("MarksFor: %v", err)
	}
	if !marks.Liked[quoteID] || !marks.Saved[quoteID] {
		t.Fatalf("expected liked and saved after replay, got %+v", marks)
	}
}

func TestRemoveQuoteEdges_ClearsBothTables(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()
	st := openStore(t, dsn)
	r := NewPG().Bind(st.PG)
	ctx := context.Background()

	userID, quoteID := seedUserAndQuote(t, st)
	if _, err := r.AddEdge(ctx, domain.KindLike, userID, quoteID); err != nil {
		t.Fatalf("add like: %v", err)
	}
	if _, err := r.AddEdge(ctx, domain.KindSave, userID, quoteID); err != nil {
		t.Fatalf("add save: %v", err)
	}

	if err := r.RemoveQuoteEdges(ctx, quoteID); err != nil {
		t.Fatalf("RemoveQuoteEdges: %v", err)
	}
	marks, err := r.MarksFor(ctx, userID, []string{quoteID})
	if err != nil {
		t.Fatalf("MarksFor: %v", err)
	}
	if marks.Liked[quoteID] || marks.Saved[quoteID] {
		t.Fatalf("edges should be gone, got %+v", marks)
	}
}
