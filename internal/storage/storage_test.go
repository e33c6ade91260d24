package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ramonehamilton/otherworld-codex/internal/arkham/arkhamtest"
	"github.com/ramonehamilton/otherworld-codex/internal/arkham/cards"
	"github.com/ramonehamilton/otherworld-codex/internal/storage/repository"
)

// setupTestService opens a migrated database in a temporary file.
func setupTestService(t *testing.T) (*Service, *DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	config := DefaultConfig(dbPath)
	config.AutoMigrate = true
	db, err := Open(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewService(db, zap.NewNop()), db
}

func seedFixture(t *testing.T, svc *Service) *SeedResult {
	t.Helper()
	result, err := svc.Seed(context.Background(), arkhamtest.RawCards(), arkhamtest.Campaigns())
	require.NoError(t, err)
	return result
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig("test.db")
	assert.Equal(t, "test.db", config.Path)
	assert.Equal(t, 25, config.MaxOpenConns)
	assert.Equal(t, 5, config.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, config.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, config.BusyTimeout)
	assert.Equal(t, "WAL", config.JournalMode)
	assert.Equal(t, "NORMAL", config.Synchronous)
	assert.False(t, config.AutoMigrate)
}

func TestConfig_DSN(t *testing.T) {
	dsn := DefaultConfig("data/codex.db").dsn()
	assert.Equal(t,
		"data/codex.db?_pragma=busy_timeout%285000%29&_pragma=journal_mode%28WAL%29&_pragma=synchronous%28NORMAL%29&_pragma=foreign_keys%281%29",
		dsn)
}

func TestOpen(t *testing.T) {
	db, err := Open(DefaultConfig(":memory:"))
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping())
	assert.NotNil(t, db.Conn())
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)

	config := DefaultConfig(":memory:")
	config.AutoMigrate = true
	_, err = Open(config)
	assert.ErrorContains(t, err, "in-memory")
}

func TestClose(t *testing.T) {
	db, err := Open(DefaultConfig(":memory:"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(), "ping after close")
}

func TestMigrationManager_UpDown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	mgr, err := NewMigrationManager(dbPath)
	require.NoError(t, err)
	defer mgr.Close()

	version, dirty, err := mgr.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, mgr.Up())
	require.NoError(t, mgr.Up(), "second Up is a no-op")

	version, dirty, err = mgr.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, mgr.Down())
	version, _, err = mgr.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestDatabaseURL(t *testing.T) {
	assert.Equal(t, "sqlite://data/codex.db", databaseURL("data/codex.db"))
	assert.Equal(t, "sqlite:///var/lib/codex.db", databaseURL("/var/lib/codex.db"))
}

func TestWithTransaction_RollsBack(t *testing.T) {
	_, db := setupTestService(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := repository.NewCardRepository(tx).UpsertPack(ctx, "core", "Core Set"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM packs").Scan(&n))
	assert.Zero(t, n)
}

func TestWithTransaction_RethrowsPanic(t *testing.T) {
	_, db := setupTestService(t)
	assert.PanicsWithValue(t, "kaboom", func() {
		_ = db.WithTransaction(context.Background(), func(context.Context, *sql.Tx) error {
			panic("kaboom")
		})
	})
}

func TestService_SeedAndLoadCatalog(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	result := seedFixture(t, svc)
	assert.Equal(t, len(arkhamtest.Cards()), result.Cards)
	assert.Equal(t, 3, result.Packs)
	assert.Equal(t, 2, result.Campaigns)
	assert.Equal(t, 4, result.Scenarios)
	assert.NotZero(t, result.SearchEntries)

	count, err := svc.CardCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Cards, count)

	cat, err := svc.LoadCatalog(ctx)
	require.NoError(t, err)

	codes := func(list []*cards.Card) []string {
		out := make([]string, len(list))
		for i, c := range list {
			out[i] = c.Code
		}
		return out
	}
	assert.Equal(t, codes(arkhamtest.Cards()), codes(cat.Corpus().Cards()))

	if diff := cmp.Diff(arkhamtest.Campaigns(), cat.Index().Campaigns()); diff != "" {
		t.Errorf("campaigns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(result.Catalog.Options(), cat.Options()); diff != "" {
		t.Errorf("options mismatch (-seeded +loaded):\n%s", diff)
	}

	priest, ok := cat.Corpus().ByCode(arkhamtest.GhoulPriest)
	require.True(t, ok)
	assert.Equal(t, cards.FixedStat(5), priest.Health)
	assert.True(t, priest.HealthPerInvestigator)

	back, ok := cat.Corpus().LinkedFrom(arkhamtest.PredatorOrPrey)
	require.True(t, ok)
	assert.Equal(t, arkhamtest.PredatorBack, back.Code)
}

func TestService_SeedReplacesData(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	seedFixture(t, svc)

	raw := arkhamtest.RawCards()[:4]
	_, err := svc.Seed(ctx, raw, arkhamtest.Campaigns()[:1])
	require.NoError(t, err)

	cat, err := svc.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, cat.Corpus().Len())
	assert.Len(t, cat.Index().Campaigns(), 1)

	rows, err := svc.Search(ctx, "Yithian", 10)
	require.NoError(t, err)
	assert.Empty(t, rows, "stale search rows removed")
}

func TestService_SeedDuplicateCodes(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	first := cards.RawCard{Code: "a", Name: "First", TypeCode: "enemy", TypeName: "Enemy"}
	other := cards.RawCard{Code: "b", Name: "Other", TypeCode: "enemy", TypeName: "Enemy"}
	second := cards.RawCard{Code: "a", Name: "Second", TypeCode: "enemy", TypeName: "Enemy"}

	result, err := svc.Seed(ctx, []cards.RawCard{first, other, second}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Cards)

	cat, err := svc.LoadCatalog(ctx)
	require.NoError(t, err)
	list := cat.Corpus().Cards()
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Name)
	assert.Equal(t, "b", list[1].Code)
}

func TestService_SeedInvalidLeavesDataUntouched(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	seedFixture(t, svc)

	bad := append(arkhamtest.RawCards(), cards.RawCard{Code: "x", Name: "No Type"})
	_, err := svc.Seed(ctx, bad, arkhamtest.Campaigns())
	require.ErrorIs(t, err, cards.ErrMissingType)

	count, err := svc.CardCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(arkhamtest.Cards()), count)
}

func TestService_Search(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()
	seedFixture(t, svc)

	kinds := func(rows []repository.SearchRow) map[string][]string {
		out := map[string][]string{}
		for _, r := range rows {
			out[r.Type] = append(out[r.Type], r.Code)
		}
		return out
	}

	rows, err := svc.Search(ctx, "ghoul", 50)
	require.NoError(t, err)
	got := kinds(rows)
	assert.Contains(t, got["card"], arkhamtest.GhoulPriest)
	assert.Contains(t, got["card"], arkhamtest.RavenousGhoul)
	assert.Contains(t, got["trait"], "Ghoul")
	assert.Contains(t, got["encounter"], "ghouls")

	rows, err = svc.Search(ctx, "ghoul pri", 50)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, arkhamtest.GhoulPriest, rows[0].Code)
	assert.Equal(t, "https://arkhamdb.com/bundles/cards/01116.png", rows[0].ImageURL)

	rows, err = svc.Search(ctx, "umordhoth", 50)
	require.NoError(t, err)
	assert.Contains(t, kinds(rows)["encounter"], "cult_of_umordhoth", "diacritics folded")

	rows, err = svc.Search(ctx, "dunwich", 50)
	require.NoError(t, err)
	assert.Contains(t, kinds(rows)["campaign"], "dwl")
	assert.Contains(t, kinds(rows)["pack"], "dwl")

	rows, err = svc.Search(ctx, "ghoul", 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	for _, q := range []string{"", "   ", `"`, "-"} {
		rows, err = svc.Search(ctx, q, 10)
		require.NoError(t, err, "query %q", q)
		assert.Empty(t, rows, "query %q", q)
	}
}

func TestMatchExpression(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ghoul", `"ghoul"*`},
		{"  ghoul   priest ", `"ghoul"* "priest"*`},
		{`say "hi"`, `"say"* """hi"""*`},
		{"a - b", `"a"* "b"*`},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, repository.MatchExpression(tt.in), tt.in)
	}
}

func TestBackup(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	seedFixture(t, svc)

	dir := filepath.Join(t.TempDir(), "backups")
	path, err := db.Backup(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, VerifyBackup(ctx, path))

	backups, err := ListBackups(dir)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, path, backups[0].Path)
	assert.Len(t, backups[0].Checksum, 64)

	snapshot, err := Open(DefaultConfig(path))
	require.NoError(t, err)
	defer snapshot.Close()
	count, err := NewService(snapshot, nil).CardCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(arkhamtest.Cards()), count)
}

func TestPruneBackups(t *testing.T) {
	_, db := setupTestService(t)
	ctx := context.Background()
	dir := t.TempDir()

	for i := 0; i < 3; i++ {
		_, err := db.Backup(ctx, dir)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	removed, err := PruneBackups(dir, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	backups, err := ListBackups(dir)
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	missing, err := ListBackups(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}
