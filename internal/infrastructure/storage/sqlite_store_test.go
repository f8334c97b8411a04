package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ContentHarvester/internal/domain"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Single connection so every statement sees the same in-memory DB.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	store := NewSQLiteStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestEnsureSchemaCreatesAllTables(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)

	expected := []string{
		"languages", "translators", "publication_status", "subjects",
		"categories", "topics", "platforms", "channels",
		"channels_categories", "original_texts", "videos", "translates",
		"rewrites", "publications",
	}

	for _, table := range expected {
		var name string
		err := store.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s was not created: %v", table, err)
		}
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)

	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}

	var count int
	if err := store.db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='languages'`,
	).Scan(&count); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one languages table, got %d", count)
	}
}

func TestInsertDuplicateUniqueFails(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, domain.Language{Code: "en"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	_, err := store.Insert(ctx, domain.Language{Code: "en"})
	if !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
}

func TestInsertForeignKeyViolation(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)

	_, err := store.Insert(context.Background(), domain.Category{Name: "science", SubjectID: 42})
	if !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity for dangling subject ref, got %v", err)
	}
}

func TestPublicationUniquePerChannel(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	langID, err := store.GetOrCreateLanguage(ctx, "ru")
	if err != nil {
		t.Fatalf("language: %v", err)
	}

	textID, err := store.Insert(ctx, domain.OriginalText{
		LanguageID: langID, Text: "source", CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("original text: %v", err)
	}

	translatorID, err := store.GetOrCreateTranslator(ctx, "mymemory")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}

	translateID, err := store.Insert(ctx, domain.Translate{
		TextID: textID, LanguageID: langID, TranslatedText: "перевод",
		TranslatorID: translatorID, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}

	rewriteID, err := store.Insert(ctx, domain.Rewrite{
		Text: "статья", LanguageID: langID, TranslateID: translateID,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	subjectID, err := store.Insert(ctx, domain.Subject{Name: "technology"})
	if err != nil {
		t.Fatalf("subject: %v", err)
	}
	platformID, err := store.Insert(ctx, domain.Platform{Name: "zen", URL: "https://zen.example"})
	if err != nil {
		t.Fatalf("platform: %v", err)
	}
	channelID, err := store.Insert(ctx, domain.Channel{
		Name: "main", URL: "https://zen.example/main", PlatformID: platformID, SubjectID: subjectID,
	})
	if err != nil {
		t.Fatalf("channel: %v", err)
	}

	statusID, err := store.GetOrCreateStatus(ctx, domain.StatusPublished)
	if err != nil {
		t.Fatalf("status: %v", err)
	}

	publication := domain.Publication{
		RewriteID: rewriteID, ChannelID: channelID, PublishDate: now,
		StatusID: statusID, PublishedURL: "https://zen.example/main/post-1",
		CreatedAt: now, UpdatedAt: now,
	}
	if _, err := store.Insert(ctx, publication); err != nil {
		t.Fatalf("first publication: %v", err)
	}

	_, err = store.Insert(ctx, publication)
	if !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity for duplicate (rewrite, channel), got %v", err)
	}
}

func TestGetOrCreateLanguageIdempotent(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := context.Background()

	id1, err := store.GetOrCreateLanguage(ctx, "en")
	if err != nil {
		t.Fatalf("create language: %v", err)
	}
	id2, err := store.GetOrCreateLanguage(ctx, "en")
	if err != nil {
		t.Fatalf("get language: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same id, got %d and %d", id1, id2)
	}

	other, err := store.GetOrCreateLanguage(ctx, "ru")
	if err != nil {
		t.Fatalf("create second language: %v", err)
	}
	if other == id1 {
		t.Fatalf("distinct codes must get distinct ids")
	}
}

func TestGetOrCreateRejectsEmptyKeys(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.GetOrCreateLanguage(ctx, "  "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for blank code, got %v", err)
	}
	if _, err := store.GetOrCreateTranslator(ctx, ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for blank translator, got %v", err)
	}
	if _, err := store.GetOrCreateStatus(ctx, ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for blank status, got %v", err)
	}
}

func TestDuplicateVideoExternalID(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	video := domain.Video{ExternalID: "Yd95LBhuSOk", Title: "t", CreatedAt: now, UpdatedAt: now}
	if _, err := store.Insert(ctx, video); err != nil {
		t.Fatalf("first video: %v", err)
	}
	if _, err := store.Insert(ctx, video); !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity for duplicate youtube id, got %v", err)
	}
}

func TestVideoExists(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	exists, err := store.VideoExists(ctx, "Yd95LBhuSOk")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if exists {
		t.Fatal("unknown video reported as existing")
	}

	if _, err := store.Insert(ctx, domain.Video{ExternalID: "Yd95LBhuSOk", Title: "t", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("insert video: %v", err)
	}

	exists, err = store.VideoExists(ctx, "Yd95LBhuSOk")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !exists {
		t.Fatal("inserted video not reported as existing")
	}
}

func TestRewriteWithoutTranslationPersistsNull(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	langID, err := store.GetOrCreateLanguage(ctx, "ru")
	if err != nil {
		t.Fatalf("language: %v", err)
	}

	// Direct branch: rewrite references no translate row.
	rewriteID, err := store.Insert(ctx, domain.Rewrite{
		Text: "статья", LanguageID: langID, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	var translateRef sql.NullInt64
	if err := store.db.QueryRow(
		`SELECT translate_id FROM rewrites WHERE id = ?`, rewriteID,
	).Scan(&translateRef); err != nil {
		t.Fatalf("read back rewrite: %v", err)
	}
	if translateRef.Valid {
		t.Fatalf("expected NULL translate_id, got %d", translateRef.Int64)
	}
}
