package records

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/screening"
	"github.com/Rahul-Birwadkar/SkillScout-AI-Technical-Screening-Agent/internal/skills"
)

func testRecord(id string) *screening.Record {
	answer := "Use a buffered channel."
	started := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	return &screening.Record{
		ID:        id,
		SessionID: "5f0c6a52-54a4-4c5b-9d0e-1f1b6f2b7a10",
		Profile: screening.Profile{
			FullName:        "Ada Lovelace",
			Email:           "ada@example.com",
			YearsExperience: 7,
			TechStack:       "Go, Docker",
		},
		Seniority: "Senior",
		Skills: skills.Map{
			{Category: skills.Backend, Skills: []string{"go"}},
			{Category: skills.DevOps, Skills: []string{"docker"}},
		},
		Questions: []screening.QuestionRecord{{
			Index:    1,
			Category: skills.Backend,
			Question: "How do you limit concurrency?",
			Answer:   &answer,
			AskedAt:  started.Add(time.Minute),
		}},
		Consent:     screening.ConsentGranted,
		Reason:      screening.ReasonBudget,
		StartedAt:   started,
		CompletedAt: started.Add(10 * time.Minute),
	}
}

func readLines(t *testing.T, path string) []*screening.Record {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var out []*screening.Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var record screening.Record
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		out = append(out, &record)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestFileStoreAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "candidates.jsonl")
	store := NewFileStore(path)

	first, second := testRecord("a3c1c7a4-0001-4b0e-8f55-000000000001"), testRecord("a3c1c7a4-0002-4b0e-8f55-000000000002")
	for _, r := range []*screening.Record{first, second} {
		if err := store.Append(context.Background(), r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got := readLines(t, path)
	if diff := cmp.Diff([]*screening.Record{first, second}, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestFileStoreRespectsContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.jsonl")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewFileStore(path).Append(ctx, testRecord("id")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file to be created")
	}
}

func TestFileStoreRejectsNilRecord(t *testing.T) {
	if err := NewFileStore(filepath.Join(t.TempDir(), "x.jsonl")).Append(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil record")
	}
}

func TestInsertQuery(t *testing.T) {
	record := testRecord("a3c1c7a4-0001-4b0e-8f55-000000000001")

	query, args, err := insertQuery("screening_records", record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(query, `INSERT INTO "screening_records"`) {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "$12") || strings.Contains(query, "$13") || strings.Contains(query, "?") {
		t.Fatalf("expected 12 dollar placeholders: %s", query)
	}
	if len(args) != 12 {
		t.Fatalf("expected 12 args, got %d", len(args))
	}

	if args[0] != record.ID || args[2] != "Ada Lovelace" || args[5] != "granted" || args[6] != "budget" {
		t.Fatalf("unexpected args: %v", args)
	}
	if diff := cmp.Diff(pq.StringArray{"go", "docker"}, args[7]); diff != "" {
		t.Fatalf("skills mismatch (-want +got):\n%s", diff)
	}
	if args[8] != 1 {
		t.Fatalf("expected questions count 1, got %v", args[8])
	}

	var payload screening.Record
	if err := json.Unmarshal([]byte(args[9].(string)), &payload); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if payload.ID != record.ID {
		t.Fatalf("unexpected payload id %q", payload.ID)
	}
}

func TestInsertQueryQuotesTable(t *testing.T) {
	query, _, err := insertQuery(`records"; DROP TABLE x; --`, testRecord("id"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(query, `INSERT INTO "records""; DROP TABLE x; --"`) {
		t.Fatalf("table name was not quoted: %s", query)
	}
}

type fakeList struct {
	pushed map[string][][]byte
	err    error
	closed bool
}

func (f *fakeList) RPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	if f.pushed == nil {
		f.pushed = map[string][][]byte{}
	}
	for _, v := range values {
		f.pushed[key] = append(f.pushed[key], v.([]byte))
	}
	return redis.NewIntResult(int64(len(f.pushed[key])), nil)
}

func (f *fakeList) Close() error {
	f.closed = true
	return nil
}

func TestRedisStore(t *testing.T) {
	client := &fakeList{}
	store := newRedisStore(client, "", zap.NewNop())

	record := testRecord("a3c1c7a4-0001-4b0e-8f55-000000000001")
	if err := store.Append(context.Background(), record); err != nil {
		t.Fatalf("append: %v", err)
	}

	pushed := client.pushed[DefaultRedisKey]
	if len(pushed) != 1 {
		t.Fatalf("expected one pushed record, got %d", len(pushed))
	}
	var got screening.Record
	if err := json.Unmarshal(pushed[0], &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(record, &got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	if err := store.Close(); err != nil || !client.closed {
		t.Fatalf("expected client to be closed")
	}
}

func TestRedisStoreError(t *testing.T) {
	store := newRedisStore(&fakeList{err: errors.New("connection refused")}, "records", nil)
	err := store.Append(context.Background(), testRecord("id"))
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected wrapped redis error, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("REDIS_ADDR", "")

	tests := []struct {
		name      string
		cfg       Config
		check     func(t *testing.T, store Store)
		expectErr string
	}{
		{
			name: "defaults to file",
			cfg:  Config{},
			check: func(t *testing.T, store Store) {
				fs, ok := store.(*FileStore)
				if !ok || fs.Path() != DefaultFile {
					t.Fatalf("expected default file store, got %#v", store)
				}
			},
		},
		{
			name: "custom file",
			cfg:  Config{Backend: " FILE ", File: "out/records.jsonl"},
			check: func(t *testing.T, store Store) {
				if fs, ok := store.(*FileStore); !ok || fs.Path() != "out/records.jsonl" {
					t.Fatalf("expected custom file store, got %#v", store)
				}
			},
		},
		{
			name: "none discards",
			cfg:  Config{Backend: BackendNone},
			check: func(t *testing.T, store Store) {
				if err := store.Append(context.Background(), testRecord("id")); err != nil {
					t.Fatalf("discard append: %v", err)
				}
			},
		},
		{name: "postgres needs a dsn", cfg: Config{Backend: BackendPostgres}, expectErr: "postgres dsn is not configured"},
		{name: "redis needs a url", cfg: Config{Backend: BackendRedis}, expectErr: "redis url is not configured"},
		{name: "unknown backend", cfg: Config{Backend: "mongo"}, expectErr: "unsupported store backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(context.Background(), tt.cfg, zap.NewNop())
			if tt.expectErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectErr) {
					t.Fatalf("expected error containing %q, got %v", tt.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer store.Close()
			tt.check(t, store)
		})
	}
}
