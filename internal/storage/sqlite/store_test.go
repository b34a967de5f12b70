package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tjfontaine/apicore/internal/storage"
	"github.com/tjfontaine/apicore/pkg/apiclient"
	"github.com/tjfontaine/apicore/pkg/apiclient/apierr"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, store *Store) {
	t.Helper()
	records := []apiclient.ExchangeRecord{
		{ID: "a", Method: apiclient.MethodGet, Target: "https://api.example.com/a", StatusCode: 200, Duration: 5 * time.Millisecond, CreatedAt: base},
		{ID: "b", Method: apiclient.MethodGet, Target: "https://api.example.com/b", StatusCode: 404, Kind: apierr.KindResponseStatus, Message: "not found", Duration: time.Millisecond, CreatedAt: base.Add(time.Second)},
		{ID: "c", Method: apiclient.MethodPost, Target: "https://api.example.com/c", Kind: apierr.KindTransport, Message: apierr.MessageUnableToConnect, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, rec := range records {
		if err := store.RecordExchange(context.Background(), rec); err != nil {
			t.Fatalf("RecordExchange(%s) error = %v", rec.ID, err)
		}
	}
}

func TestSQLiteStore_RecordAndGet(t *testing.T) {
	store, err := New("file:exchanges1?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()
	seed(t, store)

	got, err := store.GetExchange(context.Background(), "b")
	if err != nil {
		t.Fatalf("GetExchange() error = %v", err)
	}
	if got.Method != apiclient.MethodGet {
		t.Errorf("Method = %v, want %v", got.Method, apiclient.MethodGet)
	}
	if got.StatusCode != 404 {
		t.Errorf("StatusCode = %v, want 404", got.StatusCode)
	}
	if got.Kind != apierr.KindResponseStatus {
		t.Errorf("Kind = %v, want %v", got.Kind, apierr.KindResponseStatus)
	}
	if got.Message != "not found" {
		t.Errorf("Message = %q, want %q", got.Message, "not found")
	}
	if got.Duration != time.Millisecond {
		t.Errorf("Duration = %v, want %v", got.Duration, time.Millisecond)
	}
	if !got.CreatedAt.Equal(base.Add(time.Second)) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, base.Add(time.Second))
	}
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store, err := New("file:exchanges2?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	_, err = store.GetExchange(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetExchange() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_RecordDuplicate(t *testing.T) {
	store, err := New("file:exchanges3?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()
	seed(t, store)

	err = store.RecordExchange(context.Background(), apiclient.ExchangeRecord{ID: "a", Method: apiclient.MethodGet, Target: "x"})
	if err == nil {
		t.Error("RecordExchange() with duplicate id should fail")
	}
	if err := store.RecordExchange(context.Background(), apiclient.ExchangeRecord{}); err == nil {
		t.Error("RecordExchange() without id should fail")
	}
}

func TestSQLiteStore_ListExchanges(t *testing.T) {
	store, err := New("file:exchanges4?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()
	seed(t, store)

	tests := []struct {
		name string
		opts storage.ListOptions
		want []string
	}{
		{"all newest first", storage.ListOptions{}, []string{"c", "b", "a"}},
		{"failed only", storage.ListOptions{FailedOnly: true}, []string{"c", "b"}},
		{"by kind", storage.ListOptions{Kind: apierr.KindResponseStatus}, []string{"b"}},
		{"limit", storage.ListOptions{Limit: 2}, []string{"c", "b"}},
		{"offset", storage.ListOptions{Offset: 1}, []string{"b", "a"}},
		{"offset past end", storage.ListOptions{Offset: 10}, nil},
		{"negative limit is unlimited", storage.ListOptions{Limit: -1}, []string{"c", "b", "a"}},
		{"negative offset starts at zero", storage.ListOptions{Offset: -1, Limit: 2}, []string{"c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListExchanges(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("ListExchanges() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ListExchanges() returned %d records, want %d", len(got), len(tt.want))
			}
			for i, rec := range got {
				if rec.ID != tt.want[i] {
					t.Errorf("record[%d].ID = %v, want %v", i, rec.ID, tt.want[i])
				}
			}
		})
	}
}

func TestSQLiteStore_File(t *testing.T) {
	path := t.TempDir() + "/exchanges.db"
	store, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	seed(t, store)
	store.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.ListExchanges(context.Background(), storage.ListOptions{})
	if err != nil {
		t.Fatalf("ListExchanges() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("ListExchanges() returned %d records after reopen, want 3", len(got))
	}
}

func TestSQLiteStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "exchanges.db")
	store, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestParentDir(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"./data/exchanges.db", "data"},
		{"/var/lib/apicore/exchanges.db", "/var/lib/apicore"},
		{"exchanges.db", ""},
		{":memory:", ""},
		{"file:exchanges?mode=memory&cache=shared", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parentDir(tt.in); got != tt.want {
				t.Errorf("parentDir(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
