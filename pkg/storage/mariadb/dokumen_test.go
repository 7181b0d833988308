package mariadb

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/c14220110/absensi-dashboard/config"
	"github.com/c14220110/absensi-dashboard/pkg/storage"
)

func newMockStore(t *testing.T) (*DocumentStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	fixed := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return NewDocumentStore(db, WithClock(func() time.Time { return fixed })), mock
}

func TestGetDocumentNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(queryGet)).
		WithArgs(storage.Collection, "employees").
		WillReturnRows(sqlmock.NewRows([]string{"data", "last_updated", "versi"}))

	_, err := store.GetDocument(context.Background(), storage.Collection, "employees")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetDocumentUpsertsAndNotifies(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Dokumen")).
		WithArgs(storage.Collection, "orders", `[{"id":"o1"}]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(queryVersi)).
		WithArgs(storage.Collection, "orders").
		WillReturnRows(sqlmock.NewRows([]string{"versi"}).AddRow(3))
	mock.ExpectCommit()

	var got []storage.Document
	store.subs.Add(storage.Key(storage.Collection, "orders"), func(doc storage.Document) { got = append(got, doc) })

	payload := []map[string]any{{"id": "o1", "dueDate": nil}}
	if err := store.SetDocument(context.Background(), storage.Collection, "orders", payload); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(got) != 1 || string(got[0].Data) != `[{"id":"o1"}]` {
		t.Fatalf("expected one sanitized notification, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunTransactionLocksRow(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryForUpdate)).
		WithArgs(storage.Collection, "counter").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(`{"n":1}`))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO Dokumen")).
		WithArgs(storage.Collection, "counter", `{"n":2}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectQuery(regexp.QuoteMeta(queryVersi)).
		WithArgs(storage.Collection, "counter").
		WillReturnRows(sqlmock.NewRows([]string{"versi"}).AddRow(2))
	mock.ExpectCommit()

	err := store.RunTransaction(context.Background(), storage.Collection, "counter", func(current json.RawMessage) (any, error) {
		var v map[string]int
		if err := json.Unmarshal(current, &v); err != nil {
			return nil, err
		}
		v["n"]++
		return v, nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunTransactionRollsBackOnCallbackError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryForUpdate)).
		WithArgs(storage.Collection, "counter").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := store.RunTransaction(context.Background(), storage.Collection, "counter", func(current json.RawMessage) (any, error) {
		if current != nil {
			t.Fatalf("expected nil current for missing row")
		}
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPollOnceSkipsKnownVersions(t *testing.T) {
	store, mock := newMockStore(t)
	updated := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(regexp.QuoteMeta(queryGet)).
			WithArgs(storage.Collection, "orders").
			WillReturnRows(sqlmock.NewRows([]string{"data", "last_updated", "versi"}).AddRow(`[]`, updated, 7))
	}
	var calls int
	store.subs.Add(storage.Key(storage.Collection, "orders"), func(storage.Document) { calls++ })

	store.PollOnce(context.Background())
	store.PollOnce(context.Background())
	if calls != 1 {
		t.Fatalf("expected a single delivery for an unchanged version, got %d", calls)
	}
}

func TestRetryableErrors(t *testing.T) {
	if !retryable(&mysql.MySQLError{Number: errDeadlock}) {
		t.Fatalf("expected deadlock to be retryable")
	}
	if retryable(errors.New("koneksi putus")) {
		t.Fatalf("expected plain errors not to be retried")
	}
}

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "3306", DBName: "absensi"}
	want := "u:p@tcp(db:3306)/absensi?parseTime=true&loc=Asia%2FJakarta"
	if got := DSN(cfg); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
