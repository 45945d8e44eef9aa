package storage_test

import (
	"testing"

	"eventchat/backend/internal/storage"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockService backs a Service with a sqlmock connection so storage
// behavior can be exercised without a live database.
func newMockService(t *testing.T) (*storage.Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	return &storage.Service{DB: gdb}, mock
}

var messageColumns = []string{
	"id", "created_at", "room_id", "sender_id", "receiver_id", "content", "media_url", "is_read",
}

var roomColumns = []string{
	"room_id", "event_id", "user_a_id", "user_b_id", "created_at", "updated_at", "last_message_at",
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}
