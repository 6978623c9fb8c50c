package migrations

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"m/000002_reviews.up.sql":   {Data: []byte("CREATE TABLE reviews (id INT);")},
		"m/000002_reviews.down.sql": {Data: []byte("DROP TABLE reviews;")},
		"m/000001_initial.up.sql":   {Data: []byte("CREATE TABLE users (id INT);")},
		"m/000001_initial.down.sql": {Data: []byte("DROP TABLE users;")},
		"m/README.md":               {Data: []byte("ignored")},
	}
}

func TestLoad_SortsByVersion(t *testing.T) {
	ms, err := Load(testFS(), "m")
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, 1, ms[0].Version)
	assert.Equal(t, "initial", ms[0].Name)
	assert.Equal(t, "000002_reviews", ms[1].String())
	assert.Equal(t, "DROP TABLE reviews;", ms[1].DownScript)
}

func TestLoad_MissingDown(t *testing.T) {
	fsys := fstest.MapFS{"m/000001_initial.up.sql": {Data: []byte("SELECT 1;")}}
	_, err := Load(fsys, "m")
	assert.Error(t, err)
}

func TestLoad_BadName(t *testing.T) {
	fsys := fstest.MapFS{
		"m/initial.up.sql":   {Data: []byte("SELECT 1;")},
		"m/initial.down.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := Load(fsys, "m")
	assert.Error(t, err)
}

func TestEmbedded_ContainsInitialSchema(t *testing.T) {
	ms, err := Embedded()
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Equal(t, 1, ms[0].Version)
	for _, fragment := range []string{
		"CREATE UNIQUE INDEX ux_users_email ON users (lower(email))",
		"ck_review_rating_range CHECK (rating >= 1 AND rating <= 5)",
		"uq_review_book_user UNIQUE (book_id, user_id)",
		"REFERENCES books (id) ON DELETE SET NULL",
		"ix_messages_recipient_unread ON messages (recipient_id, read_at)",
	} {
		assert.Contains(t, ms[0].UpScript, fragment)
	}
}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestRunner_Up_AppliesPending(t *testing.T) {
	db, mock := newMock(t)
	ms, err := Load(testFS(), "m")
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, name, applied_at FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version", "name", "applied_at"}).AddRow(1, "initial", time.Now()))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE reviews").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(2, "reviews").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewRunner(db, ms).Up(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_Up_RejectsUnknownVersion(t *testing.T) {
	db, mock := newMock(t)
	ms, err := Load(testFS(), "m")
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, name, applied_at FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version", "name", "applied_at"}).AddRow(9, "future", time.Now()))

	err = NewRunner(db, ms).Up(context.Background())
	assert.ErrorContains(t, err, "000009")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_Up_RollsBackOnFailure(t *testing.T) {
	db, mock := newMock(t)
	ms, err := Load(testFS(), "m")
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, name, applied_at FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version", "name", "applied_at"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE users").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = NewRunner(db, ms).Up(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_Down_OnlyLatest(t *testing.T) {
	db, mock := newMock(t)
	ms, err := Load(testFS(), "m")
	require.NoError(t, err)

	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"version", "name", "applied_at"}).
			AddRow(1, "initial", time.Now()).
			AddRow(2, "reviews", time.Now())
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, name, applied_at FROM schema_migrations").WillReturnRows(rows())

	err = NewRunner(db, ms).Down(context.Background(), 1)
	assert.Error(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, name, applied_at FROM schema_migrations").WillReturnRows(rows())
	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE reviews").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM schema_migrations").WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewRunner(db, ms).Down(context.Background(), 2)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunner_Status(t *testing.T) {
	db, mock := newMock(t)
	ms, err := Load(testFS(), "m")
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version, name, applied_at FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version", "name", "applied_at"}).AddRow(1, "initial", time.Now()))

	st, err := NewRunner(db, ms).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Current)
	require.Len(t, st.Pending, 1)
	assert.Equal(t, 2, st.Pending[0].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
