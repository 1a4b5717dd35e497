package database

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"quote-frontend/app/src/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db, nil), mock
}

// TestPostgresRepositoryAdd проверяет вставку цитаты.
func TestPostgresRepositoryAdd(t *testing.T) {
	repo, mock := newMockRepository(t)

	t.Log("Шаг 1: ожидаем INSERT с обрезанной цитатой")
	mock.ExpectExec(regexp.QuoteMeta(insertQuoteSQL)).
		WithArgs("stay hungry").
		WillReturnResult(sqlmock.NewResult(1, 1))

	t.Log("Шаг 2: добавляем цитату")
	require.NoError(t, repo.Add(context.Background(), "  stay hungry  "))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryAddDuplicateIsNoop(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(regexp.QuoteMeta(insertQuoteSQL)).
		WithArgs("dup").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Add(context.Background(), "dup"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryAddRejectsBlank(t *testing.T) {
	repo, mock := newMockRepository(t)

	err := repo.Add(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyQuote)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryAddWrapsError(t *testing.T) {
	repo, mock := newMockRepository(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta(insertQuoteSQL)).WillReturnError(boom)

	err := repo.Add(context.Background(), "q")
	assert.ErrorIs(t, err, boom)
}

// TestPostgresRepositoryAll проверяет порядок выборки.
func TestPostgresRepositoryAll(t *testing.T) {
	repo, mock := newMockRepository(t)
	rows := sqlmock.NewRows([]string{"quote"}).AddRow("first").AddRow("second")
	mock.ExpectQuery(regexp.QuoteMeta(selectQuotesSQL)).WillReturnRows(rows)

	quotes, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, quotes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryAllEmptyIsNotNil(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectQuotesSQL)).WillReturnRows(sqlmock.NewRows([]string{"quote"}))

	quotes, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, quotes)
	assert.Empty(t, quotes)
}

func TestPostgresRepositoryAllRowError(t *testing.T) {
	repo, mock := newMockRepository(t)
	rows := sqlmock.NewRows([]string{"quote"}).AddRow("a").RowError(0, errors.New("bad row"))
	mock.ExpectQuery(regexp.QuoteMeta(selectQuotesSQL)).WillReturnRows(rows)

	_, err := repo.All(context.Background())
	assert.Error(t, err)
}

func TestPostgresRepositoryRandom(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(randomQuoteSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"quote"}).AddRow("lucky"))

	quote, err := repo.Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lucky", quote)
}

func TestPostgresRepositoryRandomEmpty(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(randomQuoteSQL)).WillReturnError(sql.ErrNoRows)

	_, err := repo.Random(context.Background())
	assert.ErrorIs(t, err, domain.ErrQuoteNotFound)
}

func TestPostgresRepositoryPing(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectPing()
	assert.NoError(t, repo.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, repo.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
