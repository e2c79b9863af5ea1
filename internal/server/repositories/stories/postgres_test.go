package stories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestGet(t *testing.T) {
	q := `^SELECT id, title, content FROM stories WHERE id = \$1$`

	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(q).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}).AddRow(2, "Zwei", "Leuchtturm"))

	s, err := repo.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(&models.Story{ID: 2, Title: "Zwei", Content: "Leuchtturm"}, s))

	mock.ExpectQuery(q).WithArgs(9).WillReturnError(sql.ErrNoRows)
	_, err = repo.Get(context.Background(), 9)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListUpTo(t *testing.T) {
	q := `^SELECT id, title, content FROM stories WHERE id <= \$1 ORDER BY id$`

	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(q).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}).
			AddRow(1, "Eins", "Hafen").
			AddRow(2, "Zwei", "Leuchtturm"))

	got, err := repo.ListUpTo(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]models.Story{
		{ID: 1, Title: "Eins", Content: "Hafen"},
		{ID: 2, Title: "Zwei", Content: "Leuchtturm"},
	}, got))

	mock.ExpectQuery(q).WithArgs(0).WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content"}))
	got, err = repo.ListUpTo(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	mock.ExpectQuery(q).WithArgs(3).WillReturnError(errors.New("db down"))
	_, err = repo.ListUpTo(context.Background(), 3)
	assert.ErrorContains(t, err, "db error")
}

func TestHint(t *testing.T) {
	q := `^SELECT story_id, content FROM hints WHERE story_id = \$1$`

	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(q).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"story_id", "content"}).AddRow(1, "Osten"))

	h, err := repo.Hint(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Osten", h.Content)

	mock.ExpectQuery(q).WithArgs(4).WillReturnError(sql.ErrNoRows)
	_, err = repo.Hint(context.Background(), 4)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
