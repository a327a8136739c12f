package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestRefreshTokenPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewRefreshTokenPostgres(db)
	ctx := context.Background()

	expires := time.Now().Add(24 * time.Hour)
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs("tok-1", "user-1", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(ctx, "user-1", "tok-1", expires)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenPostgres_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewRefreshTokenPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		expires := time.Now().Add(time.Hour)
		rows := sqlmock.NewRows([]string{"token", "user_id", "expires_at"}).
			AddRow("tok-1", "user-1", expires)

		mock.ExpectQuery("SELECT (.+) FROM refresh_tokens WHERE token = ?").
			WithArgs("tok-1").
			WillReturnRows(rows)

		rt, err := repo.Find(ctx, "tok-1")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", rt.UserID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM refresh_tokens WHERE token = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		rt, err := repo.Find(ctx, "missing")

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, rt)
	})
}

func TestRefreshTokenPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewRefreshTokenPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM refresh_tokens WHERE token = ?").
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "tok-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
