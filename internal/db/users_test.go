package db

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRows = []string{"id", "username", "email", "password_hash", "created_at"}

func TestCreateUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("username", "email@gmail.com", "hashed").
		WillReturnRows(pgxmock.NewRows(userRows).
			AddRow(int64(1), "username", "email@gmail.com", "hashed", now))

	store := NewPostgres(mock)
	user, err := store.CreateUser(context.Background(), "username", "email@gmail.com", "hashed")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "username", user.Username)
	assert.Equal(t, "email@gmail.com", user.Email)
	assert.Equal(t, "hashed", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserUniqueViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("username", "email@gmail.com", "hashed").
		WillReturnError(pgErr)

	store := NewPostgres(mock)
	_, err = store.CreateUser(context.Background(), "username", "email@gmail.com", "hashed")
	require.Error(t, err)

	constraint, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "users_email_key", constraint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByUsernameNoRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	store := NewPostgres(mock)
	_, err = store.GetUserByUsername(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, IsNoRows(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(userRows).
			AddRow(int64(7), "username", "email@gmail.com", "hashed", now))

	store := NewPostgres(mock)
	user, err := store.GetUserByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsers(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM users ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(userRows).
			AddRow(int64(1), "username1", "one@gmail.com", "h1", now).
			AddRow(int64(2), "username2", "two@gmail.com", "h2", now))

	store := NewPostgres(mock)
	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "username1", users[0].Username)
	assert.Equal(t, "username2", users[1].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUniqueViolationOtherError(t *testing.T) {
	_, ok := UniqueViolation(pgx.ErrNoRows)
	assert.False(t, ok)

	_, ok = UniqueViolation(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)
}
