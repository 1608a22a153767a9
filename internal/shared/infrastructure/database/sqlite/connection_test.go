package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/internal/shared/infrastructure/database"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "contacts.db")

	conn, err := database.NewConnection(ctx, database.Config{SQLitePath: path})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, database.DriverSQLite, conn.Driver())
	assert.NoError(t, conn.Ping(ctx))
	assert.FileExists(t, path)
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(ctx, `CREATE TABLE people (email TEXT PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)

	res, err := conn.Exec(ctx, `INSERT INTO people (email, name) VALUES (?, ?), (?, ?)`, "a@x.com", "Alice", "b@x.com", "Bob")
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	var name string
	require.NoError(t, conn.QueryRow(ctx, `SELECT name FROM people WHERE email = ?`, "b@x.com").Scan(&name))
	assert.Equal(t, "Bob", name)

	err = conn.QueryRow(ctx, `SELECT name FROM people WHERE email = ?`, "z@x.com").Scan(&name)
	assert.True(t, database.IsNoRows(err))

	rows, err := conn.Query(ctx, `SELECT email FROM people ORDER BY email`)
	require.NoError(t, err)
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		require.NoError(t, rows.Scan(&e))
		emails = append(emails, e)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, emails)
}
