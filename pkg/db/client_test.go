package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type auditRow struct {
	ID     int
	Detail string
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&auditRow{}))
	return &Client{conn: conn}
}

func countRows(t *testing.T, client *Client) int64 {
	t.Helper()
	var count int64
	require.NoError(t, client.DB().Model(&auditRow{}).Count(&count).Error)
	return count
}

func TestWithTxCommits(t *testing.T) {
	client := newTestClient(t)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&auditRow{Detail: "quote stored"}).Error
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, countRows(t, client))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newTestClient(t)
	boom := errors.New("scoring failed")

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		require.NoError(t, tx.Create(&auditRow{Detail: "doomed"}).Error)
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.EqualValues(t, 0, countRows(t, client))
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	client := newTestClient(t)

	require.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			_ = tx.Create(&auditRow{Detail: "doomed"}).Error
			panic("handler blew up")
		})
	})
	require.EqualValues(t, 0, countRows(t, client))
}

func TestPing(t *testing.T) {
	client := newTestClient(t)
	require.NoError(t, client.Ping(context.Background()))
}
