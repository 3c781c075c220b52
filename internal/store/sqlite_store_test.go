package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/altibbe/transparency/internal/models"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKVRoundTrip(t *testing.T) {
	s := openTestStore(t)

	v, err := s.Get("authToken")
	require.NoError(t, err)
	require.Equal(t, "", v)

	require.NoError(t, s.Set("authToken", "tok-1"))
	require.NoError(t, s.Set("authToken", "tok-2"))

	v, err = s.Get("authToken")
	require.NoError(t, err)
	require.Equal(t, "tok-2", v)

	require.NoError(t, s.Delete("authToken", "user"))
	v, err = s.Get("authToken")
	require.NoError(t, err)
	require.Equal(t, "", v)
}

func TestReportCacheUpsertAndOrder(t *testing.T) {
	s := openTestStore(t)

	older := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 8, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpsertReports([]*models.ReportSummary{
		{ID: "r1", TransparencyScore: 70, Status: "completed", CreatedAt: older,
			Product: &models.ProductInfo{Name: "Face Cream", Brand: "EcoBeauty"}},
		{ID: "r2", TransparencyScore: 55, Status: "pending", CreatedAt: newer},
		nil,
		{ID: ""}, // skipped
	}))

	// Upsert replaces in place.
	require.NoError(t, s.UpsertReports([]*models.ReportSummary{
		{ID: "r1", TransparencyScore: 75, Status: "completed", CreatedAt: older,
			Product: &models.ProductInfo{Name: "Face Cream", Brand: "EcoBeauty"}},
	}))

	got, err := s.CachedReports()
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "r2", got[0].ID)
	require.Equal(t, "r1", got[1].ID)
	require.Equal(t, 75, got[1].TransparencyScore)
	require.NotNil(t, got[1].Product)
	require.Equal(t, "EcoBeauty", got[1].Product.Brand)
	require.Nil(t, got[0].Product)
}
