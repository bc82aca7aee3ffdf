package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/jira_dashboard/models"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	data  *models.DashboardData
	err   error
}

func (f *fakeFetcher) FetchDashboard(ctx context.Context) (*models.DashboardData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.data, f.err
}

func dataSyncedAt(ts string) *models.DashboardData {
	return &models.DashboardData{LastSynced: ts}
}

func TestDashboardState_StaleResultIsDiscarded(t *testing.T) {
	s := NewDashboardState(&fakeFetcher{})

	first := s.Begin()
	second := s.Begin()

	assert.True(t, s.Apply(second, dataSyncedAt("second"), nil))
	assert.False(t, s.Apply(first, dataSyncedAt("first"), nil))

	data, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "second", data.LastSynced)
}

func TestDashboardState_StaleErrorIsDiscarded(t *testing.T) {
	s := NewDashboardState(&fakeFetcher{})

	first := s.Begin()
	second := s.Begin()
	s.Apply(second, dataSyncedAt("second"), nil)
	s.Apply(first, nil, errors.New("boom"))

	_, err := s.Snapshot()
	assert.NoError(t, err)
	assert.Empty(t, s.Status().LastError)
}

func TestDashboardState_FailureKeepsPreviousData(t *testing.T) {
	fetcher := &fakeFetcher{data: dataSyncedAt("2024-06-15T12:00:00Z")}
	s := NewDashboardState(fetcher)

	_, err := s.Sync(context.Background())
	require.NoError(t, err)

	fetcher.data, fetcher.err = nil, errors.New("jira search status=502")
	_, err = s.Sync(context.Background())
	require.Error(t, err)

	data, lastErr := s.Snapshot()
	require.NotNil(t, data)
	assert.Equal(t, "2024-06-15T12:00:00Z", data.LastSynced)
	assert.EqualError(t, lastErr, "jira search status=502")

	status := s.Status()
	assert.True(t, status.HasData)
	assert.Equal(t, uint64(2), status.Generation)
	assert.NotNil(t, status.LastErrorAt)

	// 再次成功后清除错误
	fetcher.data, fetcher.err = dataSyncedAt("later"), nil
	_, err = s.Sync(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.Status().LastError)
	assert.Nil(t, s.Status().LastErrorAt)
}

func TestDashboardState_DataIsReplacedWholesale(t *testing.T) {
	fetcher := &fakeFetcher{data: &models.DashboardData{Orders: []models.Order{{ID: "1"}, {ID: "2"}}}}
	s := NewDashboardState(fetcher)
	_, _ = s.Sync(context.Background())

	fetcher.data = &models.DashboardData{Orders: []models.Order{{ID: "3"}}}
	_, _ = s.Sync(context.Background())

	data, _ := s.Snapshot()
	require.Len(t, data.Orders, 1)
	assert.Equal(t, "3", data.Orders[0].ID)
}

func TestDashboardState_CurrentSyncsOnlyWhenEmpty(t *testing.T) {
	fetcher := &fakeFetcher{data: dataSyncedAt("x")}
	s := NewDashboardState(fetcher)

	_, err := s.Current(context.Background())
	require.NoError(t, err)
	_, err = s.Current(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.calls)
}
