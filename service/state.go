package service

import (
	"context"
	"sync"
	"time"

	"github.com/BerniceZTT/jira_dashboard/models"
	"github.com/BerniceZTT/jira_dashboard/utils"
)

// DashboardFetcher 看板数据来源
type DashboardFetcher interface {
	FetchDashboard(ctx context.Context) (*models.DashboardData, error)
}

// SyncStatus 最近一次同步的状态
type SyncStatus struct {
	HasData     bool       `json:"hasData"`
	LastSynced  string     `json:"lastSynced,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	LastErrorAt *time.Time `json:"lastErrorAt,omitempty"`
	Generation  uint64     `json:"generation"`
}

// DashboardState 持有当前看板数据，每次成功同步整体替换。
// 每次同步领取递增的序号，只有最新序号的结果会被采用，较早发出的请求即使后返回也会被丢弃。
// 同步失败时保留之前的数据并记录错误。
type DashboardState struct {
	fetcher DashboardFetcher

	mu      sync.RWMutex
	issued  uint64
	data    *models.DashboardData
	lastErr error
	errAt   time.Time
}

// NewDashboardState 创建看板状态
func NewDashboardState(fetcher DashboardFetcher) *DashboardState {
	return &DashboardState{fetcher: fetcher}
}

// Begin 领取新的请求序号
func (s *DashboardState) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Apply 提交请求结果；序号不是最新时丢弃并返回false
func (s *DashboardState) Apply(token uint64, data *models.DashboardData, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.issued {
		utils.Logger.Warn().
			Uint64("token", token).
			Uint64("latest", s.issued).
			Msg("丢弃过期的同步结果")
		return false
	}

	if err != nil {
		s.lastErr = err
		s.errAt = time.Now()
		return true
	}
	s.data = data
	s.lastErr = nil
	s.errAt = time.Time{}
	return true
}

// Sync 拉取一次数据并按序号提交，返回本次拉取的结果
func (s *DashboardState) Sync(ctx context.Context) (*models.DashboardData, error) {
	token := s.Begin()
	data, err := s.fetcher.FetchDashboard(ctx)
	s.Apply(token, data, err)
	return data, err
}

// Snapshot 当前数据与最近的错误
func (s *DashboardState) Snapshot() (*models.DashboardData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.lastErr
}

// Current 返回当前数据，尚无数据时先同步一次
func (s *DashboardState) Current(ctx context.Context) (*models.DashboardData, error) {
	if data, _ := s.Snapshot(); data != nil {
		return data, nil
	}
	return s.Sync(ctx)
}

// Status 同步状态
func (s *DashboardState) Status() SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := SyncStatus{HasData: s.data != nil, Generation: s.issued}
	if s.data != nil {
		status.LastSynced = s.data.LastSynced
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
		errAt := s.errAt
		status.LastErrorAt = &errAt
	}
	return status
}
