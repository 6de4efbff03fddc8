package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"meeting-collab-backend/models"
)

var (
	// ErrAlreadyVoted 本地已记录过该投票的选择
	ErrAlreadyVoted = errors.New("already voted on this poll")

	// ErrInvalidPoll 问题或选项不完整
	ErrInvalidPoll = errors.New("poll needs a question and at least two options")
)

// Config 控制widget的行为
type Config struct {
	// BaseURL 服务端地址，例如 http://localhost:8090
	BaseURL string

	// Token Bearer令牌。guest开头的令牌是演示身份，投票只在本地生效，
	// 不会发送到服务端。
	Token string

	// RefreshInterval 列表刷新周期，零值时使用10秒
	RefreshInterval time.Duration

	// RollbackOnFailure 请求失败时回滚乐观更新。默认false，
	// 保持源系统演示优先的行为：失败时保留本地状态。
	RollbackOnFailure bool

	// HTTPClient 为空时使用默认客户端
	HTTPClient *http.Client
}

// PollWidget 投票组件的客户端状态：服务端视图的本地副本、乐观更新
// 和每个投票的本地选择记录。所有方法并发安全。
type PollWidget struct {
	cfg  Config
	http *http.Client

	mu        sync.Mutex
	polls     []models.PollView
	userVotes map[string]int // pollID -> optionIndex
}

// NewPollWidget 创建投票组件
func NewPollWidget(cfg Config) *PollWidget {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 10 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &PollWidget{
		cfg:       cfg,
		http:      httpClient,
		userVotes: make(map[string]int),
	}
}

// isGuest 演示身份不发起服务端请求
func (w *PollWidget) isGuest() bool {
	return w.cfg.Token == "" || strings.HasPrefix(w.cfg.Token, "guest")
}

// Polls 返回当前列表的副本
func (w *PollWidget) Polls() []models.PollView {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]models.PollView, len(w.polls))
	copy(out, w.polls)
	return out
}

// UserVote 返回本地记录的选择，未投票时第二个返回值为false
func (w *PollWidget) UserVote(pollID string) (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx, ok := w.userVotes[pollID]
	return idx, ok
}

// Refresh 从服务端拉取完整列表并替换本地副本
func (w *PollWidget) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.cfg.BaseURL+"/api/polls", nil)
	if err != nil {
		return err
	}

	resp, err := w.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("服务端返回异常状态: %d", resp.StatusCode)
	}

	var body struct {
		Polls []models.PollView `json:"polls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}

	w.mu.Lock()
	w.polls = body.Polls
	w.mu.Unlock()
	return nil
}

// Start 启动定时刷新循环，随ctx取消而停止。
// 选择轮询而不是推送：服务端没有推送通道，见DESIGN.md。
func (w *PollWidget) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.cfg.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := w.Refresh(ctx); err != nil && ctx.Err() == nil {
					log.Printf("刷新投票列表失败: %v", err)
				}
			}
		}
	}()
}

// Vote 提交投票。先做乐观更新并记录本地选择，再发起网络请求。
// 本地已投过的投票直接拒绝，这是guest身份下唯一的防重复手段。
func (w *PollWidget) Vote(ctx context.Context, pollID string, optionIndex int) error {
	w.mu.Lock()
	if _, voted := w.userVotes[pollID]; voted {
		w.mu.Unlock()
		return ErrAlreadyVoted
	}

	// 乐观更新本地计票
	w.applyVoteLocked(pollID, optionIndex, 1)
	w.userVotes[pollID] = optionIndex
	w.mu.Unlock()

	if w.isGuest() {
		return nil
	}

	body, _ := json.Marshal(map[string]int{"option_index": optionIndex})
	err := w.post(ctx, fmt.Sprintf("/api/polls/%s/vote", pollID), body, nil)
	if err != nil {
		log.Printf("记录投票失败: %v", err)
		if w.cfg.RollbackOnFailure {
			w.mu.Lock()
			w.applyVoteLocked(pollID, optionIndex, -1)
			delete(w.userVotes, pollID)
			w.mu.Unlock()
			return err
		}
		// 默认保留乐观状态，下一次刷新与服务端对齐
		return nil
	}
	return nil
}

// CreatePoll 创建投票。先用临时ID在本地展示，服务端确认后替换为
// 正式记录。返回当前可见的投票ID（确认前为临时ID）。
func (w *PollWidget) CreatePoll(ctx context.Context, question string, options []string) (string, error) {
	trimmed := make([]string, 0, len(options))
	for _, opt := range options {
		if strings.TrimSpace(opt) != "" {
			trimmed = append(trimmed, opt)
		}
	}
	if strings.TrimSpace(question) == "" || len(trimmed) < 2 {
		return "", ErrInvalidPoll
	}

	tempID := "temp-" + uuid.NewString()
	tempView := models.PollView{
		Poll: models.Poll{
			ID:        tempID,
			Question:  question,
			Options:   trimmed,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		},
		Votes: make(map[int]int64),
	}

	w.mu.Lock()
	w.polls = append([]models.PollView{tempView}, w.polls...)
	w.mu.Unlock()

	if w.isGuest() {
		return tempID, nil
	}

	body, _ := json.Marshal(map[string]interface{}{
		"question": question,
		"options":  trimmed,
	})

	var created struct {
		Poll models.PollView `json:"poll"`
	}
	if err := w.post(ctx, "/api/polls", body, &created); err != nil {
		log.Printf("创建投票失败: %v", err)
		if w.cfg.RollbackOnFailure {
			w.removePoll(tempID)
			return "", err
		}
		return tempID, nil
	}

	// 用服务端记录替换临时记录
	w.mu.Lock()
	for i := range w.polls {
		if w.polls[i].ID == tempID {
			w.polls[i] = created.Poll
			break
		}
	}
	w.mu.Unlock()
	return created.Poll.ID, nil
}

// applyVoteLocked 调整本地计票，调用方必须持有锁
func (w *PollWidget) applyVoteLocked(pollID string, optionIndex int, delta int64) {
	for i := range w.polls {
		if w.polls[i].ID != pollID {
			continue
		}
		if w.polls[i].Votes == nil {
			w.polls[i].Votes = make(map[int]int64)
		}
		w.polls[i].Votes[optionIndex] += delta
		w.polls[i].TotalVotes += delta
		return
	}
}

// removePoll 删除本地投票记录
func (w *PollWidget) removePoll(pollID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.polls {
		if w.polls[i].ID == pollID {
			w.polls = append(w.polls[:i], w.polls[i+1:]...)
			return
		}
	}
}

// post 发送认证POST请求，out不为空时解析响应
func (w *PollWidget) post(ctx context.Context, path string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.cfg.Token)

	resp, err := w.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("服务端返回异常状态: %d", resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// OptionPercentage 计算选项的得票百分比，用于进度条渲染
func OptionPercentage(view models.PollView, optionIndex int) float64 {
	if view.TotalVotes == 0 {
		return 0
	}
	return float64(view.Votes[optionIndex]) / float64(view.TotalVotes) * 100
}
