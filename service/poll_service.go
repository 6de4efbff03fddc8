package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"meeting-collab-backend/auth"
	"meeting-collab-backend/kvstore"
	"meeting-collab-backend/models"
)

var (
	// 业务错误定义
	ErrPollNotFound    = errors.New("poll not found")
	ErrInvalidOption   = errors.New("option index out of range")
	ErrInvalidQuestion = errors.New("question must not be empty")
	ErrInvalidOptions  = errors.New("poll must have at least two non-empty options")
)

// 存储键命名空间
const (
	pollKeyPrefix = "poll:"
	voteKeyPrefix = "vote:"
)

// PollService 投票服务接口
type PollService interface {
	// CreatePoll 创建投票，返回带空计票的视图
	CreatePoll(ctx context.Context, input *models.CreatePollInput, identity *auth.Identity) (*models.PollView, error)

	// ListPolls 列出所有投票及其计票结果，最新的在前
	ListPolls(ctx context.Context) ([]models.PollView, error)

	// SubmitVote 提交投票，同一用户重复投票覆盖旧记录
	SubmitVote(ctx context.Context, pollID string, optionIndex int, identity *auth.Identity) (*models.Vote, error)
}

// PollServiceImpl 投票服务实现
type PollServiceImpl struct {
	store kvstore.Store
}

// NewPollService 创建投票服务
func NewPollService(store kvstore.Store) PollService {
	return &PollServiceImpl{store: store}
}

// CreatePoll 创建投票活动
func (s *PollServiceImpl) CreatePoll(ctx context.Context, input *models.CreatePollInput, identity *auth.Identity) (*models.PollView, error) {
	// 服务端校验，不依赖客户端检查
	if strings.TrimSpace(input.Question) == "" {
		return nil, ErrInvalidQuestion
	}
	if len(input.Options) < 2 {
		return nil, ErrInvalidOptions
	}
	for _, option := range input.Options {
		if strings.TrimSpace(option) == "" {
			return nil, ErrInvalidOptions
		}
	}

	poll := models.Poll{
		ID:          uuid.NewString(),
		Question:    input.Question,
		Options:     input.Options,
		CreatorID:   identity.ID,
		CreatorName: identity.DisplayName(),
		IsActive:    true, // 创建即生效，没有关闭流程
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(poll)
	if err != nil {
		return nil, fmt.Errorf("序列化投票失败: %v", err)
	}
	if err := s.store.Set(ctx, pollKeyPrefix+poll.ID, string(data)); err != nil {
		return nil, err
	}

	log.Printf("投票创建成功: ID=%s, Question=%s", poll.ID, poll.Question)

	view := models.PollView{
		Poll:  poll,
		Votes: make(map[int]int64),
	}
	return &view, nil
}

// ListPolls 扫描poll:和vote:两个命名空间并聚合。
// 复杂度为O(P+V)，此存储没有规模目标，维持源系统的契约不做分页。
func (s *PollServiceImpl) ListPolls(ctx context.Context) ([]models.PollView, error) {
	pollValues, err := s.store.GetByPrefix(ctx, pollKeyPrefix)
	if err != nil {
		return nil, err
	}
	voteValues, err := s.store.GetByPrefix(ctx, voteKeyPrefix)
	if err != nil {
		return nil, err
	}

	polls := make([]models.Poll, 0, len(pollValues))
	for _, raw := range pollValues {
		var poll models.Poll
		if err := json.Unmarshal([]byte(raw), &poll); err != nil {
			log.Printf("跳过无法解析的投票记录: %v", err)
			continue
		}
		polls = append(polls, poll)
	}

	votes := make([]models.Vote, 0, len(voteValues))
	for _, raw := range voteValues {
		var vote models.Vote
		if err := json.Unmarshal([]byte(raw), &vote); err != nil {
			log.Printf("跳过无法解析的投票记录: %v", err)
			continue
		}
		votes = append(votes, vote)
	}

	return BuildPollViews(polls, votes), nil
}

// SubmitVote 写入投票记录。键为vote:{pollID}:{userID}，同一用户对同一
// 投票的记录天然唯一，重复提交为最后写入生效，不做读后写检查。
func (s *PollServiceImpl) SubmitVote(ctx context.Context, pollID string, optionIndex int, identity *auth.Identity) (*models.Vote, error) {
	// 检查投票是否存在
	raw, err := s.store.Get(ctx, pollKeyPrefix+pollID)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, ErrPollNotFound
	}
	if err != nil {
		return nil, err
	}

	var poll models.Poll
	if err := json.Unmarshal([]byte(raw), &poll); err != nil {
		return nil, fmt.Errorf("解析投票记录失败: %v", err)
	}

	// 检查选项下标是否有效
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return nil, ErrInvalidOption
	}

	vote := models.Vote{
		ID:          uuid.NewString(),
		PollID:      pollID,
		UserID:      identity.ID,
		OptionIndex: optionIndex,
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(vote)
	if err != nil {
		return nil, fmt.Errorf("序列化投票记录失败: %v", err)
	}

	key := fmt.Sprintf("%s%s:%s", voteKeyPrefix, pollID, identity.ID)
	if err := s.store.Set(ctx, key, string(data)); err != nil {
		return nil, err
	}

	return &vote, nil
}
