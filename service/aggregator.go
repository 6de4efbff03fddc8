package service

import (
	"sort"

	"meeting-collab-backend/models"
)

// BuildPollView 将一个投票和全量投票记录合并为视图。输入的投票记录
// 可以包含其他投票的记录，这里按poll_id过滤。纯函数，可重复执行。
func BuildPollView(poll models.Poll, votes []models.Vote) models.PollView {
	view := models.PollView{
		Poll:  poll,
		Votes: make(map[int]int64),
	}

	for _, vote := range votes {
		if vote.PollID != poll.ID {
			continue
		}
		// 历史记录中越界的选项下标直接忽略，不计入总数
		if vote.OptionIndex < 0 || vote.OptionIndex >= len(poll.Options) {
			continue
		}
		view.Votes[vote.OptionIndex]++
		view.TotalVotes++
	}

	return view
}

// BuildPollViews 聚合多个投票，结果按创建时间倒序排列（最新的在前）
func BuildPollViews(polls []models.Poll, votes []models.Vote) []models.PollView {
	views := make([]models.PollView, 0, len(polls))
	for _, poll := range polls {
		views = append(views, BuildPollView(poll, votes))
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	return views
}
