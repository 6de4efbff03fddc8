package models

import "time"

// Message 聊天消息记录，存储在 message: 命名空间下
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Task 会议任务记录，存储在 task: 命名空间下
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	AssigneeName string    `json:"assignee_name"`
	DueDate      string    `json:"due_date"`
	Priority     string    `json:"priority"`
	Completed    bool      `json:"completed"`
	Source       string    `json:"source"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActionItem 会议行动项记录，存储在 action: 命名空间下
type ActionItem struct {
	ID            string    `json:"id"`
	Task          string    `json:"task"`
	AssigneeName  string    `json:"assignee_name"`
	DueDate       string    `json:"due_date"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	ExtractedFrom string    `json:"extracted_from"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// Meeting 会议房间记录，存储在 meeting: 命名空间下
type Meeting struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Password         string    `json:"password,omitempty"`
	CreatorID        string    `json:"creator_id"`
	CreatorName      string    `json:"creator_name"`
	ParticipantCount int64     `json:"participant_count"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateMessageInput 发送消息请求
type CreateMessageInput struct {
	Content  string `json:"content" binding:"required"`
	UserName string `json:"user_name"`
}

// CreateTaskInput 创建任务请求
type CreateTaskInput struct {
	Title        string `json:"title" binding:"required"`
	AssigneeName string `json:"assignee_name"`
	DueDate      string `json:"due_date"`
	Priority     string `json:"priority"`
	Source       string `json:"source"`
}

// UpdateTaskInput 更新任务完成状态请求
type UpdateTaskInput struct {
	Completed *bool `json:"completed" binding:"required"`
}

// CreateActionItemInput 创建行动项请求
type CreateActionItemInput struct {
	Task          string `json:"task" binding:"required"`
	AssigneeName  string `json:"assignee_name"`
	DueDate       string `json:"due_date"`
	Priority      string `json:"priority"`
	ExtractedFrom string `json:"extracted_from"`
}

// UpdateActionItemInput 更新行动项状态请求
type UpdateActionItemInput struct {
	Status string `json:"status" binding:"required"`
}

// CreateMeetingInput 创建会议请求
type CreateMeetingInput struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password"`
}

// JoinMeetingInput 加入会议请求
type JoinMeetingInput struct {
	Password string `json:"password"`
}

// SignupInput 注册请求
type SignupInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}
