package handler

import (
	"time"

	"cogniboard/internal/model"
)

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MemberResponse is a project membership with the user profile joined in.
type MemberResponse struct {
	UserID    string       `json:"user_id"`
	Role      string       `json:"role"`
	CreatedAt string       `json:"created_at"`
	User      UserResponse `json:"user"`
}

type ProjectResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	Members     []MemberResponse `json:"project_memberships"`
}

// CommentResponse carries no updated_at: comments keep their original
// timestamp even after edits.
type CommentResponse struct {
	ID        string        `json:"id"`
	TaskID    string        `json:"task_id"`
	AuthorID  *string       `json:"author_id"`
	Body      string        `json:"body"`
	CreatedAt string        `json:"created_at"`
	Author    *UserResponse `json:"author"`
}

type TaskResponse struct {
	ID          string            `json:"id"`
	ProjectID   string            `json:"project_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	AssigneeID  *string           `json:"assignee_id"`
	DueDate     *string           `json:"due_date"`
	Overdue     bool              `json:"overdue"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
	Assignee    *UserResponse     `json:"assignee"`
	Comments    []CommentResponse `json:"comments"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

func toMemberResponse(m *model.ProjectMember) MemberResponse {
	return MemberResponse{
		UserID:    m.UserID.String(),
		Role:      m.Role,
		CreatedAt: formatTime(m.CreatedAt),
		User:      toUserResponse(&m.User),
	}
}

func toProjectResponse(p *model.Project) ProjectResponse {
	members := make([]MemberResponse, 0, len(p.Members))
	for i := range p.Members {
		members = append(members, toMemberResponse(&p.Members[i]))
	}

	return ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
		Members:     members,
	}
}

func toCommentResponse(cm *model.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        cm.ID.String(),
		TaskID:    cm.TaskID.String(),
		Body:      cm.Body,
		CreatedAt: formatTime(cm.CreatedAt),
	}

	if cm.AuthorID != nil {
		id := cm.AuthorID.String()
		resp.AuthorID = &id
	}
	if cm.Author != nil {
		author := toUserResponse(cm.Author)
		resp.Author = &author
	}

	return resp
}

func toTaskResponse(t *model.Task) TaskResponse {
	comments := make([]CommentResponse, 0, len(t.Comments))
	for i := range t.Comments {
		comments = append(comments, toCommentResponse(&t.Comments[i]))
	}

	resp := TaskResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     formatTimePtr(t.DueDate),
		Overdue:     t.Overdue(),
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
		Comments:    comments,
	}

	if t.AssigneeID != nil {
		id := t.AssigneeID.String()
		resp.AssigneeID = &id
	}
	if t.Assignee != nil {
		assignee := toUserResponse(t.Assignee)
		resp.Assignee = &assignee
	}

	return resp
}
