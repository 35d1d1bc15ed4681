package models

type Comment struct {
	ID        int64   `json:"id"`
	Content   string  `json:"content"`
	Author    UserRef `json:"author"`
	VoteCount int64   `json:"vote_count"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type CreateCommentRequest struct {
	PostID  int64  `json:"post_id"`
	Content string `json:"content"`
}
