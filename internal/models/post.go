package models

// TopicRef identifies the topic a post belongs to.
type TopicRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Post struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Excerpt   string   `json:"excerpt,omitempty"`
	Author    UserRef  `json:"author"`
	Topic     TopicRef `json:"topic"`
	VoteCount int64    `json:"vote_count"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// PostDetail is a post together with its comment thread, as returned
// by GET /posts/{id}.
type PostDetail struct {
	Post
	Comments []Comment `json:"comments"`
}

// Feed is one page of a paginated post listing.
type Feed struct {
	Posts      []Post `json:"posts"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	TopicID int64  `json:"topic_id"`
}
