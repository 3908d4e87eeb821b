package api

// CreatePostRequest schedules a new post. Input is either a source URL or a
// keyword string; the service decides which.
type CreatePostRequest struct {
	Input         string `json:"input" validate:"required"`
	ScheduledDate string `json:"scheduled_date" validate:"required"`
}

// GeneratePostRequest selects what to (re)generate
type GeneratePostRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=all text image"`
}

// PublishRequest publishes a single post by id, or every due post when mode
// is "auto"
type PublishRequest struct {
	ID   string `json:"id" validate:"required_without=Mode"`
	Mode string `json:"mode" validate:"omitempty,oneof=auto"`
}

// UpdateArticleRequest patches an existing article; absent fields stay
// untouched
type UpdateArticleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}
