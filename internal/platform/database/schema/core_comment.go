package schema

// CoreCommentTable represents the 'core.comment' table
type CoreCommentTable struct {
	Table     string
	ID        string
	VideoID   string
	OwnerID   string
	Content   string
	CreatedAt string
	UpdatedAt string
}

// CoreComment is the schema definition for core.comment
var CoreComment = CoreCommentTable{
	Table:     "core.comment",
	ID:        "id",
	VideoID:   "videoid",
	OwnerID:   "ownerid",
	Content:   "content",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
