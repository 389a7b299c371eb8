package schema

// CoreTweetTable represents the 'core.tweet' table
type CoreTweetTable struct {
	Table     string
	ID        string
	OwnerID   string
	Content   string
	CreatedAt string
	UpdatedAt string
}

// CoreTweet is the schema definition for core.tweet
var CoreTweet = CoreTweetTable{
	Table:     "core.tweet",
	ID:        "id",
	OwnerID:   "ownerid",
	Content:   "content",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
