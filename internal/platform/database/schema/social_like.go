package schema

// SocialLikeTable represents the 'social.like' table
type SocialLikeTable struct {
	Table      string
	LikedBy    string
	TargetKind string
	TargetID   string
	CreatedAt  string
}

// SocialLike is the schema definition for social.like
var SocialLike = SocialLikeTable{
	Table:      "social.like",
	LikedBy:    "likedby",
	TargetKind: "targetkind",
	TargetID:   "targetid",
	CreatedAt:  "createdat",
}

// Values of social.like.targetkind
const (
	LikeTargetVideo   = "video"
	LikeTargetComment = "comment"
	LikeTargetTweet   = "tweet"
)
