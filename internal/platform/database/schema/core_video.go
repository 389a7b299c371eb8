package schema

// CoreVideoTable represents the 'core.video' table
type CoreVideoTable struct {
	Table        string
	ID           string
	OwnerID      string
	Title        string
	Description  string
	VideoFileURL string
	VideoFileKey string
	ThumbnailURL string
	ThumbnailKey string
	Duration     string
	Views        string
	IsPublished  string
	CreatedAt    string
	UpdatedAt    string
}

// CoreVideo is the schema definition for core.video
var CoreVideo = CoreVideoTable{
	Table:        "core.video",
	ID:           "id",
	OwnerID:      "ownerid",
	Title:        "title",
	Description:  "description",
	VideoFileURL: "videofileurl",
	VideoFileKey: "videofilekey",
	ThumbnailURL: "thumbnailurl",
	ThumbnailKey: "thumbnailkey",
	Duration:     "duration",
	Views:        "views",
	IsPublished:  "ispublished",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}
