package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table            string
	ID               string
	Username         string
	Email            string
	FullName         string
	AvatarURL        string
	AvatarKey        string
	CoverImageURL    string
	CoverImageKey    string
	Password         string
	RefreshTokenHash string
	WatchHistory     string
	CreatedAt        string
	UpdatedAt        string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:            "users.account",
	ID:               "id",
	Username:         "username",
	Email:            "email",
	FullName:         "fullname",
	AvatarURL:        "avatarurl",
	AvatarKey:        "avatarkey",
	CoverImageURL:    "coverimageurl",
	CoverImageKey:    "coverimagekey",
	Password:         "passwordhash",
	RefreshTokenHash: "refreshtokenhash",
	WatchHistory:     "watchhistory",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

// PublicColumns returns the columns safe to project to clients, in scan order.
func (t UserAccountTable) PublicColumns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FullName, t.AvatarURL, t.AvatarKey,
		t.CoverImageURL, t.CoverImageKey, t.CreatedAt, t.UpdatedAt,
	}
}
