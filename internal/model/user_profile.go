package model

// UserProfile is the one-to-one companion row of a user in the
// `user_profiles` table, replaced wholesale on every save.  ImagePath
// holds an Asset Store relative path (profiles/ subtree), resolved to a
// URL by the serving layer; an empty path simply means no avatar.
type UserProfile struct {
	UserID    int64  // user_profiles.user_id (primary key)
	Nickname  string // user_profiles.nickname
	ImagePath string // user_profiles.image_path
}
