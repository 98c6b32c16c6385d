package domain

// Tag labels recipes for filtering. Tags are scoped per user: two users may
// each own a tag with the same name as distinct rows.
type Tag struct {
	ID     int64
	UserID int64
	Name   string
}

func (t Tag) String() string {
	return t.Name
}
