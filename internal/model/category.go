package model

import "time"

// Category groups tasks by area (work, study, life, etc.). Tasks reference a
// category by id only; deleting a category leaves referencing tasks with a
// dangling categoryId, which callers render as "uncategorized".
type Category struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"` // hex, e.g. #3B82F6
	Icon      string `json:"icon"`
	CreatedAt int64  `gorm:"autoCreateTime:false" json:"createdAt"`
}

// DefaultCategories returns the seed set used when the store is empty.
func DefaultCategories(now time.Time) []Category {
	ms := now.UnixMilli()
	return []Category{
		{ID: "cat-1", Name: "Work", Color: "#3B82F6", Icon: "💼", CreatedAt: ms},
		{ID: "cat-2", Name: "Study", Color: "#10B981", Icon: "📚", CreatedAt: ms},
		{ID: "cat-3", Name: "Life", Color: "#F59E0B", Icon: "🏠", CreatedAt: ms},
		{ID: "cat-4", Name: "Exercise", Color: "#EF4444", Icon: "🏃", CreatedAt: ms},
	}
}
