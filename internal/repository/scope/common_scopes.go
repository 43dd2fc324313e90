package scope

import "gorm.io/gorm"

// Listing order for the user-facing collections. Notebook lists surface the
// newest first; notes, threads and drawings read back in creation order.

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

func OrderByCreatedAsc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}
