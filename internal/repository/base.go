package repository

import "gorm.io/gorm"

// paginate applies limit/offset when set. gorm emits LIMIT 0 for a zero
// limit, so an unset limit must not reach it.
func paginate(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit > 0 {
			db = db.Limit(limit)
		}
		if offset > 0 {
			db = db.Offset(offset)
		}
		return db
	}
}
