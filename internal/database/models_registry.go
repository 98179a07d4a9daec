package database

import "uniwiz/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters: referenced tables come first.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.StudentProfile{},
		&models.PublisherProfile{},
		&models.JobCategory{},
		&models.Job{},
		&models.JobApplication{},
		&models.Conversation{},
		&models.Message{},
		&models.CompanyReview{},
		&models.Report{},
		&models.SiteSettings{},
	}
}
