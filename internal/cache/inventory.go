package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix          = "user:%d"
	PublisherReviewsPrefix = "publisher:%d:reviews"
	PendingReportsKey      = "admin:reports:pending_count"
	CategoriesKey          = "jobs:categories"
	FooterSettingsKey      = "settings:footer"
)

const (
	UserTTL             = 5 * time.Minute
	PublisherReviewsTTL = 10 * time.Minute
	PendingReportsTTL   = 15 * time.Second
	CategoriesTTL       = 30 * time.Minute
	FooterSettingsTTL   = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PublisherReviewsKey(publisherID uint) string {
	return fmt.Sprintf(PublisherReviewsPrefix, publisherID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePublisherReviews(ctx context.Context, publisherID uint) {
	Invalidate(ctx, PublisherReviewsKey(publisherID))
}

func InvalidatePendingReports(ctx context.Context) {
	Invalidate(ctx, PendingReportsKey)
}

func InvalidateFooterSettings(ctx context.Context) {
	Invalidate(ctx, FooterSettingsKey)
}
