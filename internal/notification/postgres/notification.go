package postgres

import (
	"github.com/constituency-office/citizen-portal/internal/auth"
	notificationdm "github.com/constituency-office/citizen-portal/internal/core/datamodel/notification"
	"github.com/constituency-office/citizen-portal/internal/notification"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateBatch(notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	rows := make([]notificationdm.SystemNotification, len(notifications))
	for i, n := range notifications {
		rows[i] = notificationdm.SystemNotification{
			UserID:    n.UserID,
			Title:     n.Title,
			Message:   n.Message,
			RequestID: n.RequestID,
		}
	}
	return r.db.Create(&rows).Error
}

func (r *NotificationRepository) ListByUser(userID int64, limit, offset int) ([]*notification.Notification, error) {
	var rows []*notificationdm.SystemNotification
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(rows), nil
}

func (r *NotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&notificationdm.SystemNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(userID, notificationID int64) error {
	res := r.db.Model(&notificationdm.SystemNotification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(userID int64) error {
	return r.db.Model(&notificationdm.SystemNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// GetStaffTierUserIDs resolves the fanout audience: every active identity
// holding a staff or candidate role.
func (r *NotificationRepository) GetStaffTierUserIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Table("user_roles").
		Select("user_roles.user_id").
		Joins("JOIN users ON users.id = user_roles.user_id").
		Where("user_roles.role IN ? AND users.is_active = ?", []string{
			string(auth.RoleStaff), string(auth.RoleCandidate),
		}, true).
		Scan(&ids).Error
	return ids, err
}
