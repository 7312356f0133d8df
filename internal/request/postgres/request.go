package postgres

import (
	"errors"
	"time"

	apperrors "github.com/constituency-office/citizen-portal/internal"
	requestdm "github.com/constituency-office/citizen-portal/internal/core/datamodel/request"
	"github.com/constituency-office/citizen-portal/internal/request"
	"gorm.io/gorm"
)

// RequestRepository implements request.RepositoryAPI using GORM.
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(req *request.Request) error {
	row := request.ToDataModel(req)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	req.ID = row.ID
	return nil
}

func (r *RequestRepository) GetByID(id int64) (*request.Request, error) {
	var row requestdm.Request
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, err
	}
	return request.FromDataModel(&row), nil
}

func (r *RequestRepository) GetByIdempotencyKey(key string) (*request.Request, error) {
	var row requestdm.Request
	if err := r.db.Where("idempotency_key = ?", key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, err
	}
	return request.FromDataModel(&row), nil
}

func (r *RequestRepository) GetByReference(reference string) (*request.Request, error) {
	var row requestdm.Request
	if err := r.db.Where("reference_number = ?", reference).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, err
	}
	return request.FromDataModel(&row), nil
}

func (r *RequestRepository) ListByUser(userID int64, q request.ListQueryDTO) ([]*request.Request, error) {
	tx := r.db.Where("user_id = ?", userID)
	tx = applyFilters(tx, q)

	var rows []*requestdm.Request
	if err := tx.Order("created_at DESC").
		Limit(q.Limit).Offset(q.Offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return request.FromDataModelSlice(rows), nil
}

// ListQueue scopes plain staff to their own assignments or area with a
// single predicate; a nil scope sees the whole queue.
func (r *RequestRepository) ListQueue(q request.ListQueryDTO, scope *request.StaffScope) ([]*request.Request, error) {
	tx := r.db.Model(&requestdm.Request{})
	if scope != nil {
		if scope.AreaID != nil {
			tx = tx.Where("assignee_id = ? OR area_id = ?", scope.UserID, *scope.AreaID)
		} else {
			tx = tx.Where("assignee_id = ?", scope.UserID)
		}
	}
	tx = applyFilters(tx, q)

	var rows []*requestdm.Request
	if err := tx.Order("created_at DESC").
		Limit(q.Limit).Offset(q.Offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return request.FromDataModelSlice(rows), nil
}

func applyFilters(tx *gorm.DB, q request.ListQueryDTO) *gorm.DB {
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Priority != "" {
		tx = tx.Where("priority = ?", q.Priority)
	}
	if q.AreaID != nil {
		tx = tx.Where("area_id = ?", *q.AreaID)
	}
	return tx
}

func (r *RequestRepository) UpdateContent(id int64, subject, description string) (*request.Request, error) {
	res := r.db.Model(&requestdm.Request{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"subject":     subject,
			"description": description,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrRequestNotFound
	}
	return r.GetByID(id)
}

// UpdateStatus applies the change only when updated_at still matches the
// caller's precondition; zero rows on an existing id means a lost race.
func (r *RequestRepository) UpdateStatus(id int64, status string, precondition time.Time) (*request.Request, error) {
	return r.guardedUpdate(id, precondition, map[string]interface{}{"status": status})
}

func (r *RequestRepository) UpdatePriority(id int64, priority string, precondition time.Time) (*request.Request, error) {
	return r.guardedUpdate(id, precondition, map[string]interface{}{"priority": priority})
}

func (r *RequestRepository) UpdateAssignee(id int64, assigneeID *int64, precondition time.Time) (*request.Request, error) {
	return r.guardedUpdate(id, precondition, map[string]interface{}{"assignee_id": assigneeID})
}

func (r *RequestRepository) guardedUpdate(id int64, precondition time.Time, updates map[string]interface{}) (*request.Request, error) {
	updates["updated_at"] = time.Now()

	res := r.db.Model(&requestdm.Request{}).
		Where("id = ? AND updated_at = ?", id, precondition).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&requestdm.Request{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.ErrStaleUpdate
	}

	return r.GetByID(id)
}

func (r *RequestRepository) AddReply(reply *request.Reply) error {
	row := &requestdm.Reply{
		RequestID:  reply.RequestID,
		SenderID:   reply.SenderID,
		SenderRole: reply.SenderRole,
		Message:    reply.Message,
		IsInternal: reply.IsInternal,
		CreatedAt:  reply.CreatedAt,
	}
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	reply.ID = row.ID
	return nil
}

func (r *RequestRepository) ListReplies(requestID int64, includeInternal bool) ([]*request.Reply, error) {
	tx := r.db.Where("request_id = ?", requestID)
	if !includeInternal {
		tx = tx.Where("is_internal = ?", false)
	}

	var rows []*requestdm.Reply
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	replies := make([]*request.Reply, len(rows))
	for i, row := range rows {
		replies[i] = request.ReplyFromDataModel(row)
	}
	return replies, nil
}

func (r *RequestRepository) AddAttachment(att *request.Attachment) error {
	row := &requestdm.Attachment{
		RequestID:   att.RequestID,
		FileName:    att.FileName,
		FileURL:     att.FileURL,
		ContentType: att.ContentType,
		SizeBytes:   att.SizeBytes,
	}
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	att.ID = row.ID
	return nil
}

func (r *RequestRepository) ListAttachments(requestID int64) ([]*request.Attachment, error) {
	var rows []*requestdm.Attachment
	if err := r.db.Where("request_id = ?", requestID).
		Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	attachments := make([]*request.Attachment, len(rows))
	for i, row := range rows {
		attachments[i] = request.AttachmentFromDataModel(row)
	}
	return attachments, nil
}

func (r *RequestRepository) DeleteAttachment(requestID, attachmentID int64) error {
	res := r.db.Where("id = ? AND request_id = ?", attachmentID, requestID).
		Delete(&requestdm.Attachment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Attachment not found", apperrors.ErrCodeAttachmentNotFound)
	}
	return nil
}

// GetStats aggregates counts for the dashboard in three grouped queries.
func (r *RequestRepository) GetStats() (*request.Stats, error) {
	stats := &request.Stats{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
		ByArea:     make(map[int64]int64),
	}

	if err := r.db.Model(&requestdm.Request{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var byStatus []statusCount
	if err := r.db.Model(&requestdm.Request{}).
		Select("status, COUNT(*) AS count").
		Group("status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, sc := range byStatus {
		stats.ByStatus[sc.Status] = sc.Count
	}

	type priorityCount struct {
		Priority string
		Count    int64
	}
	var byPriority []priorityCount
	if err := r.db.Model(&requestdm.Request{}).
		Select("priority, COUNT(*) AS count").
		Group("priority").Scan(&byPriority).Error; err != nil {
		return nil, err
	}
	for _, pc := range byPriority {
		stats.ByPriority[pc.Priority] = pc.Count
	}

	type areaCount struct {
		AreaID int64
		Count  int64
	}
	var byArea []areaCount
	if err := r.db.Model(&requestdm.Request{}).
		Select("area_id, COUNT(*) AS count").
		Group("area_id").Scan(&byArea).Error; err != nil {
		return nil, err
	}
	for _, ac := range byArea {
		stats.ByArea[ac.AreaID] = ac.Count
	}

	return stats, nil
}
