package request

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	errors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/auth"
	"github.com/constituency-office/citizen-portal/internal/core/events"
	"github.com/constituency-office/citizen-portal/internal/ids"
)

// StaffScope narrows queue queries for plain staff: rows assigned to them
// or belonging to their area. Candidate and admin pass a nil scope.
type StaffScope struct {
	UserID int64
	AreaID *int64
}

type RepositoryAPI interface {
	Create(req *Request) error
	GetByID(id int64) (*Request, error)
	GetByIdempotencyKey(key string) (*Request, error)
	GetByReference(reference string) (*Request, error)
	ListByUser(userID int64, q ListQueryDTO) ([]*Request, error)
	ListQueue(q ListQueryDTO, scope *StaffScope) ([]*Request, error)
	UpdateContent(id int64, subject, description string) (*Request, error)
	UpdateStatus(id int64, status string, precondition time.Time) (*Request, error)
	UpdatePriority(id int64, priority string, precondition time.Time) (*Request, error)
	UpdateAssignee(id int64, assigneeID *int64, precondition time.Time) (*Request, error)
	AddReply(reply *Reply) error
	ListReplies(requestID int64, includeInternal bool) ([]*Reply, error)
	AddAttachment(att *Attachment) error
	ListAttachments(requestID int64) ([]*Attachment, error)
	DeleteAttachment(requestID, attachmentID int64) error
	GetStats() (*Stats, error)
}

// Uploader stores attachment content and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, objectKey, contentType string, content []byte) (string, error)
}

// AreaLookup resolves area names for event payloads and validates that a
// submission references a live area and request type.
type AreaLookup interface {
	GetAreaName(areaID int64) (string, error)
	ValidateReference(typeID, areaID int64) error
}

type ServiceAPI interface {
	Create(ctx context.Context, actor *auth.User, dto CreateRequestDTO) (*Request, error)
	GetByID(actor *auth.User, id int64) (*Request, error)
	ListMine(actor *auth.User, q ListQueryDTO) ([]*Request, error)
	ListQueue(actor *auth.User, q ListQueryDTO) ([]*Request, error)
	TrackByReference(actor *auth.User, reference string) (*Request, error)
	UpdateStatus(ctx context.Context, actor *auth.User, id int64, dto UpdateStatusDTO) (*Request, error)
	UpdatePriority(actor *auth.User, id int64, dto UpdatePriorityDTO) (*Request, error)
	Assign(ctx context.Context, actor *auth.User, id int64, dto AssignDTO) (*Request, error)
	EditByOwner(actor *auth.User, id int64, dto EditRequestDTO) (*Request, error)
	CancelByOwner(ctx context.Context, actor *auth.User, id int64) (*Request, error)
	AddReply(actor *auth.User, id int64, dto ReplyDTO) (*Reply, error)
	ListReplies(actor *auth.User, id int64) ([]*Reply, error)
	ListAttachments(actor *auth.User, id int64) ([]*Attachment, error)
	DeleteAttachment(actor *auth.User, requestID, attachmentID int64) error
	GetStats(actor *auth.User) (*Stats, error)
}

type Service struct {
	repo     RepositoryAPI
	uploader Uploader
	areas    AreaLookup
	bus      *events.EventBus
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryAPI, uploader Uploader, areas AreaLookup, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		uploader: uploader,
		areas:    areas,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
	}
}

// Create submits a citizen request. A retried submission carrying the same
// idempotency key returns the originally created row instead of a duplicate.
func (s *Service) Create(ctx context.Context, actor *auth.User, dto CreateRequestDTO) (*Request, error) {
	if !actor.Can(auth.CapSubmitRequest) {
		return nil, errors.NewForbiddenError("only citizens submit requests", errors.ErrCodeMissingCapability)
	}
	if err := dto.Validate(); err != nil {
		s.logger.Error("request validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}
	if s.areas != nil {
		if err := s.areas.ValidateReference(dto.TypeID, dto.AreaID); err != nil {
			return nil, err
		}
	}

	if dto.IdempotencyKey != nil {
		if existing, err := s.repo.GetByIdempotencyKey(*dto.IdempotencyKey); err == nil {
			if existing.UserID != actor.ID {
				// The key is claimed by someone else's submission; letting
				// the insert hit the unique index would leak a 500.
				return nil, errors.NewConflictError("idempotency key already in use", errors.ErrCodeDuplicateRequest)
			}
			s.logger.Info("idempotent replay of request submission",
				"request_id", existing.ID,
				"reference_number", existing.ReferenceNumber)
			return existing, nil
		}
	}

	priority := dto.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := s.now()
	req := &Request{
		UserID:          actor.ID,
		ReferenceNumber: ids.NewReferenceNumber(),
		IdempotencyKey:  dto.IdempotencyKey,
		Subject:         dto.Subject,
		Description:     dto.Description,
		Status:          StatusNew,
		Priority:        priority,
		TypeID:          dto.TypeID,
		AreaID:          dto.AreaID,
		Location:        dto.Location,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create request", "error", err, "user_id", actor.ID)
		return nil, errors.NewInternalError("failed to submit request", err)
	}

	areaName := ""
	if s.areas != nil {
		if name, err := s.areas.GetAreaName(req.AreaID); err == nil {
			areaName = name
		}
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.NewRequestCreatedEvent(req.ID, req.ReferenceNumber, req.AreaID, areaName))
	}

	if len(dto.Attachments) > 0 {
		go s.uploadAttachmentsAsync(req.ID, dto.Attachments)
	}

	s.logger.Info("request submitted",
		"request_id", req.ID,
		"reference_number", req.ReferenceNumber,
		"user_id", actor.ID,
		"area_id", req.AreaID)

	return req, nil
}

// uploadAttachmentsAsync stores files off the request path. A failed upload
// is logged and skipped; the submission already succeeded.
func (s *Service) uploadAttachmentsAsync(requestID int64, attachments []AttachmentInput) {
	if s.uploader == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for _, att := range attachments {
		objectKey := fmt.Sprintf("requests/%d/%s-%s", requestID, uuid.NewString(), att.FileName)
		url, err := s.uploader.Upload(ctx, objectKey, att.ContentType, att.Content)
		if err != nil {
			s.logger.Error("attachment upload failed",
				"request_id", requestID,
				"file_name", att.FileName,
				"error", err)
			continue
		}

		if err := s.repo.AddAttachment(&Attachment{
			RequestID:   requestID,
			FileName:    att.FileName,
			FileURL:     url,
			ContentType: att.ContentType,
			SizeBytes:   int64(len(att.Content)),
		}); err != nil {
			s.logger.Error("failed to record attachment",
				"request_id", requestID,
				"file_name", att.FileName,
				"error", err)
		}
	}
}

// GetByID enforces ownership for citizens; any staff tier may read any row.
func (s *Service) GetByID(actor *auth.User, id int64) (*Request, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrRequestNotFound
	}

	if !actor.IsStaffTier() && req.UserID != actor.ID {
		s.logger.Warn("unauthorized access to request", "request_id", id, "user_id", actor.ID)
		return nil, errors.ErrUnauthorizedAccess
	}

	return req, nil
}

func (s *Service) ListMine(actor *auth.User, q ListQueryDTO) ([]*Request, error) {
	return s.repo.ListByUser(actor.ID, q)
}

// ListQueue is the dashboard view. Plain staff see only rows assigned to
// them or in their area; candidate and admin see everything.
func (s *Service) ListQueue(actor *auth.User, q ListQueryDTO) ([]*Request, error) {
	if !actor.Can(auth.CapManageRequests) {
		return nil, errors.NewForbiddenError("not allowed to view the request queue", errors.ErrCodeMissingCapability)
	}

	var scope *StaffScope
	if actor.Role == auth.RoleStaff {
		scope = &StaffScope{UserID: actor.ID, AreaID: actor.AssignedAreaID}
	}

	return s.repo.ListQueue(q, scope)
}

func (s *Service) TrackByReference(actor *auth.User, reference string) (*Request, error) {
	req, err := s.repo.GetByReference(reference)
	if err != nil {
		return nil, errors.ErrRequestNotFound
	}

	if !actor.IsStaffTier() && req.UserID != actor.ID {
		return nil, errors.ErrRequestNotFound
	}

	return req, nil
}

// UpdateStatus applies a transition from the table, guarded by the
// updated-at precondition.
func (s *Service) UpdateStatus(ctx context.Context, actor *auth.User, id int64, dto UpdateStatusDTO) (*Request, error) {
	if !actor.Can(auth.CapManageRequests) {
		return nil, errors.NewForbiddenError("not allowed to change request status", errors.ErrCodeMissingCapability)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrRequestNotFound
	}

	if req.IsTerminal() {
		return nil, errors.ErrRequestTerminal
	}
	if !req.CanTransitionTo(dto.Status) {
		s.logger.Warn("illegal status transition",
			"request_id", id,
			"from", req.Status,
			"to", dto.Status)
		return nil, errors.ErrIllegalTransition
	}

	updated, err := s.repo.UpdateStatus(id, dto.Status, dto.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewRequestStatusChangedEvent(id, req.ReferenceNumber, req.Status, dto.Status, actor.ID))
	}

	s.logger.Info("request status changed",
		"request_id", id,
		"from", req.Status,
		"to", dto.Status,
		"actor_id", actor.ID)

	return updated, nil
}

func (s *Service) UpdatePriority(actor *auth.User, id int64, dto UpdatePriorityDTO) (*Request, error) {
	if !actor.Can(auth.CapManagePriority) {
		return nil, errors.NewForbiddenError("not allowed to change request priority", errors.ErrCodeMissingCapability)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrRequestNotFound
	}
	if req.IsTerminal() {
		return nil, errors.ErrRequestTerminal
	}

	updated, err := s.repo.UpdatePriority(id, dto.Priority, dto.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("request priority changed",
		"request_id", id,
		"priority", dto.Priority,
		"actor_id", actor.ID)

	return updated, nil
}

func (s *Service) Assign(ctx context.Context, actor *auth.User, id int64, dto AssignDTO) (*Request, error) {
	if !actor.Can(auth.CapManageAssignment) {
		return nil, errors.NewForbiddenError("not allowed to assign requests", errors.ErrCodeMissingCapability)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrRequestNotFound
	}
	if req.IsTerminal() {
		return nil, errors.ErrRequestTerminal
	}

	updated, err := s.repo.UpdateAssignee(id, dto.AssigneeID, dto.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if dto.AssigneeID != nil && s.bus != nil {
		s.bus.Publish(ctx, events.NewRequestAssignedEvent(id, req.ReferenceNumber, *dto.AssigneeID))
	}

	s.logger.Info("request assigned",
		"request_id", id,
		"assignee_id", dto.AssigneeID,
		"actor_id", actor.ID)

	return updated, nil
}

// EditByOwner lets the citizen fix subject and description within the edit
// window. Staff corrections go through replies, never through content edits.
func (s *Service) EditByOwner(actor *auth.User, id int64, dto EditRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrRequestNotFound
	}

	if req.UserID != actor.ID {
		return nil, errors.ErrUnauthorizedAccess
	}
	if req.IsTerminal() {
		return nil, errors.ErrRequestTerminal
	}
	if !req.CanBeEditedBy(actor.ID, s.now()) {
		return nil, errors.ErrEditWindowExpired
	}

	updated, err := s.repo.UpdateContent(id, dto.Subject, dto.Description)
	if err != nil {
		return nil, err
	}

	s.logger.Info("request edited by owner", "request_id", id, "user_id", actor.ID)
	return updated, nil
}

// CancelByOwner has no time limit: a citizen may withdraw any request that
// has not reached a terminal state.
func (s *Service) CancelByOwner(ctx context.Context, actor *auth.User, id int64) (*Request, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrRequestNotFound
	}

	if req.UserID != actor.ID {
		return nil, errors.ErrUnauthorizedAccess
	}
	if !req.CanBeCancelledBy(actor.ID) {
		return nil, errors.ErrRequestTerminal
	}

	updated, err := s.repo.UpdateStatus(id, StatusCancelled, req.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewRequestStatusChangedEvent(id, req.ReferenceNumber, req.Status, StatusCancelled, actor.ID))
	}

	s.logger.Info("request cancelled by owner", "request_id", id, "user_id", actor.ID)
	return updated, nil
}

// AddReply appends to the thread. Citizens can only write public replies on
// their own requests; the internal flag is reserved for the staff tier.
func (s *Service) AddReply(actor *auth.User, id int64, dto ReplyDTO) (*Reply, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrRequestNotFound
	}
	if req.IsTerminal() {
		return nil, errors.ErrRequestTerminal
	}

	isInternal := dto.IsInternal
	if !actor.IsStaffTier() {
		if req.UserID != actor.ID {
			return nil, errors.ErrUnauthorizedAccess
		}
		isInternal = false
	}

	reply := &Reply{
		RequestID:  id,
		SenderID:   actor.ID,
		SenderRole: string(actor.Role),
		Message:    dto.Message,
		IsInternal: isInternal,
		CreatedAt:  s.now(),
	}
	if err := s.repo.AddReply(reply); err != nil {
		return nil, errors.NewInternalError("failed to add reply", err)
	}

	s.logger.Info("reply added",
		"request_id", id,
		"sender_id", actor.ID,
		"internal", isInternal)

	return reply, nil
}

// ListReplies filters internal notes out of citizen reads at the query.
func (s *Service) ListReplies(actor *auth.User, id int64) ([]*Reply, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrRequestNotFound
	}

	includeInternal := actor.IsStaffTier()
	if !includeInternal && req.UserID != actor.ID {
		return nil, errors.ErrUnauthorizedAccess
	}

	return s.repo.ListReplies(id, includeInternal)
}

func (s *Service) ListAttachments(actor *auth.User, id int64) ([]*Attachment, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrRequestNotFound
	}
	if !actor.IsStaffTier() && req.UserID != actor.ID {
		return nil, errors.ErrUnauthorizedAccess
	}
	return s.repo.ListAttachments(id)
}

// DeleteAttachment follows the same window as content edits.
func (s *Service) DeleteAttachment(actor *auth.User, requestID, attachmentID int64) error {
	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return errors.ErrRequestNotFound
	}

	if req.UserID != actor.ID {
		return errors.ErrUnauthorizedAccess
	}
	if !req.CanBeEditedBy(actor.ID, s.now()) {
		return errors.ErrEditWindowExpired
	}

	return s.repo.DeleteAttachment(requestID, attachmentID)
}

func (s *Service) GetStats(actor *auth.User) (*Stats, error) {
	if !actor.Can(auth.CapViewAnalytics) {
		return nil, errors.NewForbiddenError("not allowed to view analytics", errors.ErrCodeMissingCapability)
	}
	return s.repo.GetStats()
}
