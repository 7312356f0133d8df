package postgres

import (
	"testing"
	"time"

	apperrors "github.com/constituency-office/citizen-portal/internal"
	"github.com/constituency-office/citizen-portal/internal/request"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRequestRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RequestRepository Suite")
}

type SQLiteRequest struct {
	ID              int64     `gorm:"primaryKey"`
	UserID          int64     `gorm:"column:user_id;not null"`
	ReferenceNumber string    `gorm:"column:reference_number;uniqueIndex;not null"`
	IdempotencyKey  *string   `gorm:"column:idempotency_key;uniqueIndex"`
	Subject         string    `gorm:"not null"`
	Description     string    `gorm:"not null"`
	Status          string    `gorm:"not null;default:'new'"`
	Priority        string    `gorm:"not null;default:'medium'"`
	TypeID          int64     `gorm:"column:type_id;not null"`
	AreaID          int64     `gorm:"column:area_id;not null"`
	AssigneeID      *int64    `gorm:"column:assignee_id"`
	Location        *string   `gorm:"column:location"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (SQLiteRequest) TableName() string { return "requests" }

type SQLiteReply struct {
	ID         int64     `gorm:"primaryKey"`
	RequestID  int64     `gorm:"column:request_id;not null"`
	SenderID   int64     `gorm:"column:sender_id;not null"`
	SenderRole string    `gorm:"column:sender_role;not null"`
	Message    string    `gorm:"not null"`
	IsInternal bool      `gorm:"column:is_internal;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (SQLiteReply) TableName() string { return "replies" }

type SQLiteAttachment struct {
	ID          int64     `gorm:"primaryKey"`
	RequestID   int64     `gorm:"column:request_id;not null"`
	FileName    string    `gorm:"column:file_name;not null"`
	FileURL     string    `gorm:"column:file_url;not null"`
	ContentType string    `gorm:"column:content_type"`
	SizeBytes   int64     `gorm:"column:size_bytes"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (SQLiteAttachment) TableName() string { return "attachments" }

var _ = Describe("RequestRepository", func() {
	var (
		db   *gorm.DB
		repo *RequestRepository
	)

	newRequest := func(userID int64, reference string) *request.Request {
		now := time.Now().Truncate(time.Second)
		return &request.Request{
			UserID:          userID,
			ReferenceNumber: reference,
			Subject:         "Blocked storm drain on Elm street",
			Description:     "The drain at the corner of Elm and 3rd floods the pavement every time it rains.",
			Status:          request.StatusNew,
			Priority:        request.PriorityMedium,
			TypeID:          1,
			AreaID:          7,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteRequest{}, &SQLiteReply{}, &SQLiteAttachment{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewRequestRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Create and lookups", func() {
		It("should persist and read back by id, reference and idempotency key", func() {
			key := "3b1f3f86-5cf2-43a1-b9be-1f5e3c1a1d42"
			req := newRequest(1, "REQ-TEST0001")
			req.IdempotencyKey = &key

			Expect(repo.Create(req)).To(Succeed())
			Expect(req.ID).To(BeNumerically(">", 0))

			byID, err := repo.GetByID(req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(byID.ReferenceNumber).To(Equal("REQ-TEST0001"))

			byRef, err := repo.GetByReference("REQ-TEST0001")
			Expect(err).NotTo(HaveOccurred())
			Expect(byRef.ID).To(Equal(req.ID))

			byKey, err := repo.GetByIdempotencyKey(key)
			Expect(err).NotTo(HaveOccurred())
			Expect(byKey.ID).To(Equal(req.ID))
		})

		It("should return not found for a missing id", func() {
			_, err := repo.GetByID(9999)
			Expect(err).To(Equal(apperrors.ErrRequestNotFound))
		})
	})

	Describe("ListQueue scoping", func() {
		BeforeEach(func() {
			assignee := int64(2)

			inArea := newRequest(1, "REQ-AREA0001")
			inArea.AreaID = 7
			Expect(repo.Create(inArea)).To(Succeed())

			assigned := newRequest(1, "REQ-ASGN0001")
			assigned.AreaID = 9
			assigned.AssigneeID = &assignee
			Expect(repo.Create(assigned)).To(Succeed())

			unrelated := newRequest(1, "REQ-ELSE0001")
			unrelated.AreaID = 9
			Expect(repo.Create(unrelated)).To(Succeed())
		})

		It("should return assigned-or-area rows for a scoped staff member", func() {
			areaID := int64(7)
			rows, err := repo.ListQueue(request.ListQueryDTO{Limit: 10}, &request.StaffScope{UserID: 2, AreaID: &areaID})
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			for _, row := range rows {
				inScope := row.AreaID == 7 || (row.AssigneeID != nil && *row.AssigneeID == 2)
				Expect(inScope).To(BeTrue(), row.ReferenceNumber)
			}
		})

		It("should return everything without a scope", func() {
			rows, err := repo.ListQueue(request.ListQueryDTO{Limit: 10}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
		})

		It("should apply status and priority filters", func() {
			rows, err := repo.ListQueue(request.ListQueryDTO{Status: request.StatusClosed, Limit: 10}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})
	})

	Describe("guarded updates", func() {
		It("should update status when the precondition matches", func() {
			req := newRequest(1, "REQ-UPDT0001")
			Expect(repo.Create(req)).To(Succeed())

			stored, err := repo.GetByID(req.ID)
			Expect(err).NotTo(HaveOccurred())

			updated, err := repo.UpdateStatus(req.ID, request.StatusInReview, stored.UpdatedAt)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(request.StatusInReview))
		})

		It("should report a stale precondition as a conflict", func() {
			req := newRequest(1, "REQ-UPDT0002")
			Expect(repo.Create(req)).To(Succeed())

			stale := req.UpdatedAt.Add(-time.Hour)
			_, err := repo.UpdateStatus(req.ID, request.StatusInReview, stale)
			Expect(err).To(Equal(apperrors.ErrStaleUpdate))
		})

		It("should distinguish a missing row from a stale one", func() {
			_, err := repo.UpdateStatus(4242, request.StatusInReview, time.Now())
			Expect(err).To(Equal(apperrors.ErrRequestNotFound))
		})
	})

	Describe("replies", func() {
		It("should filter internal replies from citizen reads", func() {
			req := newRequest(1, "REQ-RPLY0001")
			Expect(repo.Create(req)).To(Succeed())

			Expect(repo.AddReply(&request.Reply{
				RequestID: req.ID, SenderID: 2, SenderRole: "staff",
				Message: "internal note", IsInternal: true, CreatedAt: time.Now(),
			})).To(Succeed())
			Expect(repo.AddReply(&request.Reply{
				RequestID: req.ID, SenderID: 2, SenderRole: "staff",
				Message: "public update", IsInternal: false, CreatedAt: time.Now(),
			})).To(Succeed())

			publicOnly, err := repo.ListReplies(req.ID, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(publicOnly).To(HaveLen(1))
			Expect(publicOnly[0].Message).To(Equal("public update"))

			all, err := repo.ListReplies(req.ID, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})
	})

	Describe("attachments", func() {
		It("should add, list and delete", func() {
			req := newRequest(1, "REQ-ATCH0001")
			Expect(repo.Create(req)).To(Succeed())

			att := &request.Attachment{
				RequestID:   req.ID,
				FileName:    "photo.jpg",
				FileURL:     "https://files.example.com/requests/1/photo.jpg",
				ContentType: "image/jpeg",
				SizeBytes:   2048,
			}
			Expect(repo.AddAttachment(att)).To(Succeed())

			listed, err := repo.ListAttachments(req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listed).To(HaveLen(1))

			Expect(repo.DeleteAttachment(req.ID, att.ID)).To(Succeed())
			listed, err = repo.ListAttachments(req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(listed).To(BeEmpty())
		})

		It("should not delete an attachment of another request", func() {
			req := newRequest(1, "REQ-ATCH0002")
			Expect(repo.Create(req)).To(Succeed())

			err := repo.DeleteAttachment(req.ID, 999)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetStats", func() {
		It("should aggregate counts by status, priority and area", func() {
			a := newRequest(1, "REQ-STAT0001")
			a.Status = request.StatusNew
			a.Priority = request.PriorityHigh
			a.AreaID = 7
			Expect(repo.Create(a)).To(Succeed())

			b := newRequest(1, "REQ-STAT0002")
			b.Status = request.StatusClosed
			b.Priority = request.PriorityMedium
			b.AreaID = 9
			Expect(repo.Create(b)).To(Succeed())

			stats, err := repo.GetStats()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(2)))
			Expect(stats.ByStatus[request.StatusNew]).To(Equal(int64(1)))
			Expect(stats.ByStatus[request.StatusClosed]).To(Equal(int64(1)))
			Expect(stats.ByPriority[request.PriorityHigh]).To(Equal(int64(1)))
			Expect(stats.ByArea[int64(7)]).To(Equal(int64(1)))
		})
	})
})
