package request

import (
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Request lifecycle rules", func() {
	ginkgo.Describe("transition table", func() {
		ginkgo.It("should allow the forward path", func() {
			r := &Request{Status: StatusNew}
			gomega.Expect(r.CanTransitionTo(StatusInReview)).To(gomega.BeTrue())

			r.Status = StatusInReview
			gomega.Expect(r.CanTransitionTo(StatusInProgress)).To(gomega.BeTrue())

			r.Status = StatusInProgress
			gomega.Expect(r.CanTransitionTo(StatusResponded)).To(gomega.BeTrue())

			r.Status = StatusResponded
			gomega.Expect(r.CanTransitionTo(StatusClosed)).To(gomega.BeTrue())
		})

		ginkgo.It("should allow reopening a responded request", func() {
			r := &Request{Status: StatusResponded}
			gomega.Expect(r.CanTransitionTo(StatusInProgress)).To(gomega.BeTrue())
		})

		ginkgo.It("should not allow moving backwards otherwise", func() {
			r := &Request{Status: StatusInProgress}
			gomega.Expect(r.CanTransitionTo(StatusNew)).To(gomega.BeFalse())
			gomega.Expect(r.CanTransitionTo(StatusInReview)).To(gomega.BeFalse())
		})

		ginkgo.It("should allow cancellation from every live state", func() {
			for _, status := range []string{StatusNew, StatusInReview, StatusInProgress, StatusResponded} {
				r := &Request{Status: status}
				gomega.Expect(r.CanTransitionTo(StatusCancelled)).To(gomega.BeTrue(), "from "+status)
			}
		})

		ginkgo.It("should have no edges out of terminal states", func() {
			for _, terminal := range []string{StatusClosed, StatusCancelled} {
				r := &Request{Status: terminal}
				for _, target := range []string{StatusNew, StatusInReview, StatusInProgress, StatusResponded, StatusClosed, StatusCancelled} {
					gomega.Expect(r.CanTransitionTo(target)).To(gomega.BeFalse(), terminal+" -> "+target)
				}
				gomega.Expect(r.IsTerminal()).To(gomega.BeTrue())
			}
		})
	})

	ginkgo.Describe("edit window", func() {
		ginkgo.It("should allow the owner to edit within six hours", func() {
			created := time.Now().Add(-5 * time.Hour)
			r := &Request{UserID: 1, Status: StatusNew, CreatedAt: created}
			gomega.Expect(r.CanBeEditedBy(1, time.Now())).To(gomega.BeTrue())
		})

		ginkgo.It("should reject edits after the window closes", func() {
			created := time.Now().Add(-7 * time.Hour)
			r := &Request{UserID: 1, Status: StatusNew, CreatedAt: created}
			gomega.Expect(r.CanBeEditedBy(1, time.Now())).To(gomega.BeFalse())
		})

		ginkgo.It("should reject edits by anyone but the owner", func() {
			r := &Request{UserID: 1, Status: StatusNew, CreatedAt: time.Now()}
			gomega.Expect(r.CanBeEditedBy(2, time.Now())).To(gomega.BeFalse())
		})

		ginkgo.It("should reject edits on terminal requests even inside the window", func() {
			r := &Request{UserID: 1, Status: StatusClosed, CreatedAt: time.Now()}
			gomega.Expect(r.CanBeEditedBy(1, time.Now())).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("cancellation", func() {
		ginkgo.It("should have no time limit", func() {
			created := time.Now().Add(-30 * 24 * time.Hour)
			r := &Request{UserID: 1, Status: StatusInProgress, CreatedAt: created}
			gomega.Expect(r.CanBeCancelledBy(1)).To(gomega.BeTrue())
		})

		ginkgo.It("should be blocked on terminal requests", func() {
			r := &Request{UserID: 1, Status: StatusCancelled}
			gomega.Expect(r.CanBeCancelledBy(1)).To(gomega.BeFalse())
		})
	})
})
