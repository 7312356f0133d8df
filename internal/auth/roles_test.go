package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Roles", func() {
	ginkgo.Describe("ParseRole", func() {
		ginkgo.It("should parse every known role", func() {
			for _, want := range AllRoles {
				got, ok := ParseRole(string(want))
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(got).To(gomega.Equal(want))
			}
		})

		ginkgo.It("should reject unknown values", func() {
			_, ok := ParseRole("superuser")
			gomega.Expect(ok).To(gomega.BeFalse())
			_, ok = ParseRole("")
			gomega.Expect(ok).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("capability grants", func() {
		ginkgo.It("should let only citizens submit requests", func() {
			gomega.Expect(RoleCitizen.Can(CapSubmitRequest)).To(gomega.BeTrue())
			gomega.Expect(RoleStaff.Can(CapSubmitRequest)).To(gomega.BeFalse())
			gomega.Expect(RoleCandidate.Can(CapSubmitRequest)).To(gomega.BeFalse())
			gomega.Expect(RoleAdmin.Can(CapSubmitRequest)).To(gomega.BeFalse())
		})

		ginkgo.It("should give the dashboard to every staff tier role", func() {
			gomega.Expect(RoleStaff.Can(CapViewDashboard)).To(gomega.BeTrue())
			gomega.Expect(RoleCandidate.Can(CapViewDashboard)).To(gomega.BeTrue())
			gomega.Expect(RoleAdmin.Can(CapViewDashboard)).To(gomega.BeTrue())
			gomega.Expect(RoleCitizen.Can(CapViewDashboard)).To(gomega.BeFalse())
		})

		ginkgo.It("should keep priority and assignment away from staff", func() {
			// Staff works the queue but does not reprioritize or reassign it.
			gomega.Expect(RoleStaff.Can(CapManageRequests)).To(gomega.BeTrue())
			gomega.Expect(RoleStaff.Can(CapManagePriority)).To(gomega.BeFalse())
			gomega.Expect(RoleStaff.Can(CapManageAssignment)).To(gomega.BeFalse())

			gomega.Expect(RoleCandidate.Can(CapManagePriority)).To(gomega.BeTrue())
			gomega.Expect(RoleAdmin.Can(CapManageAssignment)).To(gomega.BeTrue())
		})

		ginkgo.It("should restrict team management to admin", func() {
			gomega.Expect(RoleAdmin.Can(CapManageTeam)).To(gomega.BeTrue())
			gomega.Expect(RoleCandidate.Can(CapManageTeam)).To(gomega.BeFalse())
			gomega.Expect(RoleStaff.Can(CapManageTeam)).To(gomega.BeFalse())
			gomega.Expect(RoleCitizen.Can(CapManageTeam)).To(gomega.BeFalse())
		})

		ginkgo.It("should restrict candidate content to candidate and admin", func() {
			gomega.Expect(RoleCandidate.Can(CapManageCandidateContent)).To(gomega.BeTrue())
			gomega.Expect(RoleAdmin.Can(CapManageCandidateContent)).To(gomega.BeTrue())
			gomega.Expect(RoleStaff.Can(CapManageCandidateContent)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("User", func() {
		ginkgo.It("should deny every capability on a nil user", func() {
			var u *User
			gomega.Expect(u.Can(CapSubmitRequest)).To(gomega.BeFalse())
			gomega.Expect(u.IsAdmin()).To(gomega.BeFalse())
			gomega.Expect(u.IsCandidateTier()).To(gomega.BeFalse())
		})

		ginkgo.It("should derive the tier flags from the role", func() {
			staff := &User{ID: 1, Role: RoleStaff}
			gomega.Expect(staff.IsStaffTier()).To(gomega.BeTrue())
			gomega.Expect(staff.IsCandidateTier()).To(gomega.BeFalse())

			candidate := &User{ID: 2, Role: RoleCandidate}
			gomega.Expect(candidate.IsStaffTier()).To(gomega.BeTrue())
			gomega.Expect(candidate.IsCandidateTier()).To(gomega.BeTrue())
		})
	})
})
