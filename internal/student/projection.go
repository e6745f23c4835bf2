package student

import (
	guardianmodel "github.com/jamfest/guardian-consent/internal/guardian/model"
	"github.com/jamfest/guardian-consent/internal/student/model"
)

// ProjectParticipation derives the read-side gating state for a student.
// Pure derivation: recomputed on every read, never cached.
func ProjectParticipation(s *model.Student) model.Participation {
	approved := s.GuardianApprovalStatus != nil && *s.GuardianApprovalStatus == guardianmodel.StatusApproved

	projection := model.Participation{
		StudentID:              s.StudentID,
		CanParticipate:         s.ProfileComplete && (!s.IsMinor || approved),
		NeedsGuardianForm:      s.IsMinor && s.ProfileComplete && s.GuardianApprovalStatus == nil,
		GuardianApprovalStatus: s.GuardianApprovalStatus,
		Banner:                 model.BannerNone,
	}

	if s.IsMinor && s.ProfileComplete {
		switch {
		case s.GuardianApprovalStatus != nil && *s.GuardianApprovalStatus == guardianmodel.StatusRejected:
			projection.Banner = model.BannerGuardianRejected
		case s.GuardianApprovalStatus == nil || *s.GuardianApprovalStatus == guardianmodel.StatusPending:
			projection.Banner = model.BannerGuardianPending
		}
	}

	return projection
}
