package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCandidateStatusTransitions(t *testing.T) {
	t.Run("happy path through the pipeline", func(t *testing.T) {
		path := []CandidateStatus{
			CandidateStatusUnderReview,
			CandidateStatusShortlisted,
			CandidateStatusInterviewScheduled,
			CandidateStatusReferenceCheck,
			CandidateStatusOfferExtended,
			CandidateStatusOfferAccepted,
			CandidateStatusHired,
		}
		for idx := 0; idx < len(path)-1; idx++ {
			require.True(t, path[idx].IsAllowedNext(path[idx+1]),
				"%v -> %v must be allowed", path[idx], path[idx+1])
		}
	})

	t.Run("archive and reject allowed from any non-terminal status", func(t *testing.T) {
		for status := range candidateStatusHumanName {
			if status.IsTerminal() || status == CandidateStatusArchived || status == CandidateStatusRejected {
				continue
			}
			require.True(t, status.IsAllowedNext(CandidateStatusArchived), "archive from %v", status)
			require.True(t, status.IsAllowedNext(CandidateStatusRejected), "reject from %v", status)
		}
	})

	t.Run("terminal statuses allow nothing", func(t *testing.T) {
		for _, terminal := range []CandidateStatus{CandidateStatusHired, CandidateStatusWithdrawn} {
			for next := range candidateStatusHumanName {
				require.False(t, terminal.IsAllowedNext(next), "%v -> %v", terminal, next)
			}
		}
	})

	t.Run("no self transitions", func(t *testing.T) {
		for status := range candidateStatusHumanName {
			require.False(t, status.IsAllowedNext(status))
		}
	})

	t.Run("skipping pipeline stages is rejected", func(t *testing.T) {
		require.False(t, CandidateStatusUnderReview.IsAllowedNext(CandidateStatusOfferExtended))
		require.False(t, CandidateStatusShortlisted.IsAllowedNext(CandidateStatusHired))
		require.False(t, CandidateStatusUnderReview.IsAllowedNext(CandidateStatusHired))
	})

	t.Run("unknown target is rejected", func(t *testing.T) {
		require.False(t, CandidateStatusUnderReview.IsAllowedNext(CandidateStatus("BOGUS")))
	})

	t.Run("unarchive returns to under review only", func(t *testing.T) {
		require.True(t, CandidateStatusArchived.IsAllowedNext(CandidateStatusUnderReview))
		require.False(t, CandidateStatusArchived.IsAllowedNext(CandidateStatusShortlisted))
	})
}

func TestBulkActionTargets(t *testing.T) {
	cases := map[BulkAction]CandidateStatus{
		BulkActionShortlist: CandidateStatusShortlisted,
		BulkActionReject:    CandidateStatusRejected,
		BulkActionArchive:   CandidateStatusArchived,
		BulkActionUnarchive: CandidateStatusUnderReview,
	}
	for action, want := range cases {
		got, ok := action.TargetStatus()
		require.True(t, ok, "action %v", action)
		require.Equal(t, want, got)
	}
	_, ok := BulkAction("promote").TargetStatus()
	require.False(t, ok)
}
