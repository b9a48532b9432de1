package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusForStage(t *testing.T) {
	assert.Equal(t, CandidateStatusHired, StatusForStage(StageHired))
	assert.Equal(t, CandidateStatusRejected, StatusForStage(StageRejected))
	for _, s := range []Stage{StageNew, StageReviewing, StageInterview1, StageInterview2, StageOffer} {
		assert.Equal(t, CandidateStatusActive, StatusForStage(s), s)
	}
}

func TestStageRank(t *testing.T) {
	assert.Less(t, StageNew.Rank(), StageInterview1.Rank())
	assert.Less(t, StageInterview1.Rank(), StageInterview2.Rank())
	assert.Equal(t, -1, Stage("unknown").Rank())
	assert.False(t, Stage("unknown").IsValid())
}

func TestStageForRound(t *testing.T) {
	assert.Equal(t, StageInterview1, StageForRound(1))
	assert.Equal(t, StageInterview2, StageForRound(2))
}

func TestAverageScore(t *testing.T) {
	assert.Equal(t, 0.0, AverageScore(nil))
	assert.Equal(t, 3.67, AverageScore([]CriterionScore{{Score: 4}, {Score: 3}, {Score: 4}}))
}

func TestPasswordResetTokenUsable(t *testing.T) {
	now := time.Now()
	tok := &PasswordResetToken{ExpiresAt: now.Add(time.Minute)}
	assert.True(t, tok.Usable(now))
	assert.False(t, tok.Usable(now.Add(2*time.Minute)))
	tok.UsedAt = &now
	assert.False(t, tok.Usable(now))
}

func TestRoleHelpers(t *testing.T) {
	u := &User{Role: RoleRecruiter}
	assert.True(t, u.HasRole(RoleHRManager, RoleRecruiter))
	assert.False(t, u.HasRole(RoleAdmin))
	assert.False(t, (*User)(nil).HasRole(RoleAdmin))
	assert.False(t, Role("GUEST").IsValid())
}
