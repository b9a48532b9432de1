package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

func TestWhereBuilder(t *testing.T) {
	var w whereBuilder
	assert.Equal(t, "1=1", w.sql())

	dept := "IT"
	term := "  Go Dev "
	w.add("department=%s", dept)
	w.addIn("status", []string{"a", "b"})
	w.addSearch(&term, "title", "description")

	assert.Equal(t, "department=$1 AND status IN ($2,$3) AND (LOWER(title) LIKE $4 OR LOWER(description) LIKE $4)", w.sql())
	assert.Equal(t, []any{"IT", "a", "b", "%go dev%"}, w.args)
}

func TestWhereBuilderSkipsEmpty(t *testing.T) {
	var w whereBuilder
	blank := "   "
	w.addIn("stage", nil)
	w.addSearch(&blank, "full_name")
	w.addSearch(nil, "full_name")
	assert.Equal(t, "1=1", w.sql())
	assert.Empty(t, w.args)
}

func TestPageBounds(t *testing.T) {
	l, o := pageBounds(0, -5)
	assert.Equal(t, 20, l)
	assert.Equal(t, 0, o)
	l, _ = pageBounds(1000, 0)
	assert.Equal(t, 200, l)
}

func TestHiredCountQueriesGuardBounds(t *testing.T) {
	assert.Contains(t, hireQuery, "WHERE id=$1 AND hired_count < quantity")
	assert.Contains(t, hireQuery, "'"+string(domain.PositionStatusFilled)+"'")

	assert.Contains(t, releaseQuery, "GREATEST(hired_count - 1, 0)")
	assert.Contains(t, releaseQuery, "status = '"+string(domain.PositionStatusFilled)+"'")
	assert.Contains(t, releaseQuery, "THEN '"+string(domain.PositionStatusOpen)+"'")
}
