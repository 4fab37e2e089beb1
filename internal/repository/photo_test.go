package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery_OwnerScopeOnly(t *testing.T) {
	list, count := buildListQuery(ListFilter{UserID: "u1", Limit: 20})

	sql, args, err := list.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "user_id = $1")
	assert.Contains(t, sql, "ORDER BY photo_date DESC, created_at DESC")
	assert.Contains(t, sql, "LIMIT 20")
	assert.Equal(t, []interface{}{"u1"}, args)

	countSQL, countArgs, err := count.ToSql()
	require.NoError(t, err)
	assert.Contains(t, countSQL, "COUNT(*)")
	assert.NotContains(t, countSQL, "LIMIT")
	assert.Equal(t, []interface{}{"u1"}, countArgs)
}

func TestBuildListQuery_DateBounds(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	list, _ := buildListQuery(ListFilter{UserID: "u1", From: &from, Before: &before, Limit: 20})

	sql, args, err := list.ToSql()
	require.NoError(t, err)
	// From is inclusive, Before exclusive.
	assert.Contains(t, sql, "photo_date >= $2")
	assert.Contains(t, sql, "photo_date < $3")
	assert.Equal(t, []interface{}{"u1", from, before}, args)
}

func TestBuildListQuery_SearchMatchesCaptionOrTags(t *testing.T) {
	list, _ := buildListQuery(ListFilter{UserID: "u1", Search: "bridal", Limit: 20})

	sql, args, err := list.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "caption ILIKE")
	assert.Contains(t, sql, "EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE")
	// One pattern argument per branch of the OR.
	assert.Equal(t, []interface{}{"u1", "%bridal%", "%bridal%"}, args)
}

func TestBuildListQuery_Offset(t *testing.T) {
	list, _ := buildListQuery(ListFilter{UserID: "u1", Limit: 10, Offset: 30})

	sql, _, err := list.ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 10")
	assert.Contains(t, sql, "OFFSET 30")
}
