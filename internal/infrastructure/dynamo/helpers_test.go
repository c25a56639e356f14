package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrKey(t *testing.T) {
	key := strKey("user_id", "u1")

	require.Len(t, key, 1)
	av, ok := key["user_id"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "u1", av.Value)
}

func TestBuildUpdateExpr_Empty(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.Error(t, err)
}

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"is_completed": true})

	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "is_completed"}, ue.Names)

	av, ok := ue.Values[":v0"].(*types.AttributeValueMemberBOOL)
	require.True(t, ok)
	assert.True(t, av.Value)
}

func TestBuildUpdateExpr_SortedDeterministic(t *testing.T) {
	updates := map[string]interface{}{
		"total_seconds": 1500,
		"is_completed":  true,
	}

	// Map iteration order is random; the expression must not be.
	for i := 0; i < 10; i++ {
		ue, err := buildUpdateExpr(updates)
		require.NoError(t, err)
		assert.Equal(t, "SET #f0 = :v0, #f1 = :v1", ue.Expr)
		assert.Equal(t, "is_completed", ue.Names["#f0"])
		assert.Equal(t, "total_seconds", ue.Names["#f1"])
	}
}

func TestBuildUpdateExpr_MarshalsValueTypes(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		"email":         "a@x.com",
		"work_interval": 45,
	})
	require.NoError(t, err)

	// Sorted: email first, then work_interval.
	s, ok := ue.Values[":v0"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", s.Value)

	n, ok := ue.Values[":v1"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "45", n.Value)
}
