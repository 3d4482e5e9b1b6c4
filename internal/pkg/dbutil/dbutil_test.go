package dbutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFinalizeRewritesLimitAndPlaceholders(t *testing.T) {
	query := "SELECT id FROM documents WHERE organization_id=? AND is_active=? ORDER BY ctime DESC LIMIT ?,?"
	args := []interface{}{"org-1", true, 10, 5}

	got, gotArgs := Finalize(query, args)
	require.Equal(t, "SELECT id FROM documents WHERE organization_id=$1 AND is_active=$2 ORDER BY ctime DESC LIMIT $3 OFFSET $4", got)
	require.Equal(t, []interface{}{"org-1", true, 5, 10}, gotArgs)
}

func TestFinalizeWithoutLimitClause(t *testing.T) {
	query := "SELECT id FROM documents WHERE organization_id=?"
	args := []interface{}{"org-1"}

	got, gotArgs := Finalize(query, args)
	require.Equal(t, "SELECT id FROM documents WHERE organization_id=$1", got)
	require.Equal(t, []interface{}{"org-1"}, gotArgs)
}

func TestInExpandsAndRebinds(t *testing.T) {
	got, gotArgs, err := In("SELECT id FROM documents WHERE id IN (?) AND organization_id = ?", []string{"a", "b"}, "org-1")
	require.NoError(t, err)
	require.Equal(t, "SELECT id FROM documents WHERE id IN ($1, $2) AND organization_id = $3", got)
	require.Equal(t, []interface{}{"a", "b", "org-1"}, gotArgs)
}
