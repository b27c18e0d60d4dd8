package board

import (
	"testing"

	"postroom-backend/internal/forwarding/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardItems() []*domain.ForwardingRequest {
	return []*domain.ForwardingRequest{
		{ID: 1001, OwnerName: "Ada Lovelace", Status: domain.StatusRequested,
			Recipient: domain.Address{Name: "A. Lovelace", Line1: "12 Analytical Row", City: "London"}},
		{ID: 1002, OwnerName: "Grace Hopper", Status: domain.StatusInProgress,
			Recipient: domain.Address{Name: "G. Hopper", Line1: "7 Compiler Court", City: "Arlington"}},
		{ID: 1003, OwnerName: "Alan Turing", Status: domain.StatusDone,
			Recipient: domain.Address{Name: "A. Turing", Line1: "1 Bletchley Park", Line2: "Hut 8", City: "Milton Keynes"}},
		{ID: 1004, OwnerName: "Unknown Import", Status: "cancelled",
			Recipient: domain.Address{Name: "Nobody", Line1: "0 Nowhere"}},
	}
}

func TestCategorizeBucketsByStatus(t *testing.T) {
	buckets := Categorize(boardItems(), "")

	require.Len(t, buckets.Requested, 1)
	require.Len(t, buckets.InProgress, 1)
	require.Len(t, buckets.Done, 1)
	require.Len(t, buckets.Unknown, 1)
	assert.Equal(t, uint(1001), buckets.Requested[0].ID)
	assert.Equal(t, uint(1004), buckets.Unknown[0].ID)
}

func TestCategorizeSearchNarrowsWithinBuckets(t *testing.T) {
	// Matching items stay in their normal column
	buckets := Categorize(boardItems(), "hopper")
	assert.Empty(t, buckets.Requested)
	require.Len(t, buckets.InProgress, 1)
	assert.Equal(t, uint(1002), buckets.InProgress[0].ID)
	assert.Empty(t, buckets.Done)
}

func TestCategorizeSearchIsCaseInsensitive(t *testing.T) {
	buckets := Categorize(boardItems(), "BLETCHLEY")
	require.Len(t, buckets.Done, 1)
	assert.Equal(t, uint(1003), buckets.Done[0].ID)
}

func TestCategorizeSearchMatchesReferenceAndAddressLines(t *testing.T) {
	buckets := Categorize(boardItems(), "fwd-1001")
	require.Len(t, buckets.Requested, 1)

	buckets = Categorize(boardItems(), "hut 8")
	require.Len(t, buckets.Done, 1)

	buckets = Categorize(boardItems(), "no such thing")
	assert.Empty(t, buckets.Requested)
	assert.Empty(t, buckets.InProgress)
	assert.Empty(t, buckets.Done)
	assert.Empty(t, buckets.Unknown)
}
