package board

import (
	"strings"

	"postroom-backend/internal/forwarding/domain"
)

// Buckets is the board's column view of the request list
type Buckets struct {
	Requested  []*domain.ForwardingRequest
	InProgress []*domain.ForwardingRequest
	Done       []*domain.ForwardingRequest
	Unknown    []*domain.ForwardingRequest
}

// Categorize buckets requests by normalized status, narrowed by a
// case-insensitive substring query. A matching request stays in its normal
// column; search never creates a column of its own. Lock and in-flight state
// play no part here, they are rendering concerns.
func Categorize(items []*domain.ForwardingRequest, query string) Buckets {
	q := strings.ToLower(strings.TrimSpace(query))

	var out Buckets
	for _, item := range items {
		if q != "" && !matchesQuery(item, q) {
			continue
		}
		switch NormalizeStatus(string(item.Status)) {
		case domain.StatusRequested:
			out.Requested = append(out.Requested, item)
		case domain.StatusInProgress:
			out.InProgress = append(out.InProgress, item)
		case domain.StatusDone:
			out.Done = append(out.Done, item)
		default:
			out.Unknown = append(out.Unknown, item)
		}
	}
	return out
}

func matchesQuery(item *domain.ForwardingRequest, q string) bool {
	fields := []string{
		item.OwnerName,
		item.Recipient.Name,
		item.Reference(),
		item.Recipient.Line1,
		item.Recipient.Line2,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
