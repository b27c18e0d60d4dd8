package board

import "postroom-backend/internal/forwarding/domain"

// withOptimisticUpdate snapshots the item list, applies the local change so
// the board reflects it immediately, then runs commit against the server.
// When commit fails the pre-apply snapshot is restored exactly, so a rejected
// operation leaves the list field-for-field as it was.
func (b *Board) withOptimisticUpdate(apply func(items []*domain.ForwardingRequest), commit func() error) error {
	b.mu.Lock()
	snapshot := cloneRequests(b.items)
	apply(b.items)
	b.mu.Unlock()
	b.notify()

	if err := commit(); err != nil {
		b.mu.Lock()
		b.items = snapshot
		b.mu.Unlock()
		b.notify()
		return err
	}
	return nil
}

func cloneRequests(items []*domain.ForwardingRequest) []*domain.ForwardingRequest {
	out := make([]*domain.ForwardingRequest, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
