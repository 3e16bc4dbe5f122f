package search

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tair/parfum-storefront/pkg/logger"
	"github.com/tair/parfum-storefront/pkg/storage"
)

// historyLimit caps the persisted history; entries beyond the cap are
// evicted lowest count first, oldest first within equal counts.
const historyLimit = 10

// HistoryItem is one remembered search.
type HistoryItem struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// History is the persisted list of recent searches, at most one entry
// per normalized query, ordered by count then recency.
type History struct {
	mu    sync.Mutex
	slot  storage.Slot
	items []HistoryItem
}

// NewHistory loads the persisted history. A missing or corrupt slot
// starts empty.
func NewHistory(ctx context.Context, slot storage.Slot) *History {
	h := &History{slot: slot}

	data, err := slot.Read(ctx)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &h.items); err != nil {
			logger.Warn(ctx).Err(err).Msg("Corrupt search history, starting empty")
			h.items = nil
		}
	case errors.Is(err, storage.ErrNotFound):
	default:
		logger.Warn(ctx).Err(err).Msg("Failed to load search history")
	}

	return h
}

// Record remembers a search. The query is normalized; repeats bump the
// count and timestamp instead of adding a duplicate. Invalid queries are
// ignored.
func (h *History) Record(ctx context.Context, query string) {
	if !ValidateQuery(query).IsValid {
		return
	}
	normalized := Normalize(query)

	h.mu.Lock()
	defer h.mu.Unlock()

	found := false
	for i := range h.items {
		if h.items[i].Query == normalized {
			h.items[i].Count++
			h.items[i].Timestamp = time.Now()
			found = true
			break
		}
	}
	if !found {
		h.items = append(h.items, HistoryItem{
			ID:        uuid.NewString(),
			Query:     normalized,
			Timestamp: time.Now(),
			Count:     1,
		})
	}

	// Count desc, then recency desc. Truncating after the sort evicts
	// the lowest-count, oldest entries beyond the cap.
	sort.SliceStable(h.items, func(i, j int) bool {
		if h.items[i].Count != h.items[j].Count {
			return h.items[i].Count > h.items[j].Count
		}
		return h.items[i].Timestamp.After(h.items[j].Timestamp)
	})
	if len(h.items) > historyLimit {
		h.items = h.items[:historyLimit]
	}

	h.persist(ctx)
}

// Items returns a copy of the history, most relevant first.
func (h *History) Items() []HistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := make([]HistoryItem, len(h.items))
	copy(items, h.items)
	return items
}

// Clear empties the history and its slot.
func (h *History) Clear(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = nil
	if err := h.slot.Delete(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to clear search history")
	}
}

func (h *History) persist(ctx context.Context) {
	data, err := json.Marshal(h.items)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to encode search history")
		return
	}
	if err := h.slot.Write(ctx, data); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to persist search history")
	}
}
