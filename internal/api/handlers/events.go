package handlers

import (
	"net/http"
	"path-route-service/internal/api/dto"
	"path-route-service/internal/domain"
	"strconv"
	"sync"
	"time"
)

// Number of events an EventFeed retains when none is given.
const DefaultFeedSize = 256

// Event kinds recorded by EventFeed.
const (
	EventEntryUpdated     = "entry_updated"
	EventAggregateUpdated = "aggregate_updated"
	EventWarning          = "warning"
	EventInputLocked      = "input_locked"
	EventInputUnlocked    = "input_unlocked"
)

type feedEvent struct {
	seq     int64
	kind    string
	at      time.Time
	entry   *domain.EntryID
	summary string
	message string
}

// EventFeed records engine notifications in a bounded buffer so HTTP
// clients can poll for what changed. It also tracks the input-lock depth:
// the number of queries still holding the input lock.
type EventFeed struct {
	mu        sync.Mutex
	size      int
	events    []feedEvent
	seq       int64
	lockDepth int

	now func() time.Time
}

func NewEventFeed(size int) *EventFeed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &EventFeed{size: size, now: time.Now}
}

func (f *EventFeed) EntryUpdated(id domain.EntryID) {
	f.record(feedEvent{kind: EventEntryUpdated, entry: &id})
}

func (f *EventFeed) AggregateUpdated(t domain.Totals) {
	f.record(feedEvent{kind: EventAggregateUpdated, summary: t.Summary()})
}

func (f *EventFeed) Warn(message string) {
	f.record(feedEvent{kind: EventWarning, message: message})
}

func (f *EventFeed) InputLockRequested() {
	f.mu.Lock()
	f.lockDepth++
	f.mu.Unlock()
	f.record(feedEvent{kind: EventInputLocked})
}

func (f *EventFeed) InputLockReleased() {
	f.mu.Lock()
	if f.lockDepth == 0 {
		f.mu.Unlock()
		log.Warn("input lock released more often than requested")
		return
	}
	f.lockDepth--
	f.mu.Unlock()
	f.record(feedEvent{kind: EventInputUnlocked})
}

// LockDepth is the number of outstanding input-lock requests.
func (f *EventFeed) LockDepth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lockDepth
}

func (f *EventFeed) record(ev feedEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	ev.seq = f.seq
	ev.at = f.now()

	f.events = append(f.events, ev)
	if len(f.events) > f.size {
		f.events = append(f.events[:0:0], f.events[len(f.events)-f.size:]...)
	}
}

// Since returns retained events newer than seq, the latest sequence number
// and the current lock depth.
func (f *EventFeed) Since(seq int64) dto.EventsResponse {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := dto.EventsResponse{
		Events:    make([]dto.EventResponse, 0),
		LastSeq:   f.seq,
		LockDepth: f.lockDepth,
	}
	for _, ev := range f.events {
		if ev.seq <= seq {
			continue
		}
		out := dto.EventResponse{
			Seq:     ev.seq,
			Kind:    ev.kind,
			At:      ev.at,
			Summary: ev.summary,
			Message: ev.message,
		}
		if ev.entry != nil {
			id := int64(*ev.entry)
			out.EntryID = &id
		}
		res.Events = append(res.Events, out)
	}
	return res
}

// List serves GET /events?since=N.
func (f *EventFeed) List(w http.ResponseWriter, r *http.Request) {
	var since int64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "since must be a non-negative integer")
			return
		}
		since = n
	}

	writeJSON(w, r, http.StatusOK, f.Since(since))
}
