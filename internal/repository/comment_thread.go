package repository

import (
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/support-dashboard/internal/domain"
	apperrors "github.com/spec-kit/support-dashboard/pkg/util/errorutil"
)

// ValidateCommentContent rejects empty and whitespace-only content.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperrors.NewValidationError("", map[string]string{
			"content": "Comment cannot be empty",
		})
	}
	return nil
}

// CommentThread is the append-only, oldest-first log of one ticket's comments.
type CommentThread struct {
	mu       sync.RWMutex
	ticketID int64
	comments []domain.Comment
	lastID   int64
	now      func() time.Time
}

func newCommentThread(ticketID int64, seed []domain.Comment, now func() time.Time) *CommentThread {
	t := &CommentThread{ticketID: ticketID, now: now}
	for _, c := range seed {
		c.TicketID = ticketID
		if c.ID <= t.lastID {
			c.ID = t.lastID + 1
		}
		t.lastID = c.ID
		t.comments = append(t.comments, c)
	}
	return t
}

// TicketID returns the owning ticket.
func (t *CommentThread) TicketID() int64 {
	return t.ticketID
}

// Add appends a comment. Existing entries are never touched.
func (t *CommentThread) Add(author, content string, isInternal bool) (domain.Comment, error) {
	if err := ValidateCommentContent(content); err != nil {
		return domain.Comment{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastID++
	comment := domain.Comment{
		ID:         t.lastID,
		TicketID:   t.ticketID,
		Author:     author,
		Content:    content,
		Timestamp:  t.now(),
		IsInternal: isInternal,
	}
	t.comments = append(t.comments, comment)
	return comment, nil
}

// Comments returns a copy of the thread, oldest first.
func (t *CommentThread) Comments() []domain.Comment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.Comment(nil), t.comments...)
}

// VisibleComments returns the customer-facing subset, oldest first.
func (t *CommentThread) VisibleComments() []domain.Comment {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.Comment, 0, len(t.comments))
	for _, c := range t.comments {
		if c.IsInternal {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Len returns the number of comments.
func (t *CommentThread) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.comments)
}

// ThreadRegistry owns one CommentThread per ticket, keyed by the ticket's ThreadID.
type ThreadRegistry struct {
	mu      sync.Mutex
	threads map[int64]*CommentThread
	now     func() time.Time
}

// NewThreadRegistry seeds threads from a ThreadID -> comments map.
func NewThreadRegistry(seed map[int64][]domain.Comment, opts ...Option) *ThreadRegistry {
	r := &ThreadRegistry{threads: make(map[int64]*CommentThread, len(seed)), now: buildOptions(opts).now}
	for threadID, comments := range seed {
		r.threads[threadID] = newCommentThread(threadID, comments, r.now)
	}
	return r
}

// Thread returns the thread for threadID, creating an empty one on first use.
func (r *ThreadRegistry) Thread(threadID int64) *CommentThread {
	r.mu.Lock()
	defer r.mu.Unlock()

	thread, ok := r.threads[threadID]
	if !ok {
		thread = newCommentThread(threadID, nil, r.now)
		r.threads[threadID] = thread
	}
	return thread
}

// Lookup returns an existing thread. Unlike Thread it never creates one.
func (r *ThreadRegistry) Lookup(threadID int64) (*CommentThread, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	thread, ok := r.threads[threadID]
	return thread, ok
}

// Count returns the thread length without creating a thread.
func (r *ThreadRegistry) Count(threadID int64) int {
	thread, ok := r.Lookup(threadID)
	if !ok {
		return 0
	}
	return thread.Len()
}
