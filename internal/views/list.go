package views

import (
	"context"
	"strings"

	"facility_crm_backend/pkg/utils"
)

// StatusAll disables status filtering, as does an empty status.
const StatusAll = "all"

// ModalMode says which form, if any, is open.
type ModalMode string

const (
	ModalNone ModalMode = ""
	ModalNew  ModalMode = "new"
	ModalEdit ModalMode = "edit"
)

// Modal is the form state of a list page. Target is set only in edit mode.
type Modal[T any] struct {
	Mode   ModalMode `json:"mode"`
	Target *T        `json:"target,omitempty"`
}

// ListState is a snapshot of a list page.
type ListState[T any] struct {
	Records    []T      `json:"records"`
	Filtered   []T      `json:"filtered"`
	Search     string   `json:"search"`
	Status     string   `json:"status"`
	Modal      Modal[T] `json:"modal"`
	Loading    bool     `json:"loading"`
	Submitting bool     `json:"submitting"`
	Notices    []Notice `json:"notices,omitempty"`     // load failures
	FormNotice *Notice  `json:"form_notice,omitempty"` // last submit failure
}

// FilterRecords keeps the records whose fields contain search (case
// insensitive, any field) and whose status equals status. statusOf may be nil
// for pages without a status filter. The input order is preserved.
func FilterRecords[T any](records []T, search, status string, fields func(T) []string, statusOf func(T) string) []T {
	search = strings.TrimSpace(search)
	filterStatus := statusOf != nil && status != "" && status != StatusAll
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if filterStatus && statusOf(rec) != status {
			continue
		}
		if search != "" && !anyContains(fields(rec), search) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func anyContains(fields []string, search string) bool {
	for _, f := range fields {
		if utils.ContainsFold(f, search) {
			return true
		}
	}
	return false
}

// listPage is the state machine shared by the clients, bookings and invoices pages.
type listPage[T any] struct {
	page
	records    []T
	filtered   []T
	search     string
	status     string
	modal      Modal[T]
	submitting bool
	formNotice *Notice

	fields   func(T) []string
	statusOf func(T) string
	idOf     func(T) string
}

func (l *listPage[T]) init(ctx context.Context, fields func(T) []string, statusOf func(T) string, idOf func(T) string) {
	l.page.init(ctx)
	l.records = []T{}
	l.filtered = []T{}
	l.fields = fields
	l.statusOf = statusOf
	l.idOf = idOf
}

// refilter must be called with the lock held.
func (l *listPage[T]) refilter() {
	l.filtered = FilterRecords(l.records, l.search, l.status, l.fields, l.statusOf)
}

func (l *listPage[T]) setRecords(records []T) func() {
	return func() {
		if records == nil {
			records = []T{}
		}
		l.records = records
	}
}

// State returns a copy of the page state.
func (l *listPage[T]) State() ListState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ListState[T]{
		Records:    append([]T{}, l.records...),
		Filtered:   append([]T{}, l.filtered...),
		Search:     l.search,
		Status:     l.status,
		Modal:      l.modal,
		Loading:    l.loading,
		Submitting: l.submitting,
		Notices:    l.snapshotNotices(),
		FormNotice: l.formNotice,
	}
}

// SetSearch changes the search term and recomputes the filtered list.
func (l *listPage[T]) SetSearch(search string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.search = search
	l.refilter()
}

// SetStatus changes the status filter and recomputes the filtered list.
func (l *listPage[T]) SetStatus(status string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = status
	l.refilter()
}

// OpenNew opens an empty form.
func (l *listPage[T]) OpenNew() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modal = Modal[T]{Mode: ModalNew}
	l.formNotice = nil
}

// OpenEdit opens the form on rec.
func (l *listPage[T]) OpenEdit(rec T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modal = Modal[T]{Mode: ModalEdit, Target: &rec}
	l.formNotice = nil
}

// CloseModal dismisses the form without saving.
func (l *listPage[T]) CloseModal() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.modal = Modal[T]{}
	l.formNotice = nil
}

// submit runs call and, on success, prepends (create) or replaces the record
// and closes the modal. On failure the list and modal are left untouched and
// the error is kept as the form notice.
func (l *listPage[T]) submit(ctx context.Context, create bool, call func(context.Context) (*T, error)) (*T, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil, ErrClosed
	}
	if l.submitting {
		l.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	l.submitting = true
	l.mu.Unlock()

	ctx, stop := l.bind(ctx)
	defer stop()
	rec, err := call(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.submitting = false
	if l.closed {
		return nil, ErrClosed
	}
	if err != nil {
		notice := NoticeFor(err)
		l.formNotice = &notice
		return nil, err
	}

	if create {
		l.records = append([]T{*rec}, l.records...)
	} else {
		id := l.idOf(*rec)
		for i := range l.records {
			if l.idOf(l.records[i]) == id {
				l.records[i] = *rec
				break
			}
		}
	}
	l.refilter()
	l.modal = Modal[T]{}
	l.formNotice = nil
	return rec, nil
}
