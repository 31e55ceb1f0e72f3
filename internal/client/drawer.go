package client

import (
	"context"
	"errors"
	"sync"
)

// DrawerMode is the state of a create/edit side panel.
type DrawerMode int

const (
	DrawerClosed DrawerMode = iota
	DrawerCreating
	DrawerEditing
	DrawerSubmitting
)

func (m DrawerMode) String() string {
	switch m {
	case DrawerCreating:
		return "creating"
	case DrawerEditing:
		return "editing"
	case DrawerSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

var (
	ErrDrawerBusy   = errors.New("client: drawer is submitting")
	ErrDrawerClosed = errors.New("client: drawer is not open")
	// ErrDrawerStale is returned by OpenEdit when the drawer was reopened,
	// closed or submitted while the record was loading.
	ErrDrawerStale = errors.New("client: drawer changed while loading")
)

// DrawerOps connects a drawer to one resource. New builds an empty form;
// Load fetches the full record for editing.
type DrawerOps[F any] struct {
	New    func() F
	Load   func(ctx context.Context, id uint) (F, error)
	Create func(ctx context.Context, form F) error
	Update func(ctx context.Context, id uint, form F) error
}

// DrawerState is a snapshot of the drawer. ID is set while editing and
// while submitting an edit.
type DrawerState struct {
	Mode    DrawerMode
	ID      uint
	Message string
}

// Drawer drives the form of one resource through
// closed -> creating|editing(id) -> submitting -> closed. The form is rebuilt
// on every open so nothing leaks from the previous record.
type Drawer[F any] struct {
	ops DrawerOps[F]

	mu      sync.Mutex
	mode    DrawerMode
	prev    DrawerMode
	id      uint
	gen     uint64
	form    F
	message string
}

// NewDrawer returns a closed drawer.
func NewDrawer[F any](ops DrawerOps[F]) *Drawer[F] {
	return &Drawer[F]{ops: ops}
}

func (d *Drawer[F]) blank() F {
	if d.ops.New != nil {
		return d.ops.New()
	}
	var zero F
	return zero
}

// OpenCreate opens an empty form.
func (d *Drawer[F]) OpenCreate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == DrawerSubmitting {
		return ErrDrawerBusy
	}
	d.gen++
	d.mode, d.id, d.form, d.message = DrawerCreating, 0, d.blank(), ""
	return nil
}

// OpenEdit loads the full record and opens it for editing. When the load
// fails the drawer keeps its previous state and Message explains why. A
// load that finishes after the drawer moved on is discarded.
func (d *Drawer[F]) OpenEdit(ctx context.Context, id uint) error {
	d.mu.Lock()
	if d.mode == DrawerSubmitting {
		d.mu.Unlock()
		return ErrDrawerBusy
	}
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	if d.ops.Load == nil {
		return errors.New("client: drawer has no loader")
	}
	form, err := d.ops.Load(ctx, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen || d.mode == DrawerSubmitting {
		return ErrDrawerStale
	}
	if err != nil {
		d.message = DisplayMessage(err)
		return err
	}
	d.mode, d.id, d.form, d.message = DrawerEditing, id, form, ""
	return nil
}

// Form returns the current form values.
func (d *Drawer[F]) Form() F {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.form
}

// Edit changes the form in place while the drawer is open.
func (d *Drawer[F]) Edit(fn func(form *F)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.mode {
	case DrawerCreating, DrawerEditing:
		fn(&d.form)
		return nil
	case DrawerSubmitting:
		return ErrDrawerBusy
	default:
		return ErrDrawerClosed
	}
}

// Submit sends the form. On success the drawer closes and refetch is true
// so the caller reloads its list. On failure it goes back to the mode it
// was in, keeps the form, and Message holds the display text.
func (d *Drawer[F]) Submit(ctx context.Context) (refetch bool, err error) {
	d.mu.Lock()
	switch d.mode {
	case DrawerCreating, DrawerEditing:
	case DrawerSubmitting:
		d.mu.Unlock()
		return false, ErrDrawerBusy
	default:
		d.mu.Unlock()
		return false, ErrDrawerClosed
	}
	d.gen++
	d.prev, d.mode, d.message = d.mode, DrawerSubmitting, ""
	id, form, prev := d.id, d.form, d.prev
	d.mu.Unlock()

	switch {
	case prev == DrawerCreating && d.ops.Create != nil:
		err = d.ops.Create(ctx, form)
	case prev == DrawerEditing && d.ops.Update != nil:
		err = d.ops.Update(ctx, id, form)
	default:
		err = errors.New("client: drawer cannot save in this mode")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.mode, d.message = prev, DisplayMessage(err)
		return false, err
	}
	d.mode, d.id, d.form = DrawerClosed, 0, d.blank()
	return true, nil
}

// Close discards the form. It does nothing while a submit is in flight.
func (d *Drawer[F]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == DrawerSubmitting {
		return
	}
	d.gen++
	d.mode, d.id, d.form, d.message = DrawerClosed, 0, d.blank(), ""
}

// State returns a snapshot.
func (d *Drawer[F]) State() DrawerState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DrawerState{Mode: d.mode, ID: d.id, Message: d.message}
}

// Message is the last failure text, empty after a successful step.
func (d *Drawer[F]) Message() string {
	return d.State().Message
}
