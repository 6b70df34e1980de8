package service_bag

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrCleanupClosed is returned when adding to a Cleanup that has already run.
var ErrCleanupClosed = errors.New("service_bag: cleanup already closed")

type release struct {
	name string
	fn   func() error
}

// Cleanup is an ordered list of release functions run in reverse order exactly once.
type Cleanup struct {
	mu *sync.Mutex

	releases []release
	closed   bool
}

// NewCleanup creates an empty cleanup list.
//
// Returns:
//   - *Cleanup: the list
func NewCleanup() *Cleanup {
	return &Cleanup{mu: &sync.Mutex{}}
}

// Add appends a release function. Nil functions are ignored.
//
// Parameters:
//   - name: label used in logs and errors
//   - fn: the release function
//
// Returns:
//   - error: ErrCleanupClosed if Close has already run
func (c *Cleanup) Add(name string, fn func() error) error {
	if fn == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("add %q: %w", name, ErrCleanupClosed)
	}
	c.releases = append(c.releases, release{name: name, fn: fn})
	return nil
}

// Len returns the number of pending release functions.
//
// Returns:
//   - int: pending releases
func (c *Cleanup) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.releases)
}

// Closed reports whether Close has run.
//
// Returns:
//   - bool: true after Close
func (c *Cleanup) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close runs every release function, last added first. A failing or panicking release does
// not stop the rest. Only the first call does any work.
//
// Returns:
//   - error: the joined failures, or nil
func (c *Cleanup) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	releases := c.releases
	c.releases = nil
	c.mu.Unlock()

	var errs []error
	for i := len(releases) - 1; i >= 0; i-- {
		if err := runRelease(releases[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func runRelease(r release) (err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[Cleanup] release %q panicked: %v", r.name, p)
			err = fmt.Errorf("release %q panicked: %v", r.name, p)
		}
	}()
	if err := r.fn(); err != nil {
		return fmt.Errorf("release %q: %w", r.name, err)
	}
	return nil
}
