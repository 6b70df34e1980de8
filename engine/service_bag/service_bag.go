// Package service_bag hosts engine services for the lifetime of a game session.
//
// A ServiceBag carries an identity and a Cleanup list. Services register the resources they
// acquire with the bag's Cleanup, and destroying the bag releases everything in reverse
// acquisition order exactly once.
package service_bag

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// ErrDestroyed is returned when registering with a bag that has already been destroyed.
var ErrDestroyed = errors.New("service_bag: bag has been destroyed")

// ServiceBag is the lifecycle host passed to services on Init.
type ServiceBag struct {
	mu *sync.Mutex

	id        uuid.UUID
	name      string
	cleanup   *Cleanup
	destroyed bool
}

// NewServiceBag creates a live service bag.
//
// Parameters:
//   - options: functional options to configure the bag
//
// Returns:
//   - *ServiceBag: the new bag
func NewServiceBag(options ...ServiceBagOption) *ServiceBag {
	sb := &ServiceBag{
		mu:      &sync.Mutex{},
		id:      uuid.New(),
		name:    "ServiceBag",
		cleanup: NewCleanup(),
	}
	for _, option := range options {
		option(sb)
	}
	return sb
}

// ID returns the bag's unique identity.
//
// Returns:
//   - uuid.UUID: the id
func (sb *ServiceBag) ID() uuid.UUID {
	return sb.id
}

// Name returns the bag's display name.
//
// Returns:
//   - string: the name
func (sb *ServiceBag) Name() string {
	return sb.name
}

// Valid reports whether the bag exists and has not been destroyed.
// A nil bag is invalid.
//
// Returns:
//   - bool: true if services may be registered
func (sb *ServiceBag) Valid() bool {
	if sb == nil {
		return false
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return !sb.destroyed
}

// Cleanup returns the bag's release list.
//
// Returns:
//   - *Cleanup: the cleanup list
func (sb *ServiceBag) Cleanup() *Cleanup {
	return sb.cleanup
}

// Register adds a named release function to the bag's cleanup.
//
// Parameters:
//   - name: label used in teardown logs and errors
//   - fn: the release function
//
// Returns:
//   - error: ErrDestroyed if the bag is no longer valid
func (sb *ServiceBag) Register(name string, fn func() error) error {
	if !sb.Valid() {
		return fmt.Errorf("register %q: %w", name, ErrDestroyed)
	}
	return sb.cleanup.Add(name, fn)
}

// Destroy invalidates the bag and releases everything registered with it.
// Only the first call releases; later calls return nil.
//
// Returns:
//   - error: the joined release failures
func (sb *ServiceBag) Destroy() error {
	sb.mu.Lock()
	if sb.destroyed {
		sb.mu.Unlock()
		return nil
	}
	sb.destroyed = true
	sb.mu.Unlock()

	err := sb.cleanup.Close()
	if err != nil {
		log.Printf("[%s] teardown finished with errors: %v", sb.name, err)
	}
	return err
}
