package state

import "sync"

// Container holds the current State. Updates are serialised; readers get
// deep copies so they never observe a later update.
type Container struct {
	mu    sync.RWMutex
	state State
}

// NewContainer creates a container holding initial.
func NewContainer(initial State) *Container {
	return &Container{state: initial.Clone()}
}

// Snapshot returns a deep copy of the current state.
func (c *Container) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Update replaces the state with the result of fn. When fn returns an error
// the state is left untouched and the error is returned.
func (c *Container) Update(fn func(State) (State, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := fn(c.state)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Apply replaces the state with the result of fn, which cannot fail.
func (c *Container) Apply(fn func(State) State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = fn(c.state)
}

// Replace swaps the state wholesale.
func (c *Container) Replace(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s.Clone()
}
