package bootstrap

// DeferredError holds at most one initialization failure for later
// reporting. The first error set wins; Consume hands it out once.
// It is owned by a single Bootstrapper and is not safe for concurrent use.
type DeferredError struct {
	err error
}

// Set records err unless an error is already held. Nil is ignored.
func (d *DeferredError) Set(err error) {
	if err == nil || d.err != nil {
		return
	}
	d.err = err
}

// Pending reports whether an error is held.
func (d *DeferredError) Pending() bool {
	return d.err != nil
}

// Consume returns the held error, if any, and clears the slot.
func (d *DeferredError) Consume() error {
	err := d.err
	d.err = nil
	return err
}
