package sigbatch

// Validate exposes the parallel-array invariant check to tests.
func (b *Batch) Validate() error { return b.validate() }
