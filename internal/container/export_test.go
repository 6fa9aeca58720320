package container

// WithFreeSpace replaces the filesystem free-space probe.
func WithFreeSpace(probe func(dir string) (uint64, error)) Option {
	return func(r *Resolver) {
		r.freeSpace = probe
	}
}
