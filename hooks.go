package sortedlist

// Test hooks (kept separate so instrumentation doesn't clutter logic).
// They must not block forever or mutate the list in ways production code
// relies on.
var (
	// insertBeforeLinkHook is invoked after search fixed the window and before
	// the link CAS.
	insertBeforeLinkHook func(key int64)

	// removeAfterMarkHook is invoked after the mark CAS and before the
	// best-effort unlink CAS.
	removeAfterMarkHook func(target any)
)
