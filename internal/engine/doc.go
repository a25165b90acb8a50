// Package engine is the editing core's update loop. A Model holds one
// document plus its render state; Update consumes a message, commits at
// most one atomic edit batch, and returns the next model together with
// declarative commands for the host shell. The engine performs no I/O
// and owns no goroutines: loading, saving and the clipboard are
// expressed as commands, and derived state (highlighting, layout)
// resynchronizes lazily inside the frame that needs it.
//
// Every mutation follows the same shape: build one edit batch from the
// cursor set, apply it to the buffer (one revision increment), recompute
// the cursors by delta transformation, record the step in history, and
// invalidate the highlighter and layout caches with the resulting dirty
// range. The buffer and cursor set are consistent after every message,
// whatever derived state still has pending work.
package engine
