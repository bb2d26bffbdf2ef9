// Package builder is the single source of truth for an interactive brick
// build.
//
// An [Engine] owns the scene (placed bricks and the selection), the undo/redo
// history, the active brick type, the camera view preset and a handle to
// persistent storage. Front ends (the terminal editor, the HTTP API) forward
// pointer events and toolbar actions to it and render from its read-only
// accessors.
//
// # Operations
//
// Every operation that changes the brick sequence records the sequence it is
// about to replace before applying the change. Operations whose precondition
// is not met (no selection, unknown brick type, non-finite point) are silent
// no-ops: they return false and leave state and history untouched.
//
//	e := builder.New(builder.WithStore(store))
//	e.PlaceOrMove(brick.V(2.4, 0, -1.6)) // places brick-0 at (2, 0.75, -2)
//	e.SetColor("#ef4444")                 // recolors the selected brick
//	e.Undo()
//	if err := e.Save(ctx); err != nil {
//	    // *errors.Error with code STORAGE_ERROR
//	}
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Each front end drives its engine
// from a single control flow.
package builder
