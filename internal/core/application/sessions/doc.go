// Package sessions runs the real-time tracking sessions of the service.
//
// A Registry owns at most one running Session per order identifier. Each
// session drives its own goroutine: every tick it emits the next waypoint of a
// generated route to the connection that started it, and once the last waypoint
// (status Delivered, eta 0) has been emitted it asks the DeliverySink to persist
// the terminal status and leaves the registry.
//
// Starting a session for an order that already has one cancels the old session
// before the new one is installed, so an order never has two ticking loops.
// Cancellation and emission share the session lock: once Cancel returns, the
// cancelled session delivers nothing more.
//
// A Manager binds client connections to sessions and cancels the sessions a
// connection still owns when it disconnects.
//
// Usage:
//
//	registry, err := sessions.NewRegistry(sessions.DefaultConfig(), routeGenerator, sink, logger)
//	if err != nil {
//	    return err
//	}
//	manager := sessions.NewManager(registry, logger)
//
//	// on {"event":"track_order"}
//	if _, err := manager.Watch(conn, orderID); err != nil {
//	    return err
//	}
//
//	// on socket close
//	manager.Disconnect(conn)
//
//	// on shutdown
//	_ = registry.Shutdown(ctx)
package sessions
