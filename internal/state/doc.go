// Package state provides the observable state container backing a
// refetch controller.
//
// A [Store] holds a single value behind a mutex and fans out every update
// to channel subscribers, decoupling the controller's state mutation from
// however consumers choose to observe it (polling accessor, subscription
// channel, or callbacks layered on top).
//
// This package is internal to refetch. Users of the library observe state
// through the controller's Snapshot and Updates methods.
package state
