// Package tasks implements continuation tasks on top of the worker pool.
//
// A Task wraps a nullary work unit in a promise/future pair and keeps an
// ordered queue of successors appended via ContinueWith. Successors are
// submitted to the pool only after their predecessor settles, and a
// single cancellation source covers an entire chain because children
// inherit their parent's token.
//
// # Task lifecycle
//
//	Pending ──(dispatch)──► Running ──► Fulfilled
//	   │                       │
//	   │ token canceled        │ work unit error / panic
//	   ▼                       ▼
//	Failed(canceled)        Failed(err)
//
// A task constructed with New or NewCancelable schedules itself on the
// pool immediately, unless its token is already canceled, in which case
// it fails with the canceled error without ever reaching the pool.
//
// # Continuation flow
//
//  1. Caller appends a child via ContinueWith.
//     │
//     ▼
//  2. Under the predecessor's lock, check the predecessor's future:
//     - settled  → dispatch the child now
//     - pending  → push the child onto the children queue
//     │
//     ▼
//  3. When the worker finishes the predecessor it settles the future
//     and, under the same lock, drains the children queue, dispatching
//     each child in append order.
//
// The lock makes step 2 mutually exclusive with step 3, so a child can
// neither be lost between "check" and "append" nor dispatched twice.
//
// # Cancellation
//
// Cancellation is cooperative. A cancel observed before dispatch makes
// the task skip its work unit and fail with errors.ErrCanceled. A
// running work unit is never interrupted; a CancelableWork polls the
// token and decides for itself how to finish. Children of a canceled
// chain settle with the canceled error as they are drained, so a single
// Cancel covers the whole subtree.
//
// # Error routing
//
// An error returned (or panic raised) by a work unit settles the task's
// future and is also recorded in the pool's error list. The canceled
// error is an engine signal: it settles the future only.
//
// # Ownership
//
// The closure scheduled on the pool holds the task record, so a task
// stays alive through execution even if the caller drops every handle.
// Dropping a handle does not cancel the task. A child holds its parent
// only until the child starts running, so a chain does not accumulate
// its ancestry.
package tasks
