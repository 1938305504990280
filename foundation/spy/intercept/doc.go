// File: doc.go
// Title: Intercept Package Documentation
// Description: Package documentation for the call interceptor.
// Author: msto63
// Version: v0.1.0
// Created: 2025-10-15
// Modified: 2025-10-15
//
// Change History:
// - 2025-10-15 v0.1.0: Initial implementation

/*
Package intercept observes calls made through a Namespace of callables.

HookAll replaces every exported callable (names not starting with "_")
with a wrapper. Per call the wrapper:

 1. records the call in the call log
 2. parses it through the Router, usually a registry.Table
 3. dispatches the record to the owning handler
 4. calls the original with the untouched arguments and returns its
    result and error as they are

A call that fails to parse is logged at WARN and kept in the log with its
error; it is not dispatched, and the original still runs. Calls made from
inside a wrapped call, for example a command implementation invoking
another hooked command, bypass observation so each external call is
recorded once.

RestoreAll reinstalls the originals in reverse hook order, which also
unwinds namespaces that were hooked more than once.

	ic := intercept.New(table, intercept.Options{Logger: logger})
	if _, err := ic.HookAll(ns); err != nil {
		return err
	}
	defer ic.RestoreAll()
*/
package intercept
