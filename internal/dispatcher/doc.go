// Package dispatcher is the modal state machine that drives a session.
//
// A Machine receives key events one at a time. The current mode picks the
// key handler: Normal, Operator-pending and Insert-normal keys go through
// the command parser, Visual keys through its Visual grammar, and Insert,
// Replace, Select and Command-line keys are handled directly.
//
// Before a key reaches its handler it is looked up in the session's
// mappings. Keys that may begin a longer mapping are held; the host calls
// FlushMappings when it stops waiting for more.
//
// # Command Execution
//
// A parsed command runs through these steps:
//
//  1. Pre-dispatch hooks are called and may cancel it
//  2. The registry finds the handler for its action
//  3. The handler runs inside one undo group, with optional panic recovery
//  4. A successful change is remembered for "."
//  5. Post-dispatch hooks are called
//  6. Metrics are recorded, if enabled
//
// Handlers act on every caret, bottom caret first, so that edits at one
// caret never shift the carets still to be processed.
//
// # Hosts
//
// The machine works on the session's editor through the engine's text
// interfaces. Optional host capabilities such as write actions, undo
// groups, viewports and literal detection are used when present.
//
// The machine also serves the Ex executor as its host, so that :normal
// can feed keys and commands on a Visual range can leave Visual mode.
package dispatcher
