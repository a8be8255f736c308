// Package input routes keyboard events to view-state transitions and
// shell lifecycle commands.
//
// Rules are evaluated in a fixed priority order and the first match wins:
//
//  1. Escape                quit the shell
//  2. Space (held)          drag mode on, off on release
//  3. Cmd+[                 navigate back
//  4. Cmd+]                 navigate forward
//  5. Cmd+N                 open a new window
//  6. Cmd+Z                 toggle forced zoom
//  7. Left / Right arrows   nudge the crop offset while zoom is on
//
// Unmatched events are not consumed, so the hosted page still sees them.
// "Cmd" is the configured command modifier (Meta by default).
package input
