// Package controller holds one view-state controller per screen.
//
// A controller publishes its state through a state.Store and exposes
// trigger methods (Load, Approve, ChangeFilter, ...). Every trigger moves
// the state to Loading before it starts and always ends in Success, Empty,
// or Error; failures become user-facing messages via Message.
//
// Loads are sequenced per controller: starting a load cancels the one in
// flight, and a superseded load never publishes. Its trigger returns
// ErrSuperseded instead.
package controller
