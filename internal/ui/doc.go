// Package ui is the Bubble Tea terminal interface. It renders the state
// published by the controller stores and turns key presses into controller
// calls; it holds no request or session state of its own.
package ui
