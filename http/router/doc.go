// Package router wires Routes and their middleware stacks onto a gorilla/mux
// router laid out the way a clerksync app expects.
package router
