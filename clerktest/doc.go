// Package clerktest provisions the fixtures browser-driven tests need:
// a known Clerk user to sign in with, a reachable app under test, and the
// tenant keys loaded from the environment.
package clerktest
