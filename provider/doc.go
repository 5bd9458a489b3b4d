/*
Package provider composes Clerk's hosted components into a clerksync app.

A Provider owns the endpoints the frontend synchronizer script talks to:
one receiving auth events as Clerk resolves them in the browser, one a page
load polls to rendezvous with that event, and a dev-only reset. Page
handlers register work to run after the auth check through OnLoad and embed
the returned request ID in the page.
*/
package provider
