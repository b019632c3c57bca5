// Package auth is the request authorization and tenant-isolation core of
// farmbase.
//
// Every protected handler goes through the Guard, which resolves the caller's
// identity from the session token, classifies platform administrators, and
// checks farm membership before returning a RequestContext. The returned
// farm id is the only value that may scope subsequent data access.
//
// The package also carries the edge middleware that enforces the farm header
// contract ahead of routing, and an in-process sliding-window rate limiter.
package auth
