// Package transport serves the authentication and farm-selection API over
// HTTP and maps the auth core's typed failures onto status codes.
//
// Business CRUD endpoints live elsewhere; they mount behind the same router
// and call the Guard's AuthorizeTenant before touching farm data.
package transport
