// Package api handles incoming HTTP requests for the users resource: request
// validation, response formatting and error mapping. It acts as an adapter
// between external clients and the user service.
//
// Routes are declared once, in the catalog returned by Routes. Each entry
// carries its authentication policy, and both the router (Register) and the
// OpenAPI document (BuildOpenAPI) are built from that catalog.
package api
