// Package api provides the HTTP REST API for BLE Mapper.
//
// It exposes attribute catalog CRUD, log parsing, and sample-data management
// endpoints, plus the embedded landing page.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
