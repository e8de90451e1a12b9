package interfaces

import "context"

// -----------------------------------------------------------------------------
// INetworkManager defines the contract for authenticated JSON requests to the backend.
// -----------------------------------------------------------------------------

type INetworkManager interface {

	// -----------------------------------------------------------------------------

	// Do sends a request to path (relative to the backend base URL) with
	// optional query params and a JSON body. Returns the response body on 2xx
	// or a typed *helpers.MilkAdminError otherwise.
	Do(ctx context.Context, method, path string, params map[string]string, body interface{}) ([]byte, error)
}
