package carrier

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// Registry holds the configured carrier clients and implements CarrierResolver.
// Selection order follows registration order, so the composition root decides
// carrier preference by how it builds the registry.
type Registry struct {
	clients []ports.CarrierClient
	byName  map[kernel.Carrier]ports.CarrierClient
}

// NewRegistry creates a registry over the given clients.
func NewRegistry(clients ...ports.CarrierClient) *Registry {
	byName := make(map[kernel.Carrier]ports.CarrierClient, len(clients))
	for _, client := range clients {
		byName[client.Carrier()] = client
	}
	return &Registry{clients: clients, byName: byName}
}

// Resolve returns the client for the given carrier.
func (r *Registry) Resolve(carrier kernel.Carrier) (ports.CarrierClient, error) {
	client, ok := r.byName[carrier]
	if !ok {
		return nil, errs.NewObjectNotFoundError("carrier", carrier.String())
	}
	return client, nil
}

// Select returns the first registered client that supports the shipping
// method and serves the destination country.
func (r *Registry) Select(method string, country string) (ports.CarrierClient, error) {
	for _, client := range r.clients {
		if client.SupportsMethod(method) && client.ServesCountry(country) {
			return client, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("carrier", method+"/"+country)
}
