package operator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grachmannico95/topup-gateway/internal/config"
	"github.com/grachmannico95/topup-gateway/internal/domain"
)

// Registry selects the dispatcher for an operator id.
type Registry struct {
	dispatchers map[domain.OperatorID]Dispatcher
}

func NewRegistry(dispatchers map[domain.OperatorID]Dispatcher) *Registry {
	return &Registry{dispatchers: dispatchers}
}

func (r *Registry) Get(id domain.OperatorID) (Dispatcher, bool) {
	d, ok := r.dispatchers[id]
	return d, ok
}

// NewRegistryFromConfig builds an adapter for every enabled operator.
func NewRegistryFromConfig(operators map[string]config.OperatorConfig) (*Registry, error) {
	dispatchers := make(map[domain.OperatorID]Dispatcher)

	for name, oc := range operators {
		if !oc.Enabled {
			continue
		}

		id := domain.OperatorID(oc.ID)
		proxy := NewProxy(oc.BaseURL, oc.Timeout)

		switch id {
		case domain.OperatorMCI:
			dispatchers[id] = NewMCI(proxy, oc.Username, oc.Password)
		case domain.OperatorMTN:
			vendors := make(map[string]Vendor, len(oc.Vendors))
			for key, vc := range oc.Vendors {
				v := Vendor{
					Name:     vc.Name,
					Proxy:    proxy,
					Username: vc.Username,
					Password: vc.Password,
				}
				if v.Name == "" {
					v.Name = key
				}
				if vc.BaseURL != "" {
					v.Proxy = NewProxy(vc.BaseURL, oc.Timeout)
				}
				if v.Username == "" {
					v.Username, v.Password = oc.Username, oc.Password
				}
				vendors[strings.ToLower(key)] = v
			}
			dispatchers[id] = NewMTN(vendors, defaultMTNVendor(vendors))
		case domain.OperatorJiring:
			dispatchers[id] = NewJiring(proxy, oc.Username, oc.Password)
		case domain.OperatorRightel:
			dispatchers[id] = NewRightel(proxy, oc.Username, oc.Password)
		default:
			return nil, fmt.Errorf("no adapter for operator %s (id %d)", name, oc.ID)
		}
	}

	return NewRegistry(dispatchers), nil
}

// defaultMTNVendor prefers MTN's own credentials, then the first vendor by name.
func defaultMTNVendor(vendors map[string]Vendor) string {
	if _, ok := vendors["mtn"]; ok {
		return "mtn"
	}
	if len(vendors) == 0 {
		return ""
	}
	names := make([]string, 0, len(vendors))
	for name := range vendors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0]
}
