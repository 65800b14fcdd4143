package chain

import (
	"fmt"
	"sort"
)

// Contracts are the deployed addresses of one network.
type Contracts struct {
	Depositary string
	Oracle     string
}

// networks is the registry of known deployments.
// Addresses stay empty for networks where the config supplies them directly.
var networks = map[string]Contracts{
	"development": {},
	"ropsten":     {},
	"main":        {},
}

// Resolve picks the depositary address for the named network.
// An address given in the config wins over the registry entry.
func Resolve(network, address string) (string, error) {
	contracts, ok := networks[network]
	if !ok {
		return "", fmt.Errorf("unknown network %q, expected one of %v", network, names())
	}
	if address != "" {
		return address, nil
	}
	if contracts.Depositary == "" {
		return "", fmt.Errorf("no depositary address for network %q", network)
	}
	return contracts.Depositary, nil
}

func names() []string {
	nn := make([]string, 0, len(networks))
	for name := range networks {
		nn = append(nn, name)
	}
	sort.Strings(nn)
	return nn
}
