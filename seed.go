package main

import (
	"fmt"
	"os"

	"github.com/deveritt/srcmend/internal/kvconf"
)

// serviceRecord is the registry entry stored per service.
type serviceRecord struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Port       int    `json:"port"`
	HealthPath string `json:"healthPath,omitempty"`
}

// routeRecord is the reverse-proxy entry stored per route.
type routeRecord struct {
	Name       string `json:"name"`
	PathPrefix string `json:"pathPrefix"`
	Upstream   string `json:"upstream"`
}

func runSeed(clearTree bool) {
	if err := runSeedInternal(clearTree); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// runSeedInternal writes the proxy/registry config into the KV store.
// One shot, no retries: any transport error or rejected status aborts.
func runSeedInternal(clearTree bool) error {
	reg := config.Registry
	if len(reg.Services) == 0 && len(reg.Routes) == 0 {
		return fmt.Errorf("seed: no services or routes configured")
	}
	client := kvconf.New(reg.Address, reg.Prefix)

	if clearTree {
		if err := client.DeleteTree(); err != nil {
			return fmt.Errorf("clear %s: %v", reg.Prefix, err)
		}
		fmt.Printf("seed: cleared %s/\n", reg.Prefix)
	}

	for _, s := range reg.Services {
		key := "services/" + s.Name
		rec := serviceRecord{Name: s.Name, Address: s.Address, Port: s.Port, HealthPath: s.HealthPath}
		if err := client.Put(key, rec); err != nil {
			return fmt.Errorf("put %s: %v", key, err)
		}
		fmt.Printf("  put %s/%s\n", reg.Prefix, key)
	}
	for _, r := range reg.Routes {
		key := "proxy/routes/" + r.Name
		rec := routeRecord{Name: r.Name, PathPrefix: r.PathPrefix, Upstream: r.Upstream}
		if err := client.Put(key, rec); err != nil {
			return fmt.Errorf("put %s: %v", key, err)
		}
		fmt.Printf("  put %s/%s\n", reg.Prefix, key)
	}

	// Read-back pass: every seeded key must decode again, otherwise the
	// store accepted something the proxy cannot consume.
	for _, s := range reg.Services {
		var rec serviceRecord
		if err := client.Get("services/"+s.Name, &rec); err != nil {
			return fmt.Errorf("verify services/%s: %v", s.Name, err)
		}
	}
	for _, r := range reg.Routes {
		var rec routeRecord
		if err := client.Get("proxy/routes/"+r.Name, &rec); err != nil {
			return fmt.Errorf("verify proxy/routes/%s: %v", r.Name, err)
		}
	}

	fmt.Printf("seed: %d service(s), %d route(s) written to %s\n",
		len(reg.Services), len(reg.Routes), reg.Address)
	return nil
}
