// Package api holds the JSON documents exchanged with the conductor.
package api

import (
	"strings"
)

// ShortIDLength is the number of characters kept from each part of a short bundle id.
const ShortIDLength = 7

// Bundle is one element of the conductor's bundle listing.
type Bundle struct {
	BundleID            string               `json:"bundleId"`
	BundleDigest        string               `json:"bundleDigest,omitempty"`
	ConfigurationDigest string               `json:"configurationDigest,omitempty"`
	Attributes          Attributes           `json:"attributes"`
	BundleConfig        *BundleConfig        `json:"bundleConfig,omitempty"`
	BundleInstallations []BundleInstallation `json:"bundleInstallations"`
	BundleExecutions    []BundleExecution    `json:"bundleExecutions"`
}

// Attributes are the resource requirements and identity a bundle was loaded with.
type Attributes struct {
	BundleName string   `json:"bundleName"`
	System     string   `json:"system,omitempty"`
	NrOfCpus   float64  `json:"nrOfCpus,omitempty"`
	Memory     int64    `json:"memory,omitempty"`
	DiskSpace  int64    `json:"diskSpace,omitempty"`
	Roles      []string `json:"roles,omitempty"`
}

// BundleConfig is the bundle's declared endpoints.
type BundleConfig struct {
	Endpoints map[string]Endpoint `json:"endpoints"`
}

// Endpoint is a named endpoint and the service URIs it is reachable under.
type Endpoint struct {
	BindProtocol string   `json:"bindProtocol,omitempty"`
	BindPort     int      `json:"bindPort,omitempty"`
	Services     []string `json:"services"`
}

// BundleInstallation is a copy of the bundle file on one member of the cluster.
type BundleInstallation struct {
	UniqueAddress UniqueAddress `json:"uniqueAddress"`
	BundleFile    string        `json:"bundleFile"`
}

type UniqueAddress struct {
	Address string `json:"address"`
	UID     int64  `json:"uid"`
}

// BundleExecution is one running (or starting) instance of the bundle.
type BundleExecution struct {
	Host      string                       `json:"host"`
	IsStarted bool                         `json:"isStarted"`
	Endpoints map[string]ExecutionEndpoint `json:"endpoints,omitempty"`
}

type ExecutionEndpoint struct {
	BindPort int `json:"bindPort"`
	HostPort int `json:"hostPort"`
}

// BundleResponse is the reply to load, run and stop requests.
type BundleResponse struct {
	BundleID string `json:"bundleId"`
}

// Replications is the number of cluster members holding the bundle.
func (b *Bundle) Replications() int {
	return len(b.BundleInstallations)
}

// Starting is the number of executions that have not finished starting.
func (b *Bundle) Starting() int {
	n := 0
	for _, e := range b.BundleExecutions {
		if !e.IsStarted {
			n++
		}
	}
	return n
}

// Running is the number of started executions.
func (b *Bundle) Running() int {
	return len(b.BundleExecutions) - b.Starting()
}

// Services lists every service URI of every endpoint, in endpoint name order.
func (b *Bundle) Services() []string {
	if b.BundleConfig == nil {
		return nil
	}
	var services []string
	for _, name := range sortedKeys(b.BundleConfig.Endpoints) {
		services = append(services, b.BundleConfig.Endpoints[name].Services...)
	}
	return services
}

// ShortID truncates each dash separated part of a bundle id:
// "45e0c477d3e5ea92aa8d85c0d8f3e25c-c52e3f8d0c58d8aa29ae5e3d774c0e54" becomes "45e0c47-c52e3f8".
func ShortID(id string) string {
	parts := strings.Split(id, "-")
	for i, p := range parts {
		if len(p) > ShortIDLength {
			parts[i] = p[:ShortIDLength]
		}
	}
	return strings.Join(parts, "-")
}

// DisplayID is the id shown to users, shortened unless long is set.
func DisplayID(id string, long bool) string {
	if long {
		return id
	}
	return ShortID(id)
}
