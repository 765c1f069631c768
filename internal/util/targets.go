package util

import (
	"net"
	"strings"

	"github.com/projectdiscovery/mapcidr"
)

// ExpandTargets expands CIDR blocks into their individual addresses and
// returns the de-duplicated list of hosts in input order
func ExpandTargets(targets []string) ([]string, error) {
	hosts := []string{}
	seen := map[string]struct{}{}

	add := func(host string) {
		if _, ok := seen[host]; !ok {
			seen[host] = struct{}{}
			hosts = append(hosts, host)
		}
	}

	for _, t := range targets {
		t = strings.TrimSpace(t)

		if t == "" {
			continue
		}

		if _, _, err := net.ParseCIDR(t); err != nil {
			add(t)
			continue
		}

		ips, err := mapcidr.IPAddresses(t)

		if err != nil {
			return nil, err
		}

		for _, ip := range ips {
			add(ip)
		}
	}

	return hosts, nil
}
