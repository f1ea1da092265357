package config

import (
	"net/url"
	"strings"
)

// Hosts are the REST and socket endpoints of an application.
type Hosts struct {
	RESTHost   string
	SocketHost string
}

// ResolveHosts derives the endpoints from the page URL. A localhost page
// talks plain http/ws to its own host; anything else goes to the api-
// subdomain over TLS.
func ResolveHosts(u *url.URL) Hosts {
	if u == nil || u.Host == "" {
		return Hosts{}
	}
	if u.Hostname() == "localhost" {
		return Hosts{
			RESTHost:   "http://" + u.Host,
			SocketHost: "ws://" + u.Host + "/cable",
		}
	}
	return Hosts{
		RESTHost:   "https://api-" + u.Host,
		SocketHost: "wss://api-" + u.Host + "/cable",
	}
}

// Hosts resolves AppURL, letting SocketURL override the socket endpoint.
func (c *Config) Hosts() (Hosts, error) {
	var hosts Hosts
	if strings.TrimSpace(c.AppURL) != "" {
		u, err := url.Parse(c.AppURL)
		if err != nil {
			return Hosts{}, err
		}
		hosts = ResolveHosts(u)
	}
	if c.SocketURL != "" {
		hosts.SocketHost = c.SocketURL
	}
	return hosts, nil
}
