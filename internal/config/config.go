// Package config loads and validates the party-triangle configuration
// file: one YAML document listing all three parties' network
// identities, shared by every party in a deployment.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/party"
)

// PartyEntry is one row of the config file: a party's identifier,
// addressable DNS name, dial/listen socket address, and the path to
// the DER certificate its peers should pin when connecting to it.
type PartyEntry struct {
	ID         party.ID `yaml:"id"`
	DNSName    string   `yaml:"dns_name"`
	SocketAddr string   `yaml:"socket_addr"`
	CertPath   string   `yaml:"cert_path"`
}

// Config is the full party-triangle configuration: a bare YAML
// sequence of exactly three entries, one per party.ID.
type Config []PartyEntry

// Load reads and validates a config file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "read config file")
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, errs.Wrap(errs.ErrConfig, "parse config file")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the config names exactly the three parties
// ID0, ID1, ID2 with no duplicates and no empty fields.
func (c Config) Validate() error {
	if len(c) != party.NumParties {
		return errs.Wrap(errs.ErrConfig, "config must list exactly three parties")
	}
	seen := make(map[party.ID]bool, party.NumParties)
	for _, p := range c {
		if p.DNSName == "" || p.SocketAddr == "" || p.CertPath == "" {
			return errs.Wrap(errs.ErrConfig, "party entry missing a required field")
		}
		if seen[p.ID] {
			return errs.Wrap(errs.ErrConfig, "duplicate party id in config")
		}
		seen[p.ID] = true
	}
	for _, id := range []party.ID{party.ID0, party.ID1, party.ID2} {
		if !seen[id] {
			return errs.Wrap(errs.ErrConfig, "config is missing a party id")
		}
	}
	return nil
}

// Entry looks up a party's entry by ID.
func (c Config) Entry(id party.ID) (PartyEntry, bool) {
	for _, p := range c {
		if p.ID == id {
			return p, true
		}
	}
	return PartyEntry{}, false
}

// Next returns the entry for the party following self in the
// triangle.
func (c Config) Next(self party.ID) (PartyEntry, bool) {
	return c.Entry(self.Next())
}

// Prev returns the entry for the party preceding self in the
// triangle.
func (c Config) Prev(self party.ID) (PartyEntry, bool) {
	return c.Entry(self.Prev())
}
