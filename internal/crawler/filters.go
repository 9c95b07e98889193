package crawler

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Filters decides which extracted link targets are worth keeping. The
// lists are configuration: a hostname must end in one of the allowed TLD
// suffixes, and neither the path nor the raw candidate may contain a
// forbidden extension substring.
type Filters struct {
	AllowedTLDs         []string `yaml:"allowed_tlds"`
	ForbiddenExtensions []string `yaml:"forbidden_extensions"`
}

var defaultAllowedTLDs = []string{
	".com", ".net", ".org", ".edu", ".gov", ".mil", ".int",
	".io", ".co", ".info", ".biz",
	".us", ".uk", ".ca", ".au", ".de", ".fr", ".nl", ".it", ".es",
	".se", ".no", ".ch", ".at", ".be", ".pl", ".cz", ".ru", ".ua",
	".jp", ".cn", ".kr", ".in", ".br", ".mx", ".ar", ".za", ".nz",
}

var defaultForbiddenExtensions = []string{
	".css", ".pdf", ".png", ".jpeg", ".jpg", ".ico",
}

// DefaultFilters returns the built-in allow and deny lists.
func DefaultFilters() *Filters {
	return &Filters{
		AllowedTLDs:         defaultAllowedTLDs,
		ForbiddenExtensions: defaultForbiddenExtensions,
	}
}

// LoadFilters reads a YAML filter file. Lists left empty in the file fall
// back to the defaults.
func LoadFilters(path string) (*Filters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filters file: %w", err)
	}
	var f Filters
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse filters file: %w", err)
	}
	if len(f.AllowedTLDs) == 0 {
		f.AllowedTLDs = defaultAllowedTLDs
	}
	if len(f.ForbiddenExtensions) == 0 {
		f.ForbiddenExtensions = defaultForbiddenExtensions
	}
	return &f, nil
}

// Allow reports whether a resolved link target passes the filters. An
// empty host passes the TLD check since it resolves onto the base host.
func (f *Filters) Allow(host, path, candidate string) bool {
	if host != "" && !f.allowedTLD(host) {
		return false
	}
	if f.forbiddenExtension(path) || f.forbiddenExtension(candidate) {
		return false
	}
	return true
}

func (f *Filters) allowedTLD(host string) bool {
	for _, tld := range f.AllowedTLDs {
		if strings.HasSuffix(host, tld) {
			return true
		}
	}
	return false
}

func (f *Filters) forbiddenExtension(s string) bool {
	for _, ext := range f.ForbiddenExtensions {
		if strings.Contains(s, ext) {
			return true
		}
	}
	return false
}
