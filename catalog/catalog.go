// Package catalog holds the canonical, versioned table of Messaging API
// operation descriptors. The catalog is pure data: both client facades are
// synthesized from it, so it is the single source of truth for the API
// surface. A malformed catalog fails at load time, never per call.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// Error reports a malformed or inconsistent catalog. It is fatal at
// load time and never recoverable at call time.
type Error struct {
	Endpoint string
	Reason   string
}

func (e *Error) Error() string {
	if e.Endpoint == "" {
		return "catalog: " + e.Reason
	}
	return fmt.Sprintf("catalog: endpoint %q: %s", e.Endpoint, e.Reason)
}

// Catalog is an immutable snapshot of the API surface at one version.
type Catalog struct {
	version     string
	descriptors []Descriptor
	byName      map[string]int
}

type document struct {
	Version   string       `yaml:"version"`
	Endpoints []Descriptor `yaml:"endpoints"`
}

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(embedded, &doc); err != nil {
		return nil, &Error{Reason: fmt.Sprintf("parsing embedded catalog: %v", err)}
	}

	return New(doc.Version, doc.Endpoints)
}

// New builds a catalog from raw descriptors, validating every field and
// deriving path parameters from the templates. The descriptor slice is
// copied; callers cannot mutate a loaded catalog.
func New(version string, descriptors []Descriptor) (*Catalog, error) {
	if version == "" {
		return nil, &Error{Reason: "missing version"}
	}
	if len(descriptors) == 0 {
		return nil, &Error{Reason: "no endpoints declared"}
	}

	cat := &Catalog{
		version:     version,
		descriptors: make([]Descriptor, len(descriptors)),
		byName:      make(map[string]int, len(descriptors)),
	}

	for i, d := range descriptors {
		if d.Name == "" {
			return nil, &Error{Reason: fmt.Sprintf("endpoint %d: missing name", i)}
		}
		if _, dup := cat.byName[d.Name]; dup {
			return nil, &Error{Endpoint: d.Name, Reason: "duplicate name"}
		}

		switch d.Verb {
		case "GET", "POST", "DELETE":
		default:
			return nil, &Error{Endpoint: d.Name, Reason: fmt.Sprintf("unsupported verb %q", d.Verb)}
		}

		if !strings.HasPrefix(d.Path, "/") {
			return nil, &Error{Endpoint: d.Name, Reason: fmt.Sprintf("path %q must start with /", d.Path)}
		}
		params, err := pathParams(d.Path)
		if err != nil {
			return nil, &Error{Endpoint: d.Name, Reason: err.Error()}
		}
		d.PathParams = params

		if d.Body == "" {
			d.Body = BodyNone
		}
		switch d.Body {
		case BodyNone, BodyJSON, BodyForm, BodyRaw:
		default:
			return nil, &Error{Endpoint: d.Name, Reason: fmt.Sprintf("unknown body encoding %q", d.Body)}
		}

		if d.Response == "" {
			d.Response = ResponseNone
		}
		switch d.Response {
		case ResponseNone, ResponseStream:
			if d.Result != "" {
				return nil, &Error{Endpoint: d.Name, Reason: "result key is only valid for json responses"}
			}
		case ResponseJSON:
			if d.Result == "" {
				return nil, &Error{Endpoint: d.Name, Reason: "json response requires a result key"}
			}
		default:
			return nil, &Error{Endpoint: d.Name, Reason: fmt.Sprintf("unknown response shape %q", d.Response)}
		}
		if d.Response == ResponseStream && d.Verb != "GET" {
			return nil, &Error{Endpoint: d.Name, Reason: "stream responses are only supported on GET"}
		}

		if d.Host == "" {
			d.Host = HostAPI
		}
		switch d.Host {
		case HostAPI, HostData:
		default:
			return nil, &Error{Endpoint: d.Name, Reason: fmt.Sprintf("unknown host %q", d.Host)}
		}

		cat.descriptors[i] = d
		cat.byName[d.Name] = i
	}

	return cat, nil
}

// Version returns the catalog snapshot's version tag. Every descriptor in
// the snapshot shares it.
func (c *Catalog) Version() string { return c.version }

// List returns the descriptors in declaration order. The returned slice
// is a copy.
func (c *Catalog) List() []Descriptor {
	out := make([]Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Lookup returns the descriptor with the given name.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return c.descriptors[i], true
}

// Len reports the number of operations in the snapshot.
func (c *Catalog) Len() int { return len(c.descriptors) }
