package catalog

import (
	"fmt"
	"strings"
)

// BodyEncoding names how a request body is serialized on the wire.
type BodyEncoding string

const (
	BodyNone BodyEncoding = "none"
	BodyJSON BodyEncoding = "json"
	BodyForm BodyEncoding = "form"
	BodyRaw  BodyEncoding = "raw"
)

// ResponseShape names how a successful response body is consumed.
type ResponseShape string

const (
	ResponseNone   ResponseShape = "none"
	ResponseJSON   ResponseShape = "json"
	ResponseStream ResponseShape = "stream"
)

// Host selects which base endpoint an operation is dispatched against.
// Content and media operations live on a separate data host.
type Host string

const (
	HostAPI  Host = "api"
	HostData Host = "data"
)

// Descriptor is one operation of the canonical API surface. Descriptors
// are immutable once a catalog is loaded; identity is Name.
type Descriptor struct {
	Name        string        `yaml:"name" json:"name"`
	Verb        string        `yaml:"verb" json:"verb"`
	Path        string        `yaml:"path" json:"path"`
	QueryParams []string      `yaml:"query,omitempty" json:"query,omitempty"`
	Body        BodyEncoding  `yaml:"body,omitempty" json:"body,omitempty"`
	Response    ResponseShape `yaml:"response,omitempty" json:"response,omitempty"`
	Result      string        `yaml:"result,omitempty" json:"result,omitempty"`
	Host        Host          `yaml:"host,omitempty" json:"host,omitempty"`
	RetryKey    bool          `yaml:"retryKey,omitempty" json:"retryKey,omitempty"`

	// PathParams is derived from the path template at load time,
	// in template order.
	PathParams []string `yaml:"-" json:"pathParams,omitempty"`
}

// pathParams extracts {placeholder} names from a path template in order.
// A malformed template (unbalanced or empty braces) returns an error.
func pathParams(template string) ([]string, error) {
	var params []string
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return nil, fmt.Errorf("unbalanced '}' in %q", template)
			}
			return params, nil
		}
		rest = rest[open+1:]
		closing := strings.IndexByte(rest, '}')
		if closing < 0 {
			return nil, fmt.Errorf("unbalanced '{' in %q", template)
		}
		name := rest[:closing]
		if name == "" {
			return nil, fmt.Errorf("empty placeholder in %q", template)
		}
		params = append(params, name)
		rest = rest[closing+1:]
	}
}

// FillPath substitutes args into the descriptor's path template in order.
// Args must already be path-escaped by the caller.
func (d Descriptor) FillPath(args []string) string {
	path := d.Path
	for i, name := range d.PathParams {
		path = strings.Replace(path, "{"+name+"}", args[i], 1)
	}
	return path
}
