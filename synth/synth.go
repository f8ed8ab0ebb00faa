// Package synth derives the client method table from the endpoint
// catalog. Synthesis is pure and deterministic: the same catalog always
// produces a behaviorally identical table, independent of call order or
// prior state. Every bound operation runs the same pipeline — argument
// validation, request construction, dispatch, error classification,
// result decoding — which is what makes the blocking and non-blocking
// facades behaviorally identical by construction.
package synth

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/schema"

	"github.com/linekit-go/linekit/catalog"
	"github.com/linekit-go/linekit/dto"
	"github.com/linekit-go/linekit/transport"
)

// queryEncoder turns tagged structs into query and form values.
var queryEncoder = schema.NewEncoder()

// ValidationError reports caller-supplied arguments that violate an
// operation's declared constraints. It is raised before any network I/O
// and is always recoverable by the caller.
type ValidationError struct {
	Endpoint string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate %s: %v", e.Endpoint, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Deps is everything an operation needs at dispatch time. It is
// assembled once per client and shared read-only across calls.
type Deps struct {
	Transport *transport.Client
	Codec     dto.Codec
	API       *url.URL
	Data      *url.URL
	Header    map[string]string
}

// Args carries the caller's arguments into an operation. A fresh Args is
// built per call; operations never retain it.
type Args struct {
	// Path holds one value per path parameter, in template order.
	Path []string
	// Query is an optional schema-tagged struct encoded into the URL.
	Query any
	// Body is the request object for json and form encodings.
	Body any
	// Raw and ContentType feed raw-bytes encodings such as image upload.
	Raw         []byte
	ContentType string
}

// Result is the decoded outcome of one operation: a DTO value for json
// responses, an open Stream for streaming responses, neither for void
// operations.
type Result struct {
	Value  any
	Stream *transport.Stream
}

// Op is one synthesized operation: a descriptor bound to its decoder.
type Op struct {
	desc   catalog.Descriptor
	decode dto.DecodeFunc
}

// Descriptor returns the catalog descriptor this operation was bound from.
func (op *Op) Descriptor() catalog.Descriptor { return op.desc }

// Invoke runs the full call pipeline. Validation failures return a
// *ValidationError before any connection is acquired.
func (op *Op) Invoke(ctx context.Context, deps Deps, args Args) (Result, error) {
	if err := op.validate(args); err != nil {
		return Result{}, err
	}

	req, err := op.buildRequest(deps, args)
	if err != nil {
		return Result{}, err
	}

	if op.desc.Response == catalog.ResponseStream {
		stream, err := deps.Transport.Stream(ctx, req)
		if err != nil {
			return Result{}, err
		}
		return Result{Stream: stream}, nil
	}

	resp, err := deps.Transport.Do(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if err := transport.Classify(resp); err != nil {
		return Result{}, err
	}

	if op.desc.Response == catalog.ResponseJSON {
		body := resp.JSON
		if body == nil {
			body = resp.Raw
		}
		value, err := op.decode(deps.Codec, body)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: value}, nil
	}

	return Result{}, nil
}

func (op *Op) validate(args Args) error {
	if len(args.Path) != len(op.desc.PathParams) {
		return &ValidationError{
			Endpoint: op.desc.Name,
			Err: fmt.Errorf("want %d path arguments, got %d",
				len(op.desc.PathParams), len(args.Path)),
		}
	}
	for i, v := range args.Path {
		if v == "" {
			return &ValidationError{
				Endpoint: op.desc.Name,
				Err:      fmt.Errorf("path argument %q must not be empty", op.desc.PathParams[i]),
			}
		}
	}

	if args.Query != nil {
		if err := dto.Validate(args.Query); err != nil {
			return &ValidationError{Endpoint: op.desc.Name, Err: err}
		}
	}

	switch op.desc.Body {
	case catalog.BodyJSON, catalog.BodyForm:
		if args.Body == nil {
			return &ValidationError{Endpoint: op.desc.Name, Err: fmt.Errorf("missing request body")}
		}
		if err := dto.Validate(args.Body); err != nil {
			return &ValidationError{Endpoint: op.desc.Name, Err: err}
		}
	case catalog.BodyRaw:
		if len(args.Raw) == 0 {
			return &ValidationError{Endpoint: op.desc.Name, Err: fmt.Errorf("missing raw content")}
		}
		if args.ContentType == "" {
			return &ValidationError{Endpoint: op.desc.Name, Err: fmt.Errorf("missing content type")}
		}
	}

	return nil
}

func (op *Op) buildRequest(deps Deps, args Args) (*transport.Request, error) {
	base := deps.API
	if op.desc.Host == catalog.HostData {
		base = deps.Data
	}

	escaped := make([]string, len(args.Path))
	for i, v := range args.Path {
		escaped[i] = url.PathEscape(v)
	}

	target := *base
	target.Path = strings.TrimSuffix(base.Path, "/") + op.desc.FillPath(escaped)

	if args.Query != nil {
		vals := url.Values{}
		if err := queryEncoder.Encode(args.Query, vals); err != nil {
			return nil, fmt.Errorf("%s: encoding query: %w", op.desc.Name, err)
		}
		for key := range vals {
			if !slices.Contains(op.desc.QueryParams, key) {
				return nil, &ValidationError{
					Endpoint: op.desc.Name,
					Err:      fmt.Errorf("query parameter %q is not declared", key),
				}
			}
		}
		target.RawQuery = vals.Encode()
	}

	req := &transport.Request{
		Method: op.desc.Verb,
		URL:    &target,
		Header: make(map[string][]string, len(deps.Header)+1),
	}
	for k, v := range deps.Header {
		req.Header[k] = []string{v}
	}
	if op.desc.RetryKey {
		// Idempotency key so the platform deduplicates a client-side retry.
		req.Header["X-Line-Retry-Key"] = []string{uuid.NewString()}
	}

	switch op.desc.Body {
	case catalog.BodyJSON:
		body, err := deps.Codec.Encode(args.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op.desc.Name, err)
		}
		req.Body = body
		req.ContentType = "application/json"
	case catalog.BodyForm:
		vals := url.Values{}
		if err := queryEncoder.Encode(args.Body, vals); err != nil {
			return nil, fmt.Errorf("%s: encoding form body: %w", op.desc.Name, err)
		}
		req.Body = []byte(vals.Encode())
		req.ContentType = "application/x-www-form-urlencoded"
	case catalog.BodyRaw:
		req.Body = args.Raw
		req.ContentType = args.ContentType
	}

	return req, nil
}

// Table is a complete synthesized method table: exactly one operation
// per catalog descriptor. Tables are immutable after synthesis and are
// swapped whole, never patched, so concurrent readers can never observe
// a partially regenerated surface.
type Table struct {
	ops      map[string]*Op
	order    []string
	manifest Manifest
}

// Synthesize builds the method table for the given catalog. It fails if
// a descriptor declares a result key with no registered decoder, which
// is a catalog defect, not a runtime condition.
func Synthesize(cat *catalog.Catalog) (*Table, error) {
	descriptors := cat.List()
	t := &Table{
		ops:   make(map[string]*Op, len(descriptors)),
		order: make([]string, 0, len(descriptors)),
		manifest: Manifest{
			SourceVersion:    cat.Version(),
			GeneratedVersion: cat.Version(),
		},
	}

	for _, d := range descriptors {
		var decode dto.DecodeFunc
		if d.Response == catalog.ResponseJSON {
			decode = dto.Results[d.Result]
			if decode == nil {
				return nil, &catalog.Error{
					Endpoint: d.Name,
					Reason:   fmt.Sprintf("no decoder registered for result %q", d.Result),
				}
			}
		}

		t.ops[d.Name] = &Op{desc: d, decode: decode}
		t.order = append(t.order, d.Name)
	}

	return t, nil
}

// Lookup returns the operation bound for the given endpoint name.
func (t *Table) Lookup(name string) (*Op, bool) {
	op, ok := t.ops[name]
	return op, ok
}

// Manifest returns the generation marker recorded at synthesis.
func (t *Table) Manifest() Manifest { return t.manifest }

// Names returns the endpoint names in catalog declaration order.
func (t *Table) Names() []string {
	return slices.Clone(t.order)
}

// Len reports the number of bound operations.
func (t *Table) Len() int { return len(t.ops) }
