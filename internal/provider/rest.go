package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"cryptomax/internal/httpx"
)

// restAdapter carries the pieces every HTTP-backed adapter shares. The
// endpoint URL is injected so tests can point adapters at local servers.
type restAdapter struct {
	name    string
	url     string
	headers map[string]string
	client  *httpx.Client
	logger  zerolog.Logger
}

func newRESTAdapter(name, url string, headers map[string]string, client *httpx.Client, logger zerolog.Logger) restAdapter {
	return restAdapter{
		name:    name,
		url:     url,
		headers: headers,
		client:  client,
		logger:  logger.With().Str("component", "provider").Str("provider", name).Logger(),
	}
}

func (r *restAdapter) Name() string { return r.name }

// fetchJSON performs the live request and decodes the top-level object.
// Transport failures map to the fetch stage, malformed bodies to parse.
func (r *restAdapter) fetchJSON(ctx context.Context) (map[string]any, error) {
	body, err := r.client.Get(ctx, r.url, r.headers)
	if err != nil {
		return nil, fetchErr(r.name, err)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, parseErr(r.name, "invalid JSON payload from %s: %w", r.url, err)
	}
	return payload, nil
}

// fetchOrdered is fetchJSON for object-keyed payloads whose member order
// carries meaning: the aggregate must follow the order the upstream emits.
func (r *restAdapter) fetchOrdered(ctx context.Context) (orderedObject, error) {
	body, err := r.client.Get(ctx, r.url, r.headers)
	if err != nil {
		return orderedObject{}, fetchErr(r.name, err)
	}

	var payload orderedObject
	if err := json.Unmarshal(body, &payload); err != nil {
		return orderedObject{}, parseErr(r.name, "invalid JSON payload from %s: %w", r.url, err)
	}
	return payload, nil
}

// orderedObject is a JSON object that remembers the order its members
// appeared in. json.Unmarshal into a map drops that order.
type orderedObject struct {
	keys   []string
	values map[string]json.RawMessage
}

func (o *orderedObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("not a JSON object")
	}

	o.keys = nil
	o.values = make(map[string]json.RawMessage)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key token %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		// Duplicate keys keep their first position, last value wins.
		if _, seen := o.values[key]; !seen {
			o.keys = append(o.keys, key)
		}
		o.values[key] = raw
	}
	_, err = dec.Token()
	return err
}

// object decodes the named member as a nested ordered object. Missing
// members and non-object values both report false.
func (o *orderedObject) object(key string) (orderedObject, bool) {
	raw, ok := o.values[key]
	if !ok {
		return orderedObject{}, false
	}
	var nested orderedObject
	if err := json.Unmarshal(raw, &nested); err != nil {
		return orderedObject{}, false
	}
	return nested, true
}

// member decodes the named member into a plain map, reporting false when
// it is absent or not an object.
func (o *orderedObject) member(key string) (map[string]any, bool) {
	raw, ok := o.values[key]
	if !ok {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}
