package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned by ParsePayload for well-formed JSON that is not an object.
var ErrNotObject = errors.New("payload is not a JSON object")

// Payload is a decoded JSON object that remembers the order its keys arrived in.
// A repeated key keeps its first position and its last value.
type Payload struct {
	values map[string]any
	keys   []string
}

// NewPayload returns an empty payload.
func NewPayload() *Payload {
	return &Payload{values: make(map[string]any)}
}

// Set stores a value under key.
func (p *Payload) Set(key string, value any) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key.
func (p *Payload) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the keys in arrival order.
func (p *Payload) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of distinct keys.
func (p *Payload) Len() int {
	return len(p.keys)
}

// Head returns a payload holding the first n keys.
func (p *Payload) Head(n int) *Payload {
	head := NewPayload()
	for i, k := range p.keys {
		if i >= n {
			break
		}
		head.Set(k, p.values[k])
	}
	return head
}

// MarshalJSON writes the object with keys in arrival order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParsePayload decodes a JSON object, keeping key order. Numbers decode as float64.
// Malformed JSON yields a decode error; any other JSON value yields ErrNotObject.
func ParsePayload(data []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		if err := drain(dec); err != nil {
			return nil, err
		}
		return nil, ErrNotObject
	}

	p := NewPayload()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode payload: unexpected key %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		p.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode payload: trailing data after object")
	}
	return p, nil
}

// drain consumes the rest of a non-object document so malformed input is still
// reported as a decode error.
func drain(dec *json.Decoder) error {
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}
}
