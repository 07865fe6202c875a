// Package config loads the JSON stream configuration tsplay runs against:
// a list of named streams, each with a file or UDP input and output
// endpoint. Reload re-runs Load against the same path; there is no
// in-place mutation of a live Config.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the top-level document: one or more streams to pace.
type Config struct {
	Streams []StreamConfig `json:"stream"`
}

// StreamConfig pairs one input endpoint with one output endpoint under a
// name used for logging and SIGHUP-driven reload diffing.
type StreamConfig struct {
	Name   string   `json:"name"`
	Input  Endpoint `json:"input"`
	Output Endpoint `json:"output"`
}

// EndpointType identifies which transport an Endpoint describes.
type EndpointType string

const (
	EndpointFile EndpointType = "file"
	EndpointUDP  EndpointType = "udp"
	EndpointSRT  EndpointType = "srt"
)

// Endpoint is a tagged union over the transports internal/transport
// implements, mirroring original_source/src/config.rs's
// `#[serde(tag = "type")] enum Type { File{path}, Udp{address,port} }`.
// SRT is carried as an additional output-only variant per spec.md §4.6's
// permissible extensions.
type Endpoint struct {
	Type EndpointType

	Path string // file

	Address string // udp, srt
	Port    int    // udp

	StreamID string // srt
}

type endpointProbe struct {
	Type string `json:"type"`
}

type fileEndpoint struct {
	Path string `json:"path"`
}

type udpEndpoint struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

type srtEndpoint struct {
	Address  string `json:"address"`
	StreamID string `json:"streamId,omitempty"`
}

// UnmarshalJSON dispatches on the "type" field to one of the concrete
// endpoint shapes, the Go equivalent of serde's internally-tagged enum.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	var probe endpointProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("config: endpoint: %w", err)
	}

	switch EndpointType(probe.Type) {
	case EndpointFile:
		var v fileEndpoint
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("config: file endpoint: %w", err)
		}
		if v.Path == "" {
			return fmt.Errorf("config: file endpoint missing %q", "path")
		}
		*e = Endpoint{Type: EndpointFile, Path: v.Path}

	case EndpointUDP:
		var v udpEndpoint
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("config: udp endpoint: %w", err)
		}
		if v.Address == "" {
			return fmt.Errorf("config: udp endpoint missing %q", "address")
		}
		if v.Port <= 0 || v.Port > 65535 {
			return fmt.Errorf("config: udp endpoint port %d out of range", v.Port)
		}
		*e = Endpoint{Type: EndpointUDP, Address: v.Address, Port: v.Port}

	case EndpointSRT:
		var v srtEndpoint
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("config: srt endpoint: %w", err)
		}
		if v.Address == "" {
			return fmt.Errorf("config: srt endpoint missing %q", "address")
		}
		*e = Endpoint{Type: EndpointSRT, Address: v.Address, StreamID: v.StreamID}

	default:
		return fmt.Errorf("config: unknown endpoint type %q", probe.Type)
	}
	return nil
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configs with duplicate or empty stream names, or an SRT
// input (the extension transport is output-only, per DESIGN.md).
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Streams))
	for _, s := range c.Streams {
		if s.Name == "" {
			return fmt.Errorf("config: stream entry missing %q", "name")
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("config: duplicate stream name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		if s.Input.Type == EndpointSRT {
			return fmt.Errorf("config: stream %q: srt is an output-only endpoint", s.Name)
		}
	}
	return nil
}
