package core

import (
	"encoding/json"
	"fmt"
)

type AssetRef struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts both `{"name": "main.js"}` and the bare string
// form older bundlers emit.
func (a *AssetRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		a.Name = name
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("asset reference must be a string or an object with a name: %w", err)
	}
	a.Name = obj.Name
	return nil
}

type Entrypoint struct {
	Name   string     `json:"name,omitempty"`
	Assets []AssetRef `json:"assets"`
}

type Stats struct {
	OutputPath  string                `json:"outputPath,omitempty"`
	Entrypoints map[string]Entrypoint `json:"entrypoints"`
}

func ParseStats(data []byte) (*Stats, error) {
	var s Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// AssetNames lists every asset referenced by any entrypoint, each once.
func (s *Stats) AssetNames() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, entry := range s.Entrypoints {
		for _, ref := range entry.Assets {
			if ref.Name == "" || seen[ref.Name] {
				continue
			}
			seen[ref.Name] = true
			names = append(names, ref.Name)
		}
	}
	return names
}

// Asset gives access to the content of one emitted file.
type Asset interface {
	Source() string
}

type RawSource string

func (s RawSource) Source() string {
	return string(s)
}

// Graph is a read-only snapshot of a build: entrypoints with their ordered
// asset names, and the subset of assets whose content is available.
type Graph struct {
	Entrypoints map[string]Entrypoint
	Assets      map[string]Asset
}

func NewGraph(stats *Stats, assets map[string]Asset) *Graph {
	g := &Graph{
		Entrypoints: map[string]Entrypoint{},
		Assets:      assets,
	}
	if stats != nil && stats.Entrypoints != nil {
		g.Entrypoints = stats.Entrypoints
	}
	if g.Assets == nil {
		g.Assets = map[string]Asset{}
	}
	return g
}
