package core

import "strings"

const ScriptSuffix = ".js"

type Artifact struct {
	Name  string
	Asset Asset
}

func IsScriptAsset(name string) bool {
	return strings.HasSuffix(name, ScriptSuffix)
}

// ResolveAssets returns the script artifacts of an entry in the order the
// graph lists them. An unknown entry yields nil. Listed assets that are not
// scripts or have no content are skipped.
func ResolveAssets(g *Graph, entryName string) []Artifact {
	if g == nil {
		return nil
	}
	entry, ok := g.Entrypoints[entryName]
	if !ok {
		return nil
	}

	var artifacts []Artifact
	for _, ref := range entry.Assets {
		if !IsScriptAsset(ref.Name) {
			continue
		}
		asset, ok := g.Assets[ref.Name]
		if !ok || asset == nil {
			continue
		}
		artifacts = append(artifacts, Artifact{Name: ref.Name, Asset: asset})
	}
	return artifacts
}

const artifactSeparator = "\n;\n"

// ConcatSources joins artifact sources in order. The separator ends any
// trailing line comment or unterminated statement of the previous artifact.
func ConcatSources(artifacts []Artifact) string {
	var sb strings.Builder
	for i, artifact := range artifacts {
		if i > 0 {
			sb.WriteString(artifactSeparator)
		}
		sb.WriteString(artifact.Asset.Source())
	}
	return sb.String()
}

func ArtifactNames(artifacts []Artifact) []string {
	names := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		names = append(names, artifact.Name)
	}
	return names
}
