package graphql

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"gopkg.in/yaml.v3"

	"github.com/syssam/daogen/compiler/gen"
)

// gqlgen marshalers bound to the built-in scalars the schema uses.
const (
	gqlgenTime   = "github.com/99designs/gqlgen/graphql.Time"
	gqlgenID     = "github.com/99designs/gqlgen/graphql.ID"
	gqlgenUint32 = "github.com/99designs/gqlgen/graphql.Uint32"
)

// WithConfigPath makes the extension record the schema and its model
// bindings in the gqlgen.yml at path, so that gqlgen reuses the generated
// row structs instead of generating its own models. Keys already in the file
// are kept. The file is created if missing.
//
// Bindings use the configured package, which should then be a full import
// path. Bytes and Decimal scalars are left for the caller to bind.
func WithConfigPath(path string) ExtensionOption {
	return func(e *Extension) error {
		if path == "" {
			return errors.New("graphql: empty gqlgen config path")
		}
		e.gqlgen = path
		return nil
	}
}

// Bindings returns the gqlgen model bindings of g, keyed by GraphQL type.
func (e *Extension) Bindings(g *gen.Graph) map[string][]string {
	models := make(map[string][]string)
	for _, def := range e.document(g).Definitions {
		switch {
		case def.Kind == ast.Object:
			models[def.Name] = []string{g.Package + "." + def.Name}
			for _, f := range def.Fields {
				if f.Type.Name() == "ID" {
					models["ID"] = []string{gqlgenID, gqlgenUint32}
				}
			}
		case def.Kind == ast.Scalar && def.Name == ScalarTime:
			models[ScalarTime] = []string{gqlgenTime}
		}
	}
	return models
}

// writeConfig merges the bindings of g and the schema written at
// schemaPath into the gqlgen config file.
func (e *Extension) writeConfig(g *gen.Graph, schemaPath string) error {
	doc, err := readConfig(e.gqlgen)
	if err != nil {
		return err
	}
	root := doc.Content[0]
	rel, err := filepath.Rel(filepath.Dir(e.gqlgen), schemaPath)
	if err != nil {
		rel = schemaPath
	}
	addSchema(root, filepath.ToSlash(rel))

	models := mapValue(root, "models")
	bindings := e.Bindings(g)
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		bindModel(mapValue(models, name), bindings[name])
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("graphql: encoding gqlgen config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("graphql: encoding gqlgen config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(e.gqlgen), 0o755); err != nil {
		return fmt.Errorf("graphql: creating gqlgen config directory: %w", err)
	}
	if err := os.WriteFile(e.gqlgen, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("graphql: writing gqlgen config: %w", err)
	}
	if g.Logger != nil {
		g.Logger.Info("gqlgen config updated", "path", e.gqlgen, "models", len(names))
	}
	return nil
}

// readConfig returns the document node of the config file at path, or an
// empty mapping document if there is none.
func readConfig(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("graphql: reading gqlgen config: %w", err)
	}
	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("graphql: parsing gqlgen config: %w", err)
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("graphql: gqlgen config %s is not a mapping", path)
	}
	return &doc, nil
}

// mapValue returns the value of key in the mapping m, adding an empty
// mapping when the key is absent or not a mapping.
func mapValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			if v := m.Content[i+1]; v.Kind == yaml.MappingNode {
				return v
			}
			m.Content[i+1] = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			return m.Content[i+1]
		}
	}
	v := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content, scalar(key), v)
	return v
}

// addSchema adds path to the "schema" entry, which gqlgen accepts as a
// string or a list.
func addSchema(root *yaml.Node, path string) {
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "schema" {
			root.Content[i+1] = appendList(root.Content[i+1], path)
			return
		}
	}
	root.Content = append(root.Content, scalar("schema"), list(path))
}

// bindModel adds models to the "model" entry of a type binding.
func bindModel(entry *yaml.Node, models []string) {
	for i := 0; i+1 < len(entry.Content); i += 2 {
		if entry.Content[i].Value == "model" {
			v := entry.Content[i+1]
			for _, m := range models {
				v = appendList(v, m)
			}
			entry.Content[i+1] = v
			return
		}
	}
	entry.Content = append(entry.Content, scalar("model"), list(models...))
}

// appendList returns v, a scalar or a sequence, with s added unless present.
func appendList(v *yaml.Node, s string) *yaml.Node {
	switch v.Kind {
	case yaml.ScalarNode:
		if v.Value == s {
			return v
		}
		return list(v.Value, s)
	case yaml.SequenceNode:
		for _, item := range v.Content {
			if item.Value == s {
				return v
			}
		}
		v.Content = append(v.Content, scalar(s))
		return v
	default:
		return list(s)
	}
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func list(items ...string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, s := range items {
		n.Content = append(n.Content, scalar(s))
	}
	return n
}
