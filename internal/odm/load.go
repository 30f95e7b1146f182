package odm

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a model definition file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

type fileDef struct {
	Models []modelDef `yaml:"models" toml:"models"`
}

type modelDef struct {
	Name       string     `yaml:"name" toml:"name"`
	Collection string     `yaml:"collection" toml:"collection"`
	Embedded   bool       `yaml:"embedded" toml:"embedded"`
	Extends    string     `yaml:"extends" toml:"extends"`
	Fields     []fieldDef `yaml:"fields" toml:"fields"`
}

type fieldDef struct {
	Name     string    `yaml:"name" toml:"name"`
	DBName   string    `yaml:"dbName" toml:"dbName"`
	Kind     string    `yaml:"kind" toml:"kind"`
	Required bool      `yaml:"required" toml:"required"`
	Unique   bool      `yaml:"unique" toml:"unique"`
	Model    string    `yaml:"model" toml:"model"`
	Of       *fieldDef `yaml:"of" toml:"of"`
}

// LoadFile reads model definitions from a .yaml, .yml or .toml file.
func LoadFile(path string) ([]*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
		format = FormatTOML
	default:
		return nil, fmt.Errorf("unsupported model file %q: expected .yaml, .yml or .toml", path)
	}
	models, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return models, nil
}

// Decode parses model definitions and links references between them.
// Models may reference themselves or models declared later in the file.
func Decode(data []byte, format Format) ([]*Model, error) {
	var def fileDef
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &def)
		if err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decode toml: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return link(def.Models)
}

func link(defs []modelDef) ([]*Model, error) {
	byName := make(map[string]*Model, len(defs))
	models := make([]*Model, 0, len(defs))

	// Pass 1: identities
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: model without a name", ErrInvalidModel)
		}
		if _, dup := byName[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate model %q", ErrInvalidModel, d.Name)
		}
		m := &Model{Name: d.Name, Collection: d.Collection, Embedded: d.Embedded}
		if m.Collection == "" && !m.Embedded {
			m.Collection = snakeCase(d.Name)
		}
		byName[d.Name] = m
		models = append(models, m)
	}

	// Pass 2: fields and inheritance
	for i, d := range defs {
		m := models[i]
		if d.Extends != "" {
			base, ok := byName[d.Extends]
			if !ok {
				return nil, fmt.Errorf("%w: %s extends unknown model %q", ErrInvalidModel, d.Name, d.Extends)
			}
			m.Extends = base
		}
		for _, fd := range d.Fields {
			f, err := linkField(fd, byName)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", d.Name, fd.Name, err)
			}
			m.Fields = append(m.Fields, f)
		}
	}

	for _, m := range models {
		if err := Validate(m); err != nil {
			return nil, err
		}
	}
	return models, nil
}

func linkField(fd fieldDef, byName map[string]*Model) (*Field, error) {
	kind, err := ParseKind(fd.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	f := &Field{
		Name:     fd.Name,
		DBName:   fd.DBName,
		Kind:     kind,
		Required: fd.Required,
		Unique:   fd.Unique,
	}
	switch {
	case kind == KindList:
		if fd.Of == nil {
			return nil, fmt.Errorf("%w: list field needs an element definition in \"of\"", ErrInvalidModel)
		}
		elem, err := linkField(*fd.Of, byName)
		if err != nil {
			return nil, err
		}
		f.Elem = elem
	case kind.IsRelationship():
		target, ok := byName[fd.Model]
		if !ok {
			return nil, fmt.Errorf("%w: unknown model %q", ErrInvalidModel, fd.Model)
		}
		f.Target = target
	}
	return f, nil
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
