package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	abierr "github.com/rubiojr/abigen/errors"
)

// The document shapes accepted by Load. JSON input works as well, being a
// subset of YAML.

type fileDoc struct {
	Name    string     `yaml:"name"`
	Aliases []aliasDoc `yaml:"aliases"`
	Classes []classDoc `yaml:"classes"`
}

type graphDoc struct {
	Aliases []aliasDoc `yaml:"aliases"`
	Classes []classDoc `yaml:"classes"`
	Files   []fileDoc  `yaml:"files"`
}

type aliasDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type decoratorDoc struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

type fieldDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type paramDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type methodDoc struct {
	Name       string         `yaml:"name"`
	Static     bool           `yaml:"static"`
	Decorators []decoratorDoc `yaml:"decorators"`
	Params     []paramDoc     `yaml:"params"`
	Returns    string         `yaml:"returns"`
}

type classDoc struct {
	Name       string         `yaml:"name"`
	Extends    string         `yaml:"extends"`
	Implements []string       `yaml:"implements"`
	Decorators []decoratorDoc `yaml:"decorators"`
	Fields     []fieldDoc     `yaml:"fields"`
	Methods    []methodDoc    `yaml:"methods"`
}

// Load reads a declaration graph description from a YAML or JSON file.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse builds a linked Graph from a YAML or JSON description. Top-level
// aliases and classes live in the global scope; each entry of `files` gets
// its own scope nested under it.
func Parse(data []byte) (*Graph, error) {
	var doc graphDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, abierr.New(abierr.PhaseLoad, abierr.KindInvalidInput).
			Detail("malformed graph document").
			Cause(err).
			Build()
	}

	g := New()
	if err := addDecls(g, g.Root(), doc.Aliases, doc.Classes); err != nil {
		return nil, err
	}
	for _, f := range doc.Files {
		if err := addDecls(g, g.File(), f.Aliases, f.Classes); err != nil {
			if f.Name != "" {
				return nil, fmt.Errorf("file %s: %w", f.Name, err)
			}
			return nil, err
		}
	}
	if err := g.Link(); err != nil {
		return nil, err
	}
	return g, nil
}

func addDecls(g *Graph, scope *Scope, aliases []aliasDoc, classes []classDoc) error {
	for _, a := range aliases {
		if a.Name == "" {
			return abierr.InvalidInput(abierr.PhaseLoad, nil, "type alias without a name")
		}
		ref, err := ParseTypeRef(a.Type)
		if err != nil {
			return fmt.Errorf("alias %s: %w", a.Name, err)
		}
		if err := g.AddAlias(scope, &TypeAliasDecl{Name: Ident(a.Name), Type: ref}); err != nil {
			return err
		}
	}
	for _, cd := range classes {
		c, err := buildClass(cd)
		if err != nil {
			return err
		}
		if err := g.AddClass(scope, c); err != nil {
			return err
		}
	}
	return nil
}

func buildClass(cd classDoc) (*ClassDecl, error) {
	if cd.Name == "" {
		return nil, abierr.InvalidInput(abierr.PhaseLoad, nil, "class without a name")
	}
	c := &ClassDecl{
		Name:       Ident(cd.Name),
		Extends:    Ident(cd.Extends),
		Decorators: buildDecorators(cd.Decorators),
	}
	for _, n := range cd.Implements {
		c.Implements = append(c.Implements, Ident(n))
	}
	for _, fd := range cd.Fields {
		f := &FieldDecl{Name: Ident(fd.Name)}
		if fd.Type != "" {
			ref, err := ParseTypeRef(fd.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", cd.Name, fd.Name, err)
			}
			f.Type = &ref
		}
		c.Members = append(c.Members, f)
	}
	for _, md := range cd.Methods {
		m := &MethodDecl{
			Name:       Ident(md.Name),
			Static:     md.Static,
			Decorators: buildDecorators(md.Decorators),
		}
		for _, pd := range md.Params {
			ref, err := ParseTypeRef(pd.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s(%s): %w", cd.Name, md.Name, pd.Name, err)
			}
			m.Params = append(m.Params, Param{Name: Ident(pd.Name), Type: ref})
		}
		if md.Returns != "" {
			ref, err := ParseTypeRef(md.Returns)
			if err != nil {
				return nil, fmt.Errorf("%s.%s return: %w", cd.Name, md.Name, err)
			}
			m.Returns = &ref
		}
		c.Members = append(c.Members, m)
	}
	return c, nil
}

func buildDecorators(docs []decoratorDoc) []Decorator {
	var out []Decorator
	for _, d := range docs {
		dec := Decorator{Kind: DecoratorKindOf(d.Name), Name: d.Name}
		for _, a := range d.Args {
			dec.Args = append(dec.Args, ParseExpr(a))
		}
		out = append(out, dec)
	}
	return out
}
