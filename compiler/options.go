package compiler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rubiojr/abigen/abi"
	abierr "github.com/rubiojr/abigen/errors"
	"github.com/rubiojr/abigen/typeinfo"
)

// TableDefaults is the index and key metadata stamped on every table.
type TableDefaults struct {
	IndexType string   `yaml:"index_type"`
	KeyNames  []string `yaml:"key_names"`
	KeyTypes  []string `yaml:"key_types"`
}

// Options configures an assembly session.
type Options struct {
	// Version is the document's version tag.
	Version string `yaml:"version"`
	// ContractBase is the ancestor name that marks a class as a contract.
	ContractBase string `yaml:"contract_base"`
	// SerializableName is the interface whose implementors pass their
	// fields on to descendants' structs.
	SerializableName string `yaml:"serializable"`
	// Table holds the table defaults.
	Table TableDefaults `yaml:"table"`
	// MaxDepth bounds alias chains and ancestor chains.
	MaxDepth int `yaml:"max_depth"`
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Version:          abi.DefaultVersion,
		ContractBase:     "Contract",
		SerializableName: "Serializable",
		Table: TableDefaults{
			IndexType: "i64",
			KeyNames:  []string{"currency"},
			KeyTypes:  []string{"uint64"},
		},
		MaxDepth: typeinfo.DefaultMaxAliasDepth,
	}
}

// LoadOptions reads a YAML options file. Keys absent from the file keep
// their default values.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, abierr.New(abierr.PhaseLoad, abierr.KindInvalidInput).
			Path(path).
			Detail("malformed config").
			Cause(err).
			Build()
	}
	return opts.withDefaults(), nil
}

// withDefaults fills zero values with the stock configuration.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Version == "" {
		o.Version = d.Version
	}
	if o.ContractBase == "" {
		o.ContractBase = d.ContractBase
	}
	if o.SerializableName == "" {
		o.SerializableName = d.SerializableName
	}
	if o.Table.IndexType == "" {
		o.Table.IndexType = d.Table.IndexType
	}
	if o.Table.KeyNames == nil {
		o.Table.KeyNames = d.Table.KeyNames
	}
	if o.Table.KeyTypes == nil {
		o.Table.KeyTypes = d.Table.KeyTypes
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = d.MaxDepth
	}
	return o
}
