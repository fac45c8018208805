package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/rubiojr/abigen/abi"
	"github.com/rubiojr/abigen/abicodec"
	"github.com/rubiojr/abigen/compiler"
	"github.com/rubiojr/abigen/datastream"
	"github.com/rubiojr/abigen/dispatch"
	"github.com/rubiojr/abigen/graph"
)

// Execute runs the abigen CLI with the given version string.
func Execute(version string) {
	cmd := newCommand(version)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(version string) *cli.Command {
	return &cli.Command{
		Name:                   "abigen",
		Usage:                  "Generate contract ABI documents and dispatch routines from a declaration graph",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML options file",
				Sources: cli.EnvVars("ABIGEN_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "abi-version",
				Usage: "Version tag written to the ABI document",
			},
			&cli.StringFlag{
				Name:  "contract-base",
				Usage: "Ancestor class name that marks a contract",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log assembly progress to stderr",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			{
				Name:      "gen",
				Usage:     "Write the ABI document for a declaration graph",
				ArgsUsage: "<graph.yaml>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (default stdout)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json or yaml",
						Value:   "json",
					},
				},
				Action: genAction,
			},
			{
				Name:      "dispatch",
				Usage:     "Print the dispatch routines synthesized for each contract",
				ArgsUsage: "<graph.yaml>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print routines as JSON",
					},
					&cli.BoolFlag{
						Name:    "no-color",
						Aliases: []string{"C"},
						Usage:   "Disable ANSI color output",
					},
				},
				Action: dispatchAction,
			},
			{
				Name:      "encode",
				Usage:     "Encode JSON action arguments to hex wire bytes",
				ArgsUsage: "<action> <json-args>",
				Flags:     []cli.Flag{abiFlag()},
				Action:    encodeAction,
			},
			{
				Name:      "decode",
				Usage:     "Decode hex wire bytes to JSON action arguments",
				ArgsUsage: "<action> <hex>",
				Flags:     []cli.Flag{abiFlag()},
				Action:    decodeAction,
			},
		},
	}
}

func abiFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "abi",
		Aliases:  []string{"a"},
		Usage:    "ABI document (JSON or YAML)",
		Required: true,
	}
}

// options merges the config file, if any, with flag overrides.
func options(cmd *cli.Command) (compiler.Options, error) {
	opts := compiler.DefaultOptions()
	if path := cmd.String("config"); path != "" {
		var err error
		if opts, err = compiler.LoadOptions(path); err != nil {
			return opts, err
		}
	}
	if v := cmd.String("abi-version"); v != "" {
		opts.Version = v
	}
	if v := cmd.String("contract-base"); v != "" {
		opts.ContractBase = v
	}
	return opts, nil
}

func compileGraph(cmd *cli.Command, path string) (*compiler.Result, error) {
	opts, err := options(cmd)
	if err != nil {
		return nil, err
	}
	g, err := graph.Load(path)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(g, opts)
}

func genAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: abigen gen [-o file] [-f json|yaml] <graph.yaml>")
	}
	format, err := abi.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	res, err := compileGraph(cmd, cmd.Args().First())
	if err != nil {
		return err
	}

	path := cmd.String("output")
	if path == "" {
		return res.ABI.Encode(cmd.Root().Writer, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := res.ABI.Encode(f, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func dispatchAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: abigen dispatch [--json] <graph.yaml>")
	}
	res, err := compileGraph(cmd, cmd.Args().First())
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		routines := res.Routines
		if routines == nil {
			routines = []*dispatch.Routine{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(routines)
	}
	return dispatch.Format(out, res.Routines, useColor(cmd, out))
}

// useColor reports whether listing output should be colored: out must be a
// terminal and neither --no-color nor NO_COLOR may be set.
func useColor(cmd *cli.Command, out io.Writer) bool {
	if cmd.Bool("no-color") || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func loadCodec(cmd *cli.Command) (*abicodec.Codec, error) {
	path := cmd.String("abi")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ABI %s: %w", path, err)
	}
	defer f.Close()
	doc, err := abi.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading ABI %s: %w", path, err)
	}
	return abicodec.New(doc), nil
}

func encodeAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 2 {
		return fmt.Errorf("usage: abigen encode --abi <abi.json> <action> <json-args>")
	}
	codec, err := loadCodec(cmd)
	if err != nil {
		return err
	}
	data, err := codec.EncodeAction(cmd.Args().Get(0), []byte(cmd.Args().Get(1)))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "0x%x\n", data)
	return nil
}

func decodeAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 2 {
		return fmt.Errorf("usage: abigen decode --abi <abi.json> <action> <hex>")
	}
	codec, err := loadCodec(cmd)
	if err != nil {
		return err
	}
	data, err := hexArg(cmd.Args().Get(1))
	if err != nil {
		return err
	}
	v, err := codec.DecodeAction(cmd.Args().Get(0), data)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func hexArg(s string) ([]byte, error) {
	b, err := datastream.FromHex(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid hex argument: %w", err)
	}
	return b, nil
}
