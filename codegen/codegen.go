// Package codegen emits Go source for patterns compiled ahead of
// time: the instruction table is baked into the generated file as a
// literal, so the pattern is validated at generation time and costs
// nothing to load.
//
// For a config with Name "Order" the generated file contains
//
//	func OrderFind(input []byte) (start, end int)
//	func OrderMatch(input []byte) bool
//
// backed by a package-level program and a sync.Pool of executors.
package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"os"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/tchlux/regex/nfa"
)

const nfaPath = "github.com/tchlux/regex/nfa"

// Config describes one generated pattern.
type Config struct {
	// Pattern is the regex to compile and bake in.
	Pattern string

	// Package is the package name of the generated file.
	Package string

	// Name is the exported identifier prefix for the generated
	// functions. It must be a valid exported Go identifier.
	Name string
}

func (cfg Config) validate() error {
	if cfg.Package == "" {
		return fmt.Errorf("codegen: empty package name")
	}
	if !token.IsIdentifier(cfg.Name) || !unicode.IsUpper(rune(cfg.Name[0])) {
		return fmt.Errorf("codegen: name %q is not an exported Go identifier", cfg.Name)
	}
	return nil
}

// Generate compiles cfg.Pattern and renders the generated file.
func Generate(cfg Config) ([]byte, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	prog, err := nfa.Compile(cfg.Pattern)
	if err != nil {
		return nil, err
	}

	progName := unexported(cfg.Name) + "Program"
	poolName := unexported(cfg.Name) + "VMs"

	f := jen.NewFile(cfg.Package)
	f.HeaderComment(fmt.Sprintf("Code generated by regex/codegen from pattern %q. DO NOT EDIT.", cfg.Pattern))

	insts := make([]jen.Code, len(prog.Insts))
	for i, in := range prog.Insts {
		d := jen.Dict{
			jen.Id("Op"):   jen.Qual(nfaPath, opName(in.Op)),
			jen.Id("Next"): jen.Lit(int(in.Next)),
			jen.Id("Fail"): jen.Lit(int(in.Fail)),
		}
		if in.Op == nfa.OpByte || in.Op == nfa.OpClassByte || in.Op == nfa.OpClassEnd {
			d[jen.Id("B")] = byteLit(in.B)
		}
		insts[i] = jen.Values(d)
	}

	f.Var().Id(progName).Op("=").Op("&").Qual(nfaPath, "Program").Values(jen.Dict{
		jen.Id("Insts"):     jen.Index().Qual(nfaPath, "Inst").Values(insts...),
		jen.Id("NumGroups"): jen.Lit(prog.NumGroups),
	})

	f.Var().Id(poolName).Op("=").Qual("sync", "Pool").Values(jen.Dict{
		jen.Id("New"): jen.Func().Params().Any().Block(
			jen.Return(jen.Qual(nfaPath, "NewPikeVM").Call(jen.Id(progName))),
		),
	})

	f.Commentf("%sFind returns the bounds of the first match of %q in input,", cfg.Name, cfg.Pattern)
	f.Comment("or (-1, 0) when there is none and (-1, -5) on empty input.")
	f.Func().Id(cfg.Name+"Find").
		Params(jen.Id("input").Index().Byte()).
		Params(jen.Id("start"), jen.Id("end").Int()).
		Block(
			jen.Id("vm").Op(":=").Id(poolName).Dot("Get").Call().Assert(jen.Op("*").Qual(nfaPath, "PikeVM")),
			jen.List(jen.Id("start"), jen.Id("end")).Op("=").Id("vm").Dot("Search").Call(jen.Id("input")),
			jen.Id(poolName).Dot("Put").Call(jen.Id("vm")),
			jen.Return(),
		)

	f.Commentf("%sMatch reports whether %q matches input.", cfg.Name, cfg.Pattern)
	f.Func().Id(cfg.Name+"Match").
		Params(jen.Id("input").Index().Byte()).
		Bool().
		Block(
			jen.List(jen.Id("start"), jen.Id("_")).Op(":=").Id(cfg.Name+"Find").Call(jen.Id("input")),
			jen.Return(jen.Id("start").Op(">=").Lit(0)),
		)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("codegen: rendering %q: %w", cfg.Pattern, err)
	}
	return buf.Bytes(), nil
}

// GenerateFile writes the generated source to path.
func GenerateFile(cfg Config, path string) error {
	src, err := Generate(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, src, 0o644)
}

func opName(op nfa.Op) string {
	switch op {
	case nfa.OpByte:
		return "OpByte"
	case nfa.OpAny:
		return "OpAny"
	case nfa.OpSplit:
		return "OpSplit"
	case nfa.OpClassByte:
		return "OpClassByte"
	case nfa.OpClassEnd:
		return "OpClassEnd"
	}
	return "OpByte"
}

// byteLit renders printable ASCII as a rune literal for readability.
func byteLit(b byte) jen.Code {
	if b >= 0x20 && b < 0x7f {
		return jen.LitRune(rune(b))
	}
	return jen.Lit(int(b))
}

func unexported(name string) string {
	return strings.ToLower(name[:1]) + name[1:]
}
