// Package cache implements a content-addressed on-disk cache of
// compiled bytecode.ChunkGroups, keyed by a BLAKE2b digest of the
// source bytes and encoded with CBOR, per SPEC_FULL.md §3/§4: a
// natural persistence extension of original_source/src/bytecode/cache.rs's
// in-memory DataCache, which never survives a process exit. Repeated
// runs of an unchanged script skip lexing/parsing/compiling entirely.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/tinta-lang/tinta/core/bignum"
	"github.com/tinta-lang/tinta/core/bytecode"
	"github.com/tinta-lang/tinta/core/value"
)

// Cache reads and writes compiled ChunkGroups under a directory on
// disk, one file per distinct source digest.
type Cache struct {
	dir string
}

// New returns a Cache rooted at dir, creating it if absent.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// DefaultDir returns the platform cache directory's "tinta/bytecode"
// subdirectory, matching the teacher's preference for os.UserCacheDir
// over a hardcoded dotfile path.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "tinta", "bytecode"), nil
}

// Key content-addresses src to a filesystem-safe, human-typeable
// string: the first 16 bytes of a keyless BLAKE2b-256 digest of the
// source bytes, base58
// encoded (teacher's core/sdk/secret alphabet, generalized from the
// teacher's fixed 8-byte EncodeBase58 to an arbitrary-length digest —
// see encodeBase58 below).
func Key(src []byte) string {
	sum := blake2b.Sum256(src)
	return encodeBase58(sum[:16])
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".tntc")
}

// Load returns the cached ChunkGroup for src, or ok=false on a cache
// miss (file absent, unreadable, or undecodable — any such failure is
// treated as a miss, never a fatal error, since the cache is purely an
// optimization over recompiling).
func (c *Cache) Load(src []byte) (*bytecode.ChunkGroup, bool) {
	raw, err := os.ReadFile(c.path(Key(src)))
	if err != nil {
		return nil, false
	}
	var w groupWire
	if err := cbor.Unmarshal(raw, &w); err != nil {
		return nil, false
	}
	g, err := w.toGroup()
	if err != nil {
		return nil, false
	}
	return g, true
}

// Store persists g under src's content-addressed key.
func (c *Cache) Store(src []byte, g *bytecode.ChunkGroup) error {
	w, err := fromGroup(g)
	if err != nil {
		return err
	}
	raw, err := cbor.Marshal(w)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	tmp := c.path(Key(src)) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("cache: write: %w", err)
	}
	return os.Rename(tmp, c.path(Key(src)))
}

// --- CBOR wire representation ---
//
// ChunkGroup holds value.Value constants (an interface), which cbor
// cannot encode directly without registering every concrete type. Since
// the compiler only ever puts Number/AgalString/Boolean/Null/Never
// values into a constant pool (runtime/compiler/compiler.go's
// emitConstant/emitNameOp call sites), the wire form narrows Value down
// to a small tagged struct instead of carrying the interface across the
// boundary.

type constWire struct {
	Kind string // "number", "string", "boolean", "null", "never"
	Str  string // number: bignum literal text; string: raw text
	Bool bool
}

func fromConstant(v value.Value) (constWire, error) {
	switch c := v.(type) {
	case *value.Number:
		return constWire{Kind: "number", Str: c.Value.String()}, nil
	case *value.AgalString:
		return constWire{Kind: "string", Str: c.Value}, nil
	case *value.Boolean:
		return constWire{Kind: "boolean", Bool: c.Value}, nil
	case *value.Null:
		return constWire{Kind: "null"}, nil
	case *value.Never:
		return constWire{Kind: "never"}, nil
	default:
		return constWire{}, fmt.Errorf("cache: unsupported constant type %s", v.Type())
	}
}

func (w constWire) toConstant() (value.Value, error) {
	switch w.Kind {
	case "number":
		n, err := bignum.ParseNumber(w.Str)
		if err != nil {
			return nil, fmt.Errorf("cache: decode number %q: %w", w.Str, err)
		}
		return value.NewNumber(n), nil
	case "string":
		return value.NewString(w.Str), nil
	case "boolean":
		return value.NewBoolean(w.Bool), nil
	case "null":
		return value.NewNull(), nil
	case "never":
		return value.NewNever(), nil
	default:
		return nil, fmt.Errorf("cache: unknown constant kind %q", w.Kind)
	}
}

type chunkWire struct {
	Code      []byte
	Lines     []int
	Constants []constWire
}

type paramWire struct {
	Name     string
	Variadic bool
	HasDef   bool
	Default  *groupWire
}

type fnWire struct {
	Name   string
	Params []paramWire
	Body   groupWire
	Async  bool
}

type methodWire struct {
	Name   string
	Public bool
	Static bool
	Fn     fnWire
}

type fieldWire struct {
	Name   string
	Public bool
	Init   groupWire
}

type classWire struct {
	Name    string
	Extends string
	Methods []methodWire
	Fields  []fieldWire
}

type groupWire struct {
	Chunks    []chunkWire
	Functions []fnWire
	Classes   []classWire
}

func fromGroup(g *bytecode.ChunkGroup) (groupWire, error) {
	w := groupWire{}
	for _, c := range g.Chunks {
		cw := chunkWire{Code: c.Code, Lines: c.Lines}
		for _, k := range c.Constants {
			kw, err := fromConstant(k)
			if err != nil {
				return groupWire{}, err
			}
			cw.Constants = append(cw.Constants, kw)
		}
		w.Chunks = append(w.Chunks, cw)
	}
	for _, fp := range g.Functions {
		fw, err := fromFunctionProto(fp)
		if err != nil {
			return groupWire{}, err
		}
		w.Functions = append(w.Functions, fw)
	}
	for _, cp := range g.Classes {
		cw, err := fromClassProto(cp)
		if err != nil {
			return groupWire{}, err
		}
		w.Classes = append(w.Classes, cw)
	}
	return w, nil
}

func fromFunctionProto(fp *bytecode.FunctionProto) (fnWire, error) {
	body, err := fromGroup(fp.Body)
	if err != nil {
		return fnWire{}, err
	}
	fw := fnWire{Name: fp.Name, Body: body, Async: fp.Async}
	for _, p := range fp.Params {
		pw := paramWire{Name: p.Name, Variadic: p.Variadic}
		if p.Default != nil {
			dg, err := fromGroup(p.Default)
			if err != nil {
				return fnWire{}, err
			}
			pw.HasDef = true
			pw.Default = &dg
		}
		fw.Params = append(fw.Params, pw)
	}
	return fw, nil
}

func fromClassProto(cp *bytecode.ClassProto) (classWire, error) {
	cw := classWire{Name: cp.Name, Extends: cp.Extends}
	for _, m := range cp.Methods {
		fw, err := fromFunctionProto(m.Fn)
		if err != nil {
			return classWire{}, err
		}
		cw.Methods = append(cw.Methods, methodWire{Name: m.Name, Public: m.Public, Static: m.Static, Fn: fw})
	}
	for _, f := range cp.Fields {
		ig, err := fromGroup(f.Init)
		if err != nil {
			return classWire{}, err
		}
		cw.Fields = append(cw.Fields, fieldWire{Name: f.Name, Public: f.Public, Init: ig})
	}
	return cw, nil
}

func (w groupWire) toGroup() (*bytecode.ChunkGroup, error) {
	g := &bytecode.ChunkGroup{}
	for _, cw := range w.Chunks {
		c := &bytecode.Chunk{Code: cw.Code, Lines: cw.Lines}
		for _, kw := range cw.Constants {
			v, err := kw.toConstant()
			if err != nil {
				return nil, err
			}
			c.Constants = append(c.Constants, v)
		}
		g.Chunks = append(g.Chunks, c)
	}
	if len(g.Chunks) == 0 {
		return bytecode.NewChunkGroup(), nil
	}
	g.RebuildOffsets()
	for _, fw := range w.Functions {
		fp, err := fw.toFunctionProto()
		if err != nil {
			return nil, err
		}
		g.Functions = append(g.Functions, fp)
	}
	for _, cw := range w.Classes {
		cp, err := cw.toClassProto()
		if err != nil {
			return nil, err
		}
		g.Classes = append(g.Classes, cp)
	}
	return g, nil
}

func (w fnWire) toFunctionProto() (*bytecode.FunctionProto, error) {
	body, err := w.Body.toGroup()
	if err != nil {
		return nil, err
	}
	fp := &bytecode.FunctionProto{Name: w.Name, Body: body, Async: w.Async}
	for _, pw := range w.Params {
		p := bytecode.ParamProto{Name: pw.Name, Variadic: pw.Variadic}
		if pw.HasDef && pw.Default != nil {
			dg, err := pw.Default.toGroup()
			if err != nil {
				return nil, err
			}
			p.Default = dg
		}
		fp.Params = append(fp.Params, p)
	}
	return fp, nil
}

func (w classWire) toClassProto() (*bytecode.ClassProto, error) {
	cp := &bytecode.ClassProto{Name: w.Name, Extends: w.Extends}
	for _, mw := range w.Methods {
		fp, err := mw.Fn.toFunctionProto()
		if err != nil {
			return nil, err
		}
		cp.Methods = append(cp.Methods, bytecode.MethodProto{Name: mw.Name, Public: mw.Public, Static: mw.Static, Fn: fp})
	}
	for _, fw := range w.Fields {
		ig, err := fw.Init.toGroup()
		if err != nil {
			return nil, err
		}
		cp.Fields = append(cp.Fields, bytecode.FieldProto{Name: fw.Name, Public: fw.Public, Init: ig})
	}
	return cp, nil
}
