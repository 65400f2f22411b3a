package library

import (
	"strings"

	"github.com/tinta-lang/tinta/core/cerr"
	"github.com/tinta-lang/tinta/core/value"
)

// protoModules installs the built-in type prototypes
// (core/value.RegisterTypeProto) that back spec.md §4's instance
// methods — `"hola".partir(",")`, `(3).aCadena()`, a promise's
// already-covered `luego`/`atrapa` — and returns the `:proto/<Type>`
// module objects original_source/src/libraries/proto/{number,string,
// array,promise}.rs expose for explicit `importa ":proto/Numero"`
// style access to the same methods. Each entry is registered exactly
// once, at Registry construction, per spec.md §4.6's instance-property
// fallback contract (core/value.instanceFallback).
func protoModules() map[string]value.Value {
	numero := numberProto()
	cadena := stringProto()
	lista := arrayProto()
	promesa := promiseProto()

	value.RegisterTypeProto("número", numero)
	value.RegisterTypeProto("cadena", cadena)
	value.RegisterTypeProto("arreglo", lista)
	value.RegisterTypeProto("promesa", promesa)

	return map[string]value.Value{
		":proto/Numero":  protoObject(numero),
		":proto/Cadena":  protoObject(cadena),
		":proto/Lista":   protoObject(lista),
		":proto/Promesa": protoObject(promesa),
	}
}

// protoObject exposes a Prototype's own properties as a plain Object,
// the shape an explicit `importa ":proto/Numero"` resolves to.
func protoObject(proto *value.Prototype) value.Value {
	obj := value.NewObject()
	for name, prop := range proto.Properties {
		obj.SetObjectProperty(name, prop.Value)
	}
	return obj
}

// addMethod registers fn in proto under the property name the
// language calls it by (e.g. "aCadena"), while the Function's own Name
// carries a fully qualified diagnostic label (e.g. "proto/Cadena::
// aCadena") for stack traces and console output.
func addMethod(proto *value.Prototype, qualifier, name string, fn value.Invoke) {
	proto.Properties[name] = value.Property{
		Value:  value.NewFunction(qualifier+"::"+name, fn),
		Public: true,
	}
}

// numberProto grounds "aCadena" on
// original_source/src/libraries/proto/number.rs's get_sub_module.
func numberProto() *value.Prototype {
	p := value.NewPrototype(nil)
	addMethod(p, "proto/Numero", "aCadena", func(this value.Value, _ []value.Value) (value.Value, *cerr.Throw) {
		s, err := this.ToAgalString()
		if err != nil {
			return nil, err
		}
		return value.NewString(s), nil
	})
	return p
}

// stringProto grounds "aCadena"/"reemplaza"/"bytes"/"partir" on
// original_source/src/libraries/proto/string.rs's STRING_REPLACE/
// STRING_BYTES/STRING_SPLIT constants.
func stringProto() *value.Prototype {
	p := value.NewPrototype(nil)

	addMethod(p, "proto/Cadena", "aCadena", func(this value.Value, _ []value.Value) (value.Value, *cerr.Throw) {
		s, err := this.ToAgalString()
		if err != nil {
			return nil, err
		}
		return value.NewString(s), nil
	})

	addMethod(p, "proto/Cadena", "reemplaza", func(this value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		if len(args) < 2 {
			return nil, cerr.NewTypeError("reemplaza: se esperaban dos argumentos")
		}
		s, err := this.ToAgalString()
		if err != nil {
			return nil, err
		}
		from, err := args[0].ToAgalString()
		if err != nil {
			return nil, err
		}
		to, err := args[1].ToAgalString()
		if err != nil {
			return nil, err
		}
		return value.NewString(strings.ReplaceAll(s, from, to)), nil
	})

	addMethod(p, "proto/Cadena", "bytes", func(this value.Value, _ []value.Value) (value.Value, *cerr.Throw) {
		s, err := this.ToAgalString()
		if err != nil {
			return nil, err
		}
		raw := []byte(s)
		elems := make([]value.Value, len(raw))
		for i, b := range raw {
			elems[i] = value.NewByte(b)
		}
		return value.NewArray(elems), nil
	})

	addMethod(p, "proto/Cadena", "partir", func(this value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		if len(args) == 0 {
			return nil, cerr.NewTypeError("partir: se esperaba un separador")
		}
		s, err := this.ToAgalString()
		if err != nil {
			return nil, err
		}
		sep, err := args[0].ToAgalString()
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		elems := make([]value.Value, len(parts))
		for i, part := range parts {
			elems[i] = value.NewString(part)
		}
		return value.NewArray(elems), nil
	})

	return p
}

// arrayProto grounds "aCadena" on
// original_source/src/libraries/proto/array.rs's TO_AGAL_STRING, adding
// "une" (join) and "decodifica" (the original's CALL entry, which
// reads a byte array as a UTF-8 buffer — renamed since it isn't
// invoking anything).
func arrayProto() *value.Prototype {
	p := value.NewPrototype(nil)

	addMethod(p, "proto/Lista", "aCadena", func(this value.Value, _ []value.Value) (value.Value, *cerr.Throw) {
		s, err := this.ToAgalString()
		if err != nil {
			return nil, err
		}
		return value.NewString(s), nil
	})

	addMethod(p, "proto/Lista", "une", func(this value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		elems, err := this.ToAgalArray()
		if err != nil {
			return nil, err
		}
		sep := ""
		if len(args) > 0 {
			sep, err = args[0].ToAgalString()
			if err != nil {
				return nil, err
			}
		}
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i], err = e.ToAgalString()
			if err != nil {
				return nil, err
			}
		}
		return value.NewString(strings.Join(parts, sep)), nil
	})

	addMethod(p, "proto/Lista", "decodifica", func(this value.Value, _ []value.Value) (value.Value, *cerr.Throw) {
		buf, err := toByteSlice(this)
		if err != nil {
			return nil, err
		}
		return value.NewString(string(buf)), nil
	})

	return p
}

// promiseProto only carries "aCadena" — "luego"/"atrapa" are already
// implemented directly on core/value.Promise (core/value/promise.go),
// grounded on original_source/src/libraries/proto/promise.rs's
// PROMISE_THEN/PROMISE_CATCH, so they are not duplicated here.
func promiseProto() *value.Prototype {
	p := value.NewPrototype(nil)
	addMethod(p, "proto/Promesa", "aCadena", func(this value.Value, _ []value.Value) (value.Value, *cerr.Throw) {
		return value.NewString(this.ToAgalConsole()), nil
	})
	return p
}
