package library

import (
	"os"

	"github.com/tinta-lang/tinta/core/cerr"
	"github.com/tinta-lang/tinta/core/value"
)

// fsModule builds the `:fs` library object, grounded on
// original_source/src/libraries/fs.rs's "leerArchivo"/"leerCarpeta"/
// "obtener_ruta" surface (renamed to camelCase "leerArchivo"/
// "leerCarpeta"/"obtenerRuta" to match the spelling the rest of that
// file actually uses at the call sites). A Ruta ("path") is returned
// as a plain Object with a nombre string property (the path) and
// esArchivo/esCarpeta closures over the path string, rather than the
// original's full AgalClass — tinta has no need for a class identity
// here, only the two query methods.
func fsModule(*Registry) value.Value {
	obj := value.NewObject()

	obj.SetObjectProperty("leerArchivo", value.NewFunction("sa::leerArchivo", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		if len(args) == 0 {
			return value.NewNever(), nil
		}
		path, err := args[0].ToAgalString()
		if err != nil {
			return nil, err
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, cerr.Wrap(cerr.PathError, readErr, "no se pudo abrir el archivo %q", path)
		}
		elems := make([]value.Value, len(data))
		for i, b := range data {
			elems[i] = value.NewByte(b)
		}
		return value.NewArray(elems), nil
	}))

	obj.SetObjectProperty("escribirArchivo", value.NewFunction("sa::escribirArchivo", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		if len(args) < 2 {
			return nil, cerr.NewTypeError("sa::escribirArchivo: se esperaban una ruta y un contenido")
		}
		path, err := args[0].ToAgalString()
		if err != nil {
			return nil, err
		}
		buf, bufErr := toByteSlice(args[1])
		if bufErr != nil {
			return nil, bufErr
		}
		if writeErr := os.WriteFile(path, buf, 0o644); writeErr != nil {
			return nil, cerr.Wrap(cerr.PathError, writeErr, "no se pudo escribir el archivo %q", path)
		}
		return value.NewNever(), nil
	}))

	obj.SetObjectProperty("leerCarpeta", value.NewFunction("sa::leerCarpeta", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		if len(args) == 0 {
			return value.NewNever(), nil
		}
		path, err := args[0].ToAgalString()
		if err != nil {
			return nil, err
		}
		entries, readErr := os.ReadDir(path)
		if readErr != nil {
			return nil, cerr.Wrap(cerr.PathError, readErr, "no se pudo abrir la carpeta %q", path)
		}
		elems := make([]value.Value, len(entries))
		for i, entry := range entries {
			elems[i] = value.NewString(entry.Name())
		}
		return value.NewArray(elems), nil
	}))

	obj.SetObjectProperty("obtenerRuta", value.NewFunction("sa::obtenerRuta", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		if len(args) == 0 {
			return nil, cerr.NewPathError("sa::obtenerRuta: se esperaba una ruta")
		}
		path, err := args[0].ToAgalString()
		if err != nil {
			return nil, err
		}
		return rutaObject(path), nil
	}))

	return obj
}

func rutaObject(path string) value.Value {
	obj := value.NewObject()
	obj.SetObjectProperty("nombre", value.NewString(path))
	obj.SetObjectProperty("esArchivo", value.NewFunction("Ruta::esArchivo", func(value.Value, []value.Value) (value.Value, *cerr.Throw) {
		info, err := os.Stat(path)
		return value.NewBoolean(err == nil && !info.IsDir()), nil
	}))
	obj.SetObjectProperty("esCarpeta", value.NewFunction("Ruta::esCarpeta", func(value.Value, []value.Value) (value.Value, *cerr.Throw) {
		info, err := os.Stat(path)
		return value.NewBoolean(err == nil && info.IsDir()), nil
	}))
	return obj
}

// toByteSlice coerces a value to a byte slice via its ToAgalArray
// contract (spec.md §4.2), requiring each element to convert to Byte.
func toByteSlice(v value.Value) ([]byte, *cerr.Throw) {
	elems, err := v.ToAgalArray()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(elems))
	for i, e := range elems {
		b, bErr := e.ToAgalByte()
		if bErr != nil {
			return nil, bErr
		}
		out[i] = b
	}
	return out, nil
}
