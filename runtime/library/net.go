package library

import (
	"net"

	"github.com/tinta-lang/tinta/core/cerr"
	"github.com/tinta-lang/tinta/core/value"
	"github.com/tinta-lang/tinta/runtime/promise"
)

// netModule builds the `:net` library object, grounded on
// original_source/src/libraries/net.rs's "servidorTCP"/"\0servidorUDP"
// pair and the "leer"/"escribir" connection prototype built per-
// connection in its handle_client. tinta uses Go's net package and
// goroutines in place of tokio, keeping the same surface: a TCP server
// that invokes a callback per accepted connection, a TCP client, and a
// one-shot UDP send.
func netModule(*Registry) value.Value {
	obj := value.NewObject()
	exec := promise.New()

	obj.SetObjectProperty("servidorTCP", value.NewFunction("red::servidorTCP", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		if len(args) < 2 {
			return nil, cerr.NewTypeError("red::servidorTCP: se esperaban una dirección y una función")
		}
		addr, err := args[0].ToAgalString()
		if err != nil {
			return nil, err
		}
		callback := args[1]
		return exec.Spawn(func() (value.Value, *cerr.Throw) {
			ln, listenErr := net.Listen("tcp", addr)
			if listenErr != nil {
				return nil, cerr.Wrap(cerr.TypeError, listenErr, "error al crear el servidor TCP en %q", addr)
			}
			go func() {
				defer ln.Close()
				for {
					conn, acceptErr := ln.Accept()
					if acceptErr != nil {
						return
					}
					go func(c net.Conn) {
						defer c.Close()
						callback.Call(value.NewNever(), []value.Value{tcpConnObject(c)})
					}(conn)
				}
			}()
			return value.NewNever(), nil
		}), nil
	}))

	obj.SetObjectProperty("conectar", value.NewFunction("red::conectar", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		if len(args) == 0 {
			return nil, cerr.NewTypeError("red::conectar: se esperaba una dirección")
		}
		addr, err := args[0].ToAgalString()
		if err != nil {
			return nil, err
		}
		return exec.Spawn(func() (value.Value, *cerr.Throw) {
			conn, dialErr := net.Dial("tcp", addr)
			if dialErr != nil {
				return nil, cerr.Wrap(cerr.TypeError, dialErr, "error al conectar a %q", addr)
			}
			return tcpConnObject(conn), nil
		}), nil
	}))

	obj.SetObjectProperty("enviarUDP", value.NewFunction("red::enviarUDP", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		if len(args) < 2 {
			return nil, cerr.NewTypeError("red::enviarUDP: se esperaban una dirección y datos")
		}
		addr, err := args[0].ToAgalString()
		if err != nil {
			return nil, err
		}
		buf, bufErr := toByteSlice(args[1])
		if bufErr != nil {
			return nil, bufErr
		}
		return exec.Spawn(func() (value.Value, *cerr.Throw) {
			conn, dialErr := net.Dial("udp", addr)
			if dialErr != nil {
				return nil, cerr.Wrap(cerr.TypeError, dialErr, "error al enviar datagrama a %q", addr)
			}
			defer conn.Close()
			if _, writeErr := conn.Write(buf); writeErr != nil {
				return nil, cerr.Wrap(cerr.TypeError, writeErr, "error al escribir datagrama")
			}
			return value.NewNever(), nil
		}), nil
	}))

	return obj
}

// tcpConnObject wraps an accepted/dialed net.Conn as the "leer"/
// "escribir" object original_source/src/libraries/net.rs's
// handle_client builds per connection.
func tcpConnObject(conn net.Conn) value.Value {
	exec := promise.New()
	obj := value.NewObject()
	obj.SetObjectProperty("leer", value.NewFunction("leer", func(value.Value, []value.Value) (value.Value, *cerr.Throw) {
		return exec.Spawn(func() (value.Value, *cerr.Throw) {
			buf := make([]byte, 4096)
			n, readErr := conn.Read(buf)
			if readErr != nil {
				return nil, cerr.Wrap(cerr.TypeError, readErr, "error al leer del socket")
			}
			elems := make([]value.Value, n)
			for i := 0; i < n; i++ {
				elems[i] = value.NewByte(buf[i])
			}
			return value.NewArray(elems), nil
		}), nil
	}))
	obj.SetObjectProperty("escribir", value.NewFunction("escribir", func(_ value.Value, args []value.Value) (value.Value, *cerr.Throw) {
		if len(args) == 0 {
			return nil, cerr.NewTypeError("escribir: se esperaba un argumento")
		}
		buf, bufErr := toByteSlice(args[0])
		if bufErr != nil {
			return nil, bufErr
		}
		return exec.Spawn(func() (value.Value, *cerr.Throw) {
			if _, writeErr := conn.Write(buf); writeErr != nil {
				return nil, cerr.Wrap(cerr.TypeError, writeErr, "error al escribir al socket")
			}
			return value.NewNever(), nil
		}), nil
	}))
	return obj
}
