package ast

// DesugarClass rewrites a parsed ClassDecl so that both the tree
// interpreter and the bytecode compiler only ever have to build a
// Class from methods and static members: every non-static field
// initializer (`nombre = expr` with no `fn`/`est`) is folded into a
// `this.nombre = expr` assignment prepended to the constructor body,
// synthesizing an empty constructor if the class declares fields but
// no explicit one. This mirrors how a field-initializer desugaring
// pass works in most class-based languages and keeps
// spec.md §4.6's instantiation contract ("if a property named
// constructor exists ... invoked with this bound to the new object")
// as the single place instance setup happens.
func DesugarClass(cd *ClassDecl) *ClassDecl {
	var fieldInits []Statement
	var ctor *ClassMember
	var kept []ClassMember

	for _, m := range cd.Members {
		if m.Static {
			kept = append(kept, m)
			continue
		}
		if m.IsMethod {
			if m.Name == "constructor" {
				c := m
				ctor = &c
				continue
			}
			kept = append(kept, m)
			continue
		}
		if m.Value != nil {
			fieldInits = append(fieldInits, &ExprStmt{
				Pos: m.Pos,
				Expr: &AssignExpr{
					Op:     "=",
					Target: &MemberExpr{Object: &ThisExpr{Pos: m.Pos}, Property: &Identifier{Name: m.Name, Pos: m.Pos}, Pos: m.Pos},
					Value:  m.Value,
					Pos:    m.Pos,
				},
			})
		}
	}

	if len(fieldInits) == 0 {
		if ctor != nil {
			kept = append(kept, *ctor)
		}
		return &ClassDecl{Name: cd.Name, Extends: cd.Extends, Members: kept, Pos: cd.Pos}
	}

	if ctor != nil {
		fd := ctor.Value.(*FuncDecl)
		body := &Block{Pos: fd.Body.Pos, Statements: append(append([]Statement{}, fieldInits...), fd.Body.Statements...)}
		ctor.Value = &FuncDecl{Name: "constructor", Params: fd.Params, Body: body, Pos: fd.Pos}
	} else {
		ctor = &ClassMember{
			Name: "constructor", IsMethod: true, Public: true, Pos: cd.Pos,
			Value: &FuncDecl{Name: "constructor", Body: &Block{Pos: cd.Pos, Statements: fieldInits}, Pos: cd.Pos},
		}
	}
	kept = append(kept, *ctor)
	return &ClassDecl{Name: cd.Name, Extends: cd.Extends, Members: kept, Pos: cd.Pos}
}
