package scan

import (
	"go/types"

	jtdgen "github.com/reoring/jtdgen"
)

// namesOf computes the identity of t. Named types get their declared name
// and package path plus the names of their type arguments; every other
// type is named by its Go spelling.
func namesOf(t types.Type) jtdgen.Names {
	switch t := types.Unalias(t).(type) {
	case *types.Named:
		obj := t.Obj()
		n := jtdgen.Names{Short: obj.Name(), Long: obj.Name()}
		if obj.Pkg() != nil {
			n.Long = obj.Pkg().Path() + "." + obj.Name()
		}
		args := t.TypeArgs()
		for i := 0; i < args.Len(); i++ {
			n.TypeParams = append(n.TypeParams, namesOf(args.At(i)))
		}
		return n
	case *types.Basic:
		return jtdgen.BasicNames(t.Name())
	}
	return jtdgen.Names{Short: types.TypeString(t, shortQualifier), Long: types.TypeString(t, nil)}
}

func shortQualifier(*types.Package) string { return "" }
