package rowfilter

import (
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/oarlog/oarlog/pkg/course"
)

// Lib returns the row helper functions as a CEL library.
//
// Functions:
//   - isNull(dyn) -> bool: value is null
//   - isNotNull(dyn) -> bool: value is not null
//   - coalesce(dyn, dyn) -> dyn: first non-null argument
//   - splitMinute(string) -> int: minute component of a raw split value,
//     -1 when the split does not parse
func Lib() cel.EnvOption {
	return cel.Lib(&rowLib{})
}

type rowLib struct{}

func (l *rowLib) LibraryName() string {
	return "oarlog.rows"
}

func (l *rowLib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		cel.Function("isNull",
			cel.Overload("isNull_dyn",
				[]*cel.Type{cel.DynType},
				cel.BoolType,
				cel.UnaryBinding(func(v ref.Val) ref.Val {
					return types.Bool(v.Type() == types.NullType)
				}),
			),
		),
		cel.Function("isNotNull",
			cel.Overload("isNotNull_dyn",
				[]*cel.Type{cel.DynType},
				cel.BoolType,
				cel.UnaryBinding(func(v ref.Val) ref.Val {
					return types.Bool(v.Type() != types.NullType)
				}),
			),
		),
		cel.Function("coalesce",
			cel.Overload("coalesce_dyn_dyn",
				[]*cel.Type{cel.DynType, cel.DynType},
				cel.DynType,
				cel.BinaryBinding(func(a, b ref.Val) ref.Val {
					if a.Type() != types.NullType {
						return a
					}
					return b
				}),
			),
		),
		cel.Function("splitMinute",
			cel.Overload("splitMinute_string",
				[]*cel.Type{cel.StringType},
				cel.IntType,
				cel.UnaryBinding(func(v ref.Val) ref.Val {
					s, ok := v.Value().(string)
					if !ok {
						return types.NewErr("splitMinute: expected string, got %T", v.Value())
					}
					m, err := course.SplitMinute(s)
					if err != nil {
						return types.Int(-1)
					}
					return types.Int(m)
				}),
			),
		),
	}
}

func (l *rowLib) ProgramOptions() []cel.ProgramOption {
	return nil
}
