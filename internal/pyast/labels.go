// Package pyast translates tree-sitter's Python concrete syntax tree
// into the abstract, CPython-ast-shaped label alphabet that spec.md §3
// requires for cross-implementation hash compatibility: tree-sitter
// node kinds like "function_definition" or "binary_operator" become
// "FunctionDef" or "BinOp:+", the same names CPython's own ast module
// would produce.
package pyast

import "strings"

// transparentKinds are tree-sitter container nodes that exist only to
// group a list the corresponding CPython ast node stores as a plain
// field (Module.body, FunctionDef.body, Call.args, ...). They never
// get a graph node of their own; their children are reparented to the
// nearest non-transparent ancestor.
var transparentKinds = map[string]bool{
	"block":               true,
	"decorated_definition": true,
	"else_clause":         true,
	"finally_clause":      true,
	"with_clause":         true,
	"argument_list":       true,
}

// leafConstKinds are nodes whose subtree is collapsed into a single Const
// node; their tree-sitter children (string delimiters, interpolation
// internals) are not walked.
var leafConstKinds = map[string]string{
	"integer": "int",
	"float":   "float",
	"string":  "str",
	"true":    "bool",
	"false":   "bool",
	"none":    "none",
}

// skipKinds are nodes dropped entirely — neither they nor their
// children ever reach the AST Graph.
var skipKinds = map[string]bool{
	"comment": true,
}

// simpleLabels maps tree-sitter kinds with no operator payload
// straight to their CPython ast equivalent.
var simpleLabels = map[string]string{
	"module":                     "Module",
	"class_definition":           "ClassDef",
	"return_statement":           "Return",
	"expression_statement":       "Expr",
	"pass_statement":             "Pass",
	"break_statement":            "Break",
	"continue_statement":         "Continue",
	"raise_statement":            "Raise",
	"assert_statement":           "Assert",
	"global_statement":           "Global",
	"nonlocal_statement":         "Nonlocal",
	"delete_statement":           "Delete",
	"import_statement":           "Import",
	"import_from_statement":      "ImportFrom",
	"future_import_statement":    "ImportFrom",
	"try_statement":              "Try",
	"except_clause":              "ExceptHandler",
	"except_group_clause":        "ExceptHandler",
	"with_item":                  "withitem",
	"for_statement":              "For",
	"while_statement":            "While",
	"if_statement":               "If",
	"elif_clause":                "If",
	"with_statement":             "With",
	"assignment":                 "Assign",
	"call":                       "Call",
	"attribute":                  "Attribute",
	"subscript":                  "Subscript",
	"identifier":                 "Name",
	"list":                       "List",
	"list_pattern":               "List",
	"tuple":                      "Tuple",
	"tuple_pattern":              "Tuple",
	"dictionary":                 "Dict",
	"set":                        "Set",
	"lambda":                     "Lambda",
	"conditional_expression":     "IfExp",
	"list_comprehension":         "ListComp",
	"dictionary_comprehension":   "DictComp",
	"set_comprehension":          "SetComp",
	"generator_expression":       "GeneratorExp",
	"await":                      "Await",
	"parameters":                 "arguments",
	"lambda_parameters":          "arguments",
	"default_parameter":          "arg",
	"typed_parameter":            "arg",
	"typed_default_parameter":    "arg",
	"keyword_argument":           "keyword",
	"slice":                      "Slice",
	"match_statement":            "Match",
	"case_clause":                "match_case",
	"named_expression":           "NamedExpr",
	"starred_expression":         "Starred",
	"ellipsis":                   "Const:ellipsis",
	"string_content":             "Const:str",
	"ERROR":                      "Error",
}

// operatorSymbols is the fixed operator alphabet from spec.md §3; any
// token text outside it is ignored, and an operator node with no
// recognized token is labeled with "?" as its operator.
var operatorSymbols = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "//": true, "%": true,
	"**": true, "@": true, "<<": true, ">>": true, "|": true, "^": true,
	"&": true, "<": true, "<=": true, ">": true, ">=": true, "==": true,
	"!=": true, "is": true, "in": true, "and": true, "or": true,
	"not": true, "~": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "//=": true,
	"%=": true, "**=": true, "@=": true, "<<=": true, ">>=": true,
	"|=": true, "^=": true, "&=": true,
}

// asyncLabels promotes a label to its async form. tree-sitter-python
// marks async function/for/with statements with a leading "async"
// token child on the same node rather than a distinct node kind, so
// the promotion happens after the base label is already computed —
// see nodeutil.go's hasAsyncChild.
var asyncLabels = map[string]string{
	"FunctionDef": "AsyncFunctionDef",
	"For":         "AsyncFor",
	"With":        "AsyncWith",
}

// pascalCase converts an unmapped snake_case tree-sitter kind (e.g.
// "dotted_name") into a PascalCase fallback label ("DottedName") so
// every emitted label still reads like an ast node name instead of a
// grammar rule name.
func pascalCase(kind string) string {
	parts := strings.Split(kind, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	if b.Len() == 0 {
		return kind
	}
	return b.String()
}
