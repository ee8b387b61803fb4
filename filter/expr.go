package filter

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds helper functions available to every expression.
// They take precedence over record fields like the built-in helpers.
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter. Record fields are
// not known until evaluation, so any identifier that is not a helper compiles
// to a record lookup.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     ErrEmptyExpression.Error(),
			Position:   -1,
			Err:        ErrEmptyExpression,
		}
	}

	// Check cache if enabled
	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	env := make(map[string]any, len(c.helperFuncs)+3)
	maps.Copy(env, c.helperFuncs)
	addRecordHelpers(env, Record{})

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		compErr := &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   -1,
			Err:        err,
		}
		var fileErr *file.Error
		if errors.As(err, &fileErr) {
			compErr.Reason = fileErr.Message
			compErr.Position = fileErr.Column
		}
		return nil, compErr
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate reports whether the record matches. A record the expression cannot
// be evaluated against (a missing field compared with a number, say) does not
// match.
func (f *exprFilter) Evaluate(record Record) bool {
	ok, _ := f.Match(record)
	return ok
}

// Match evaluates the filter against a record
func (f *exprFilter) Match(record Record) (bool, error) {
	result, err := expr.Run(f.program, createRuntimeEnvironment(record, f.helpers))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			RecordID:   record["id"],
			Reason:     "failed to evaluate expression",
			Err:        err,
		}
	}

	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all record-independent helpers to env
func addHelperFunctions(env map[string]any) {
	// Date helpers; API dates are strings, so every helper accepts either a
	// string or a time.Time.
	env["date"] = toTime
	env["daysSince"] = func(v any) int {
		t := toTime(v)
		if t.IsZero() {
			return -1
		}
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse(time.DateOnly, dateStr)
		return t
	}
	// Case-insensitive string helpers; expr reserves contains, startsWith
	// and endsWith as case-sensitive operators.
	env["containsFold"] = func(str, substr any) bool {
		return strings.Contains(strings.ToLower(toString(str)), strings.ToLower(toString(substr)))
	}
	env["hasPrefixFold"] = func(str, prefix any) bool {
		return strings.HasPrefix(strings.ToLower(toString(str)), strings.ToLower(toString(prefix)))
	}
	env["hasSuffixFold"] = func(str, suffix any) bool {
		return strings.HasSuffix(strings.ToLower(toString(str)), strings.ToLower(toString(suffix)))
	}
	env["lower"] = func(v any) string { return strings.ToLower(toString(v)) }
	env["upper"] = func(v any) string { return strings.ToUpper(toString(v)) }
	// Current time
	env["now"] = time.Now
}

// addRecordHelpers adds the helpers bound to a single record
func addRecordHelpers(env map[string]any, record Record) {
	env["Record"] = record
	env["has"] = func(path string) bool {
		return lookup(record, path) != nil
	}
	env["field"] = func(path string) any {
		return lookup(record, path)
	}
}

// createRuntimeEnvironment exposes the record's top-level fields as variables.
// Helpers take precedence over fields of the same name; such fields remain
// reachable through Record or field().
func createRuntimeEnvironment(record Record, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(record)+len(helpers)+3)
	maps.Copy(env, record)
	maps.Copy(env, helpers)
	addRecordHelpers(env, record)
	return env
}

// lookup resolves a dotted path such as "attributes.0.value" through nested
// objects and arrays. Missing segments yield nil.
func lookup(record Record, path string) any {
	var current any = record
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			current = node[segment]
		case []any:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			current = node[i]
		default:
			return nil
		}
	}
	return current
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// toTime converts an API date value to time.Time; unparseable values yield
// the zero time.
func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
