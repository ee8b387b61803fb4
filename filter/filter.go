// Package filter evaluates expr-language expressions against the JSON records
// returned by Moyklass list endpoints.
//
// Every top-level field of a record is a variable:
//
//	summa > 1000 and optype == "income"
//	containsFold(name, "anna") and date(createdAt) > daysAgo(30)
//	has("email") and field("attributes.0.value") == "vip"
//
// Identifiers that do not exist on a record evaluate to nil; a comparison that
// fails at runtime makes the record not match.
package filter

var defaultCompiler = NewExprCompiler(WithCache(100))

// Compile compiles an expression with the shared, cached compiler
func Compile(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}
