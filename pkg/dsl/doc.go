/*
Package dsl provides a fluent builder for stateworks state tables.

It lets hosts declare states, signals and transitions in Go instead of YAML,
which is handy for embedded tables and unit tests. The result is validated by
table.New, so a builder mistake surfaces as a configuration error at Build.

Example usage:

	b := dsl.New().
		Initial("init").
		Events("alnum", "other")

	b.Add("init").Go("out_word")
	b.Add("out_word").On(domain.When("alnum"), "in_word", "increment")
	b.Add("in_word").On(domain.When("other"), "out_word")

	tbl, err := b.Build()
*/
package dsl
