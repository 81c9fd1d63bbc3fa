package harvest

import (
	_ "embed"
	"strconv"
	"strings"
)

//go:embed construct.rq
var constructTemplate string

// QueryOptions parameterizes the CONSTRUCT query.
type QueryOptions struct {
	Namespace string
	YearFrom  int
	YearTo    int
	Limit     int
}

// BuildQuery renders the film/composer CONSTRUCT query.
func BuildQuery(opts QueryOptions) string {
	replacer := strings.NewReplacer(
		"{{NAMESPACE}}", opts.Namespace,
		"{{YEAR_FROM}}", strconv.Itoa(opts.YearFrom),
		"{{YEAR_TO}}", strconv.Itoa(opts.YearTo),
		"{{LIMIT}}", strconv.Itoa(opts.Limit),
	)
	return replacer.Replace(constructTemplate)
}
