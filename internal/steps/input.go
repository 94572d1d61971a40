package steps

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// InputArgs describes the records an input step reads.
type InputArgs struct {
	AttributeName    string `json:"attribute_name"    validate:"required"`
	Table            string `json:"table"             validate:"required"`
	IDColumn         string `json:"id_column"         validate:"required"`
	Limit            int    `json:"limit"             validate:"min=1"`
	UseDeduplication bool   `json:"use_deduplication"`
}

// DefaultInputArgs returns the input arguments used when a field is omitted.
func DefaultInputArgs() InputArgs {
	return InputArgs{
		Table:            "catalog.external_interfaces.current_flattened_ml_products_view",
		IDColumn:         "PRODUCT_ID",
		Limit:            1000,
		UseDeduplication: true,
	}
}

// InputConfig is the configuration of a SnowflakeQueryInput step.
type InputConfig struct {
	Query               string   `json:"query"`
	Limit               int      `json:"limit"`
	UseDeduplication    bool     `json:"useDeduplication"`
	DeduplicationFields []string `json:"deduplicationFields"`
	RankingField        string   `json:"rankingField"`
	UseRanking          bool     `json:"useRanking"`
}

const queryTemplate = `SELECT
    %s AS entity_id,
    '%s' AS entity_type,
    *
FROM %s`

// Input generates an input step. The table may be given as an entity kind of the catalog
// (product, retailer, store).
func (b *Builder) Input(args InputArgs) *Generated[InputConfig] {
	table := args.Table
	if resolved, ok := b.catalog.Table(table); ok {
		table = resolved
	}

	dedup := []string{}
	if args.UseDeduplication {
		dedup = append(dedup, args.IDColumn)
	}

	return &Generated[InputConfig]{
		Title:   "Input step configured",
		Summary: fmt.Sprintf("Querying %s records from `%s` using `%s` as identifier.", humanize.Comma(int64(args.Limit)), table, args.IDColumn),
		Config: InputConfig{
			Query:               fmt.Sprintf(queryTemplate, args.IDColumn, args.AttributeName, table),
			Limit:               args.Limit,
			UseDeduplication:    args.UseDeduplication,
			DeduplicationFields: dedup,
		},
	}
}
