package cmd

import (
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rezonia/fatura/internal/model"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of an invoice record",
	Long: `Print the JSON Schema of a record in the current schema version
(invoice, items, client, seller). Amounts may be JSON numbers or strings.

Examples:
  fatura schema > record.schema.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), recordSchema())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

func recordSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t != decimalType {
				return nil
			}
			return &jsonschema.Schema{
				OneOf: []*jsonschema.Schema{
					{Type: "number"},
					{Type: "string", Pattern: `^-?\d+(\.\d+)?$`},
				},
			}
		},
	}

	s := reflector.Reflect(&model.Bundle{})
	s.Title = "Invoice record"
	s.Description = "A resolved invoice with its line items, client and seller"
	return s
}
