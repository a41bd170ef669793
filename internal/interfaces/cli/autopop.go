package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/sds-wizard/internal/application/chemtable"
)

// chemtableRow adapts a chemtable entry to the table and text printers.
type chemtableRow struct {
	*chemtable.Entry
}

func (r chemtableRow) pairs() [][2]string {
	return [][2]string{
		{"chemical_name", r.ChemicalName},
		{"boiling_point", r.BoilingPoint},
		{"t_change", r.TChange},
		{"phys", r.Phys},
		{"solubility", r.Solubility},
		{"acute_toxicity_estimates", r.AcuteToxicityEstimates},
	}
}

func (r chemtableRow) String() string {
	var sb strings.Builder
	for i, p := range r.pairs() {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%-25s %s", p[0]+":", p[1])
	}
	return sb.String()
}

func (r chemtableRow) TableHeaders() []string { return []string{"FIELD", "VALUE"} }

func (r chemtableRow) TableRows() [][]string {
	rows := make([][]string, 0, 6)
	for _, p := range r.pairs() {
		rows = append(rows, []string{p[0], p[1]})
	}
	return rows
}

// NewAutopopCmd prints the chemtable row the web form would be prefilled
// with.
func NewAutopopCmd(factory func(*CLIContext) (CompoundLookup, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "autopop <cas>",
		Short: "Prefill a chemtable row from PubChem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			lookup, err := factory(cc)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			entry, err := chemtable.NewService(lookup, cc.Logger).Autopopulate(ctx, args[0])
			if err != nil {
				return err
			}
			if strings.EqualFold(cc.OutputFormat, "json") {
				return printJSON(cmd, entry)
			}
			return PrintResult(cmd, chemtableRow{entry})
		},
	}
}

//Personal.AI order the ending
