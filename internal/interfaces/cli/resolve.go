package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/sds-wizard/internal/application/chemtable"
	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/internal/intelligence/pubchem"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

// CompoundLookup is what resolve and autopop need from PubChem.
type CompoundLookup interface {
	chemtable.CompoundSource
	IUPACName(ctx context.Context, identifier string) pubchem.Result[string]
	SignalWord(ctx context.Context, cid pubchem.CID) pubchem.Result[sds.SignalWord]
	HazardCodes(ctx context.Context, cid pubchem.CID) pubchem.Result[[]string]
}

func newCompoundLookup(cc *CLIContext) (CompoundLookup, error) {
	client := pubchem.NewClient(cc.Config.PubChem, pubchem.WithLogger(cc.Logger))
	return pubchem.NewResolver(client, sds.DefaultCodeTable(), cc.Logger), nil
}

// CompoundSummary is what sdsctl resolve prints.
type CompoundSummary struct {
	CAS         string   `json:"cas"`
	CID         int64    `json:"cid"`
	Name        string   `json:"name"`
	SignalWord  string   `json:"signal_word"`
	HazardCodes []string `json:"hazard_codes"`
}

func (s CompoundSummary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CAS:         %s\n", s.CAS)
	fmt.Fprintf(&sb, "CID:         %d\n", s.CID)
	fmt.Fprintf(&sb, "Name:        %s\n", s.Name)
	fmt.Fprintf(&sb, "Signal word: %s\n", s.SignalWord)
	sb.WriteString("Hazards:")
	if len(s.HazardCodes) == 0 {
		sb.WriteString("     none recorded")
	}
	for _, h := range s.HazardCodes {
		sb.WriteString("\n  " + h)
	}
	return sb.String()
}

func (s CompoundSummary) TableHeaders() []string {
	return []string{"CAS", "CID", "NAME", "SIGNAL", "HAZARDS"}
}

func (s CompoundSummary) TableRows() [][]string {
	return [][]string{{
		s.CAS,
		strconv.FormatInt(s.CID, 10),
		s.Name,
		s.SignalWord,
		strconv.Itoa(len(s.HazardCodes)),
	}}
}

// NewResolveCmd prints the CID, name and GHS summary PubChem has for a CAS
// number.
func NewResolveCmd(factory func(*CLIContext) (CompoundLookup, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <cas>",
		Short: "Resolve a CAS number against PubChem",
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

			summary, err := resolveCompound(ctx, lookup, args[0], cc.Logger)
			if err != nil {
				return err
			}
			return PrintResult(cmd, summary)
		},
	}
}

func resolveCompound(ctx context.Context, lookup CompoundLookup, cas string, log logging.Logger) (*CompoundSummary, error) {
	cas = strings.TrimSpace(cas)
	if cas == "" {
		return nil, errors.InvalidParam("CAS number not provided.")
	}
	cid := lookup.ResolveID(ctx, cas)
	if !cid.OK() {
		return nil, errors.New(errors.ErrCodePubChemNotFound, "no compound found for CAS number").
			WithDetail(cas).WithCause(cid.Err())
	}

	summary := &CompoundSummary{
		CAS:         cas,
		CID:         int64(cid.Value()),
		HazardCodes: []string{},
	}
	if name := lookup.IUPACName(ctx, cas); name.OK() {
		summary.Name = name.Value()
	} else {
		log.Debug("no name recorded", logging.String("cas", cas), logging.Err(name.Err()))
	}

	word := lookup.SignalWord(ctx, cid.Value())
	summary.SignalWord = word.Value().String()
	if !word.OK() {
		log.Debug("signal word defaulted", logging.String("cas", cas), logging.Err(word.Err()))
	}
	summary.HazardCodes = lookup.HazardCodes(ctx, cid.Value()).Value()
	return summary, nil
}

//Personal.AI order the ending
