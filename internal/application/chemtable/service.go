// Package chemtable fills a row of the chemical constants table from PubChem.
package chemtable

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/internal/intelligence/pubchem"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

// CompoundSource is the slice of the PubChem resolver autopopulate needs.
type CompoundSource interface {
	ResolveID(ctx context.Context, identifier string) pubchem.Result[pubchem.CID]
	FetchAnnotation(ctx context.Context, cid pubchem.CID, heading string) pubchem.Result[pubchem.Annotation]
	Synonyms(ctx context.Context, identifier string) pubchem.Result[[]string]
	Concurrency() int
}

// Entry is one prefilled chemtable row.  Values PubChem has no record of
// are "".
type Entry struct {
	ChemicalName           string `json:"chemical_name"`
	BoilingPoint           string `json:"boiling_point"`
	TChange                string `json:"t_change"`
	Phys                   string `json:"phys"`
	Solubility             string `json:"solubility"`
	AcuteToxicityEstimates string `json:"acute_toxicity_estimates"`
}

type Service struct {
	source CompoundSource
	logger logging.Logger
}

func NewService(source CompoundSource, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{source: source, logger: logger.Named("chemtable")}
}

// Autopopulate looks cas up and returns its row.  A blank cas is a bad
// request and an unresolvable one is not found; missing headings only leave
// their value empty.
func (s *Service) Autopopulate(ctx context.Context, cas string) (*Entry, error) {
	cas = strings.TrimSpace(cas)
	if cas == "" {
		return nil, errors.InvalidParam("CAS number not provided.")
	}
	cid := s.source.ResolveID(ctx, cas)
	if !cid.OK() {
		return nil, errors.New(errors.ErrCodePubChemNotFound, "No compound found for the provided CAS number.").
			WithDetail(cas).WithCause(cid.Err())
	}

	var (
		entry    Entry
		synonyms []string
	)
	headings := []string{
		pubchem.HeadingBoilingPoint,
		pubchem.HeadingMeltingPoint,
		pubchem.HeadingPhysicalDesc,
		pubchem.HeadingSolubility,
		pubchem.HeadingAcuteEffects,
	}
	anns := make([]pubchem.Annotation, len(headings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.source.Concurrency())
	g.Go(func() error {
		synonyms = s.source.Synonyms(gctx, cas).Value()
		return nil
	})
	for i, h := range headings {
		i, h := i, h
		g.Go(func() error {
			anns[i] = s.source.FetchAnnotation(gctx, cid.Value(), h).Value()
			return nil
		})
	}
	_ = g.Wait()

	if len(synonyms) > 0 {
		entry.ChemicalName = synonyms[0]
	}
	entry.BoilingPoint = anns[0].First()
	entry.TChange = anns[1].First()
	entry.Phys = anns[2].First()
	entry.Solubility = anns[3].First()
	entry.AcuteToxicityEstimates = strings.Join(anns[4].NonEmpty(), ";")

	s.logger.Debug("chemtable row prefilled",
		logging.String("cas", cas),
		logging.String("cid", cid.Value().String()))
	return &entry, nil
}

//Personal.AI order the ending
