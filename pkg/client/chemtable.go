package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/turtacn/sds-wizard/pkg/errors"
)

// ChemtableEntry is one prefilled row of the component table.
type ChemtableEntry struct {
	ChemicalName           string `json:"chemical_name"`
	BoilingPoint           string `json:"boiling_point"`
	TChange                string `json:"t_change"`
	Phys                   string `json:"phys"`
	Solubility             string `json:"solubility"`
	AcuteToxicityEstimates string `json:"acute_toxicity_estimates"`
}

type ChemtableClient struct {
	client *Client
}

// Autopopulate returns the PubChem prefill for a CAS number.
func (c *ChemtableClient) Autopopulate(ctx context.Context, cas string) (*ChemtableEntry, error) {
	cas = strings.TrimSpace(cas)
	if cas == "" {
		return nil, errors.InvalidParam("cas is required")
	}
	var out ChemtableEntry
	if err := c.client.get(ctx, apiPrefix+"/chemtable/autopopulate?cas="+url.QueryEscape(cas), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
