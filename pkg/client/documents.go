package client

import (
	"context"
	"mime"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/turtacn/sds-wizard/pkg/errors"
)

// Document is a rendered SDS.
type Document struct {
	ContentType string
	FileName    string
	Content     []byte
}

// DocumentsClient downloads rendered records.
type DocumentsClient struct {
	client *Client
}

// Download fetches the PDF of a completed record.
func (d *DocumentsClient) Download(ctx context.Context, recordID string) (*Document, error) {
	return d.fetch(ctx, recordID, "document", "application/pdf")
}

// Preview fetches the HTML rendition of a completed record.
func (d *DocumentsClient) Preview(ctx context.Context, recordID string) (*Document, error) {
	return d.fetch(ctx, recordID, "preview", "text/html")
}

func (d *DocumentsClient) fetch(ctx context.Context, recordID, kind, accept string) (*Document, error) {
	if _, err := uuid.Parse(recordID); err != nil {
		return nil, errors.InvalidParam("invalid record id").WithDetail(recordID)
	}
	resp, err := d.client.send(ctx, http.MethodGet, apiPrefix+"/sds/"+url.PathEscape(recordID)+"/"+kind, nil, accept)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		ContentType: resp.header.Get("Content-Type"),
		Content:     resp.body,
	}
	if cd := resp.header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			doc.FileName = params["filename"]
		}
	}
	return doc, nil
}

//Personal.AI order the ending
