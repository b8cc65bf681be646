package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
	"github.com/go-resty/resty/v2"
)

const (
	projectPath    = "/api/projects/{projectID}"
	collectionPath = projectPath + "/{collection}"
	documentPath   = collectionPath + "/{docID}"
	batchPath      = projectPath + "/batch"
	subscribePath  = "/api/projects/%s/subscribe?target=%s"

	// subscriptionReadLimit bounds one snapshot frame.
	subscriptionReadLimit = 32 << 20
)

type documentStore struct {
	client *utils.HTTPClient
	hasher *utils.Hasher

	baseURL   string
	projectID string
	apiKey    string

	logger *logger.Logger
}

// NewDocumentStore constructs the HTTP implementation of [DocumentStore]
// for the project named in cloud. It does not contact the server.
//
// Returns an error if adapterCfg.HTTPAddress cannot be parsed or cloud is
// not a valid configuration.
func NewDocumentStore(adapterCfg config.ClientAdapter, cloud models.CloudConfig, logger *logger.Logger) (DocumentStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}
	if err = cloud.Validate(); err != nil {
		return nil, err
	}

	return &documentStore{
		client:    utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		hasher:    utils.NewHasher(adapterCfg.HashKey),
		baseURL:   baseURL,
		projectID: cloud.ProjectID,
		apiKey:    strings.TrimSpace(cloud.APIKey),
		logger:    logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (d *documentStore) ProjectID() string {
	return d.projectID
}

// GetConfig implements [DocumentStore] with GET /api/projects/{projectID}.
func (d *documentStore) GetConfig(ctx context.Context) (json.RawMessage, error) {
	resp, err := d.request(ctx).Get(projectPath)
	if err != nil {
		return nil, fmt.Errorf("get config request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("get config: %w", ErrUnexpectedResponseFormat)
	}
	return json.RawMessage(body), nil
}

// MergeConfig implements [DocumentStore] with PATCH /api/projects/{projectID}.
func (d *documentStore) MergeConfig(ctx context.Context, data json.RawMessage) error {
	resp, err := d.withBody(d.request(ctx), data).Patch(projectPath)
	if err != nil {
		return fmt.Errorf("merge config request: %w", err)
	}

	return mapHTTPError(resp)
}

// GetDocument implements [DocumentStore] with
// GET /api/projects/{projectID}/{collection}/{docID}.
func (d *documentStore) GetDocument(ctx context.Context, collection, id string) (models.Document, error) {
	resp, err := d.request(ctx).
		SetPathParam("collection", collection).
		SetPathParam("docID", id).
		Get(documentPath)
	if err != nil {
		return models.Document{}, fmt.Errorf("get document request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Document{}, err
	}

	var doc models.Document
	if err = json.Unmarshal(resp.Body(), &doc); err != nil {
		return models.Document{}, fmt.Errorf("decode document: %w: %w", ErrUnexpectedResponseFormat, err)
	}
	return doc, nil
}

// ListDocuments implements [DocumentStore] with
// GET /api/projects/{projectID}/{collection}.
func (d *documentStore) ListDocuments(ctx context.Context, collection string) ([]models.Document, error) {
	resp, err := d.request(ctx).
		SetPathParam("collection", collection).
		Get(collectionPath)
	if err != nil {
		return nil, fmt.Errorf("list documents request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var docs []models.Document
	if err = json.Unmarshal(resp.Body(), &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w: %w", ErrUnexpectedResponseFormat, err)
	}
	return docs, nil
}

// MergeDocument implements [DocumentStore] with
// PATCH /api/projects/{projectID}/{collection}/{docID}.
func (d *documentStore) MergeDocument(ctx context.Context, collection, id string, data json.RawMessage) error {
	req := d.request(ctx).
		SetPathParam("collection", collection).
		SetPathParam("docID", id)
	resp, err := d.withBody(req, data).Patch(documentPath)
	if err != nil {
		return fmt.Errorf("merge document request: %w", err)
	}

	return mapHTTPError(resp)
}

// DeleteDocument implements [DocumentStore] with
// DELETE /api/projects/{projectID}/{collection}/{docID}.
func (d *documentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	resp, err := d.request(ctx).
		SetPathParam("collection", collection).
		SetPathParam("docID", id).
		Delete(documentPath)
	if err != nil {
		return fmt.Errorf("delete document request: %w", err)
	}

	return mapHTTPError(resp)
}

// CommitBatch implements [DocumentStore] with
// POST /api/projects/{projectID}/batch.
func (d *documentStore) CommitBatch(ctx context.Context, writes []models.WriteOp) error {
	if len(writes) > models.MaxBatchWrites {
		return fmt.Errorf("%w: %d writes in one batch", ErrBadRequest, len(writes))
	}

	body, err := json.Marshal(models.BatchRequest{Writes: writes})
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	resp, err := d.withBody(d.request(ctx), body).Post(batchPath)
	if err != nil {
		return fmt.Errorf("commit batch request: %w", err)
	}

	return mapHTTPError(resp)
}

func (d *documentStore) request(ctx context.Context) *resty.Request {
	return d.client.R().
		SetContext(ctx).
		SetHeader(models.APIKeyHeader, d.apiKey).
		SetPathParam("projectID", d.projectID)
}

// withBody sets a JSON body and, when a hash key is configured, its
// HashSHA256 signature.
func (d *documentStore) withBody(req *resty.Request, body []byte) *resty.Request {
	req.SetHeader("Content-Type", "application/json").SetBody(body)
	if d.hasher.Enabled() {
		req.SetHeader(models.BodyHashHeader, d.hasher.Sum(body))
	}
	return req
}
