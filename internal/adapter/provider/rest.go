// Package provider implements the record provider boundary against the
// external per-category record services: plain JSON CRUD over HTTP, one
// service path per category. All requests carry the owner identity; the
// engine imposes no timeout of its own beyond the client's.
package provider

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/netfolio/netfolio-backend/internal/domain"
)

const ownerParam = "ownerId"

// RESTProvider talks to the record service owning one category.
type RESTProvider struct {
	category domain.Category
	client   *resty.Client
}

// NewRESTProvider creates a provider for category rooted at baseURL. The
// service is expected to serve /{category} and /{category}/{id}.
func NewRESTProvider(baseURL string, category domain.Category) *RESTProvider {
	return &RESTProvider{
		category: category,
		client:   resty.New().SetBaseURL(baseURL),
	}
}

// NewRESTProviders creates one provider per known category, all rooted at
// baseURL, in referential order.
func NewRESTProviders(baseURL string) []domain.RecordProvider {
	categories := domain.ReferentialOrder()
	providers := make([]domain.RecordProvider, 0, len(categories))
	for _, c := range categories {
		providers = append(providers, NewRESTProvider(baseURL, c))
	}
	return providers
}

// ProviderCategory reports which category this provider owns.
func (p *RESTProvider) ProviderCategory() domain.Category {
	return p.category
}

// GetAll fetches every raw record for owner. A transport failure or a
// non-success status is an error; an empty body is a valid empty result
// and the two are never conflated.
func (p *RESTProvider) GetAll(ctx context.Context, owner uuid.UUID) ([]domain.RawRecord, error) {
	var records []domain.RawRecord
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam(ownerParam, owner.String()).
		SetResult(&records).
		Get("/" + string(p.category))
	if err != nil {
		return nil, fmt.Errorf("fetch %s records: %w", p.category, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s records: provider returned %s", p.category, resp.Status())
	}
	if records == nil {
		records = []domain.RawRecord{}
	}
	return records, nil
}

// Create stores a new provider-shaped record for owner.
func (p *RESTProvider) Create(ctx context.Context, owner uuid.UUID, record domain.RawRecord) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam(ownerParam, owner.String()).
		SetBody(record).
		Post("/" + string(p.category))
	if err != nil {
		return fmt.Errorf("create %s record: %w", p.category, err)
	}
	if resp.IsError() {
		return fmt.Errorf("create %s record: provider returned %s", p.category, resp.Status())
	}
	return nil
}

// Delete removes one record by its provider-assigned ID.
func (p *RESTProvider) Delete(ctx context.Context, owner uuid.UUID, recordID string) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam(ownerParam, owner.String()).
		Delete("/" + string(p.category) + "/" + recordID)
	if err != nil {
		return fmt.Errorf("delete %s record: %w", p.category, err)
	}
	if resp.IsError() {
		return fmt.Errorf("delete %s record: provider returned %s", p.category, resp.Status())
	}
	return nil
}

// DeleteAll removes every record the service holds for owner.
func (p *RESTProvider) DeleteAll(ctx context.Context, owner uuid.UUID) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam(ownerParam, owner.String()).
		Delete("/" + string(p.category))
	if err != nil {
		return fmt.Errorf("delete %s records: %w", p.category, err)
	}
	if resp.IsError() {
		return fmt.Errorf("delete %s records: provider returned %s", p.category, resp.Status())
	}
	return nil
}
