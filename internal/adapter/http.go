// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-record-cache/internal/config"
	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/utils"
	"github.com/MKhiriev/go-record-cache/models"
)

type httpRemoteClient struct {
	client   *utils.HTTPClient
	endpoint string

	hasher *utils.Hasher
	token  string

	logger *logger.Logger
}

// NewHTTPRemoteClient constructs the resty implementation of
// [RemoteClient]. Every call is a POST to adapterCfg.Endpoint on
// adapterCfg.HTTPAddress. Bodies are signed when appCfg.HashKey is set and
// a bearer token is attached when appCfg.APIToken is set.
func NewHTTPRemoteClient(adapterCfg config.ClientAdapter, appCfg config.ClientApp, log *logger.Logger) (RemoteClient, error) {
	client, err := utils.NewHTTPClient(adapterCfg.HTTPAddress, adapterCfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	endpoint := strings.TrimSpace(adapterCfg.Endpoint)
	if endpoint == "" {
		endpoint = config.DefaultEndpoint
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	c := &httpRemoteClient{
		client:   client,
		endpoint: endpoint,
		token:    strings.TrimSpace(appCfg.APIToken),
		logger:   log,
	}
	if appCfg.HashKey != "" {
		c.hasher = utils.NewHasher(appCfg.HashKey)
	}

	return c, nil
}

// Create implements [RemoteClient].
func (c *httpRemoteClient) Create(ctx context.Context, model string, fields map[string]any) (int64, error) {
	resp, err := c.call(ctx, models.ActionCreate, models.CreateData{Model: model, Fields: fields})
	if err != nil {
		return 0, err
	}
	if resp.ID <= 0 {
		return 0, fmt.Errorf("%w: create answered without an id", ErrTransport)
	}
	return resp.ID, nil
}

// Search implements [RemoteClient].
func (c *httpRemoteClient) Search(ctx context.Context, model string, domain models.Domain, fields []string) ([]models.Record, error) {
	resp, err := c.call(ctx, models.ActionSearch, models.SearchData{Model: model, Domain: orEmpty(domain), Fields: fields})
	if err != nil {
		return nil, err
	}

	records := make([]models.Record, 0)
	if len(resp.Results) > 0 && string(resp.Results) != "null" {
		if err = json.Unmarshal(resp.Results, &records); err != nil {
			return nil, fmt.Errorf("%w: decode search results: %w", ErrTransport, err)
		}
	}
	return records, nil
}

// SearchModel implements [RemoteClient].
func (c *httpRemoteClient) SearchModel(ctx context.Context, model string, domain models.Domain, fields []string) ([]map[string]any, error) {
	resp, err := c.call(ctx, models.ActionSearchModel, models.SearchData{Model: model, Domain: orEmpty(domain), Fields: fields})
	if err != nil {
		return nil, err
	}

	docs := make([]map[string]any, 0)
	if len(resp.Results) > 0 && string(resp.Results) != "null" {
		if err = json.Unmarshal(resp.Results, &docs); err != nil {
			return nil, fmt.Errorf("%w: decode search_model results: %w", ErrTransport, err)
		}
	}
	return docs, nil
}

// Update implements [RemoteClient].
func (c *httpRemoteClient) Update(ctx context.Context, model string, id int64, values map[string]any) (bool, error) {
	resp, err := c.call(ctx, models.ActionUpdate, models.UpdateData{Model: model, ID: id, Values: values})
	if err != nil {
		return false, err
	}
	return resp.Result != nil && *resp.Result, nil
}

// Delete implements [RemoteClient].
func (c *httpRemoteClient) Delete(ctx context.Context, model string, id int64) (bool, error) {
	resp, err := c.call(ctx, models.ActionDelete, models.DeleteData{Model: model, ID: id})
	if err != nil {
		return false, err
	}
	return resp.Result != nil && *resp.Result, nil
}

// call posts one envelope and unwraps the answer.
func (c *httpRemoteClient) call(ctx context.Context, action models.ProxyAction, data any) (models.ProxyResponse, error) {
	envelope, err := models.NewProxyRequest(action, data)
	if err != nil {
		return models.ProxyResponse{}, err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return models.ProxyResponse{}, fmt.Errorf("encode %s envelope: %w", action, err)
	}

	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if c.hasher != nil {
		req.SetHeader(utils.HashHeader, c.hasher.HexSum(body))
	}
	if c.token != "" {
		req.SetAuthToken(c.token)
	}

	resp, err := req.Post(c.endpoint)
	if err != nil {
		c.logger.Err(err).
			Str("func", "httpRemoteClient.call").
			Str("action", string(action)).
			Msg("remote call failed")
		return models.ProxyResponse{}, fmt.Errorf("%w: %s request: %w", ErrTransport, action, err)
	}

	out, err := unwrapEnvelope(resp)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("func", "httpRemoteClient.call").
			Str("action", string(action)).
			Int("status", resp.StatusCode()).
			Msg("remote call refused")
		return out, err
	}

	c.logger.Debug().
		Str("action", string(action)).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("remote call done")
	return out, nil
}

// orEmpty keeps a nil domain on the wire as [] instead of null.
func orEmpty(domain models.Domain) models.Domain {
	if domain == nil {
		return models.Domain{}
	}
	return domain
}
