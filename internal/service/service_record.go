// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/store"
	"github.com/MKhiriev/go-record-cache/internal/utils"
	"github.com/MKhiriev/go-record-cache/models"
)

type recordService struct {
	recordRepository store.RecordRepository

	logger *logger.Logger
}

func NewRecordService(recordRepository store.RecordRepository, logger *logger.Logger) RecordService {
	return &recordService{
		recordRepository: recordRepository,
		logger:           logger,
	}
}

func (s *recordService) Handle(ctx context.Context, req models.ProxyRequest) (models.ProxyResponse, error) {
	return dispatch(ctx, s, req)
}

func (s *recordService) Create(ctx context.Context, data models.CreateData) (int64, error) {
	return s.recordRepository.Create(ctx, data.Model, data.Fields)
}

func (s *recordService) Search(ctx context.Context, data models.SearchData) ([]map[string]any, error) {
	return s.recordRepository.Search(ctx, data.Model, data.Domain, data.Fields)
}

func (s *recordService) Update(ctx context.Context, data models.UpdateData) (bool, error) {
	return s.recordRepository.Update(ctx, data.Model, data.ID, data.Values)
}

func (s *recordService) Delete(ctx context.Context, data models.DeleteData) (bool, error) {
	return s.recordRepository.Delete(ctx, data.Model, data.ID)
}

// dispatch decodes the envelope payload and calls the matching method of
// svc, so wrappers run their own checks before the inner service.
func dispatch(ctx context.Context, svc RecordService, req models.ProxyRequest) (models.ProxyResponse, error) {
	log := logger.FromContext(ctx)
	clientID, _ := utils.GetClientIDFromContext(ctx)

	switch req.Action {
	case models.ActionCreate:
		var data models.CreateData
		if err := decodeData(req, &data); err != nil {
			return models.ProxyResponse{}, err
		}
		id, err := svc.Create(ctx, data)
		if err != nil {
			return models.ProxyResponse{}, err
		}
		log.Debug().Str("client_id", clientID).Str("model", data.Model).Int64("record_id", id).Msg("record created")
		return models.ProxyResponse{Success: true, ID: id}, nil

	case models.ActionSearch, models.ActionSearchModel:
		var data models.SearchData
		if err := decodeData(req, &data); err != nil {
			return models.ProxyResponse{}, err
		}
		rows, err := svc.Search(ctx, data)
		if err != nil {
			return models.ProxyResponse{}, err
		}
		if rows == nil {
			rows = []map[string]any{}
		}
		raw, err := json.Marshal(rows)
		if err != nil {
			return models.ProxyResponse{}, fmt.Errorf("encode results: %w", err)
		}
		return models.ProxyResponse{Success: true, Results: raw}, nil

	case models.ActionUpdate:
		var data models.UpdateData
		if err := decodeData(req, &data); err != nil {
			return models.ProxyResponse{}, err
		}
		ok, err := svc.Update(ctx, data)
		if err != nil {
			return models.ProxyResponse{}, err
		}
		return models.ProxyResponse{Success: true, Result: &ok}, nil

	case models.ActionDelete:
		var data models.DeleteData
		if err := decodeData(req, &data); err != nil {
			return models.ProxyResponse{}, err
		}
		ok, err := svc.Delete(ctx, data)
		if err != nil {
			return models.ProxyResponse{}, err
		}
		log.Debug().Str("client_id", clientID).Str("model", data.Model).Int64("record_id", data.ID).Msg("record deleted")
		return models.ProxyResponse{Success: true, Result: &ok}, nil

	default:
		return models.ProxyResponse{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
}

func decodeData(req models.ProxyRequest, v any) error {
	if len(req.Data) == 0 {
		return fmt.Errorf("%w: %s without data", ErrInvalidDataProvided, req.Action)
	}
	if err := json.Unmarshal(req.Data, v); err != nil {
		return fmt.Errorf("%w: %s data: %w", ErrInvalidDataProvided, req.Action, err)
	}
	return nil
}
