package handlers

import (
	"context"
	"fmt"

	"github.com/YuDongZhang/InterviewQuestion/application/queries"
	"github.com/YuDongZhang/InterviewQuestion/application/queries/bus"
	"github.com/YuDongZhang/InterviewQuestion/application/services"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
)

// DatasetHandler answers read queries from the in-memory store.
type DatasetHandler struct {
	service *services.RepositoryService
}

// NewDatasetHandler creates a new dataset query handler
func NewDatasetHandler(service *services.RepositoryService) *DatasetHandler {
	return &DatasetHandler{service: service}
}

// Handle implements bus.QueryHandler
func (h *DatasetHandler) Handle(_ context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.ListRecordsQuery:
		target, err := q.Target()
		if err != nil {
			return nil, err
		}
		if err := target.Validate(); err != nil {
			return nil, err
		}
		return h.service.List(target), nil

	case queries.GetDatasetQuery:
		d, err := valueobjects.ParseDataset(q.Dataset)
		if err != nil {
			return nil, err
		}
		return h.service.Snapshot(d.Name()), nil

	case queries.ListDatasetsQuery:
		out := make([]queries.DatasetSummary, 0, 2)
		for _, d := range valueobjects.Datasets() {
			snap := h.service.Snapshot(d.Name())
			summary := queries.DatasetSummary{
				Name:            d.Name(),
				DefaultCategory: d.DefaultCategory(),
				SaveRoute:       d.SaveRoute(),
				Records:         snap.Count(),
			}
			for _, c := range d.Categories() {
				summary.Categories = append(summary.Categories, queries.CategorySummary{
					Category: c,
					Records:  snap.Len(c.Key),
				})
			}
			out = append(out, summary)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported query %T", query)
	}
}

// Register binds the handler to every dataset query on b.
func (h *DatasetHandler) Register(b *bus.QueryBus) error {
	for _, q := range []bus.Query{
		queries.ListRecordsQuery{},
		queries.GetDatasetQuery{},
		queries.ListDatasetsQuery{},
	} {
		if err := b.Register(q, h); err != nil {
			return err
		}
	}
	return nil
}
