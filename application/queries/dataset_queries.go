package queries

import (
	"github.com/YuDongZhang/InterviewQuestion/application/services"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/pkg/utils"
)

// ListRecordsQuery asks for one category list.
type ListRecordsQuery struct {
	Dataset  string `validate:"required"`
	Category string `validate:"required"`
}

func (q ListRecordsQuery) Validate() error { return utils.ValidateStruct(q) }

// Target resolves the list the query addresses.
func (q ListRecordsQuery) Target() (services.Target, error) {
	d, err := valueobjects.ParseDataset(q.Dataset)
	if err != nil {
		return services.Target{}, err
	}
	return services.Target{Dataset: d, Category: valueobjects.CategoryKey(q.Category)}, nil
}

// GetDatasetQuery asks for the raw mapping of one dataset, in the same
// shape the persist endpoints accept.
type GetDatasetQuery struct {
	Dataset string `validate:"required"`
}

func (q GetDatasetQuery) Validate() error { return utils.ValidateStruct(q) }

// ListDatasetsQuery asks for every dataset with its categories.
type ListDatasetsQuery struct{}

func (ListDatasetsQuery) Validate() error { return nil }

// DatasetSummary describes one dataset for navigation.
type DatasetSummary struct {
	Name            valueobjects.DatasetName `json:"name"`
	DefaultCategory valueobjects.CategoryKey `json:"defaultCategory"`
	SaveRoute       string                   `json:"saveRoute"`
	Categories      []CategorySummary        `json:"categories"`
	Records         int                      `json:"records"`
}

// CategorySummary is one sidebar entry with its record count.
type CategorySummary struct {
	valueobjects.Category
	Records int `json:"records"`
}
