package handlers

// This file contains OpenAPI/Swagger documentation for DatasetHandler endpoints

// ListDatasets lists datasets with their categories
// @Summary List datasets
// @Description Returns every dataset with its default category, save route and per-category record counts
// @Tags datasets
// @Produce json
// @Success 200 {object} map[string][]queries.DatasetSummary "Dataset summaries under the datasets key"
// @Failure 500 {object} errors.ErrorResponse "Internal server error"
// @Router /api/datasets [get]

// GetDataset returns a whole dataset
// @Summary Get dataset
// @Description Returns the full category mapping of a dataset in the persisted wire format
// @Tags datasets
// @Produce json
// @Param dataset path string true "Dataset name" Enums(questions, knowledge)
// @Success 200 {object} object "Category key to ordered list of records"
// @Failure 404 {object} errors.ErrorResponse "Unknown dataset"
// @Router /api/datasets/{dataset} [get]

// ListRecords lists the records of one category
// @Summary List records
// @Description Returns the ordered records of one category
// @Tags records
// @Produce json
// @Param dataset path string true "Dataset name" Enums(questions, knowledge)
// @Param category path string true "Category key"
// @Success 200 {object} handlers.RecordsResponse "Records of the category"
// @Failure 400 {object} errors.ErrorResponse "Category is the gallery"
// @Failure 404 {object} errors.ErrorResponse "Unknown dataset or category"
// @Router /api/datasets/{dataset}/categories/{category}/records [get]
