package handlers

// This file contains OpenAPI/Swagger documentation for RecordHandler endpoints

// AddRecord prepends a default record
// @Summary Add a record
// @Description Prepends the default record to the category and schedules a write of the dataset
// @Tags records
// @Produce json
// @Param dataset path string true "Dataset name" Enums(questions, knowledge)
// @Param category path string true "Category key"
// @Success 201 {object} handlers.RecordsResponse "Category after the insert"
// @Failure 400 {object} errors.ErrorResponse "Category is the gallery"
// @Failure 404 {object} errors.ErrorResponse "Unknown dataset or category"
// @Router /api/datasets/{dataset}/categories/{category}/records [post]

// UpdateRecord replaces one record
// @Summary Update a record
// @Description Replaces the record at index wholesale
// @Tags records
// @Accept json
// @Produce json
// @Param dataset path string true "Dataset name" Enums(questions, knowledge)
// @Param category path string true "Category key"
// @Param index path int true "Record position"
// @Param request body handlers.UpdateRecordRequest true "New record"
// @Success 200 {object} handlers.RecordsResponse "Category after the update"
// @Failure 400 {object} errors.ErrorResponse "Invalid body or index out of range"
// @Failure 404 {object} errors.ErrorResponse "Unknown dataset or category"
// @Router /api/datasets/{dataset}/categories/{category}/records/{index} [put]

// InsertAfter inserts a default record after index
// @Summary Insert a record after index
// @Description Inserts the default record after index; -1 inserts at the front
// @Tags records
// @Produce json
// @Param dataset path string true "Dataset name" Enums(questions, knowledge)
// @Param category path string true "Category key"
// @Param index path int true "Record position, -1 for the front"
// @Success 201 {object} handlers.RecordsResponse "Category after the insert"
// @Failure 400 {object} errors.ErrorResponse "Index out of range"
// @Failure 404 {object} errors.ErrorResponse "Unknown dataset or category"
// @Router /api/datasets/{dataset}/categories/{category}/records/{index}/insert-after [post]

// DeleteRecord removes one record
// @Summary Delete a record
// @Description Removes the record at index. Needs confirmation through the body or ?confirm=true
// @Tags records
// @Accept json
// @Produce json
// @Param dataset path string true "Dataset name" Enums(questions, knowledge)
// @Param category path string true "Category key"
// @Param index path int true "Record position"
// @Param confirm query bool false "Confirm the deletion"
// @Param request body handlers.ConfirmRequest false "Confirmation"
// @Success 200 {object} handlers.RecordsResponse "Category after the delete"
// @Failure 400 {object} errors.ErrorResponse "Index out of range"
// @Failure 404 {object} errors.ErrorResponse "Unknown dataset or category"
// @Failure 428 {object} errors.ErrorResponse "Confirmation required, prompt in details"
// @Router /api/datasets/{dataset}/categories/{category}/records/{index} [delete]

// BatchDelete removes several records
// @Summary Batch delete records
// @Description Removes every listed index at once. A non-empty set needs confirmation
// @Tags records
// @Accept json
// @Produce json
// @Param dataset path string true "Dataset name" Enums(questions, knowledge)
// @Param category path string true "Category key"
// @Param confirm query bool false "Confirm the deletion"
// @Param request body handlers.BatchDeleteRequest true "Indices to delete"
// @Success 200 {object} handlers.RecordsResponse "Category after the delete"
// @Failure 400 {object} errors.ErrorResponse "Index out of range"
// @Failure 404 {object} errors.ErrorResponse "Unknown dataset or category"
// @Failure 428 {object} errors.ErrorResponse "Confirmation required, prompt in details"
// @Router /api/datasets/{dataset}/categories/{category}/records/batch-delete [post]
