package handlers

// This file contains OpenAPI/Swagger documentation for PersistHandler endpoints

// SaveQuestions overwrites the questions dataset
// @Summary Save the questions dataset
// @Description Replaces the whole questions dataset with the posted category mapping and writes it to the store
// @Tags persist
// @Accept json
// @Produce json
// @Param request body object true "Category key to ordered list of records"
// @Success 200 {object} api.Saved "Dataset written"
// @Failure 400 {object} map[string]string "Body is not a mapping or names a foreign category"
// @Failure 405 {object} errors.ErrorResponse "Only POST is accepted"
// @Failure 500 {object} map[string]string "Failed to save data"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /api/save-questions [post]

// SaveKnowledge overwrites the knowledge dataset
// @Summary Save the knowledge dataset
// @Description Replaces the whole knowledge dataset with the posted category mapping and writes it to the store
// @Tags persist
// @Accept json
// @Produce json
// @Param request body object true "Category key to ordered list of records"
// @Success 200 {object} api.Saved "Dataset written"
// @Failure 400 {object} map[string]string "Body is not a mapping or names a foreign category"
// @Failure 405 {object} errors.ErrorResponse "Only POST is accepted"
// @Failure 500 {object} map[string]string "Failed to save data"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /api/save-knowledge [post]
