package handlers

// This file contains OpenAPI/Swagger documentation for SessionHandler endpoints

// GetState returns the session state
// @Summary Get session state
// @Description Returns the active dataset, category and batch mode
// @Tags session
// @Produce json
// @Success 200 {object} session.State "Session state"
// @Router /api/session [get]

// GetView returns the projected view
// @Summary Get view
// @Description Returns the active category's records with their item state, or the gallery entries
// @Tags session
// @Produce json
// @Success 200 {object} session.View "Current view"
// @Router /api/session/view [get]

// SwitchDataset switches the active dataset
// @Summary Switch dataset
// @Description Activates a dataset at its default category and drops item state and batch mode
// @Tags session
// @Accept json
// @Produce json
// @Param request body handlers.SwitchDatasetRequest true "Dataset name"
// @Success 200 {object} session.View "View of the default category"
// @Failure 400 {object} errors.ErrorResponse "Invalid request"
// @Failure 404 {object} errors.ErrorResponse "Unknown dataset"
// @Router /api/session/dataset [put]

// SelectCategory selects a category of the active dataset
// @Summary Select category
// @Description Activates a category and drops item state and batch mode
// @Tags session
// @Accept json
// @Produce json
// @Param request body handlers.SelectCategoryRequest true "Category key"
// @Success 200 {object} session.View "View of the category"
// @Failure 400 {object} errors.ErrorResponse "Invalid request"
// @Failure 404 {object} errors.ErrorResponse "Category not in the dataset"
// @Router /api/session/category [put]

// Reset reloads everything from the store
// @Summary Reset session
// @Description Drops all UI state and unsaved in-memory edits and reloads every dataset from the store
// @Tags session
// @Produce json
// @Success 200 {object} session.ResetResult "What was reset"
// @Failure 500 {object} errors.ErrorResponse "Reload failed"
// @Router /api/session/reset [post]

// AddItem prepends a default record
// @Summary Add item
// @Tags session
// @Produce json
// @Success 200 {object} session.View "View after the insert"
// @Failure 400 {object} errors.ErrorResponse "Active category is the gallery"
// @Router /api/session/items [post]

// DeleteItem deletes one record
// @Summary Delete item
// @Description Needs confirmation through the body or ?confirm=true
// @Tags session
// @Accept json
// @Produce json
// @Param index path int true "Record position"
// @Param confirm query bool false "Confirm the deletion"
// @Param request body handlers.ConfirmRequest false "Confirmation"
// @Success 200 {object} session.View "View after the delete"
// @Failure 400 {object} errors.ErrorResponse "Index out of range"
// @Failure 428 {object} errors.ErrorResponse "Confirmation required, prompt in details"
// @Router /api/session/items/{index} [delete]

// ToggleItem expands or collapses an item
// @Summary Toggle item
// @Tags session
// @Produce json
// @Param index path int true "Record position"
// @Success 200 {object} session.View "Updated view"
// @Failure 400 {object} errors.ErrorResponse "Item is being edited or batch mode is on"
// @Router /api/session/items/{index}/toggle [post]

// Click routes a click on an item
// @Summary Click item
// @Description Toggles selection in batch mode, expands or collapses the item otherwise
// @Tags session
// @Produce json
// @Param index path int true "Record position"
// @Success 200 {object} session.View "Updated view"
// @Failure 400 {object} errors.ErrorResponse "Index out of range"
// @Router /api/session/items/{index}/click [post]

// ToggleDetail shows or hides the detail text
// @Summary Toggle detail
// @Tags session
// @Produce json
// @Param index path int true "Record position"
// @Success 200 {object} session.View "Updated view"
// @Failure 400 {object} errors.ErrorResponse "Item is being edited"
// @Router /api/session/items/{index}/detail [post]

// BeginEdit opens an item for editing
// @Summary Begin edit
// @Tags session
// @Produce json
// @Param index path int true "Record position"
// @Success 200 {object} session.View "Updated view"
// @Failure 400 {object} errors.ErrorResponse "Index out of range"
// @Router /api/session/items/{index}/edit [post]

// SetField edits one field of the scratch copy
// @Summary Set field
// @Tags session
// @Accept json
// @Produce json
// @Param index path int true "Record position"
// @Param request body handlers.SetFieldRequest true "Field and value"
// @Success 200 {object} session.View "Updated view"
// @Failure 400 {object} errors.ErrorResponse "Item is not being edited or unknown field"
// @Router /api/session/items/{index}/field [put]

// SaveItem commits the scratch copy
// @Summary Save item
// @Description Writes the scratch copy through the repository and schedules a write of the dataset
// @Tags session
// @Produce json
// @Param index path int true "Record position"
// @Success 200 {object} session.View "Updated view"
// @Failure 400 {object} errors.ErrorResponse "Item is not being edited"
// @Router /api/session/items/{index}/save [post]

// CancelEdit discards the scratch copy
// @Summary Cancel edit
// @Tags session
// @Produce json
// @Param index path int true "Record position"
// @Success 200 {object} session.View "Updated view"
// @Failure 400 {object} errors.ErrorResponse "Item is not being edited"
// @Router /api/session/items/{index}/cancel [post]

// InsertAfter inserts a default record after an item
// @Summary Insert after item
// @Tags session
// @Produce json
// @Param index path int true "Record position, -1 for the front"
// @Success 200 {object} session.View "View after the insert"
// @Failure 400 {object} errors.ErrorResponse "Index out of range"
// @Router /api/session/items/{index}/insert-after [post]

// ToggleBatch turns batch mode on or off
// @Summary Toggle batch mode
// @Tags session
// @Produce json
// @Success 200 {object} session.State "Session state"
// @Router /api/session/batch/toggle [post]

// ToggleSelected flips selection of one item
// @Summary Toggle selection
// @Tags session
// @Produce json
// @Param index path int true "Record position"
// @Success 200 {object} session.View "Updated view"
// @Failure 400 {object} errors.ErrorResponse "Batch mode is off"
// @Router /api/session/batch/items/{index} [post]

// SelectAll selects every item, or clears the selection when all are selected
// @Summary Select all
// @Tags session
// @Produce json
// @Success 200 {object} session.View "Updated view"
// @Failure 400 {object} errors.ErrorResponse "Batch mode is off"
// @Router /api/session/batch/select-all [post]

// BatchDelete deletes the selection
// @Summary Delete selection
// @Description Needs confirmation through the body or ?confirm=true. Leaves batch mode on success
// @Tags session
// @Accept json
// @Produce json
// @Param confirm query bool false "Confirm the deletion"
// @Param request body handlers.ConfirmRequest false "Confirmation"
// @Success 200 {object} session.View "View after the delete"
// @Failure 428 {object} errors.ErrorResponse "Confirmation required, prompt in details"
// @Router /api/session/batch/delete [post]
