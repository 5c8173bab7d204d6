package api

import "github.com/starford/dagaz/internal/models"

// CreateDiagramRequest is the request body for creating a diagram.
type CreateDiagramRequest struct {
	Name string `json:"name" example:"Auth flow"`
	Code string `json:"code" example:"graph TD\n A-->B"`
}

// UpdateDiagramRequest is the request body for patching a diagram.
// Nil fields are left unchanged.
type UpdateDiagramRequest struct {
	Name  *string       `json:"name,omitempty"`
	Code  *string       `json:"code,omitempty"`
	Theme *models.Theme `json:"theme,omitempty"`
}

// CreateCollectionRequest is the request body for creating a collection.
type CreateCollectionRequest struct {
	Name        string `json:"name" example:"Architecture"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty" example:"#3B82F6"`
	Icon        string `json:"icon,omitempty" example:"folder"`
}

// UpdateCollectionRequest is the request body for patching a collection.
type UpdateCollectionRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// DiagramListResponse wraps diagram listings.
type DiagramListResponse struct {
	Diagrams []models.Diagram `json:"diagrams"`
	Total    int              `json:"total" example:"42"`
}

// CollectionListResponse wraps collection listings.
type CollectionListResponse struct {
	Collections []models.Collection `json:"collections"`
	Total       int                 `json:"total" example:"7"`
}

// ShareURLResponse carries a generated share link.
type ShareURLResponse struct {
	URL string `json:"url"`
}

// OpenSharedRequest carries a URL (or bare share value) to import from.
type OpenSharedRequest struct {
	URL string `json:"url"`
}

// PasteRequest carries pasted text for diagram detection.
type PasteRequest struct {
	Text string `json:"text"`
}

// ImportResponse wraps an aggregate import outcome plus the diagram a
// client should open next.
type ImportResponse struct {
	Success  bool             `json:"success"`
	Imported int              `json:"imported"`
	Errors   []string         `json:"errors"`
	Current  *models.Diagram  `json:"current,omitempty"`
	Diagrams []models.Diagram `json:"diagrams,omitempty"`
}
