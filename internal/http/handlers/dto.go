package handlers

import (
	"time"

	"github.com/rogerio-castellano/capri-storefront/internal/catalog"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

type Meta struct {
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	Sort       string `json:"sort"`
}

type CatalogResponse struct {
	Data  []models.Product `json:"data"`
	Meta  Meta             `json:"meta"`
	Error string           `json:"error,omitempty"`
}

type OptionsResponse struct {
	catalog.Options
	Error string `json:"error,omitempty"`
}

type FeaturedResponse struct {
	Data  []models.Product `json:"data"`
	Error string           `json:"error,omitempty"`
}

type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Admin         bool             `json:"admin"`
	User          *models.Identity `json:"user,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type DashboardMetrics struct {
	TotalProducts int        `json:"total_products"`
	LowStockCount int        `json:"low_stock_count"`
	SoldOutCount  int        `json:"sold_out_count"`
	FetchedAt     *time.Time `json:"fetched_at,omitempty"`
	Stale         bool       `json:"stale,omitempty"`
	Error         string     `json:"error,omitempty"`
}
