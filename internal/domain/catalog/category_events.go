package catalog

import (
	"github.com/retailpos/backend/internal/domain/shared"
)

// Category event types
const (
	EventTypeCategoryCreated = "catalog.category.created"
	EventTypeCategoryUpdated = "catalog.category.updated"
	EventTypeCategoryDeleted = "catalog.category.deleted"
)

const categoryAggregateType = "Category"

// CategoryCreatedEvent is published when a category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, categoryAggregateType, category.ID),
		Name:            category.Name,
	}
}

// CategoryUpdatedEvent is published when a category is updated
type CategoryUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCategoryUpdatedEvent creates a new CategoryUpdatedEvent
func NewCategoryUpdatedEvent(category *Category) *CategoryUpdatedEvent {
	return &CategoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryUpdated, categoryAggregateType, category.ID),
		Name:            category.Name,
	}
}
