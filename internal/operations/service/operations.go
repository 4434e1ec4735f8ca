// Package service implements the business logic of the operations console:
// catalog CRUD, stock moves, assignment and job lifecycles, material
// requests and requirement reports.
package service

import (
	"context"

	"github.com/kitworks/kitops-backend/internal/operations/domain"
	"github.com/kitworks/kitops-backend/internal/operations/events"
	"github.com/kitworks/kitops-backend/internal/operations/repository"
	"github.com/kitworks/kitops-backend/pkg/database"
	"github.com/kitworks/kitops-backend/pkg/logger"
)

// OperationsService handles operations business logic
type OperationsService struct {
	db             *database.DB
	clientRepo     *repository.ClientRepository
	vendorRepo     *repository.VendorRepository
	kitRepo        *repository.KitRepository
	inventoryRepo  *repository.InventoryRepository
	assignmentRepo *repository.AssignmentRepository
	jobRepo        *repository.JobRepository
	requestRepo    *repository.RequestRepository
	publisher      *events.OperationsEventPublisher
	logger         *logger.Logger
}

// NewOperationsService creates a new operations service
func NewOperationsService(
	db *database.DB,
	clientRepo *repository.ClientRepository,
	vendorRepo *repository.VendorRepository,
	kitRepo *repository.KitRepository,
	inventoryRepo *repository.InventoryRepository,
	assignmentRepo *repository.AssignmentRepository,
	jobRepo *repository.JobRepository,
	requestRepo *repository.RequestRepository,
	publisher *events.OperationsEventPublisher,
	log *logger.Logger,
) *OperationsService {
	return &OperationsService{
		db:             db,
		clientRepo:     clientRepo,
		vendorRepo:     vendorRepo,
		kitRepo:        kitRepo,
		inventoryRepo:  inventoryRepo,
		assignmentRepo: assignmentRepo,
		jobRepo:        jobRepo,
		requestRepo:    requestRepo,
		publisher:      publisher,
		logger:         log,
	}
}

// Client operations

// CreateClient creates a new client with a generated code
func (s *OperationsService) CreateClient(ctx context.Context, client *domain.Client) error {
	return s.clientRepo.Create(ctx, client)
}

// GetClient gets a client by ID
func (s *OperationsService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

// ListClients lists clients with pagination
func (s *OperationsService) ListClients(ctx context.Context, page, perPage int) ([]*domain.Client, int64, error) {
	return s.clientRepo.List(ctx, page, perPage)
}

// UpdateClient updates a client
func (s *OperationsService) UpdateClient(ctx context.Context, client *domain.Client) error {
	return s.clientRepo.Update(ctx, client)
}

// DeleteClient soft deletes a client
func (s *OperationsService) DeleteClient(ctx context.Context, id string) error {
	return s.clientRepo.SoftDelete(ctx, id)
}

// Vendor operations

// CreateVendor creates a new vendor
func (s *OperationsService) CreateVendor(ctx context.Context, vendor *domain.Vendor) error {
	return s.vendorRepo.Create(ctx, vendor)
}

// GetVendor gets a vendor by ID
func (s *OperationsService) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	return s.vendorRepo.GetByID(ctx, id)
}

// ListVendors lists vendors with pagination
func (s *OperationsService) ListVendors(ctx context.Context, page, perPage int) ([]*domain.Vendor, int64, error) {
	return s.vendorRepo.List(ctx, page, perPage)
}

// UpdateVendor updates a vendor
func (s *OperationsService) UpdateVendor(ctx context.Context, vendor *domain.Vendor) error {
	return s.vendorRepo.Update(ctx, vendor)
}

// DeleteVendor soft deletes a vendor
func (s *OperationsService) DeleteVendor(ctx context.Context, id string) error {
	return s.vendorRepo.SoftDelete(ctx, id)
}

// Kit operations

// CreateKit creates a new kit
func (s *OperationsService) CreateKit(ctx context.Context, kit *domain.Kit) error {
	return s.kitRepo.Create(ctx, kit)
}

// GetKit gets a kit by ID
func (s *OperationsService) GetKit(ctx context.Context, id string) (*domain.Kit, error) {
	return s.kitRepo.GetByID(ctx, id)
}

// ListKits lists kits with pagination
func (s *OperationsService) ListKits(ctx context.Context, page, perPage int) ([]*domain.Kit, int64, error) {
	return s.kitRepo.List(ctx, page, perPage)
}

// UpdateKit updates a kit
func (s *OperationsService) UpdateKit(ctx context.Context, kit *domain.Kit) error {
	return s.kitRepo.Update(ctx, kit)
}

// DeleteKit soft deletes a kit
func (s *OperationsService) DeleteKit(ctx context.Context, id string) error {
	return s.kitRepo.SoftDelete(ctx, id)
}
