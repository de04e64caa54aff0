package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/keabooks/kea_books_app/internal/apperrors"
	"github.com/keabooks/kea_books_app/internal/core/domain"
	portsrepo "github.com/keabooks/kea_books_app/internal/core/ports/repositories"
	portssvc "github.com/keabooks/kea_books_app/internal/core/ports/services"
	"github.com/keabooks/kea_books_app/internal/dto"
	"github.com/keabooks/kea_books_app/internal/middleware"
)

// DepartmentService manages the optional department reporting dimension.
type DepartmentService struct {
	departmentRepo portsrepo.DepartmentRepositoryFacade
}

var _ portssvc.DepartmentSvcFacade = (*DepartmentService)(nil)

// NewDepartmentService creates a new DepartmentService.
func NewDepartmentService(departmentRepo portsrepo.DepartmentRepositoryFacade) *DepartmentService {
	return &DepartmentService{departmentRepo: departmentRepo}
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, companyID string, req dto.CreateDepartmentRequest, actorID string) (*domain.Department, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()

	department := domain.Department{
		DepartmentID: uuid.NewString(),
		CompanyID:    companyID,
		Name:         req.Name,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(actorID, now),
	}

	if err := s.departmentRepo.SaveDepartment(ctx, department); err != nil {
		logger.Error("Failed to save department", slog.String("error", err.Error()), slog.String("department_id", department.DepartmentID))
		return nil, err
	}

	logger.Info("Department created", slog.String("department_id", department.DepartmentID))
	return &department, nil
}

func (s *DepartmentService) GetDepartmentByID(ctx context.Context, companyID string, departmentID string) (*domain.Department, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	department, err := s.departmentRepo.FindDepartmentByID(ctx, companyID, departmentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find department", slog.String("error", err.Error()), slog.String("department_id", departmentID))
		}
		return nil, err
	}
	return department, nil
}

func (s *DepartmentService) ListDepartments(ctx context.Context, companyID string, limit int, offset int) ([]domain.Department, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	departments, err := s.departmentRepo.ListDepartments(ctx, companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list departments", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}
	return departments, nil
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, companyID string, departmentID string, req dto.UpdateDepartmentRequest, actorID string) (*domain.Department, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	department, err := s.departmentRepo.FindDepartmentByID(ctx, companyID, departmentID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		department.Name = *req.Name
	}
	if req.IsActive != nil {
		department.IsActive = *req.IsActive
	}
	department.Touch(actorID, time.Now().UTC())

	if err := s.departmentRepo.UpdateDepartment(ctx, *department); err != nil {
		logger.Error("Failed to update department", slog.String("error", err.Error()), slog.String("department_id", departmentID))
		return nil, err
	}

	logger.Info("Department updated", slog.String("department_id", departmentID))
	return department, nil
}

func (s *DepartmentService) DeactivateDepartment(ctx context.Context, companyID string, departmentID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.departmentRepo.DeactivateDepartment(ctx, companyID, departmentID, actorID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to deactivate department", slog.String("error", err.Error()), slog.String("department_id", departmentID))
		}
		return err
	}

	logger.Info("Department deactivated", slog.String("department_id", departmentID))
	return nil
}
