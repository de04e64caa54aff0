package mapping

import (
	"github.com/keabooks/kea_books_app/internal/core/domain"
	"github.com/keabooks/kea_books_app/internal/models"
)

// ToModelDepartment converts a domain Department to a model Department
func ToModelDepartment(d domain.Department) models.Department {
	return models.Department{
		DepartmentID: d.DepartmentID,
		CompanyID:    d.CompanyID,
		Name:         d.Name,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDepartment converts a model Department to a domain Department
func ToDomainDepartment(m models.Department) domain.Department {
	return domain.Department{
		DepartmentID: m.DepartmentID,
		CompanyID:    m.CompanyID,
		Name:         m.Name,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDepartmentSlice converts a slice of model Departments to a slice of domain Departments
func ToDomainDepartmentSlice(ms []models.Department) []domain.Department {
	ds := make([]domain.Department, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDepartment(m)
	}
	return ds
}
