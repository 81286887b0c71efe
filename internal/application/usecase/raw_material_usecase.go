package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
	"github.com/cvallejo/planta-api/pkg/normalize"
)

// RawMaterialUseCase casos de uso CRUD para materias primas.
type RawMaterialUseCase struct {
	repo repository.RawMaterialRepository
}

// NewRawMaterialUseCase construye el caso de uso.
func NewRawMaterialUseCase(repo repository.RawMaterialRepository) *RawMaterialUseCase {
	return &RawMaterialUseCase{repo: repo}
}

// Create crea una materia prima con código único.
func (uc *RawMaterialUseCase) Create(in dto.RawMaterialRequest) (*entity.RawMaterial, error) {
	if in.Code == "" || in.Name == "" || in.UnitOfMeasure == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCode(in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	material := &entity.RawMaterial{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Name:          in.Name,
		Description:   in.Description,
		UnitOfMeasure: in.UnitOfMeasure,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

// GetByID materia prima por ID.
func (uc *RawMaterialUseCase) GetByID(id string) (*entity.RawMaterial, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	return material, nil
}

// Update edita la materia prima.
func (uc *RawMaterialUseCase) Update(id string, in dto.RawMaterialRequest) (*entity.RawMaterial, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		material.Name = in.Name
	}
	material.Description = in.Description
	if in.UnitOfMeasure != "" {
		material.UnitOfMeasure = in.UnitOfMeasure
	}
	material.UpdatedAt = time.Now()
	if err := uc.repo.Update(material); err != nil {
		return nil, err
	}
	return material, nil
}

// Delete elimina la materia prima del catálogo.
func (uc *RawMaterialUseCase) Delete(id string) error {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if material == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// List materias primas con búsqueda insensible a tildes y mayúsculas.
func (uc *RawMaterialUseCase) List(search string, limit, offset int) ([]*entity.RawMaterial, error) {
	return uc.repo.List(normalize.SearchTerm(search), limit, offset)
}
