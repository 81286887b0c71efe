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

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(in dto.PartyRequest) (*entity.Supplier, error) {
	if in.NIT == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		NIT:       in.NIT,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// GetByID proveedor por ID.
func (uc *SupplierUseCase) GetByID(id string) (*entity.Supplier, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	return supplier, nil
}

// Update edita el proveedor.
func (uc *SupplierUseCase) Update(id string, in dto.PartyRequest) (*entity.Supplier, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	applyParty(&supplier.Name, &supplier.Email, &supplier.Phone, &supplier.Address, in)
	supplier.UpdatedAt = time.Now()
	if err := uc.repo.Update(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Delete elimina el proveedor.
func (uc *SupplierUseCase) Delete(id string) error {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// List proveedores con búsqueda insensible a tildes y mayúsculas.
func (uc *SupplierUseCase) List(search string, limit, offset int) ([]*entity.Supplier, error) {
	return uc.repo.List(normalize.SearchTerm(search), limit, offset)
}

// ClientUseCase casos de uso CRUD para clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente.
func (uc *ClientUseCase) Create(in dto.PartyRequest) (*entity.Client, error) {
	if in.NIT == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		NIT:       in.NIT,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetByID cliente por ID.
func (uc *ClientUseCase) GetByID(id string) (*entity.Client, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

// Update edita el cliente.
func (uc *ClientUseCase) Update(id string, in dto.PartyRequest) (*entity.Client, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	applyParty(&client.Name, &client.Email, &client.Phone, &client.Address, in)
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete elimina el cliente.
func (uc *ClientUseCase) Delete(id string) error {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// List clientes con búsqueda insensible a tildes y mayúsculas.
func (uc *ClientUseCase) List(search string, limit, offset int) ([]*entity.Client, error) {
	return uc.repo.List(normalize.SearchTerm(search), limit, offset)
}

func applyParty(name, email, phone, address *string, in dto.PartyRequest) {
	if in.Name != "" {
		*name = in.Name
	}
	if in.Email != "" {
		*email = in.Email
	}
	if in.Phone != "" {
		*phone = in.Phone
	}
	if in.Address != "" {
		*address = in.Address
	}
}
