package repository

import "github.com/cvallejo/planta-api/internal/domain/entity"

// RawMaterialRepository puerto de persistencia para materias primas.
type RawMaterialRepository interface {
	Create(m *entity.RawMaterial) error
	GetByID(id string) (*entity.RawMaterial, error)
	GetByCode(code string) (*entity.RawMaterial, error)
	Update(m *entity.RawMaterial) error
	Delete(id string) error
	// List con búsqueda opcional (search normalizado, vacío = todos).
	List(search string, limit, offset int) ([]*entity.RawMaterial, error)
}

// ProductRepository puerto de persistencia para productos terminados.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(p *entity.Product) error
	Delete(id string) error
	List(search string, limit, offset int) ([]*entity.Product, error)
}

// SupplierRepository puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(s *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	Update(s *entity.Supplier) error
	Delete(id string) error
	List(search string, limit, offset int) ([]*entity.Supplier, error)
}

// ClientRepository puerto de persistencia para clientes.
type ClientRepository interface {
	Create(c *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	Update(c *entity.Client) error
	Delete(id string) error
	List(search string, limit, offset int) ([]*entity.Client, error)
}
