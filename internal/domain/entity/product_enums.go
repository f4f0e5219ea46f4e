package entity

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/product-engine/internal/domain"
)

// ProductType sólo admite Physical o Digital.
type ProductType string

const (
	ProductTypePhysical ProductType = "Physical"
	ProductTypeDigital  ProductType = "Digital"
)

// ProductStatus ciclo de vida del producto.
type ProductStatus string

const (
	ProductStatusDraft        ProductStatus = "Draft"
	ProductStatusActive       ProductStatus = "Active"
	ProductStatusOutOfStock   ProductStatus = "Out Of Stock"
	ProductStatusDiscontinued ProductStatus = "Discontinued"
)

// ProductVisibility visibilidad en el catálogo.
type ProductVisibility string

const (
	ProductVisibilityPrivate ProductVisibility = "Private"
	ProductVisibilityPublic  ProductVisibility = "Public"
)

func (t ProductType) Valid() bool {
	switch t {
	case ProductTypePhysical, ProductTypeDigital:
		return true
	default:
		return false
	}
}

// StockLimited reporta si el tipo depende de inventario (los digitales nunca se agotan).
func (t ProductType) StockLimited() bool {
	switch t {
	case ProductTypePhysical:
		return true
	case ProductTypeDigital:
		return false
	default:
		panic(fmt.Sprintf("entity: tipo de producto desconocido %q", string(t)))
	}
}

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusActive, ProductStatusOutOfStock, ProductStatusDiscontinued:
		return true
	default:
		return false
	}
}

// Terminal reporta si no se permiten más transiciones.
func (s ProductStatus) Terminal() bool { return s == ProductStatusDiscontinued }

// Sellable reporta si el producto puede venderse en este estado.
func (s ProductStatus) Sellable() bool { return s == ProductStatusActive }

func (v ProductVisibility) Valid() bool {
	switch v {
	case ProductVisibilityPrivate, ProductVisibilityPublic:
		return true
	default:
		return false
	}
}

// ParseProductType valida el texto recibido.
func ParseProductType(s string) (ProductType, error) {
	t := ProductType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: tipo de producto %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// ParseProductStatus valida el texto recibido.
func ParseProductStatus(s string) (ProductStatus, error) {
	st := ProductStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, s)
	}
	return st, nil
}

// ParseProductVisibility valida el texto recibido.
func ParseProductVisibility(s string) (ProductVisibility, error) {
	v := ProductVisibility(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: visibilidad %q", domain.ErrInvalidInput, s)
	}
	return v, nil
}

func (t *ProductType) UnmarshalJSON(data []byte) error {
	return unmarshalTag(data, ParseProductType, t)
}

func (s *ProductStatus) UnmarshalJSON(data []byte) error {
	return unmarshalTag(data, ParseProductStatus, s)
}

func (v *ProductVisibility) UnmarshalJSON(data []byte) error {
	return unmarshalTag(data, ParseProductVisibility, v)
}

func unmarshalTag[T any](data []byte, parse func(string) (T, error), dst *T) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
