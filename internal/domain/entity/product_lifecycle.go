package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/product-engine/internal/domain"
)

// TransitionTo cambia el estado del producto.
//
//	Draft        → Active | Discontinued
//	Active       → Out Of Stock (sólo físicos) | Discontinued
//	Out Of Stock → Active (con stock) | Discontinued
//	Discontinued → (terminal)
//
// Activar un físico con stock controlado en 0 lo deja en Out Of Stock.
func (p *Product) TransitionTo(target ProductStatus) error {
	if !target.Valid() {
		return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, target)
	}
	current := p.Settings.Status
	if current == target {
		return nil
	}
	if err := p.checkTransition(current, target); err != nil {
		return err
	}
	if target == ProductStatusActive && current == ProductStatusDraft && p.depleted() {
		target = ProductStatusOutOfStock
	}
	p.Settings.Status = target
	return nil
}

func (p *Product) checkTransition(from, to ProductStatus) error {
	deny := func(reason string) error {
		return fmt.Errorf("%w: %w: %s → %s: %s", domain.ErrInvalidInput, domain.ErrInvalidTransition, from, to, reason)
	}

	switch from {
	case ProductStatusDiscontinued:
		return deny("estado terminal")
	case ProductStatusDraft:
		switch to {
		case ProductStatusActive, ProductStatusDiscontinued:
			return nil
		case ProductStatusOutOfStock, ProductStatusDraft:
			return deny("un borrador debe activarse primero")
		}
	case ProductStatusActive:
		switch to {
		case ProductStatusDiscontinued:
			return nil
		case ProductStatusOutOfStock:
			if !p.Metadata.productType.StockLimited() {
				return deny("los productos digitales no se agotan")
			}
			return nil
		case ProductStatusDraft, ProductStatusActive:
			return deny("no se puede volver a borrador")
		}
	case ProductStatusOutOfStock:
		switch to {
		case ProductStatusDiscontinued:
			return nil
		case ProductStatusActive:
			if p.depleted() {
				return deny("stock en cero")
			}
			return nil
		case ProductStatusDraft, ProductStatusOutOfStock:
			return deny("no se puede volver a borrador")
		}
	}
	return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, from)
}

// depleted reporta si es físico con stock controlado en cero.
func (p *Product) depleted() bool {
	m := &p.Metadata
	return m.productType.StockLimited() && m.stock != nil && *m.stock == 0
}

// syncStockStatus mantiene Active/Out Of Stock alineado al stock de los físicos.
func (p *Product) syncStockStatus() {
	if !p.Metadata.productType.StockLimited() {
		return
	}
	switch p.Settings.Status {
	case ProductStatusActive:
		if p.depleted() {
			p.Settings.Status = ProductStatusOutOfStock
		}
	case ProductStatusOutOfStock:
		if !p.depleted() {
			p.Settings.Status = ProductStatusActive
		}
	case ProductStatusDraft, ProductStatusDiscontinued:
	}
}

// SetVisibility cambia la visibilidad. Un producto descontinuado no puede publicarse.
func (p *Product) SetVisibility(v ProductVisibility) error {
	switch v {
	case ProductVisibilityPrivate:
	case ProductVisibilityPublic:
		if p.Settings.Status.Terminal() {
			return fmt.Errorf("%w: %w: no se publica un producto descontinuado",
				domain.ErrInvalidInput, domain.ErrInvalidTransition)
		}
	default:
		return fmt.Errorf("%w: visibilidad %q", domain.ErrInvalidInput, v)
	}
	p.Settings.Visibility = v
	return nil
}

// Restrict marca el producto como restringido (until nil = indefinido).
func (p *Product) Restrict(until *time.Time) {
	p.Settings.System = &SystemSettings{IsRestricted: true, RestrictedUntil: until}
}

// Unrestrict elimina la restricción.
func (p *Product) Unrestrict() {
	p.Settings.System = &SystemSettings{IsRestricted: false}
}
