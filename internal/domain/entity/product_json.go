package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/product-engine/internal/domain"
	"github.com/jhoicas/product-engine/internal/domain/capacity"
	"github.com/jhoicas/product-engine/internal/domain/finance"
	"github.com/jhoicas/product-engine/internal/domain/money"
)

// Discriminadores fijos del documento JSON.
const (
	ProductJSONType   = "MajikProduct"
	ProductJSONObject = "json"
)

// productJSON forma persistida / de intercambio del producto.
type productJSON struct {
	Type       string        `json:"__type"`
	Object     string        `json:"__object"`
	ID         string        `json:"id"`
	Slug       string        `json:"slug"`
	Name       string        `json:"name"`
	Category   string        `json:"category"`
	SRP        money.Money   `json:"srp"`
	Status     ProductStatus `json:"status"`
	Kind       ProductType   `json:"type"`
	Timestamp  time.Time     `json:"timestamp"`
	LastUpdate time.Time     `json:"last_update"`
	Metadata   metadataJSON  `json:"metadata"`
	Settings   settingsJSON  `json:"settings"`
}

type metadataJSON struct {
	SKU         string                     `json:"sku,omitempty"`
	Description Description                `json:"description"`
	Photos      []string                   `json:"photos,omitempty"`
	Type        ProductType                `json:"type"`
	Category    string                     `json:"category"`
	SRP         money.Money                `json:"srp"`
	COGS        []finance.COGSItem         `json:"cogs"`
	Inventory   inventoryJSON              `json:"inventory"`
	SupplyPlan  []capacity.MonthlyCapacity `json:"supplyPlan,omitempty"`
	Finance     *finance.ProductFinance    `json:"finance"`
}

type inventoryJSON struct {
	Stock *int64 `json:"stock"`
}

type settingsJSON struct {
	Status     ProductStatus     `json:"status"`
	Visibility ProductVisibility `json:"visibility"`
	System     *systemJSON       `json:"system,omitempty"`
}

type systemJSON struct {
	IsRestricted    bool       `json:"isRestricted"`
	RestrictedUntil *time.Time `json:"restrictedUntil,omitempty"`
}

// MarshalJSON escribe el documento con sus discriminadores y la caché financiera vigente.
func (p *Product) MarshalJSON() ([]byte, error) {
	m := &p.Metadata
	f := m.finance
	cogs := m.cogs
	if cogs == nil {
		cogs = []finance.COGSItem{}
	}

	doc := productJSON{
		Type:       ProductJSONType,
		Object:     ProductJSONObject,
		ID:         p.ID,
		Slug:       p.Slug,
		Name:       p.Name,
		Category:   m.Category,
		SRP:        m.srp,
		Status:     p.Settings.Status,
		Kind:       m.productType,
		Timestamp:  p.CreatedAt,
		LastUpdate: p.UpdatedAt,
		Metadata: metadataJSON{
			SKU:         m.SKU,
			Description: m.Description,
			Photos:      m.Photos,
			Type:        m.productType,
			Category:    m.Category,
			SRP:         m.srp,
			COGS:        cogs,
			Inventory:   inventoryJSON{Stock: m.stock},
			SupplyPlan:  m.supplyPlan,
			Finance:     &f,
		},
		Settings: settingsJSON{
			Status:     p.Settings.Status,
			Visibility: p.Settings.Visibility,
		},
	}
	if sys := p.Settings.System; sys != nil {
		doc.Settings.System = &systemJSON{IsRestricted: sys.IsRestricted, RestrictedUntil: sys.RestrictedUntil}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON valida discriminadores y coherencia, recalcula subtotales y la caché financiera
// (los valores derivados recibidos se descartan).
func (p *Product) UnmarshalJSON(data []byte) error {
	var doc productJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: producto: %w", domain.ErrInvalidInput, err)
	}
	if doc.Type != ProductJSONType || doc.Object != ProductJSONObject {
		return fmt.Errorf("%w: discriminadores %q/%q, se esperaba %q/%q",
			domain.ErrInvalidInput, doc.Type, doc.Object, ProductJSONType, ProductJSONObject)
	}
	if err := doc.checkConsistency(); err != nil {
		return err
	}

	next := Product{
		ID:        doc.ID,
		Slug:      doc.Slug,
		Name:      doc.Name,
		CreatedAt: doc.Timestamp,
		UpdatedAt: doc.LastUpdate,
		Metadata: ProductMetadata{
			SKU:         doc.Metadata.SKU,
			Description: doc.Metadata.Description,
			Photos:      doc.Metadata.Photos,
			Category:    doc.Metadata.Category,
			productType: doc.Metadata.Type,
			srp:         doc.Metadata.SRP,
		},
		Settings: ProductSettings{
			Status:     doc.Settings.Status,
			Visibility: doc.Settings.Visibility,
		},
	}
	if sys := doc.Settings.System; sys != nil {
		next.Settings.System = &SystemSettings{IsRestricted: sys.IsRestricted, RestrictedUntil: sys.RestrictedUntil}
	}
	if err := checkStock(next.Metadata.productType, doc.Metadata.Inventory.Stock); err != nil {
		return err
	}
	next.Metadata.stock = doc.Metadata.Inventory.Stock
	if err := next.SetCOGS(doc.Metadata.COGS); err != nil {
		return err
	}
	if doc.Metadata.SupplyPlan != nil {
		if err := next.SetSupplyPlan(doc.Metadata.SupplyPlan); err != nil {
			return err
		}
	}
	// Igual que SetStock: un físico Active con stock 0 queda Out Of Stock y viceversa.
	next.syncStockStatus()

	*p = next
	return nil
}

func (doc *productJSON) checkConsistency() error {
	md := doc.Metadata
	switch {
	case doc.ID == "":
		return fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	case !md.Type.Valid() || !doc.Settings.Status.Valid() || !doc.Settings.Visibility.Valid():
		return fmt.Errorf("%w: tipo, estado y visibilidad son obligatorios", domain.ErrInvalidInput)
	case doc.Kind != md.Type:
		return fmt.Errorf("%w: type %q no coincide con metadata.type %q", domain.ErrInvalidInput, doc.Kind, md.Type)
	case doc.Status != doc.Settings.Status:
		return fmt.Errorf("%w: status %q no coincide con settings.status %q", domain.ErrInvalidInput, doc.Status, doc.Settings.Status)
	case doc.Category != md.Category:
		return fmt.Errorf("%w: category no coincide con metadata.category", domain.ErrInvalidInput)
	case !doc.SRP.Equal(md.SRP):
		return fmt.Errorf("%w: srp %s no coincide con metadata.srp %s", domain.ErrInvalidInput, doc.SRP, md.SRP)
	case md.SRP.IsNegative():
		return fmt.Errorf("%w: srp negativo", domain.ErrInvalidInput)
	case doc.Settings.Status == ProductStatusOutOfStock && !md.Type.StockLimited():
		return fmt.Errorf("%w: un producto digital no puede estar agotado", domain.ErrInvalidInput)
	}
	return nil
}
