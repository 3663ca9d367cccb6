package catalog

import (
	"strings"
	"time"
)

// Provider is a catalog owner. It is managed elsewhere and only read here.
type Provider struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	Code   string `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Name   string `gorm:"type:varchar(255);not null" json:"name"`
	Active bool   `gorm:"not null;default:true" json:"active"`
}

func (Provider) TableName() string { return "providers" }

// Version is one numbered snapshot of a provider's catalog.
type Version struct {
	ID                string        `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID        string        `gorm:"type:uuid;not null;uniqueIndex:idx_catalog_versions_provider_number,priority:1" json:"providerId"`
	VersionNumber     int           `gorm:"not null;uniqueIndex:idx_catalog_versions_provider_number,priority:2" json:"versionNumber"`
	OriginalFile      string        `gorm:"type:text;not null" json:"originalFile"`
	Status            VersionStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	ReplacedVersionID *string       `gorm:"type:uuid" json:"replacedVersionId,omitempty"` // archived by this version's activation
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

func (Version) TableName() string { return "catalog_versions" }

// Item is the document-store representation of one catalog row.
type Item struct {
	ProviderID       string            `bson:"providerId"`
	CatalogVersionID string            `bson:"catalogVersionId"`
	ProviderCode     string            `bson:"providerCode"`
	SKU              string            `bson:"sku"`
	Name             string            `bson:"name"`
	Description      string            `bson:"description"`
	Category         string            `bson:"category"`
	Active           bool              `bson:"active"`
	Tags             []string          `bson:"tags"`
	Attributes       map[string]string `bson:"attributes"`
	CreatedAt        time.Time         `bson:"createdAt"`
	ArchivedAt       *time.Time        `bson:"archivedAt,omitempty"`
}

// Optional attribute keys that feed embeddings and vector metadata.
const (
	AttrBrand    = "brand"
	AttrColor    = "color"
	AttrMaterial = "material"
	AttrSize     = "size"
)

// Required row fields, in validation order.
const (
	FieldProviderCode = "providerCode"
	FieldSKU          = "sku"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldCategory     = "category"
	FieldTags         = "tags"
)

var RequiredFields = []string{FieldProviderCode, FieldSKU, FieldName, FieldDescription, FieldCategory}

// Row is one parsed line of an uploaded catalog file. Extra holds every
// column that is neither required nor tags, keyed by its header.
type Row struct {
	ProviderCode string
	SKU          string
	Name         string
	Description  string
	Category     string
	Tags         []string
	Extra        map[string]string
}

// Field returns the value of a required field by name.
func (r Row) Field(name string) string {
	switch name {
	case FieldProviderCode:
		return r.ProviderCode
	case FieldSKU:
		return r.SKU
	case FieldName:
		return r.Name
	case FieldDescription:
		return r.Description
	case FieldCategory:
		return r.Category
	}
	return ""
}

// NewItem builds the inactive staged document for row under version.
func NewItem(version Version, row Row, now time.Time) Item {
	attrs := make(map[string]string, len(row.Extra))
	for k, v := range row.Extra {
		attrs[k] = strings.TrimSpace(v)
	}
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return Item{
		ProviderID:       version.ProviderID,
		CatalogVersionID: version.ID,
		ProviderCode:     strings.TrimSpace(row.ProviderCode),
		SKU:              strings.TrimSpace(row.SKU),
		Name:             strings.TrimSpace(row.Name),
		Description:      strings.TrimSpace(row.Description),
		Category:         strings.TrimSpace(row.Category),
		Active:           false,
		Tags:             tags,
		Attributes:       attrs,
		CreatedAt:        now,
	}
}

// VectorMetadata is stored as payload next to each vector.
type VectorMetadata struct {
	ProviderID       string
	CatalogVersionID string
	Category         string
	Brand            string
	Color            string
	Material         string
	Size             string
	Tags             []string
}

// VectorRecord is one embedding keyed by provider and sku.
type VectorRecord struct {
	ID       string
	Values   []float32
	Metadata VectorMetadata
}

// VectorID is the natural key of a vector: one per provider and sku.
func VectorID(providerID, sku string) string {
	return providerID + "#" + sku
}

// NewVectorRecord pairs an item with its embedding.
func NewVectorRecord(item Item, values []float32) VectorRecord {
	return VectorRecord{
		ID:     VectorID(item.ProviderID, item.SKU),
		Values: values,
		Metadata: VectorMetadata{
			ProviderID:       item.ProviderID,
			CatalogVersionID: item.CatalogVersionID,
			Category:         item.Category,
			Brand:            item.Attributes[AttrBrand],
			Color:            item.Attributes[AttrColor],
			Material:         item.Attributes[AttrMaterial],
			Size:             item.Attributes[AttrSize],
			Tags:             item.Tags,
		},
	}
}
