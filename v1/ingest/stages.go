package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
)

// stage inserts one inactive item per row. Items the store refuses are
// logged and left out; the run continues with the rest.
func (p *Pipeline) stage(ctx context.Context, r *run) error {
	now := p.now().UTC()
	docs := make([]catalog.Item, len(r.rows))
	for i, row := range r.rows {
		docs[i] = catalog.NewItem(r.version, row, now)
	}

	res, err := p.items.InsertStaged(ctx, docs)
	if err != nil {
		return err
	}
	if len(res.Rejected) > 0 {
		p.log.WarnWithContext(ctx, "some catalog items were not saved", nil, map[string]interface{}{
			"version_id": r.version.ID,
			"rejected":   len(res.Rejected),
			"inserted":   len(res.Inserted),
		})
	}
	if len(res.Inserted) == 0 {
		return fmt.Errorf("none of %d items were saved", len(docs))
	}
	r.items = res.Inserted
	return nil
}

// embed computes one vector per staged item, sequentially. The first item
// that cannot be embedded fails the run.
func (p *Pipeline) embed(ctx context.Context, r *run) error {
	records := make([]catalog.VectorRecord, 0, len(r.items))
	for _, item := range r.items {
		text := EmbeddingText(item)
		var values []float32
		err := p.remote.do(ctx, "embedding sku "+item.SKU, func(ctx context.Context) error {
			v, err := p.embedder.Embed(ctx, text)
			if err != nil {
				return err
			}
			values = v
			return nil
		})
		if err != nil {
			return err
		}
		records = append(records, catalog.NewVectorRecord(item, values))
	}
	r.vectors = records
	return nil
}

// publish upserts vectors in batches, each with its own retry budget.
func (p *Pipeline) publish(ctx context.Context, r *run) error {
	for start := 0; start < len(r.vectors); start += p.cfg.BatchSize {
		end := min(start+p.cfg.BatchSize, len(r.vectors))
		batch := r.vectors[start:end]
		op := fmt.Sprintf("upserting vectors %d-%d", start, end-1)
		if err := p.remote.do(ctx, op, func(ctx context.Context) error {
			return p.vectors.Upsert(ctx, batch)
		}); err != nil {
			return err
		}
	}
	return nil
}

// EmbeddingText is the text embedded for an item: name, description,
// category, then whichever of tags, brand, color, size and material are
// present, with whitespace collapsed.
func EmbeddingText(item catalog.Item) string {
	parts := []string{item.Name, item.Description, item.Category}
	if len(item.Tags) > 0 {
		parts = append(parts, strings.Join(item.Tags, " "))
	}
	for _, key := range []string{catalog.AttrBrand, catalog.AttrColor, catalog.AttrSize, catalog.AttrMaterial} {
		if v := item.Attributes[key]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
