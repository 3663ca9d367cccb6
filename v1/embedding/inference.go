package embedding

import (
	"context"
	"fmt"
	"net/http"
)

type inferenceProvider struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// create calls the OpenAI-compatible /embeddings endpoint and returns the
// vectors in input order.
func (p *inferenceProvider) create(ctx context.Context, model string, dims int, texts ...string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("inference: no texts provided")
	}

	var parsed embeddingResponse
	req := embeddingRequest{Model: model, Input: texts, Dimensions: dims}
	if err := p.postJSON(ctx, p.baseURL+"/embeddings", req, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("inference: expected %d embeddings, got %d", len(texts), len(parsed.Data))
	}

	out := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("inference: embedding index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if len(v) == 0 {
			return nil, fmt.Errorf("inference: empty embedding at index %d", i)
		}
	}
	return out, nil
}
