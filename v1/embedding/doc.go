// Package embedding computes text embeddings through an OpenAI-compatible
// inference service.
//
//	client, err := embedding.NewClient(cfg)
//	vec, err := client.Embed(ctx, "oak dining chair")
//
// A non-2xx answer is returned as *HTTPError whose HTTPStatus method lets
// callers tell throttling and server errors apart from authentication or
// request errors. Transport failures are returned wrapped and keep their
// net.Error identity.
//
// # Configuration
//
//	EMBEDDING_ENDPOINT=https://inference.example.com/v1
//	EMBEDDING_SERVICE_TOKEN=...
//	EMBEDDING_MODEL=text-embedding-3-small
//	EMBEDDING_HTTP_TIMEOUT=30s
//	EMBEDDING_DIMENSIONS=1536
package embedding
