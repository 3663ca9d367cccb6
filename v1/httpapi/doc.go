// Package httpapi is the HTTP trigger for catalog ingestion.
//
//	POST /v1/providers/:providerId/catalog-versions  {"fileRef": "uploads/acme.csv", "actor": "jane"}
//	GET  /v1/providers/:providerId/catalog-versions
//	GET  /healthz
//
// A POST is answered with 202 as soon as the run is scheduled; the version
// listing shows its progress through the PROCESSING, ACTIVE and FAILED
// states. :providerId accepts the provider id or its code.
package httpapi
