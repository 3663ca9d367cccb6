// Package ingest turns an uploaded catalog file into a new ACTIVE catalog
// version for its provider.
//
// A run validates the upload, opens a PROCESSING version, stages one
// inactive item per row, embeds each item, publishes the vectors and then
// cuts over:
//
//  1. the version ledger archives the old ACTIVE version and activates the
//     new one in one transaction (the commit point)
//  2. the new version's items are marked active
//  3. the old version's items are marked inactive
//  4. the old version's vectors are deleted
//
// A failure up to and including step 2 is compensated in reverse order and
// the version ends FAILED with its staged items removed, so the previously
// ACTIVE version keeps serving. Steps 3 and 4 are logged on failure and
// never fail the run.
//
// Calls to the embedding provider and vector index are retried with
// exponential backoff on throttling, server errors and transport failures.
//
// Runs are started by Runner, which detaches them from the caller,
// serializes runs of one provider through a distributed lock and bounds the
// number of concurrent runs.
package ingest
