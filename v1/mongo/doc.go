// Package mongo wraps the official MongoDB driver for the document store
// holding staged catalog items.
//
//	client, err := mongo.NewClient(mongo.Config{URI: "mongodb://localhost:27017", Database: "catalog"})
//	items := client.Collection("catalog_items")
//
// # Configuration
//
//	MONGO_URI=mongodb://localhost:27017
//	MONGO_DATABASE=catalog
//	MONGO_CONNECT_TIMEOUT=10s
//	MONGO_MAX_POOL_SIZE=0
package mongo
