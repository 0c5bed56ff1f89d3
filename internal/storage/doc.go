// Package storage publishes run outputs to Amazon S3.
//
// Uploads use the default AWS credential chain (environment, shared config,
// instance role). Objects are keyed <prefix>/<file name> and carry the run id
// as user metadata.
package storage
